// Package encode encodes IR nodes to documents.
//
// # Usage
//
//	node := ir.FromMap(map[string]*ir.Node{
//	    "name": ir.FromString("alice"),
//	    "age":  ir.FromInt(30),
//	})
//
//	// JSON is the default format
//	err := encode.Encode(node, os.Stdout)
//
//	// Select the format and layout
//	err := encode.Encode(node, os.Stdout, encode.EncodeFormat(format.JSONFormat), encode.Pretty(true))
//
// An encoder either writes the whole document or nothing: output is
// built in memory and written to the destination once complete. Nodes a
// format cannot carry produce an *ir.EncodeError naming the offending
// path, for example a Map key in JSON that is not Text.
//
// # XML convention
//
// A Map with a single entry whose key is a valid element name and whose
// value is not a Sequence is written as that root element. Any other node
// becomes the content of a <root> element. Within an element's Map
// content, keys starting with "@" are attributes and must hold scalars,
// "$text" entries are character data and every other key is a child
// element. A "$text" Sequence is written as its runs separated by single
// spaces, which decodes back as one Text. A Sequence repeats its element once per item; an item that is
// itself a Sequence holds one <item> child per element. Bytes are written
// as base64 text and Null as an empty element.
//
// # Related Packages
//
//   - github.com/signadot/xcode/ir - IR representation
//   - github.com/signadot/xcode/parse - Parse documents to IR
package encode
