// Package parse decodes documents into IR nodes.
//
// # Usage
//
//	// JSON is the default format
//	node, err := parse.Parse([]byte(`{"name": "alice", "age": 30}`))
//
//	// Select the format
//	node, err := parse.Parse(data, parse.ParseCBOR())
//
//	// Borrow payloads from data, then detach before reusing data
//	node, err := parse.Parse(data, parse.ParseCBOR(), parse.Borrow(true))
//	node = ir.Detach(node)
//
// Every decoder is fail-fast: on error the returned node is nil and the
// error is an *ir.DecodeError (for TAML carrying all diagnostics), or an
// input error for stream decoders.
//
// # XML convention
//
// A document decodes to a map with a single entry, the root element name
// mapped to the root element's content. The content of an element is
//
//   - Null when it has no attributes, no child elements and no
//     character data,
//   - Text holding its character data when it has no attributes and no
//     child elements,
//   - otherwise a Map. Attributes come first, keyed by "@" and the
//     attribute name, followed by child elements keyed by element name
//     in document order. Non white space runs of character data between
//     children are trimmed, joined by single spaces and stored as one
//     Text under "$text" at the position of the first run.
//
// Repeated child names collapse into a Sequence at the position of the
// first occurrence. Namespace prefixes are kept in
// names ("p:name"). Comments, processing instructions and directives are
// dropped.
//
// # Related Packages
//
//   - github.com/signadot/xcode/ir - IR representation
//   - github.com/signadot/xcode/encode - Encode IR to documents
//   - github.com/signadot/xcode/token - TAML tokenization and positions
package parse
