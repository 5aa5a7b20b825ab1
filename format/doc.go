// Package format names the document formats xcode converts between.
//
// # Usage
//
//	f, err := format.ParseFormat("yaml")
//	if err != nil {
//	    // err wraps format.ErrBadFormat
//	}
//	fmt.Println(f, f.Suffix()) // yaml .yaml
//
// Short aliases are accepted: c, j, t, u (or form), x, y (or yml).
//
// # Related Packages
//
//   - github.com/signadot/xcode/parse - Decode documents to IR
//   - github.com/signadot/xcode/encode - Encode IR to documents
package format
