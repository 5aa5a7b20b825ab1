// Package libdiff computes differences between IR trees and between
// their renderings.
//
// # Usage
//
//	// Structural changes, keyed by path
//	for _, c := range libdiff.Diff(before, after) {
//	    fmt.Println(c.Kind, c.Path)
//	}
//
//	// Line diff of two documents
//	fmt.Print(libdiff.Lines(oldText, newText))
//
// # Related Packages
//
//   - github.com/signadot/xcode/ir - IR representation
package libdiff
