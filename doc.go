// Package xcode transcodes documents between data formats through a
// canonical tree of values.
//
// # Usage
//
//	// JSON on stdin to YAML on stdout
//	err := xcode.Transcode(os.Stdin, os.Stdout, "json", "yaml", false)
//
//	// Decode and encode separately
//	node, err := xcode.Decode("cbor", f)
//	err = xcode.Encode("json", node, true, os.Stdout)
//
// A decoded tree never references the input: decoders which borrow from
// their input are detached before Decode returns. Errors carry the stage
// which failed as a *TranscodeError; Class maps any error to the kind of
// remedy it needs.
//
// # Related Packages
//
//   - github.com/signadot/xcode/ir - IR representation
//   - github.com/signadot/xcode/parse - Decoders
//   - github.com/signadot/xcode/encode - Encoders
//   - github.com/signadot/xcode/format - Format names
package xcode
