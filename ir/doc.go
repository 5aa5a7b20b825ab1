// Package ir provides the canonical in-memory value representation every
// format converts through.
//
// # Overview
//
// A document decoded from any supported format is an ir.Node tree, and
// every encoder consumes one. The IR is a superset of the formats: it can
// hold binary blobs, integers beyond the int64 range, and non-text map keys,
// which is what the binary format allows. Whether a given target format can
// carry a tree is decided by the target's encoder, not by the IR.
//
// # Node Types
//
// The Type field indicates the node's type:
//
//   - NullType: no payload
//   - BoolType: Bool
//   - IntType: Int64, or Big when the value does not fit an int64
//   - FloatType: Float64 (NaN and infinities allowed)
//   - StringType: String (Unicode text)
//   - BytesType: Bytes (opaque binary)
//   - ArrayType: ordered Values
//   - ObjectType: ordered entries, Fields[i] is the key of Values[i]
//
// Object keys are nodes of any type. Entry order is significant and
// duplicate keys are kept as given.
//
// # Creating Nodes
//
//	obj := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: ir.FromString("name"), Val: ir.FromString("alice")},
//	    {Key: ir.FromInt(1), Val: ir.FromBytes([]byte{0xff})},
//	})
//	arr := ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromFloat(2.5)})
//
// # Borrowed Payloads
//
// Decoders working on an in-memory buffer may build String and Bytes
// payloads which alias that buffer (FromBorrowedString, FromBorrowedBytes).
// Such a tree is only valid while the buffer is. Detach returns an
// equivalent tree with no such reference; it is the identity on trees which
// are already owned.
//
// # Comparison
//
//	equal := ir.Equal(a, b) // same as ir.Compare(a, b) == 0
//
// # Errors
//
// DecodeError and EncodeError are the error vocabulary shared by the parse
// and encode packages.
//
// # Thread Safety
//
// Node structures are not thread-safe. Independent trees may be used from
// different goroutines freely.
package ir
