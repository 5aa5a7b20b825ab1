package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/xcode/ir"
)

// MustString encodes node in the format given by opts, JSON by default,
// and panics on failure.
func MustString(node *ir.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
