package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Decode bool
	Encode bool
	Detach bool
}

var d *debug

func init() {
	d = &debug{}
	all := boolEnv("XCODE_DEBUG")
	d.Decode = all || boolEnv("XCODE_DEBUG_DECODE")
	d.Encode = all || boolEnv("XCODE_DEBUG_ENCODE")
	d.Detach = all || boolEnv("XCODE_DEBUG_DETACH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Decode() bool {
	return d.Decode
}
func Encode() bool {
	return d.Encode
}
func Detach() bool {
	return d.Detach
}

// Enabled reports whether any debug switch is on.
func Enabled() bool {
	return d.Decode || d.Encode || d.Detach
}
