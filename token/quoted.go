package token

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Quote returns v as a double quoted string with JSON escapes, which are
// also valid in YAML double quoted scalars. With autoSingle it picks single
// quotes when that takes fewer escapes.
func Quote(v string, autoSingle bool) string {
	n := len(v)
	ndq, nsq := 0, 0
	d := make([]byte, 1, len(v)+2)
	d[0] = '"'
	ucs := []byte{0, 0}
	cps := []byte{0, 0, 0, 0}
	for _, r := range v {
		switch r {
		case '"':
			ndq++
			d = append(d, '\\', '"')
		case '\'':
			nsq++
			d = append(d, '\'')
		case '\\':
			d = append(d, '\\', '\\')
		case '\b':
			d = append(d, '\\', 'b')
		case '\f':
			d = append(d, '\\', 'f')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		default:
			if unicode.IsControl(r) {
				ucs[0] = byte(r >> 8)
				ucs[1] = byte(r)
				cps = hex.AppendEncode(cps[:0], ucs)
				d = append(d, '\\', 'u', cps[0], cps[1], cps[2], cps[3])
			} else {
				d = utf8.AppendRune(d, r)
			}
		}
	}
	d = append(d, '"')
	if !autoSingle || nsq >= ndq {
		return string(d)
	}
	n = len(d)
	sd := make([]byte, 0, n)
	j := 0
	for i, c := range d {
		switch c {
		case '\'':
			sd = append(sd, '\\', '\'')
			j += 2
		case '"':
			switch i {
			case 0:
				sd = append(sd, '\'')
				j++
			case n - 1:
				sd = append(sd, '\'')
				j++
			default:
				// it was quoted, overwrite \
				sd[j-1] = '"'
			}
		default:
			sd = append(sd, c)
			j++
		}
	}
	return string(sd)
}

// yamlReserved holds plain scalars a YAML 1.1 or 1.2 reader resolves to
// something other than a string.
var yamlReserved = map[string]bool{
	"~": true, "null": true, "Null": true, "NULL": true,
	"true": true, "True": true, "TRUE": true,
	"false": true, "False": true, "FALSE": true,
	"yes": true, "Yes": true, "YES": true,
	"no": true, "No": true, "NO": true,
	"on": true, "On": true, "ON": true,
	"off": true, "Off": true, "OFF": true,
	"y": true, "Y": true, "n": true, "N": true,
	".inf": true, ".Inf": true, ".INF": true,
	"-.inf": true, "-.Inf": true, "-.INF": true,
	"+.inf": true, "+.Inf": true, "+.INF": true,
	".nan": true, ".NaN": true, ".NAN": true,
	"<<": true, "=": true,
}

// NeedsQuoteYAML reports whether v must be quoted to be read back as the
// same string from a YAML plain scalar.
func NeedsQuoteYAML(v string) bool {
	if v == "" || yamlReserved[v] {
		return true
	}
	switch v[0] {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '+', '.',
		'-', '*', '&', '%', '@', '`', '!', '|', '>', '\'', '"',
		':', '#', ',', '?', '{', '}', '[', ']', '(', ')', ' ', '\t':
		return true
	}
	if v[len(v)-1] == ' ' || v[len(v)-1] == ':' {
		return true
	}
	if strings.Contains(v, ": ") || strings.Contains(v, " #") {
		return true
	}
	for _, r := range v {
		if r == utf8.RuneError || unicode.IsControl(r) || r == '\u2028' || r == '\u2029' || r == '\ufeff' {
			return true
		}
		switch r {
		case ',', '[', ']', '{', '}':
			// flow indicators
			return true
		}
	}
	return false
}

// UnquoteTAML decodes the double quoted TAML string d, including the
// surrounding quotes. Supported escapes are \\ \" \n \r \t \0 and \u{hex}.
func UnquoteTAML(d []byte) (string, error) {
	if len(d) < 2 || d[0] != '"' || d[len(d)-1] != '"' {
		return "", ErrUnterminated
	}
	body := d[1 : len(d)-1]
	if !strings.ContainsRune(string(body), '\\') {
		if !utf8.Valid(body) {
			return "", ErrBadUTF8
		}
		return string(body), nil
	}
	b := &strings.Builder{}
	for i := 0; i < len(body); {
		r, sz := utf8.DecodeRune(body[i:])
		if r == utf8.RuneError && sz <= 1 {
			return "", ErrBadUTF8
		}
		i += sz
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if i >= len(body) {
			return "", ErrBadEscape
		}
		c := body[i]
		i++
		switch c {
		case '\\', '"':
			b.WriteByte(c)
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case 'u':
			if i >= len(body) || body[i] != '{' {
				return "", ErrBadUnicode
			}
			end := strings.IndexByte(string(body[i:]), '}')
			if end < 2 || end > 7 {
				return "", ErrBadUnicode
			}
			cp, err := strconv.ParseUint(string(body[i+1:i+end]), 16, 32)
			if err != nil || !utf8.ValidRune(rune(cp)) {
				return "", ErrBadUnicode
			}
			b.WriteRune(rune(cp))
			i += end + 1
		default:
			return "", ErrBadEscape
		}
	}
	return b.String(), nil
}
