package xcode

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/xcode/encode"
	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/internal/irtest"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/parse"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

type failReader struct{}

func (failReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestFormats(t *testing.T) {
	got := Default.Formats()
	want := []FormatInfo{
		{format.CBORFormat, true, true},
		{format.JSONFormat, true, true},
		{format.TAMLFormat, true, false},
		{format.URLEncodedFormat, true, true},
		{format.XMLFormat, true, true},
		{format.YAMLFormat, true, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := NewRegistry().Formats(); len(got) != 0 {
		t.Errorf("empty registry lists %v", got)
	}
}

func TestRegistryLookup(t *testing.T) {
	if _, err := Default.Decoder("nope"); !errors.Is(err, format.ErrBadFormat) {
		t.Errorf("unknown name: %v", err)
	}
	if _, err := Default.Encoder("taml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("taml encoder: %v", err)
	}
	r := NewRegistry()
	if _, err := r.Decoder("json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("empty registry: %v", err)
	}
	r.RegisterDecoder(parse.JSON())
	if dec, err := r.Decoder("j"); err != nil || dec.Format() != format.JSONFormat {
		t.Errorf("alias lookup: %v %v", dec, err)
	}
}

func TestTranscode(t *testing.T) {
	tests := []struct {
		in, out string
		pretty  bool
		src     string
		want    string
	}{
		{"json", "yaml", false, `{"a": [1, "x"], "b": null}`, "a:\n- 1\n- x\nb: null\n"},
		{"yaml", "json", false, "a: 1\nb: [true]\n", "{\"a\":1,\"b\":[true]}\n"},
		{"json", "json", true, `{"x":1}`, "{\n  \"x\": 1\n}\n"},
		{"taml", "json", false, "title: \"t\"\n", "{\"title\":\"t\"}\n"},
		{"u", "j", false, "a=1&a=2&b=x", "{\"a\":[\"1\",\"2\"],\"b\":\"x\"}\n"},
		{"xml", "json", false, "<a><b>1</b></a>", "{\"a\":{\"b\":\"1\"}}\n"},
		{"json", "urlencoded", false, `{"q": "a b", "n": [1, 2]}`, "q=a+b&n=1&n=2"},
	}
	for _, tt := range tests {
		t.Run(tt.in+"-"+tt.out, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			if err := Transcode(strings.NewReader(tt.src), buf, tt.in, tt.out, tt.pretty); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q; want %q", got, tt.want)
			}
		})
	}
}

func TestTranscodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		in, out string
		w       *bytes.Buffer
		class   ErrorClass
		stage   Stage
	}{
		{"bad json", `{"a":`, "json", "yaml", nil, BadInput, StageDecode},
		{"int key", "1: x\n", "yaml", "json", nil, Unrepresentable, StageEncode},
		{"nested form", `{"a": {"b": 1}}`, "json", "form", nil, Unrepresentable, StageEncode},
		{"bad name", `{"a b": 1}`, "json", "xml", nil, Unrepresentable, StageEncode},
		{"unknown format", `{}`, "json", "toml", nil, Usage, ""},
		{"decode only", `{}`, "json", "taml", nil, Usage, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			err := Transcode(strings.NewReader(tt.src), buf, tt.in, tt.out, false)
			if got := Class(err); got != tt.class {
				t.Errorf("class %s; want %s (%v)", got, tt.class, err)
			}
			var te *TranscodeError
			if errors.As(err, &te) {
				if te.Stage != tt.stage {
					t.Errorf("stage %s; want %s", te.Stage, tt.stage)
				}
			} else if tt.stage != "" {
				t.Errorf("%v is not a *TranscodeError", err)
			}
			if buf.Len() != 0 {
				t.Errorf("partial output %q", buf.String())
			}
		})
	}
}

func TestIOFailures(t *testing.T) {
	err := Transcode(strings.NewReader(`{}`), failWriter{}, "json", "json", false)
	if got := Class(err); got != IOFailure {
		t.Errorf("write failure classed %s: %v", got, err)
	}
	err = Transcode(failReader{}, bytes.NewBuffer(nil), "cbor", "json", false)
	var te *TranscodeError
	if !errors.As(err, &te) || te.Stage != StageRead || Class(err) != IOFailure {
		t.Errorf("read failure: %v", err)
	}
	err = Transcode(failReader{}, bytes.NewBuffer(nil), "xml", "json", false)
	if got := Class(err); got != IOFailure {
		t.Errorf("stream read failure classed %s: %v", got, err)
	}
}

func TestClass(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorClass
	}{
		{nil, NoError},
		{&ir.DecodeError{Kind: ir.Truncated}, BadInput},
		{fmt.Errorf("x: %w", &ir.EncodeError{Kind: ir.KeyType}), Unrepresentable},
		{&TranscodeError{Stage: StageEncode, Err: &ir.EncodeError{Kind: ir.IOFailure}}, IOFailure},
		{fmt.Errorf("%w: x", format.ErrBadFormat), Usage},
		{errors.New("disk"), IOFailure},
	}
	for _, tt := range tests {
		if got := Class(tt.err); got != tt.want {
			t.Errorf("Class(%v) = %s; want %s", tt.err, got, tt.want)
		}
	}
}

func cborDoc(t *testing.T, v *ir.Node) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	if err := encode.CBOR().Encode(v, buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeOwnsResult(t *testing.T) {
	first := irtest.Obj("key", "value", "blob", []byte("payload"))
	got, err := Decode("cbor", bytes.NewReader(cborDoc(t, first)))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.IsOwned(got) {
		t.Fatalf("decoded tree borrows its input")
	}
	// reuse the pooled buffer with a different document
	second := irtest.Obj("xxx", "yyyyy", "zzzz", []byte("0000000"))
	if _, err := Decode("cbor", bytes.NewReader(cborDoc(t, second))); err != nil {
		t.Fatal(err)
	}
	if diff := irtest.Diff(first, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	v := irtest.Obj("a", irtest.Seq(1, 2), "b", true)
	got, err := RoundTrip(v, "cbor")
	if err != nil {
		t.Fatal(err)
	}
	if diff := irtest.Diff(v, got); diff != "" {
		t.Errorf("cbor (-want +got):\n%s", diff)
	}
	got, err = RoundTrip(v, "urlencoded")
	if err != nil {
		t.Fatal(err)
	}
	want := irtest.Obj("a", irtest.Seq("1", "2"), "b", "true")
	if diff := irtest.Diff(want, got); diff != "" {
		t.Errorf("urlencoded (-want +got):\n%s", diff)
	}
	if _, err := RoundTrip(v, "taml"); Class(err) != Usage {
		t.Errorf("taml round trip: %v", err)
	}
}

func TestDecodeEncodeStable(t *testing.T) {
	cborDoc, err := hex.DecodeString("a401617861619f01f93e00ff63626967c249010000000000000000" + "61737f6261626163ff")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		format string
		in     string
	}{
		{"cbor", string(cborDoc)},
		{"json", `{"a": [1, 2.5, 1e300, "x\u00e9"], "n": null, "o": {}, "big": 18446744073709551616, "a": true}`},
		{"json", "// comment\n[{\"k\": [],}, -9223372036854775809]"},
		{"yaml", "a: 18446744073709551616\nb: -9223372036854775809\nc: [x, 'y: z', 1.5, .nan]\n1: int key\nbin: !!binary AQID\nd: ~\n"},
		{"yaml", "base: &b {k: v}\nref: *b\nlit: |\n  two\n  lines\n"},
		{"xml", `<doc id="7"><item>one</item><item>two</item><mixed>x<b/>y</mixed><e/></doc>`},
		{"xml", "<p:r xmlns:p=\"urn:p\">\n  <p:v>  padded  </p:v>\n  text <i>i</i> more <i>j</i> end\n</p:r>"},
		{"urlencoded", "a=1&a=2&b=x+y&c=%26&d="},
	}
	for _, tt := range tests {
		for _, pretty := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/pretty=%t", tt.format, pretty), func(t *testing.T) {
				first, err := Decode(tt.format, strings.NewReader(tt.in))
				if err != nil {
					t.Fatal(err)
				}
				buf := bytes.NewBuffer(nil)
				if err := Encode(tt.format, first, pretty, buf); err != nil {
					t.Fatal(err)
				}
				second, err := Decode(tt.format, buf)
				if err != nil {
					t.Fatal(err)
				}
				if diff := irtest.Diff(first, second); diff != "" {
					t.Errorf("(-first +second):\n%s", diff)
				}
			})
		}
	}
}

func TestConcurrentTranscode(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := irtest.Obj("i", i, "s", strings.Repeat("x", i))
			src := bytes.NewBuffer(nil)
			if err := encode.CBOR().Encode(v, src); err != nil {
				errs <- err
				return
			}
			got, err := Decode("cbor", src)
			if err != nil {
				errs <- err
				return
			}
			if diff := irtest.Diff(v, got); diff != "" {
				errs <- fmt.Errorf("document %d (-want +got):\n%s", i, diff)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
