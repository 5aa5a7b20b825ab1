package xcode

import (
	"fmt"
	"sync"

	"github.com/signadot/xcode/encode"
	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/parse"
)

// Registry maps formats to their decoder and encoder.
type Registry struct {
	mu       sync.RWMutex
	decoders map[format.Format]parse.Decoder
	encoders map[format.Format]encode.Encoder
}

type FormatInfo struct {
	Format    format.Format
	CanDecode bool
	CanEncode bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: map[format.Format]parse.Decoder{},
		encoders: map[format.Format]encode.Encoder{},
	}
}

// Default holds every built in decoder and encoder.
var Default = newDefault()

func newDefault() *Registry {
	r := NewRegistry()
	for _, dec := range parse.Decoders() {
		r.RegisterDecoder(dec)
	}
	for _, enc := range encode.Encoders() {
		r.RegisterEncoder(enc)
	}
	return r
}

// RegisterDecoder adds dec, replacing any decoder for the same format.
func (r *Registry) RegisterDecoder(dec parse.Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[dec.Format()] = dec
}

// RegisterEncoder adds enc, replacing any encoder for the same format.
func (r *Registry) RegisterEncoder(enc encode.Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[enc.Format()] = enc
}

// Decoder returns the decoder for the format called name.
func (r *Registry) Decoder(name string) (parse.Decoder, error) {
	f, err := format.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	dec := r.decoders[f]
	if dec == nil {
		return nil, fmt.Errorf("%w: %s cannot be decoded", ErrUnsupportedFormat, f)
	}
	return dec, nil
}

// Encoder returns the encoder for the format called name.
func (r *Registry) Encoder(name string) (encode.Encoder, error) {
	f, err := format.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	enc := r.encoders[f]
	if enc == nil {
		return nil, fmt.Errorf("%w: %s cannot be encoded", ErrUnsupportedFormat, f)
	}
	return enc, nil
}

// Formats lists the formats with a decoder or an encoder, in name order.
func (r *Registry) Formats() []FormatInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []FormatInfo
	for _, f := range format.AllFormats() {
		info := FormatInfo{
			Format:    f,
			CanDecode: r.decoders[f] != nil,
			CanEncode: r.encoders[f] != nil,
		}
		if info.CanDecode || info.CanEncode {
			res = append(res, info)
		}
	}
	return res
}
