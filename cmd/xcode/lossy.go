package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/signadot/xcode"
	"github.com/signadot/xcode/encode"
	"github.com/signadot/xcode/format"
	"github.com/signadot/xcode/ir"
	"github.com/signadot/xcode/libdiff"

	"github.com/scott-cotton/cli"
)

func LossyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LossyConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Lossy, "lossy").
		WithAliases("l").
		WithSynopsis("lossy [-i fmt] [-o fmt] [-if file]").
		WithDescription("show what a document loses when transcoded to the output format").
		WithOpts(fmtOpts(&cfg.InFormat, &cfg.OutFormat)...).
		WithRun(func(cc *cli.Context, args []string) error {
			return lossy(cfg, cc, args)
		})
}

func lossy(cfg *LossyConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Lossy.Parse(cc, args); err != nil {
		return err
	}
	r, closeIn, err := cfg.input(cc)
	if err != nil {
		return err
	}
	defer closeIn()
	node, err := xcode.Decode(cfg.InFormat, r)
	if err != nil {
		return err
	}
	return lossyReport(cc.Out, node, cfg.InFormat, cfg.OutFormat)
}

// lossyReport writes the changes node undergoes through a round trip via
// out, followed by a line diff of both trees rendered in the input
// format, or YAML when the input format has no text encoder.
func lossyReport(w io.Writer, node *ir.Node, in, out string) error {
	back, err := xcode.RoundTrip(node, out)
	if err != nil {
		return err
	}
	changes := libdiff.Diff(node, back)
	if len(changes) == 0 {
		_, err := fmt.Fprintf(w, "%s carries the document without loss\n", out)
		return err
	}
	for _, c := range changes {
		line := fmt.Sprintf("%s %s", c.Kind, c.Path)
		if c.Kind == libdiff.Changed && c.From.Type.IsLeaf() && c.To.Type.IsLeaf() {
			line += ": " + leaf(c.From) + " -> " + leaf(c.To)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	view := format.YAMLFormat.String()
	if f, err := format.ParseFormat(in); err == nil && !f.IsBinary() {
		if _, err := xcode.Default.Encoder(in); err == nil {
			view = f.String()
		}
	}
	before, err := render(view, node)
	if err != nil {
		return err
	}
	after, err := render(view, back)
	if err != nil {
		// the round tripped tree may not fit the input format
		if after, err = render(format.YAMLFormat.String(), back); err != nil {
			return err
		}
		if before, err = render(format.YAMLFormat.String(), node); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "\n"+libdiff.Lines(before, after))
	return err
}

// leaf renders a leaf as a YAML scalar, which every leaf has.
func leaf(node *ir.Node) string {
	return encode.MustString(node, encode.EncodeFormat(format.YAMLFormat))
}

func render(name string, node *ir.Node) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := xcode.Encode(name, node, true, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
