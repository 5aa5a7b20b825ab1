package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/xcode/encode"
	"github.com/signadot/xcode/format"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	InFile  string `cli:"name=if desc='input file (default stdin)'"`
	OutFile string `cli:"name=of desc='output file (default stdout)'"`
	Pretty  bool   `cli:"name=p aliases=pretty desc='indent the output where the format allows'"`
	Color   bool   `cli:"name=color desc='encode with color'"`

	InFormat, OutFormat string

	Main *cli.Command
}

type FormatsConfig struct {
	*MainConfig
	Formats *cli.Command
}

type LossyConfig struct {
	*MainConfig
	Lossy *cli.Command
}

func fmtOpts(in, out *string) []*cli.Opt {
	return []*cli.Opt{
		&cli.Opt{
			Name:        "i",
			Aliases:     []string{"in"},
			Description: "input format: cbor/c, json/j, taml/t, urlencoded/u, xml/x, yaml/y",
			Type:        cli.NamedFuncOpt(fmtFunc(in), "(format)"),
		},
		&cli.Opt{
			Name:        "o",
			Aliases:     []string{"out"},
			Description: "output format: cbor/c, json/j, urlencoded/u, xml/x, yaml/y",
			Type:        cli.NamedFuncOpt(fmtFunc(out), "(format)"),
		},
	}
}

func fmtFunc(dst *string) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*dst = f.String()
		return f, nil
	})
}

// input opens the configured input file, or returns stdin.
func (cfg *MainConfig) input(cc *cli.Context) (io.Reader, func() error, error) {
	if cfg.InFile == "" || cfg.InFile == "-" {
		return cc.In, func() error { return nil }, nil
	}
	f, err := os.Open(cfg.InFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// writeOutput writes a completed document, creating the output file
// only now so that failed runs leave no file behind.
func (cfg *MainConfig) writeOutput(cc *cli.Context, d []byte) error {
	if cfg.OutFile == "" || cfg.OutFile == "-" {
		_, err := cc.Out.Write(d)
		return err
	}
	return os.WriteFile(cfg.OutFile, d, 0644)
}

func (cfg *MainConfig) encOpts(cc *cli.Context) []encode.EncodeOption {
	if cfg.Color {
		return []encode.EncodeOption{encode.EncodeColors(encode.NewColors())}
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet || (cfg.OutFile != "" && cfg.OutFile != "-") {
		return nil
	}
	f, ok := cc.Out.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return []encode.EncodeOption{encode.EncodeColors(encode.NewColors())}
	}
	return nil
}
