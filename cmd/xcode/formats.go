package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/signadot/xcode"

	"github.com/scott-cotton/cli"
)

func FormatsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FormatsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Formats, "formats").
		WithAliases("f").
		WithSynopsis("formats").
		WithDescription("list formats and the directions they support").
		WithRun(func(cc *cli.Context, args []string) error {
			if _, err := cfg.Formats.Parse(cc, args); err != nil {
				return err
			}
			return listFormats(cc.Out, xcode.Default)
		})
}

func listFormats(w io.Writer, r *xcode.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "FORMAT\tSUFFIX\tDECODE\tENCODE\n")
	for _, info := range r.Formats() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Format, info.Format.Suffix(), yesNo(info.CanDecode), yesNo(info.CanEncode))
	}
	return tw.Flush()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
