package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/signadot/xcode"
	"github.com/signadot/xcode/format"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{
		InFormat:  format.JSONFormat.String(),
		OutFormat: format.JSONFormat.String(),
	}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, fmtOpts(&cfg.InFormat, &cfg.OutFormat)...)
	return cli.NewCommandAt(&cfg.Main, "xcode").
		WithSynopsis("xcode [-i fmt] [-o fmt] [-if file] [-of file] [-p] [-color] [command]").
		WithDescription("xcode transcodes documents between data formats.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return classify(xcodeMain(cfg, cc, args))
		}).
		WithSubs(
			FormatsCommand(cfg),
			LossyCommand(cfg))
}

func xcodeMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return transcode(cfg, cc)
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func transcode(cfg *MainConfig, cc *cli.Context) error {
	r, closeIn, err := cfg.input(cc)
	if err != nil {
		return err
	}
	defer closeIn()
	buf := bytes.NewBuffer(nil)
	err = xcode.Transcode(r, buf, cfg.InFormat, cfg.OutFormat, cfg.Pretty, cfg.encOpts(cc)...)
	if err != nil {
		return err
	}
	return cfg.writeOutput(cc, buf.Bytes())
}

// classify prefixes err with its class so that the remedy is clear from
// the message.
func classify(err error) error {
	if err == nil || errors.Is(err, cli.ErrUsage) || errors.Is(err, cli.ErrNoSuchCommand) {
		return err
	}
	return fmt.Errorf("%s: %w", xcode.Class(err), err)
}
