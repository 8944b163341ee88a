package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"usbpass/envusb"
	"usbpass/logger"
	"usbpass/report"
	"usbpass/usb"
	"usbpass/virsh"
)

const (
	flagGuest   = "guest"
	flagConnect = "connect"
	flagDetach  = "detach"
	flagOutput  = "output"
	flagNoColor = "no-color"
	flagDebug   = "debug"
)

func main() {
	if err := envusb.Setup(); err != nil {
		fmt.Fprintf(os.Stderr, "env setup: %v\n", err)
		os.Exit(1)
	}

	app := newApp(virsh.Opener)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func newApp(opener func(uri string) usb.Opener) *cli.App {
	return &cli.App{
		Name:      "usbpass",
		Usage:     "list host USB devices and hot-plug one into a running VM",
		ArgsUsage: "[VENDOR PRODUCT]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagGuest,
				Aliases: []string{"g"},
				Value:   envusb.GuestName,
				Usage:   "libvirt domain `NAME`",
			},
			&cli.StringFlag{
				Name:    flagConnect,
				Aliases: []string{"c"},
				Value:   envusb.LibvirtURI,
				Usage:   "libvirt connection `URI`",
			},
			&cli.BoolFlag{
				Name:  flagDetach,
				Usage: "detach VENDOR PRODUCT instead of attaching it",
			},
			&cli.StringFlag{
				Name:    flagOutput,
				Aliases: []string{"o"},
				Value:   envusb.Output,
				Usage:   "output `FORMAT`: text, json or yaml",
			},
			&cli.BoolFlag{
				Name:  flagNoColor,
				Usage: "disable colored markers",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger.SetType("dev")
			} else {
				logger.SetType(envusb.Mode)
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return runAction(c, opener(c.String(flagConnect)))
		},
	}
}

func runAction(c *cli.Context, open usb.Opener) error {
	format := c.String(flagOutput)
	if !report.ValidFormat(format) {
		return fmt.Errorf("unknown output format %q", format)
	}

	mutation, err := mutationFromArgs(c)
	if err != nil {
		return err
	}

	colored := !c.Bool(flagNoColor) && !color.NoColor && format == report.FormatText
	present := func(sc usb.Scan) error {
		return report.Render(c.App.Writer, format, sc.Guest, sc.Devices, colored)
	}

	res, err := usb.Run(open, usb.Request{Guest: c.String(flagGuest), Mutation: mutation}, present)
	if err != nil {
		return err
	}
	if res.Mutated {
		// mutation failures are reported, not turned into an exit code
		fmt.Fprintln(c.App.Writer, report.MutationLine(mutation.Op, mutation.Identity, res.MutationErr))
	}
	return nil
}

func mutationFromArgs(c *cli.Context) (*usb.Mutation, error) {
	switch c.Args().Len() {
	case 0:
		if c.Bool(flagDetach) {
			return nil, fmt.Errorf("--%s needs VENDOR and PRODUCT", flagDetach)
		}
		return nil, nil
	case 2:
	default:
		return nil, fmt.Errorf("expected VENDOR and PRODUCT, got %d argument(s)", c.Args().Len())
	}

	id, err := usb.ParseIdentity(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return nil, err
	}
	op := usb.OpAttach
	if c.Bool(flagDetach) {
		op = usb.OpDetach
	}
	return &usb.Mutation{Op: op, Identity: id}, nil
}
