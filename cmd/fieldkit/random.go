package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type randomOptions struct {
	templateOptions
	count int
	raw   bool
}

func newRandomCommand() *cobra.Command {
	opts := &randomOptions{}

	cmd := &cobra.Command{
		Use:   "random [OPTIONS]",
		Short: "Forge packets whose fields hold random values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRandom(cmd, opts)
		},
	}

	flags := cmd.Flags()
	opts.installFlags(flags)
	flags.IntVarP(&opts.count, "count", "n", 1, "Number of packets to forge")
	flags.BoolVar(&opts.raw, "raw", false, "Write raw bytes instead of one hexadecimal line per packet")
	return cmd
}

func runRandom(cmd *cobra.Command, opts *randomOptions) error {
	if opts.count < 1 {
		return errors.Errorf("--count must be a positive integer but you provided %d", opts.count)
	}
	t, err := opts.template()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := 0; i < opts.count; i++ {
		p, err := t.Random()
		if err != nil {
			return errors.Wrapf(err, "cannot forge %s packet", t.Name())
		}
		if opts.raw {
			if _, err := out.Write(p.Bytes()); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(out, hex.EncodeToString(p.Bytes()))
	}
	return nil
}
