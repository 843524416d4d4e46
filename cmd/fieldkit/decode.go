package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/shengyanli1982/fieldkit"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type decodeOptions struct {
	templateOptions
	hex      bool
	dump     bool
	maxInput string
}

func newDecodeCommand() *cobra.Command {
	opts := &decodeOptions{}

	cmd := &cobra.Command{
		Use:   "decode [OPTIONS] [FILE]",
		Short: "Decode a packet read from FILE or standard input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	opts.installFlags(flags)
	flags.BoolVarP(&opts.hex, "hex", "x", false, "Input is hexadecimal text instead of raw bytes")
	flags.BoolVar(&opts.dump, "dump", false, "Print a hexdump of the decoded packet")
	flags.StringVar(&opts.maxInput, "max-input", "64KiB", "Maximum number of bytes to read")
	return cmd
}

// readInput 读取输入，超过上限时返回错误
func readInput(cmd *cobra.Command, args []string, limit int64) ([]byte, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "cannot open input")
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "cannot read input")
	}
	if int64(len(data)) > limit {
		return nil, errors.Errorf("input is larger than %s", units.BytesSize(float64(limit)))
	}
	return data, nil
}

// decodeHex 解析十六进制文本，忽略空白和 "0x" 前缀
func decodeHex(text []byte) ([]byte, error) {
	s := strings.Join(strings.Fields(string(text)), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hexadecimal input")
	}
	return data, nil
}

func runDecode(cmd *cobra.Command, opts *decodeOptions, args []string) error {
	t, err := opts.template()
	if err != nil {
		return err
	}
	limit, err := units.RAMInBytes(opts.maxInput)
	if err != nil {
		return errors.Wrapf(err, "invalid --max-input %s", opts.maxInput)
	}
	data, err := readInput(cmd, args, limit)
	if err != nil {
		return err
	}
	if opts.hex {
		if data, err = decodeHex(data); err != nil {
			return err
		}
	}

	p := t.FromBytes(data)
	out := cmd.OutOrStdout()
	if err := p.Show(out); err != nil {
		return err
	}
	if opts.dump {
		fmt.Fprintln(out, p.Hexdump())
	}

	used := min(p.Len(), len(data))
	fmt.Fprintf(out, "%s of %s decoded as %s\n",
		units.HumanSize(float64(used)), units.HumanSize(float64(len(data))), t.Name())

	if !p.AllFieldsComputed() {
		fieldkit.Logger().WithFields(logrus.Fields{"packet": t.Name(), "input": len(data)}).
			Warn("input is too short, some fields kept their default value")
		return nil
	}
	if rest := len(data) - p.Len(); rest > 0 {
		fmt.Fprintf(out, "payload: %s\n", units.HumanSize(float64(rest)))
	}
	return nil
}
