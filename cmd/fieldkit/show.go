package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/shengyanli1982/fieldkit"
	"github.com/spf13/cobra"
)

type showOptions struct {
	templateOptions
	set []string
}

func newShowCommand() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show [OPTIONS]",
		Short: "Describe a packet layout with its default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, opts)
		},
	}

	flags := cmd.Flags()
	opts.installFlags(flags)
	flags.StringArrayVarP(&opts.set, "set", "s", nil, "Set a field before showing the packet (NAME=VALUE, repeatable)")
	return cmd
}

func runShow(cmd *cobra.Command, opts *showOptions) error {
	t, err := opts.template()
	if err != nil {
		return err
	}
	values, err := parseAssignments(opts.set)
	if err != nil {
		return err
	}
	p, err := t.New(values)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := p.Show(out); err != nil {
		return err
	}
	fmt.Fprintf(out, "format: %s\n", p.FormatString())
	fmt.Fprintf(out, "size:   %s\n", units.BytesSize(float64(p.Len())))
	fmt.Fprintln(out, p.Hexdump())
	return nil
}

// parseAssignments 解析 NAME=VALUE 形式的赋值
// 整数值（支持 0x 前缀）按整数设置，其余按字符串设置，
// 字符串会按枚举名称或字段自身的规则解析
func parseAssignments(items []string) (fieldkit.Values, error) {
	values := fieldkit.Values{}
	for _, item := range items {
		name, value, ok := strings.Cut(item, "=")
		if !ok || name == "" {
			return nil, errors.Errorf("invalid assignment %q, expected NAME=VALUE", item)
		}
		if n, err := strconv.ParseInt(value, 0, 64); err == nil {
			values[name] = n
			continue
		}
		if n, err := strconv.ParseUint(value, 0, 64); err == nil {
			values[name] = n
			continue
		}
		values[name] = value
	}
	return values, nil
}
