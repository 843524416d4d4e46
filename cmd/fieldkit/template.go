package main

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shengyanli1982/fieldkit"
	"github.com/shengyanli1982/fieldkit/internal/schema"
	"github.com/shengyanli1982/fieldkit/protocols"
	"github.com/spf13/pflag"
)

// builtins 内置的协议模板
var builtins = map[string]*fieldkit.Template{
	"ipv4":         protocols.IPv4,
	"icmp":         protocols.ICMP,
	"ntp":          protocols.NTP,
	"dns":          protocols.DNSHeader,
	"dns-question": protocols.DNSQuestion,
	"dns-record":   protocols.DNSResourceRecord,
}

func builtinNames() string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// templateOptions 选择数据包模板：TOML 布局文件或内置协议
type templateOptions struct {
	layout   string
	protocol string
}

func (o *templateOptions) installFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.layout, "layout", "f", "", "TOML file describing the packet layout")
	flags.StringVarP(&o.protocol, "protocol", "p", "", "Built-in packet layout ("+builtinNames()+")")
}

func (o *templateOptions) template() (*fieldkit.Template, error) {
	switch {
	case o.layout != "" && o.protocol != "":
		return nil, errors.New("--layout and --protocol are mutually exclusive")
	case o.protocol != "":
		t, ok := builtins[o.protocol]
		if !ok {
			return nil, errors.Errorf("unknown protocol %q (available: %s)", o.protocol, builtinNames())
		}
		return t, nil
	case o.layout != "":
		l, err := schema.LoadFile(o.layout)
		if err != nil {
			return nil, err
		}
		return l.Template()
	default:
		return nil, errors.New("one of --layout or --protocol is required")
	}
}
