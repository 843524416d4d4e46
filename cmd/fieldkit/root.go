package main

import (
	"github.com/pkg/errors"
	"github.com/shengyanli1982/fieldkit"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type commonOptions struct {
	logLevel  string
	logFormat string
}

// installFlags 注册所有子命令共享的日志参数
func (o *commonOptions) installFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.logLevel, "log-level", "l", "info", `Set the logging level ("debug"|"info"|"warn"|"error"|"fatal")`)
	flags.StringVar(&o.logFormat, "log-format", "text", `Set the logging format ("text"|"json")`)
}

// configureLogger 按参数构建 logger，并交给 fieldkit 使用
func (o *commonOptions) configureLogger(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return errors.Wrapf(err, "unable to parse logging level %s", o.logLevel)
	}

	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetLevel(level)
	switch o.logFormat {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format %q", o.logFormat)
	}
	fieldkit.SetLogger(l.WithField("component", "fieldkit"))
	return nil
}

func newRootCommand() *cobra.Command {
	opts := &commonOptions{}

	cmd := &cobra.Command{
		Use:           "fieldkit",
		Short:         "Inspect and forge binary packets described by declarative layouts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.configureLogger(cmd)
		},
	}
	opts.installFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newDecodeCommand(),
		newRandomCommand(),
		newShowCommand(),
	)
	return cmd
}
