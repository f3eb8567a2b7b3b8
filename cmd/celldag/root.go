package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath   string
	logLevel     string
	logFormatter string

	cfg *Config
	log *logrus.Entry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "celldag",
		Short:         "`celldag` inspects, converts and archives bags of cells",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	flags.StringVar(&a.logFormatter, "log-formatter", "", "log formatter, text or json (overrides config)")

	root.AddCommand(
		newInspectCmd(a),
		newHashCmd(a),
		newConvertCmd(a),
		newPackCmd(a),
		newUnpackCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormatter != "" {
		cfg.Log.Formatter = a.logFormatter
	}

	log, err := configureLogging(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log.WithField("command", cmd.Name())
	a.log.WithField("config", a.configPath).Debug("configured")

	return nil
}

// load reads the command input and deserializes every root.
func (a *app) load(cmd *cobra.Command, args []string) ([]byte, []*cellRoot, error) {
	data, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return nil, nil, err
	}

	boc, kind, err := decodeBOC(data)
	if err != nil {
		return nil, nil, err
	}
	roots, err := deserializeRoots(boc)
	if err != nil {
		return nil, nil, err
	}
	a.log.WithFields(logrus.Fields{
		"input": kind,
		"bytes": len(boc),
		"roots": len(roots),
	}).Debug("loaded bag of cells")

	return boc, roots, nil
}
