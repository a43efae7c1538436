package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/flow/internal/config"
	"github.com/alexisbeaulieu97/flow/internal/render"
	"github.com/alexisbeaulieu97/flow/pkg/flow"
	"github.com/alexisbeaulieu97/flow/pkg/logger"
)

// appContext bundles the services a command needs once settings are loaded.
type appContext struct {
	settings    config.Settings
	log         *logger.Logger
	interactive bool
}

func loadApp(cmd *cobra.Command, flags *rootFlags) (*appContext, error) {
	settings, err := config.LoadSettings(flags.configPath)
	if err != nil {
		return nil, newCommandError("load settings", flags.configPath, err, "Check the settings file syntax and values.")
	}

	level := settings.Log.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	if flags.verbose {
		level = "debug"
	}

	interactive := isTerminal(cmd.OutOrStdout())
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: settings.HumanReadableLogs(isTerminal(cmd.ErrOrStderr())),
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, newCommandError("create logger", level, err, "Use one of trace, debug, info, warn or error.")
	}

	return &appContext{settings: settings, log: log, interactive: interactive}, nil
}

func (a *appContext) theme() render.Theme {
	return render.ThemeFor(a.interactive)
}

func resolveNode(operation, id string) (flow.Node, error) {
	node, err := flow.Resolve(id)
	if err != nil {
		return nil, newCommandError(operation, "resolving "+id, err, "Run 'flow list' to see the registered ids.")
	}
	return node, nil
}

var termIsTerminal = func(fd int) bool {
	return term.IsTerminal(fd)
}

func isTerminal(writer io.Writer) bool {
	if file, ok := writer.(*os.File); ok {
		return termIsTerminal(int(file.Fd()))
	}
	return false
}
