// Package cli wires the composegen commands: generate, validate, render,
// serve, probe and completion.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries process-wide state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	cfgFile   string
	logLevel  string
	logFormat string
	log       zerolog.Logger
}

func newApp(stdout, stderr io.Writer, getenv func(string) string) *app {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &app{stdout: stdout, stderr: stderr, getenv: getenv, log: zerolog.Nop()}
}

// NewRootCmd builds the command tree writing to the process's stdout and stderr.
func NewRootCmd() *cobra.Command {
	return newApp(os.Stdout, os.Stderr, os.Getenv).rootCmd()
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	a := newApp(os.Stdout, os.Stderr, os.Getenv)
	return a.execute(os.Args[1:])
}

func (a *app) execute(args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var inc incompleteError
		if !errors.As(err, &inc) {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "composegen",
		Short:         "Generate per-host docker-compose manifests for GPU inference services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults COMPOSEGEN_LOG_LEVEL, config, or info)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "Log format: console|json")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Level may also come from the config file; commands that load it
		// rebuild the logger once the final value is known.
		lvl := a.logLevel
		if lvl == "" {
			lvl = a.getenv("COMPOSEGEN_LOG_LEVEL")
		}
		return a.setLogger(lvl)
	}

	root.AddCommand(
		a.generateCmd(),
		a.validateCmd(),
		a.renderCmd(),
		a.serveCmd(),
		a.probeCmd(),
	)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(a.stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(a.stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(a.stdout, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(a.stdout) }})
	root.AddCommand(completionCmd)

	return root
}

func (a *app) setLogger(level string) error {
	l, err := NewLogger(a.stderr, level, a.logFormat)
	if err != nil {
		return err
	}
	a.log = l
	return nil
}
