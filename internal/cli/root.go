// SPDX-License-Identifier: Apache-2.0

// Package cli implements the hlc command line: parse, optimize, link and
// compile IR modules for the fixed GPU target.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"hlc/abi"

	_ "github.com/tliron/commonlog/simple"
)

// RootOptions holds flags shared by every subcommand.
type RootOptions struct {
	Verbose bool
	// Toggles forwarded to the session, in tool flag form
	// (e.g. "-strip-debug").
	Options []string
}

// NewRootCommand creates the hlc root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "hlc",
		Short:         "Compile IR modules for the AMD GCN target",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")
	cmd.PersistentFlags().StringArrayVar(&opts.Options, "option", nil,
		"tool option forwarded to the session (repeatable)")

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewOptCommand(opts))
	cmd.AddCommand(NewLinkCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))
	return cmd
}

// newAPI configures logging and creates an initialized call surface with the
// root toggles applied.
func (o *RootOptions) newAPI() (*abi.API, error) {
	verbosity := 0
	if o.Verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	api := abi.Initialize()
	if err := api.SetCommandLineOptions(o.Options...); err != nil {
		api.Finalize()
		return nil, err
	}
	return api, nil
}

// loadModule reads path and parses it as bitcode (.bc) or textual IR.
func loadModule(api *abi.API, path string) (abi.Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}
	if strings.HasSuffix(path, ".bc") {
		return api.ParseBitcode(data)
	}
	return api.ParseText(string(data))
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
