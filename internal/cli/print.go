package cli

import (
	"github.com/spf13/cobra"
)

// PrintOptions holds flags for the print command.
type PrintOptions struct {
	*RootOptions
	Output string
}

// NewPrintCommand creates the print command: parse a module (text or
// bitcode) and dump its textual form without transforming it.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "print <file.ll|file.bc>",
		Short: "Parse a module and print its textual IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runPrint(opts *PrintOptions, path string) error {
	api, err := opts.newAPI()
	if err != nil {
		return err
	}
	defer api.Finalize()

	handle, err := loadModule(api, path)
	if err != nil {
		return err
	}
	defer func() { _ = api.DestroyModule(handle) }()

	dump, err := api.PrintModule(handle)
	if err != nil {
		return err
	}
	defer func() { _ = dump.Release() }()

	return writeOutput(opts.Output, dump.Bytes())
}
