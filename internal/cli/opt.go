package cli

import (
	"github.com/spf13/cobra"
)

// OptOptions holds flags for the opt command.
type OptOptions struct {
	*RootOptions
	OptLevel  int
	SizeLevel int
	Output    string
}

// NewOptCommand creates the opt command: run the optimization pipeline over
// a module and print the resulting IR.
func NewOptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "opt <file.ll|file.bc>",
		Short: "Run the optimization pipeline and print the module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpt(opts, args[0])
		},
	}
	cmd.Flags().IntVarP(&opts.OptLevel, "opt-level", "O", 2, "optimization level [0,3]")
	cmd.Flags().IntVar(&opts.SizeLevel, "size-level", 0, "size level [0,2]")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runOpt(opts *OptOptions, path string) error {
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

	if err := api.OptimizeModule(handle, opts.OptLevel, opts.SizeLevel, true); err != nil {
		return err
	}

	dump, err := api.PrintModule(handle)
	if err != nil {
		return err
	}
	defer func() { _ = dump.Release() }()

	return writeOutput(opts.Output, dump.Bytes())
}
