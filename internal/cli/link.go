package cli

import (
	"github.com/spf13/cobra"
)

// LinkOptions holds flags for the link command.
type LinkOptions struct {
	*RootOptions
	Output string
}

// NewLinkCommand creates the link command: merge one or more source modules
// into a destination module and print the result.
func NewLinkCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LinkOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "link <dst.ll> <src.ll>...",
		Short: "Link modules together and print the merged module",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(opts, args[0], args[1:])
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runLink(opts *LinkOptions, dstPath string, srcPaths []string) error {
	api, err := opts.newAPI()
	if err != nil {
		return err
	}
	defer api.Finalize()

	dst, err := loadModule(api, dstPath)
	if err != nil {
		return err
	}
	defer func() { _ = api.DestroyModule(dst) }()

	for _, path := range srcPaths {
		src, err := loadModule(api, path)
		if err != nil {
			return err
		}
		err = api.LinkModules(dst, src)
		_ = api.DestroyModule(src)
		if err != nil {
			return err
		}
	}

	dump, err := api.PrintModule(dst)
	if err != nil {
		return err
	}
	defer func() { _ = dump.Release() }()

	return writeOutput(opts.Output, dump.Bytes())
}
