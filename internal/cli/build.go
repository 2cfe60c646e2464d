package cli

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hlc/abi"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	OptLevel  int
	SizeLevel int
	Binary    bool
	Output    string
}

// NewBuildCommand creates the build command: optimize and compile one
// module, emitting assembly text or a binary object.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <file.ll|file.bc>",
		Short: "Optimize and compile a module to GCN assembly or an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0])
		},
	}
	cmd.Flags().IntVarP(&opts.OptLevel, "opt-level", "O", 3, "optimization level [0,3]")
	cmd.Flags().IntVar(&opts.SizeLevel, "size-level", 0, "size level [0,2]")
	cmd.Flags().BoolVar(&opts.Binary, "binary", false, "emit a binary object instead of assembly")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runBuild(opts *BuildOptions, path string) error {
	startTime := time.Now()

	api, err := opts.newAPI()
	if err != nil {
		return err
	}
	defer api.Finalize()

	handle, err := loadModule(api, path)
	if err != nil {
		color.Red("Compilation failed after %s", formatDuration(time.Since(startTime)))
		return err
	}
	defer func() { _ = api.DestroyModule(handle) }()

	if err := api.OptimizeModule(handle, opts.OptLevel, opts.SizeLevel, true); err != nil {
		color.Red("Compilation failed after %s", formatDuration(time.Since(startTime)))
		return err
	}

	var artifact *abi.Artifact
	if opts.Binary {
		artifact, err = api.EmitObject(handle, opts.OptLevel)
	} else {
		artifact, err = api.EmitAssembly(handle, opts.OptLevel)
	}
	if err != nil {
		color.Red("Compilation failed after %s", formatDuration(time.Since(startTime)))
		return err
	}
	defer func() { _ = artifact.Release() }()

	if err := writeOutput(opts.Output, artifact.Bytes()); err != nil {
		return err
	}
	if opts.Output != "" {
		color.Green("Successfully compiled %s in %s", path, formatDuration(time.Since(startTime)))
	}
	return nil
}
