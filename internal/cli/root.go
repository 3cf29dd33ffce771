package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/lut3d/internal/version"
)

// NewRootCmd builds the lut3d command tree. Each call returns an
// independent tree, so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lut3d",
		Short: "Apply 3D colour lookup tables to images",
		Long: `lut3d applies 3D colour lookup tables (LUTs) to images.

It reads .cube, .3dl, .dat and .m3d LUT files (optionally gzip, bzip2 or xz
compressed, or inside a zip archive) and remaps every pixel of an image with
nearest, trilinear or tetrahedral interpolation.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newCurvesCmd())
	rootCmd.AddCommand(newFormatsCmd())

	return rootCmd
}

// newLogger builds the root logger for a command from --verbose and --quiet.
// Log output goes to the command's error stream.
func newLogger(cmd *cobra.Command) hclog.Logger {
	level := hclog.Info
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = hclog.Debug
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		level = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "lut3d",
		Output: cmd.ErrOrStderr(),
		Level:  level,
		Color:  hclog.AutoColor,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// writeOutput writes text to path, or to the command's output when path is empty.
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	return writeFile(path, []byte(text))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
