package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/lut3d/internal/lut"
)

// interpValue adapts lut.Interpolation to pflag.Value.
type interpValue lut.Interpolation

var _ pflag.Value = (*interpValue)(nil)

func newInterpValue(mode lut.Interpolation, p *lut.Interpolation) *interpValue {
	*p = mode
	return (*interpValue)(p)
}

func (v *interpValue) String() string {
	return lut.Interpolation(*v).String()
}

func (v *interpValue) Set(s string) error {
	mode, err := lut.ParseInterpolation(s)
	if err != nil {
		return err
	}
	*v = interpValue(mode)
	return nil
}

func (v *interpValue) Type() string {
	return "mode"
}

// addInterpFlag registers --interp on cmd.
func addInterpFlag(cmd *cobra.Command, p *lut.Interpolation) {
	names := make([]string, 0, 3)
	for _, mode := range lut.Interpolations() {
		names = append(names, mode.String())
	}
	cmd.Flags().VarP(newInterpValue(lut.DefaultInterpolation, p), "interp", "i",
		fmt.Sprintf("interpolation mode (%s)", strings.Join(names, ", ")))
	_ = cmd.RegisterFlagCompletionFunc("interp", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - User output file
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
