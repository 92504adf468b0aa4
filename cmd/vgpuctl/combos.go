package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCombosCmd())
}

func newCombosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "combos",
		Short: "Print the admitted format/usage combination table",
		Long: `The combos command runs the capability handshake against the device and
prints every (format, usage) combination the backend admitted, after
scanout stripping and emulation checks.

Example:
  vgpuctl combos
  vgpuctl combos --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombos()
		},
	}
}

func runCombos() error {
	dev, _, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	combos := dev.Combinations()

	if jsonOut {
		type entry struct {
			Format string `json:"format"`
			Use    string `json:"use"`
		}
		out := make([]entry, 0, len(combos))
		for _, c := range combos {
			out = append(out, entry{Format: c.Format.String(), Use: c.Use.String()})
		}
		return printJSON(out)
	}

	printInfo("%-8s %s\n", "FORMAT", "USE")
	for _, c := range combos {
		printInfo("%-8s %s\n", c.Format, c.Use)
	}
	return nil
}
