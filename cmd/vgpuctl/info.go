package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Report device parameters and negotiated limits",
		Long: `The info command opens the render node, queries the virtio-gpu device
parameters and runs the capability handshake, then reports what was
negotiated.

Example:
  vgpuctl info
  vgpuctl info --device /dev/dri/renderD129 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
}

func runInfo() error {
	dev, params, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	if jsonOut {
		return printJSON(map[string]interface{}{
			"backend":             dev.Name(),
			"3d":                  params.ThreeD,
			"capset_query_fix":    params.CapsetQueryFix,
			"resource_blob":       params.ResourceBlob,
			"host_visible":        params.HostVisible,
			"max_texture_2d_size": dev.MaxTexture2DSize(),
			"combinations":        len(dev.Combinations()),
		})
	}

	printInfo("Backend: %s\n", dev.Name())
	printInfo("\nDevice parameters:\n")
	printInfo("  3D:               %v\n", params.ThreeD)
	printInfo("  capset query fix: %v\n", params.CapsetQueryFix)
	printInfo("  resource blob:    %v\n", params.ResourceBlob)
	printInfo("  host visible:     %v\n", params.HostVisible)
	printInfo("\nNegotiated:\n")
	printInfo("  max 2D texture size: %d\n", dev.MaxTexture2DSize())
	printInfo("  admitted combinations: %d\n", len(dev.Combinations()))
	return nil
}
