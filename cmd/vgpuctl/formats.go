package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/vgpukit/drm"
	"github.com/joshuapare/vgpukit/vgpu"
)

func init() {
	rootCmd.AddCommand(newFormatsCmd())
}

// Static table; no device needed.
var knownFormats = []drm.Format{
	drm.FormatR8, drm.FormatR16, drm.FormatRG88, drm.FormatRGB565,
	drm.FormatRGB888, drm.FormatBGR888, drm.FormatXRGB8888,
	drm.FormatARGB8888, drm.FormatXBGR8888, drm.FormatABGR8888,
	drm.FormatABGR2101010, drm.FormatABGR16161616F, drm.FormatNV12,
	drm.FormatNV21, drm.FormatP010, drm.FormatYVU420,
	drm.FormatYVU420Android,
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "Print the guest-to-host pixel format translation table",
		Long: `The formats command prints every guest fourcc the backend understands and
the host renderer format code it translates to. No device is opened.

Example:
  vgpuctl formats
  vgpuctl formats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormats()
		},
	}
}

func runFormats() error {
	if jsonOut {
		type entry struct {
			FourCC   string `json:"fourcc"`
			Code     uint32 `json:"code"`
			HostCode uint32 `json:"host_code"`
		}
		out := make([]entry, 0, len(knownFormats))
		for _, f := range knownFormats {
			out = append(out, entry{
				FourCC:   f.String(),
				Code:     uint32(f),
				HostCode: vgpu.HostFormatCode(f),
			})
		}
		return printJSON(out)
	}

	printInfo("%-8s %-12s %s\n", "FOURCC", "CODE", "HOST")
	for _, f := range knownFormats {
		printInfo("%-8s %#010x   %d\n", f, uint32(f), vgpu.HostFormatCode(f))
	}
	return nil
}
