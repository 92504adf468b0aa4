package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/vgpukit/drm"
)

var (
	allocWidth  uint32
	allocHeight uint32
	allocFormat string
	allocUse    []string
)

func init() {
	rootCmd.AddCommand(newAllocCmd())
}

var formatsByName = func() map[string]drm.Format {
	m := make(map[string]drm.Format, len(knownFormats))
	for _, f := range knownFormats {
		m[f.String()] = f
	}
	return m
}()

var useByName = map[string]drm.UseFlags{
	"scanout":          drm.UseScanout,
	"cursor":           drm.UseCursor,
	"rendering":        drm.UseRendering,
	"linear":           drm.UseLinear,
	"texture":          drm.UseTexture,
	"camera-write":     drm.UseCameraWrite,
	"camera-read":      drm.UseCameraRead,
	"sw-read-often":    drm.UseSWReadOften,
	"sw-write-often":   drm.UseSWWriteOften,
	"hw-video-decoder": drm.UseHWVideoDecoder,
	"hw-video-encoder": drm.UseHWVideoEncoder,
}

func newAllocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alloc",
		Short: "Probe-allocate a buffer and print its plane layout",
		Long: `The alloc command allocates a buffer with the given geometry, prints the
plane layout the backend computed, then destroys it. Useful for checking
which creation path a combination takes and what geometry it produces.

Example:
  vgpuctl alloc --width 1920 --height 1080 --format NV12 --use texture,sw-read-often`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlloc()
		},
	}
	cmd.Flags().Uint32Var(&allocWidth, "width", 640, "Buffer width in pixels")
	cmd.Flags().Uint32Var(&allocHeight, "height", 480, "Buffer height in pixels")
	cmd.Flags().StringVar(&allocFormat, "format", "XR24", "Fourcc of the format to allocate")
	cmd.Flags().
		StringSliceVar(&allocUse, "use", []string{"texture", "sw-read-often"}, "Use flags")
	return cmd
}

func runAlloc() error {
	format, ok := formatsByName[allocFormat]
	if !ok {
		return fmt.Errorf("unknown format %q (see vgpuctl formats)", allocFormat)
	}
	var use drm.UseFlags
	for _, name := range allocUse {
		bit, ok := useByName[name]
		if !ok {
			return fmt.Errorf("unknown use flag %q", name)
		}
		use |= bit
	}

	dev, _, err := openDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	format, use = dev.ResolveFormatAndUseFlags(format, use)

	b, err := dev.CreateBuffer(allocWidth, allocHeight, format, use)
	if err != nil {
		return err
	}
	defer dev.DestroyBuffer(b)

	if jsonOut {
		type plane struct {
			Stride uint32 `json:"stride"`
			Offset uint32 `json:"offset"`
			Size   uint32 `json:"size"`
		}
		planes := make([]plane, b.PlaneCount)
		for i := range planes {
			planes[i] = plane{b.Strides[i], b.Offsets[i], b.Sizes[i]}
		}
		return printJSON(map[string]interface{}{
			"format": b.Format.String(),
			"use":    b.Use.String(),
			"width":  b.Width,
			"height": b.Height,
			"total":  b.TotalSize,
			"planes": planes,
		})
	}

	printInfo("Allocated %s %dx%d (%s)\n", b.Format, b.Width, b.Height, b.Use)
	printInfo("  total size: %d\n", b.TotalSize)
	for i := 0; i < b.PlaneCount; i++ {
		printInfo("  plane %d: stride %d, offset %d, size %d\n",
			i, b.Strides[i], b.Offsets[i], b.Sizes[i])
	}
	return nil
}
