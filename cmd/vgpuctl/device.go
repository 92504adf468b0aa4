package main

import (
	"fmt"

	"github.com/joshuapare/vgpukit/vgpu"
	"github.com/joshuapare/vgpukit/vgpu/drmnode"
)

// openDevice opens the render node, queries its parameters and runs the full
// capability handshake. The caller must Close the returned device.
func openDevice() (*vgpu.Device, vgpu.Params, error) {
	path := devicePath
	if path == "" {
		path = drmnode.DefaultPath
	}

	node, err := drmnode.Open(path)
	if err != nil {
		return nil, vgpu.Params{}, err
	}

	params, err := node.Params()
	if err != nil {
		node.Close()
		return nil, vgpu.Params{}, fmt.Errorf("querying device parameters: %w", err)
	}

	dev, err := vgpu.NewDevice(vgpu.Config{
		Transport: node,
		Params:    params,
		Logger:    logger(),
	})
	if err != nil {
		node.Close()
		return nil, vgpu.Params{}, err
	}
	if err := dev.Init(); err != nil {
		dev.Close()
		return nil, vgpu.Params{}, err
	}
	return dev, params, nil
}
