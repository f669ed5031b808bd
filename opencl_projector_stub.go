//go:build !opencl

package main

import "errors"

type openCLProjector struct {
	cpuProjector
}

func newOpenCLProjector(edgeBound) (*openCLProjector, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (p *openCLProjector) DeviceName() string { return "" }
