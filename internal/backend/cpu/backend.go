// Package cpu implements the CPU backend for the FlowCorr correlation kernels.
package cpu

import (
	"fmt"

	"github.com/flowcorr-ml/flowcorr/internal/parallel"
	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// CPUBackend implements tensor operations on CPU, parallelized across
// disjoint output regions.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
	}
}

// NewSequential creates a CPU backend with parallelism disabled.
// Useful for deterministic profiling and tests.
func NewSequential() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.Config{Enabled: false},
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition of two same-shape tensors.
// Used by the gradient tape to accumulate gradients flowing into a tensor
// from multiple operations.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("add: shape mismatch %v vs %v", a.Shape(), b.Shape()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("add: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	result, err := tensor.NewRaw(a.Shape(), a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("add: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		av, bv, out := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		for i := range av {
			out[i] = av[i] + bv[i]
		}
	case tensor.Float64:
		av, bv, out := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		for i := range av {
			out[i] = av[i] + bv[i]
		}
	case tensor.Float16:
		av, bv, out := a.AsFloat16(), b.AsFloat16(), result.AsFloat16()
		for i := range av {
			out[i] = fromFloat32(av[i].Float32() + bv[i].Float32())
		}
	default:
		panic(fmt.Sprintf("add: unsupported dtype %s", a.DType()))
	}

	return result
}
