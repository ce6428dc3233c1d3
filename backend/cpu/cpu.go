// Copyright 2025 The FlowCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for the FlowCorr kernels.
//
// The forward kernel is parallelized across disjoint output rows, the
// backward kernel across disjoint (batch, channel) gradient planes, so no
// two goroutines ever write the same element.
package cpu

import (
	internalcpu "github.com/flowcorr-ml/flowcorr/internal/backend/cpu"
	"github.com/flowcorr-ml/flowcorr/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/flowcorr-ml/flowcorr/backend/cpu"
//	    "github.com/flowcorr-ml/flowcorr/correlation"
//	)
//
//	backend := cpu.New()
//	out, err := correlation.Forward(backend, a, b, params)
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend with parallelism disabled.
func NewSequential() *Backend {
	return internalcpu.NewSequential()
}
