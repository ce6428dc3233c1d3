// Copyright 2025 The FlowCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode differentiation for the FlowCorr
// operators.
//
// Instead of a global gradient-registration table, each differentiable
// operator implements the Operation interface once — an explicit
// {forward, backward} pair — and callers compose operations on a
// GradientTape where differentiation is orchestrated:
//
//	tape := autodiff.NewGradientTape()
//	tape.StartRecording()
//	out := backend.CorrelationForward(a, b, 3, 1, 1, 1, 1)
//	tape.Record(autodiff.NewCorrelationOp(a, b, out, 3, 1, 1, 1, 1))
//	grads := tape.Backward(upstream, backend)
//	gradA := grads[a]
package autodiff

import (
	"github.com/flowcorr-ml/flowcorr/internal/autodiff"
	"github.com/flowcorr-ml/flowcorr/tensor"
)

// Operation is a differentiable operation: it records its inputs and output
// during the forward pass and computes input gradients during the backward
// pass.
type Operation = autodiff.Operation

// GradientTape records operations and computes gradients by walking them in
// reverse.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// CorrelationOp records one correlation cost-volume evaluation.
type CorrelationOp = autodiff.CorrelationOp

// NewCorrelationOp creates a correlation operation record. Tensors must be
// in canonical channel-first layout.
func NewCorrelationOp(a, b, output *tensor.RawTensor, kernelSize, maxDisplacement, stride1, stride2, pad int) *CorrelationOp {
	return autodiff.NewCorrelationOp(a, b, output, kernelSize, maxDisplacement, stride1, stride2, pad)
}

// MishOp records one Mish activation.
type MishOp = autodiff.MishOp

// NewMishOp creates a Mish operation record.
func NewMishOp(x, output *tensor.RawTensor) *MishOp {
	return autodiff.NewMishOp(x, output)
}
