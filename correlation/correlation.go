// Copyright 2025 The FlowCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package correlation exposes the FlowCorr cost-volume operator.
//
// The operator compares two equally-shaped feature maps at displaced
// spatial offsets and produces a cost volume whose channel axis enumerates
// the displacement grid. Backward distributes an upstream cost-volume
// gradient back onto both inputs.
//
//	params, err := correlation.NewParams(3, 1, 1, 1, 1, correlation.ChannelsFirst)
//	out, err := correlation.Forward(backend, a, b, params)
//	gradA, gradB, err := correlation.Backward(backend, a, b, upstream, params)
//
// Reference: "FlowNet: Learning Optical Flow with Convolutional Networks"
// (Fischer et al.), https://arxiv.org/abs/1504.06852.
package correlation

import (
	"github.com/flowcorr-ml/flowcorr/internal/corr"
	"github.com/flowcorr-ml/flowcorr/tensor"
)

// Params is the immutable configuration of one correlation call.
type Params = corr.Params

// Layout identifies the axis ordering of caller-supplied tensors.
type Layout = corr.Layout

// Recognized layouts; any other value fails with ErrInvalidLayout.
const (
	ChannelsFirst Layout = corr.ChannelsFirst // [N, C, H, W]
	ChannelsLast  Layout = corr.ChannelsLast  // [N, H, W, C]
)

// Error kinds. All validation is eager; a failure always indicates caller
// misuse, never transient state.
var (
	ErrInvalidLayout   = corr.ErrInvalidLayout
	ErrShapeMismatch   = corr.ErrShapeMismatch
	ErrInvalidGeometry = corr.ErrInvalidGeometry
)

// NewParams builds a validated Params value.
func NewParams(kernelSize, maxDisplacement, stride1, stride2, pad int, layout Layout) (Params, error) {
	return corr.NewParams(kernelSize, maxDisplacement, stride1, stride2, pad, layout)
}

// ParseLayout converts a layout tag ("channels_first" or "channels_last")
// to a Layout value.
func ParseLayout(tag string) (Layout, error) {
	return corr.ParseLayout(tag)
}

// OutputShape computes the cost-volume shape Forward would produce for one
// input of the given shape, expressed in the params' declared layout.
func OutputShape(input tensor.Shape, p Params) (tensor.Shape, error) {
	return corr.OutputShape(input, p)
}

// Forward computes the correlation cost volume for two equally-shaped
// feature maps.
func Forward(backend tensor.Backend, a, b *tensor.RawTensor, p Params) (*tensor.RawTensor, error) {
	return corr.Forward(backend, a, b, p)
}

// Backward computes the gradients w.r.t. both inputs given the upstream
// gradient of the cost volume.
func Backward(backend tensor.Backend, a, b, gradOutput *tensor.RawTensor, p Params) (*tensor.RawTensor, *tensor.RawTensor, error) {
	return corr.Backward(backend, a, b, gradOutput, p)
}
