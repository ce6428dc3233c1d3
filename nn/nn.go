// Copyright 2025 The FlowCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides layer wrappers over the FlowCorr operators for
// model-building code: the CorrelationCost layer and the Mish activation.
package nn

import (
	"github.com/flowcorr-ml/flowcorr/correlation"
	"github.com/flowcorr-ml/flowcorr/internal/nn"
	"github.com/flowcorr-ml/flowcorr/tensor"
)

// CorrelationCost is the layer form of the correlation cost-volume
// operator. It takes a list of exactly two equally-shaped feature maps and
// holds no trainable parameters.
type CorrelationCost = nn.CorrelationCost

// NewCorrelationCost creates a CorrelationCost layer.
//
// Example:
//
//	params, _ := correlation.NewParams(1, 2, 1, 2, 4, correlation.ChannelsLast)
//	layer, err := nn.NewCorrelationCost(params, backend)
//	out, err := layer.Forward([]*tensor.RawTensor{a, b})
func NewCorrelationCost(p correlation.Params, backend tensor.Backend) (*CorrelationCost, error) {
	return nn.NewCorrelationCost(p, backend)
}

// Mish is the element-wise activation x * tanh(softplus(x)).
type Mish = nn.Mish

// NewMish creates a Mish activation layer.
func NewMish(backend tensor.Backend) *Mish {
	return nn.NewMish(backend)
}
