// Package nn provides neural-network layer wrappers over the FlowCorr
// operators. Layers hold validated configuration plus a backend; all
// numeric work happens in the backend kernels.
package nn

import (
	"fmt"

	"github.com/flowcorr-ml/flowcorr/internal/corr"
	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// CorrelationCost is the layer form of the correlation cost-volume
// operator, as used between the two feature towers of FlowNet-style
// architectures.
//
// The layer takes a list of exactly two equally-shaped feature maps and
// produces their cost volume. It holds no trainable parameters — only the
// immutable search geometry.
type CorrelationCost struct {
	params  corr.Params
	backend tensor.Backend
}

// NewCorrelationCost creates the layer. Params must come from
// corr.NewParams, so the geometry is already validated; Validate is still
// run to catch hand-built values.
func NewCorrelationCost(p corr.Params, backend tensor.Backend) (*CorrelationCost, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &CorrelationCost{params: p, backend: backend}, nil
}

// Params returns the layer's configuration.
func (l *CorrelationCost) Params() corr.Params {
	return l.params
}

// Forward computes the cost volume of a two-element input list.
// Fails with ErrShapeMismatch unless exactly two inputs are supplied.
func (l *CorrelationCost) Forward(inputs []*tensor.RawTensor) (*tensor.RawTensor, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("%w: correlation cost takes a list of two tensors, got %d", corr.ErrShapeMismatch, len(inputs))
	}
	return corr.Forward(l.backend, inputs[0], inputs[1], l.params)
}

// Backward distributes the upstream cost-volume gradient onto both inputs.
func (l *CorrelationCost) Backward(inputs []*tensor.RawTensor, gradOutput *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if len(inputs) != 2 {
		return nil, nil, fmt.Errorf("%w: correlation cost takes a list of two tensors, got %d", corr.ErrShapeMismatch, len(inputs))
	}
	return corr.Backward(l.backend, inputs[0], inputs[1], gradOutput, l.params)
}

// OutputShape computes the cost-volume shape for one input shape, in the
// layer's declared layout.
func (l *CorrelationCost) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return corr.OutputShape(input, l.params)
}
