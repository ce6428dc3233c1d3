// Package corr implements the dense windowed cross-correlation ("cost
// volume") operator used by FlowNet-style optical-flow networks, together
// with its adjoint.
//
// The operator is stateless and pure: parameters are passed per call, all
// validation happens eagerly before any numeric work, and identical inputs
// always produce identical outputs.
//
// Reference: "FlowNet: Learning Optical Flow with Convolutional Networks"
// (Fischer et al.), https://arxiv.org/abs/1504.06852.
package corr

import (
	"fmt"

	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// Forward computes the correlation cost volume for two equally-shaped
// feature maps.
//
// Fails with ErrInvalidLayout, ErrShapeMismatch, or ErrInvalidGeometry
// before touching any element. The result is a freshly allocated tensor in
// the caller's declared layout; inputs are never mutated.
func Forward(backend tensor.Backend, a, b *tensor.RawTensor, p Params) (*tensor.RawTensor, error) {
	if err := validateInputs(a, b, p); err != nil {
		return nil, err
	}
	if _, err := OutputShape(a.Shape(), p); err != nil {
		return nil, err
	}

	ca := toCanonical(backend, a, p.Layout)
	cb := toCanonical(backend, b, p.Layout)

	out := backend.CorrelationForward(ca, cb, p.KernelSize, p.MaxDisplacement, p.Stride1, p.Stride2, p.Pad)

	return fromCanonical(backend, out, p.Layout), nil
}

// Backward computes the gradients of a scalar loss w.r.t. both inputs,
// given the upstream gradient of the cost volume. gradOutput must be in the
// caller's declared layout and match the shape Forward would produce for
// these inputs; the returned gradients match the input shapes exactly.
func Backward(backend tensor.Backend, a, b, gradOutput *tensor.RawTensor, p Params) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if err := validateInputs(a, b, p); err != nil {
		return nil, nil, err
	}

	want, err := OutputShape(a.Shape(), p)
	if err != nil {
		return nil, nil, err
	}
	if gradOutput == nil {
		return nil, nil, fmt.Errorf("%w: upstream gradient is nil", ErrShapeMismatch)
	}
	if !gradOutput.Shape().Equal(want) {
		return nil, nil, fmt.Errorf("%w: upstream gradient shape %v, want %v", ErrShapeMismatch, gradOutput.Shape(), want)
	}
	if gradOutput.DType() != a.DType() {
		return nil, nil, fmt.Errorf("%w: upstream gradient dtype %s, inputs are %s", ErrShapeMismatch, gradOutput.DType(), a.DType())
	}

	ca := toCanonical(backend, a, p.Layout)
	cb := toCanonical(backend, b, p.Layout)
	cg := toCanonical(backend, gradOutput, p.Layout)

	gradA, gradB := backend.CorrelationBackward(ca, cb, cg, p.KernelSize, p.MaxDisplacement, p.Stride1, p.Stride2, p.Pad)

	return fromCanonical(backend, gradA, p.Layout), fromCanonical(backend, gradB, p.Layout), nil
}

// validateInputs enforces the shared preconditions of Forward and Backward:
// valid params, two 4-D inputs of identical shape and dtype.
func validateInputs(a, b *tensor.RawTensor, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if a == nil || b == nil {
		return fmt.Errorf("%w: correlation requires two inputs", ErrShapeMismatch)
	}
	if len(a.Shape()) != 4 || len(b.Shape()) != 4 {
		return fmt.Errorf("%w: inputs must be 4-D, got %d and %d axes", ErrShapeMismatch, len(a.Shape()), len(b.Shape()))
	}
	if !a.Shape().Equal(b.Shape()) {
		return fmt.Errorf("%w: input shapes %v and %v differ", ErrShapeMismatch, a.Shape(), b.Shape())
	}
	if a.DType() != b.DType() {
		return fmt.Errorf("%w: input dtypes %s and %s differ", ErrShapeMismatch, a.DType(), b.DType())
	}
	return nil
}
