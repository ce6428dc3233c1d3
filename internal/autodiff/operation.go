// Package autodiff provides reverse-mode differentiation for the FlowCorr
// operators.
//
// There is no global registry associating forward kernels with their
// gradients. Each differentiable operator implements the Operation
// interface once — an explicit {forward, backward} pair — and callers
// compose operations on a GradientTape where differentiation is
// orchestrated.
package autodiff

import "github.com/flowcorr-ml/flowcorr/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass and
// computes input gradients during the backward pass.
//
// Operations record tensors in canonical channel-first layout; layout
// conversion belongs to the operator boundary, not the graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output
	// gradient. Returns one gradient per input tensor, aligned with
	// Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
