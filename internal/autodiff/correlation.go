package autodiff

import "github.com/flowcorr-ml/flowcorr/internal/tensor"

// CorrelationOp records one correlation cost-volume evaluation for autodiff.
//
// Forward: output = CorrelationForward(a, b, geometry)
// Backward: the adjoint scatter-add, producing gradients for both inputs.
type CorrelationOp struct {
	a      *tensor.RawTensor
	b      *tensor.RawTensor
	output *tensor.RawTensor

	kernelSize      int
	maxDisplacement int
	stride1         int
	stride2         int
	pad             int
}

// NewCorrelationOp creates a correlation operation record. Tensors must be
// in canonical channel-first layout, matching what the forward kernel saw.
func NewCorrelationOp(a, b, output *tensor.RawTensor, kernelSize, maxDisplacement, stride1, stride2, pad int) *CorrelationOp {
	return &CorrelationOp{
		a:               a,
		b:               b,
		output:          output,
		kernelSize:      kernelSize,
		maxDisplacement: maxDisplacement,
		stride1:         stride1,
		stride2:         stride2,
		pad:             pad,
	}
}

// Inputs returns the two correlated feature maps.
func (op *CorrelationOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.a, op.b}
}

// Output returns the cost volume.
func (op *CorrelationOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward delegates to the backend's adjoint kernel and returns
// [grad_a, grad_b].
func (op *CorrelationOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA, gradB := backend.CorrelationBackward(
		op.a, op.b, outputGrad,
		op.kernelSize, op.maxDisplacement, op.stride1, op.stride2, op.pad,
	)
	return []*tensor.RawTensor{gradA, gradB}
}
