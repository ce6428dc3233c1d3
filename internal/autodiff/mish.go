package autodiff

import "github.com/flowcorr-ml/flowcorr/internal/tensor"

// MishOp records one Mish activation for autodiff.
//
// Forward: output = x * tanh(softplus(x))
// Backward: closed-form derivative, no saved intermediate state beyond x.
type MishOp struct {
	x      *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMishOp creates a Mish operation record.
func NewMishOp(x, output *tensor.RawTensor) *MishOp {
	return &MishOp{x: x, output: output}
}

// Inputs returns the activation input.
func (op *MishOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.x}
}

// Output returns the activated tensor.
func (op *MishOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes grad * d(mish)/dx.
func (op *MishOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MishBackward(op.x, outputGrad)}
}
