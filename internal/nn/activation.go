package nn

import "github.com/flowcorr-ml/flowcorr/internal/tensor"

// Mish is the self-regularized non-monotonic activation
// mish(x) = x * tanh(softplus(x)), applied element-wise.
// It has no trainable parameters.
type Mish struct {
	backend tensor.Backend
}

// NewMish creates a Mish activation layer.
func NewMish(backend tensor.Backend) *Mish {
	return &Mish{backend: backend}
}

// Forward applies the activation.
func (m *Mish) Forward(x *tensor.RawTensor) *tensor.RawTensor {
	return m.backend.Mish(x)
}

// Backward computes the input gradient for an upstream gradient.
func (m *Mish) Backward(x, gradOutput *tensor.RawTensor) *tensor.RawTensor {
	return m.backend.MishBackward(x, gradOutput)
}
