package tensor

// Backend defines the interface that compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go, parallelized across disjoint output regions
//
// All tensors passed to a backend are expected to be in canonical
// channel-first [N, C, H, W] layout; layout conversion happens at the
// operator boundary, never inside the kernels.
type Backend interface {
	// Element-wise operations.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition (same-shape operands).

	// Layout operations.
	Transpose(t *RawTensor, axes ...int) *RawTensor // Permute tensor axes.

	// Correlation kernels.
	//
	// CorrelationForward computes the cost volume for two equally-shaped
	// feature maps. CorrelationBackward is its adjoint and returns the
	// gradients w.r.t. both inputs.
	CorrelationForward(a, b *RawTensor, kernelSize, maxDisplacement, stride1, stride2, pad int) *RawTensor
	CorrelationBackward(a, b, grad *RawTensor, kernelSize, maxDisplacement, stride1, stride2, pad int) (gradA, gradB *RawTensor)

	// Activations.
	Mish(x *RawTensor) *RawTensor              // x * tanh(softplus(x)).
	MishBackward(x, grad *RawTensor) *RawTensor // Gradient of Mish w.r.t. x.

	// Metadata.
	Name() string
	Device() Device
}
