package cpu

import (
	"fmt"
	"math"

	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// Mish computes the element-wise activation mish(x) = x * tanh(softplus(x)).
//
// See "Mish: A Self Regularized Non-Monotonic Neural Activation Function"
// (Misra, 2019), https://arxiv.org/abs/1908.08681.
func (cpu *CPUBackend) Mish(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() == tensor.Float16 {
		return demoteToFloat16(cpu.Mish(promoteFloat16(x)))
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("mish: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		in := x.AsFloat32()
		out := result.AsFloat32()
		for i, v := range in {
			out[i] = float32(mish(float64(v)))
		}
	case tensor.Float64:
		in := x.AsFloat64()
		out := result.AsFloat64()
		for i, v := range in {
			out[i] = mish(v)
		}
	default:
		panic(fmt.Sprintf("mish: unsupported dtype %s", x.DType()))
	}

	return result
}

// MishBackward computes grad * d(mish)/dx element-wise, using the
// closed-form derivative
//
//	d/dx mish(x) = tanh(sp(x)) + x * sigmoid(x) * (1 - tanh²(sp(x)))
//
// where sp is softplus.
func (cpu *CPUBackend) MishBackward(x, grad *tensor.RawTensor) *tensor.RawTensor {
	if !x.Shape().Equal(grad.Shape()) {
		panic(fmt.Sprintf("mish backward: shape mismatch %v vs %v", x.Shape(), grad.Shape()))
	}
	if x.DType() != grad.DType() {
		panic(fmt.Sprintf("mish backward: dtype mismatch %s vs %s", x.DType(), grad.DType()))
	}
	if x.DType() == tensor.Float16 {
		return demoteToFloat16(cpu.MishBackward(promoteFloat16(x), promoteFloat16(grad)))
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("mish backward: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		in := x.AsFloat32()
		g := grad.AsFloat32()
		out := result.AsFloat32()
		for i, v := range in {
			out[i] = g[i] * float32(mishGrad(float64(v)))
		}
	case tensor.Float64:
		in := x.AsFloat64()
		g := grad.AsFloat64()
		out := result.AsFloat64()
		for i, v := range in {
			out[i] = g[i] * mishGrad(v)
		}
	default:
		panic(fmt.Sprintf("mish backward: unsupported dtype %s", x.DType()))
	}

	return result
}

func mish(x float64) float64 {
	return x * math.Tanh(softplus(x))
}

func mishGrad(x float64) float64 {
	t := math.Tanh(softplus(x))
	s := 1.0 / (1.0 + math.Exp(-x))
	return t + x*s*(1.0-t*t)
}

// softplus(x) = log(1 + exp(x)); for large x, exp overflows and the
// function is x to within float64 precision.
func softplus(x float64) float64 {
	if x > 20 {
		return x
	}
	return math.Log1p(math.Exp(x))
}
