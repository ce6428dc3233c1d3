package cpu

import (
	"github.com/x448/float16"

	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// fromFloat32 converts with IEEE round-to-nearest-even, the same rounding
// the correlation kernels rely on when demoting results.
func fromFloat32(v float32) float16.Float16 {
	return float16.Fromfloat32(v)
}

// promoteFloat16 converts a Float16 tensor to a Float32 tensor.
// The float16 kernels run entirely in float32 and demote at the boundary;
// binary16 has too little headroom to accumulate patch sums directly.
func promoteFloat16(t *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), tensor.Float32, t.Device())
	if err != nil {
		panic(err)
	}
	src := t.AsFloat16()
	dst := result.AsFloat32()
	for i, v := range src {
		dst[i] = v.Float32()
	}
	return result
}

// demoteToFloat16 converts a Float32 tensor back to Float16.
func demoteToFloat16(t *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(t.Shape(), tensor.Float16, t.Device())
	if err != nil {
		panic(err)
	}
	src := t.AsFloat32()
	dst := result.AsFloat16()
	for i, v := range src {
		dst[i] = fromFloat32(v)
	}
	return result
}
