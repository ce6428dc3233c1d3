package cpu

import (
	"fmt"

	"github.com/x448/float16"

	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// Transpose permutes the tensor's axes and materializes the result in
// row-major order. The layout adapter uses this to move between
// channel-first and channel-last orderings at the operator boundary.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions.
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	result, err := tensor.NewRaw(shape.Permute(axes), t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	switch t.DType() {
	case tensor.Float16:
		transposeSlice[float16.Float16](result.AsFloat16(), t.AsFloat16(), shape, axes)
	case tensor.Float32:
		transposeSlice[float32](result.AsFloat32(), t.AsFloat32(), shape, axes)
	case tensor.Float64:
		transposeSlice[float64](result.AsFloat64(), t.AsFloat64(), shape, axes)
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	return result
}

// transposeSlice moves elements according to the axis permutation.
// A pure data movement: no numeric alteration, so one generic body serves
// every dtype.
func transposeSlice[T any](dst, src []T, shape tensor.Shape, axes []int) {
	ndim := len(shape)
	srcStrides := shape.ComputeStrides()
	dstStrides := shape.Permute(axes).ComputeStrides()

	coords := make([]int, ndim)
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		idx := i
		for dim := 0; dim < ndim; dim++ {
			coords[dim] = idx / srcStrides[dim]
			idx %= srcStrides[dim]
		}

		dstIdx := 0
		for dstDim, srcDim := range axes {
			dstIdx += coords[srcDim] * dstStrides[dstDim]
		}

		dst[dstIdx] = src[i]
	}
}
