package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/flowcorr-ml/flowcorr/internal/parallel"
	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// CorrelationForward computes a correlation cost volume for two feature maps.
//
// Input shapes: [N, C, H, W] (canonical channel-first layout), identical for
// both inputs. Output shape: [N, C', H', W'] where
//
//	r  = max_displacement / stride_2
//	bd = max_displacement + (kernel_size-1)/2
//	C' = (2r+1)^2
//	H' = H + 2*floor((pad-bd)/stride_1), W' analogous
//
// Each output channel tc = (dy+r)*(2r+1) + (dx+r) holds, per spatial
// position, the raw inner product of the kernel_size x kernel_size patch of
// A centered at the anchor with the patch of B displaced by
// (dy*stride_2, dx*stride_2). Anchors step over the pad-extended input with
// stride_1. Positions outside the original tensor extent read as zero, so
// padding never contributes a product. The sum is NOT normalized by patch
// size or channel count.
//
// The operator boundary in internal/corr validates shapes and geometry
// before computation; this kernel treats violations as programmer error.
func (cpu *CPUBackend) CorrelationForward(a, b *tensor.RawTensor, kernelSize, maxDisplacement, stride1, stride2, pad int) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 4 || len(bShape) != 4 {
		panic(fmt.Sprintf("correlation: inputs must be 4D [N,C,H,W], got %dD and %dD", len(aShape), len(bShape)))
	}
	if !aShape.Equal(bShape) {
		panic(fmt.Sprintf("correlation: input shapes must match, got %v vs %v", aShape, bShape))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("correlation: input dtypes must match, got %s vs %s", a.DType(), b.DType()))
	}

	n, c, h, w := aShape[0], aShape[1], aShape[2], aShape[3]
	g := corrGeometryFor(h, w, kernelSize, maxDisplacement, stride1, stride2, pad)
	if g.outHeight <= 0 || g.outWidth <= 0 {
		panic(fmt.Sprintf("correlation: invalid output dimensions: out_h=%d, out_w=%d (check pad/strides)", g.outHeight, g.outWidth))
	}

	if a.DType() == tensor.Float16 {
		// binary16 cannot safely accumulate patch sums; run the float32
		// kernel and demote at the boundary.
		out := cpu.CorrelationForward(promoteFloat16(a), promoteFloat16(b), kernelSize, maxDisplacement, stride1, stride2, pad)
		return demoteToFloat16(out)
	}

	output, err := tensor.NewRaw(tensor.Shape{n, g.outChannels, g.outHeight, g.outWidth}, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("correlation: failed to create output tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		correlationForwardFloat32(output, a, b, n, c, h, w, g, stride1, stride2, pad, cpu.par)
	case tensor.Float64:
		correlationForwardFloat64(output, a, b, n, c, h, w, g, stride1, stride2, pad, cpu.par)
	default:
		panic(fmt.Sprintf("correlation: unsupported dtype %s", a.DType()))
	}

	return output
}

// patchSpan clips the patch column offsets [-kr, kr] so that both the anchor
// column x+px and the displaced column x+shift+px land inside the original
// width after removing the pad offset. Columns outside contribute zero
// products and are skipped entirely.
func patchSpan(kr, x, shift, pad, w int) (lo, hi int) {
	lo = -kr
	if v := pad - x; v > lo {
		lo = v
	}
	if v := pad - x - shift; v > lo {
		lo = v
	}
	hi = kr
	if v := pad - x + w - 1; v < hi {
		hi = v
	}
	if v := pad - x - shift + w - 1; v < hi {
		hi = v
	}
	return lo, hi
}

// correlationForwardFloat32 computes the cost volume for float32.
//
// Parallel across (batch, output row): every output element is written by
// exactly one row worker, so the writes are disjoint.
//
//nolint:gocognit // index arithmetic over four axes is inherent to the operator
func correlationForwardFloat32(output, a, b *tensor.RawTensor, n, c, h, w int, g corrGeometry, stride1, stride2, pad int, par parallel.Config) {
	aData := a.AsFloat32()
	bData := b.AsFloat32()
	outData := output.AsFloat32()

	kr := g.kernelRadius
	outPlane := g.outHeight * g.outWidth

	parallel.For(n*g.outHeight, func(k int) {
		batch := k / g.outHeight
		i := k % g.outHeight
		y := i*stride1 + g.border

		outBatch := outData[batch*g.outChannels*outPlane : (batch+1)*g.outChannels*outPlane]

		for j := 0; j < g.outWidth; j++ {
			x := j*stride1 + g.border

			for dy := -g.radius; dy <= g.radius; dy++ {
				for dx := -g.radius; dx <= g.radius; dx++ {
					shiftY := dy * stride2
					shiftX := dx * stride2

					sum := float32(0)
					for ch := 0; ch < c; ch++ {
						plane := (batch*c + ch) * h * w
						aPlane := aData[plane : plane+h*w]
						bPlane := bData[plane : plane+h*w]

						for py := -kr; py <= kr; py++ {
							ay := y + py - pad
							by := y + shiftY + py - pad
							if ay < 0 || ay >= h || by < 0 || by >= h {
								continue
							}

							lo, hi := patchSpan(kr, x, shiftX, pad, w)
							aRow := aPlane[ay*w : (ay+1)*w]
							bRow := bPlane[by*w : (by+1)*w]
							for px := lo; px <= hi; px++ {
								sum += aRow[x+px-pad] * bRow[x+shiftX+px-pad]
							}
						}
					}

					tc := (dy+g.radius)*g.grid + (dx + g.radius)
					outBatch[tc*outPlane+i*g.outWidth+j] = sum
				}
			}
		}
	}, par)
}

// correlationForwardFloat64 computes the cost volume for float64.
//
// Patch rows are contiguous in memory after span clipping, so the inner
// product over a row pair reduces to a dense dot of two subslices.
//
//nolint:gocognit // index arithmetic over four axes is inherent to the operator
func correlationForwardFloat64(output, a, b *tensor.RawTensor, n, c, h, w int, g corrGeometry, stride1, stride2, pad int, par parallel.Config) {
	aData := a.AsFloat64()
	bData := b.AsFloat64()
	outData := output.AsFloat64()

	kr := g.kernelRadius
	outPlane := g.outHeight * g.outWidth

	parallel.For(n*g.outHeight, func(k int) {
		batch := k / g.outHeight
		i := k % g.outHeight
		y := i*stride1 + g.border

		outBatch := outData[batch*g.outChannels*outPlane : (batch+1)*g.outChannels*outPlane]

		for j := 0; j < g.outWidth; j++ {
			x := j*stride1 + g.border

			for dy := -g.radius; dy <= g.radius; dy++ {
				for dx := -g.radius; dx <= g.radius; dx++ {
					shiftY := dy * stride2
					shiftX := dx * stride2

					sum := 0.0
					for ch := 0; ch < c; ch++ {
						plane := (batch*c + ch) * h * w

						for py := -kr; py <= kr; py++ {
							ay := y + py - pad
							by := y + shiftY + py - pad
							if ay < 0 || ay >= h || by < 0 || by >= h {
								continue
							}

							lo, hi := patchSpan(kr, x, shiftX, pad, w)
							if lo > hi {
								continue
							}
							ax := plane + ay*w + x + lo - pad
							bx := plane + by*w + x + shiftX + lo - pad
							span := hi - lo + 1
							sum += floats.Dot(aData[ax:ax+span], bData[bx:bx+span])
						}
					}

					tc := (dy+g.radius)*g.grid + (dx + g.radius)
					outBatch[tc*outPlane+i*g.outWidth+j] = sum
				}
			}
		}
	}, par)
}
