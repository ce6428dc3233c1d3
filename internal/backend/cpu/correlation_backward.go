package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/flowcorr-ml/flowcorr/internal/parallel"
	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// CorrelationBackward computes the adjoint of CorrelationForward: given the
// upstream gradient of the cost volume, it distributes gradient mass back
// onto both inputs.
//
// For every (batch, output position, displacement) tuple the forward pass
// enumerated, with upstream gradient g:
//
//	grad_a[n, c, y+py, x+px]            += g * b[n, c, y+dy+py, x+dx+px]
//	grad_b[n, c, y+dy+py, x+dx+px]      += g * a[n, c, y+py, x+px]
//
// (displacements dy, dx pre-scaled by stride_2). Many tuples target the same
// input element, so every write is an accumulation, never an overwrite.
// Contributions whose target falls in the zero-padding margin are dropped:
// the returned gradients have exactly the input shapes and carry no padding
// mass.
//
// Work is partitioned over (batch, channel) pairs. Gradient contributions
// for channel c only ever come from channel-c products, so each worker owns
// a disjoint pair of gradient planes and no synchronization is needed.
func (cpu *CPUBackend) CorrelationBackward(a, b, grad *tensor.RawTensor, kernelSize, maxDisplacement, stride1, stride2, pad int) (*tensor.RawTensor, *tensor.RawTensor) {
	aShape := a.Shape()

	if len(aShape) != 4 {
		panic(fmt.Sprintf("correlation backward: inputs must be 4D [N,C,H,W], got %dD", len(aShape)))
	}
	if !aShape.Equal(b.Shape()) {
		panic(fmt.Sprintf("correlation backward: input shapes must match, got %v vs %v", aShape, b.Shape()))
	}
	if a.DType() != b.DType() || a.DType() != grad.DType() {
		panic(fmt.Sprintf("correlation backward: dtype mismatch: a=%s b=%s grad=%s", a.DType(), b.DType(), grad.DType()))
	}

	n, c, h, w := aShape[0], aShape[1], aShape[2], aShape[3]
	g := corrGeometryFor(h, w, kernelSize, maxDisplacement, stride1, stride2, pad)

	wantGrad := tensor.Shape{n, g.outChannels, g.outHeight, g.outWidth}
	if !grad.Shape().Equal(wantGrad) {
		panic(fmt.Sprintf("correlation backward: upstream gradient shape %v, want %v", grad.Shape(), wantGrad))
	}

	if a.DType() == tensor.Float16 {
		gradA, gradB := cpu.CorrelationBackward(
			promoteFloat16(a), promoteFloat16(b), promoteFloat16(grad),
			kernelSize, maxDisplacement, stride1, stride2, pad,
		)
		return demoteToFloat16(gradA), demoteToFloat16(gradB)
	}

	gradA, err := tensor.NewRaw(aShape.Clone(), a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("correlation backward: failed to create gradient tensor: %v", err))
	}
	gradB, err := tensor.NewRaw(aShape.Clone(), a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("correlation backward: failed to create gradient tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		correlationBackwardFloat32(gradA, gradB, a, b, grad, n, c, h, w, g, stride1, stride2, pad, cpu.par)
	case tensor.Float64:
		correlationBackwardFloat64(gradA, gradB, a, b, grad, n, c, h, w, g, stride1, stride2, pad, cpu.par)
	default:
		panic(fmt.Sprintf("correlation backward: unsupported dtype %s", a.DType()))
	}

	return gradA, gradB
}

// correlationBackwardFloat32 scatter-adds gradient contributions for float32.
//
//nolint:gocognit // index arithmetic over four axes is inherent to the operator
func correlationBackwardFloat32(gradA, gradB, a, b, grad *tensor.RawTensor, n, c, h, w int, g corrGeometry, stride1, stride2, pad int, par parallel.Config) {
	aData := a.AsFloat32()
	bData := b.AsFloat32()
	gradData := grad.AsFloat32()
	gradAData := gradA.AsFloat32()
	gradBData := gradB.AsFloat32()

	kr := g.kernelRadius
	outPlane := g.outHeight * g.outWidth

	parallel.ForBatch(n, c, func(batch, ch int) {
		plane := (batch*c + ch) * h * w
		aPlane := aData[plane : plane+h*w]
		bPlane := bData[plane : plane+h*w]
		gradAPlane := gradAData[plane : plane+h*w]
		gradBPlane := gradBData[plane : plane+h*w]

		gradBatch := gradData[batch*g.outChannels*outPlane : (batch+1)*g.outChannels*outPlane]

		for i := 0; i < g.outHeight; i++ {
			y := i*stride1 + g.border
			for j := 0; j < g.outWidth; j++ {
				x := j*stride1 + g.border

				for dy := -g.radius; dy <= g.radius; dy++ {
					for dx := -g.radius; dx <= g.radius; dx++ {
						tc := (dy+g.radius)*g.grid + (dx + g.radius)
						gv := gradBatch[tc*outPlane+i*g.outWidth+j]
						if gv == 0 {
							continue
						}

						shiftY := dy * stride2
						shiftX := dx * stride2

						for py := -kr; py <= kr; py++ {
							ay := y + py - pad
							by := y + shiftY + py - pad
							if ay < 0 || ay >= h || by < 0 || by >= h {
								continue
							}

							lo, hi := patchSpan(kr, x, shiftX, pad, w)
							for px := lo; px <= hi; px++ {
								ax := ay*w + x + px - pad
								bx := by*w + x + shiftX + px - pad
								gradAPlane[ax] += gv * bPlane[bx]
								gradBPlane[bx] += gv * aPlane[ax]
							}
						}
					}
				}
			}
		}
	}, par)
}

// correlationBackwardFloat64 scatter-adds gradient contributions for float64.
// Clipped patch rows are contiguous, so each row update is a scaled vector
// addition.
//
//nolint:gocognit // index arithmetic over four axes is inherent to the operator
func correlationBackwardFloat64(gradA, gradB, a, b, grad *tensor.RawTensor, n, c, h, w int, g corrGeometry, stride1, stride2, pad int, par parallel.Config) {
	aData := a.AsFloat64()
	bData := b.AsFloat64()
	gradData := grad.AsFloat64()
	gradAData := gradA.AsFloat64()
	gradBData := gradB.AsFloat64()

	kr := g.kernelRadius
	outPlane := g.outHeight * g.outWidth

	parallel.ForBatch(n, c, func(batch, ch int) {
		plane := (batch*c + ch) * h * w
		aPlane := aData[plane : plane+h*w]
		bPlane := bData[plane : plane+h*w]
		gradAPlane := gradAData[plane : plane+h*w]
		gradBPlane := gradBData[plane : plane+h*w]

		gradBatch := gradData[batch*g.outChannels*outPlane : (batch+1)*g.outChannels*outPlane]

		for i := 0; i < g.outHeight; i++ {
			y := i*stride1 + g.border
			for j := 0; j < g.outWidth; j++ {
				x := j*stride1 + g.border

				for dy := -g.radius; dy <= g.radius; dy++ {
					for dx := -g.radius; dx <= g.radius; dx++ {
						tc := (dy+g.radius)*g.grid + (dx + g.radius)
						gv := gradBatch[tc*outPlane+i*g.outWidth+j]
						if gv == 0 {
							continue
						}

						shiftY := dy * stride2
						shiftX := dx * stride2

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
							ax := ay*w + x + lo - pad
							bx := by*w + x + shiftX + lo - pad
							span := hi - lo + 1
							floats.AddScaled(gradAPlane[ax:ax+span], gv, bPlane[bx:bx+span])
							floats.AddScaled(gradBPlane[bx:bx+span], gv, aPlane[ax:ax+span])
						}
					}
				}
			}
		}
	}, par)
}
