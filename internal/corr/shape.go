package corr

import (
	"fmt"

	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// OutputShape computes the cost-volume shape Forward would produce for one
// input of the given shape, expressed in the params' declared layout.
//
// In canonical terms, for input [N, C, H, W]:
//
//	r  = MaxDisplacement / Stride2
//	bd = MaxDisplacement + (KernelSize-1)/2
//	C' = (2r+1)²
//	H' = H + 2*floor((Pad-bd)/Stride1), W' analogous
//
// Fails with ErrShapeMismatch if the input is not 4-D, and with
// ErrInvalidGeometry if the output spatial extents are not strictly
// positive (or the params themselves are invalid).
func OutputShape(input tensor.Shape, p Params) (tensor.Shape, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(input) != 4 {
		return nil, fmt.Errorf("%w: input must be 4-D, got %d axes", ErrShapeMismatch, len(input))
	}

	canonical := canonicalShape(input, p.Layout)
	n, h, w := canonical[tensor.AxisBatch], canonical[tensor.AxisHeight], canonical[tensor.AxisWidth]

	bd := p.border()
	r := p.displacementRadius()
	outChannels := (2*r + 1) * (2*r + 1)
	outHeight := h + 2*floorDiv(p.Pad-bd, p.Stride1)
	outWidth := w + 2*floorDiv(p.Pad-bd, p.Stride1)

	if outHeight <= 0 || outWidth <= 0 {
		return nil, fmt.Errorf("%w: output extent %dx%d not positive (H=%d W=%d kernel=%d max_displacement=%d stride_1=%d pad=%d)",
			ErrInvalidGeometry, outHeight, outWidth, h, w, p.KernelSize, p.MaxDisplacement, p.Stride1, p.Pad)
	}

	return callerShape(tensor.Shape{n, outChannels, outHeight, outWidth}, p.Layout), nil
}

// floorDiv divides rounding toward negative infinity; Pad-bd is negative
// whenever the padding does not cover the search border.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
