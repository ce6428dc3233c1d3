package corr

import "fmt"

// Params is the immutable configuration of one correlation call.
//
// A Params value describes the search geometry: the patch side length, the
// displacement search radius in input pixels, the output sampling stride
// over the input (Stride1), the sampling stride over the displacement
// window (Stride2), the symmetric zero padding applied to both inputs, and
// the caller's tensor layout.
//
// Construct values with NewParams; it validates every field once, so the
// rest of the library never re-checks them. Params is a plain value type:
// pass it by value and it cannot be mutated under the operator.
type Params struct {
	KernelSize      int
	MaxDisplacement int
	Stride1         int
	Stride2         int
	Pad             int
	Layout          Layout
}

// NewParams builds a validated Params value.
func NewParams(kernelSize, maxDisplacement, stride1, stride2, pad int, layout Layout) (Params, error) {
	p := Params{
		KernelSize:      kernelSize,
		MaxDisplacement: maxDisplacement,
		Stride1:         stride1,
		Stride2:         stride2,
		Pad:             pad,
		Layout:          layout,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks the parameter combination. Output-extent validation needs
// the input shape and happens in OutputShape.
func (p Params) Validate() error {
	if !p.Layout.valid() {
		return fmt.Errorf("%w: layout %d", ErrInvalidLayout, int(p.Layout))
	}
	if p.KernelSize < 1 || p.KernelSize%2 == 0 {
		return fmt.Errorf("%w: kernel_size must be odd and positive, got %d", ErrInvalidGeometry, p.KernelSize)
	}
	if p.MaxDisplacement < 0 {
		return fmt.Errorf("%w: max_displacement must be non-negative, got %d", ErrInvalidGeometry, p.MaxDisplacement)
	}
	if p.Stride1 < 1 {
		return fmt.Errorf("%w: stride_1 must be positive, got %d", ErrInvalidGeometry, p.Stride1)
	}
	if p.Stride2 < 1 {
		return fmt.Errorf("%w: stride_2 must be positive, got %d", ErrInvalidGeometry, p.Stride2)
	}
	if p.Pad < 0 {
		return fmt.Errorf("%w: pad must be non-negative, got %d", ErrInvalidGeometry, p.Pad)
	}
	return nil
}

// kernelRadius is (KernelSize-1)/2.
func (p Params) kernelRadius() int {
	return (p.KernelSize - 1) / 2
}

// border is the displacement search margin: MaxDisplacement plus the kernel
// radius.
func (p Params) border() int {
	return p.MaxDisplacement + p.kernelRadius()
}

// displacementRadius is the displacement grid radius after Stride2
// subsampling.
func (p Params) displacementRadius() int {
	return p.MaxDisplacement / p.Stride2
}
