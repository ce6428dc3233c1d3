package cpu

// corrGeometry carries the derived constants of one correlation call.
//
// border is the margin of padded input the displacement search can touch:
// max_displacement plus the kernel radius. radius is the displacement grid
// radius after stride_2 subsampling; the output channel axis enumerates the
// (2*radius+1)^2 displacement offsets.
type corrGeometry struct {
	kernelRadius int
	border       int
	radius       int
	grid         int
	outChannels  int
	outHeight    int
	outWidth     int
}

func corrGeometryFor(h, w, kernelSize, maxDisplacement, stride1, stride2, pad int) corrGeometry {
	kr := (kernelSize - 1) / 2
	bd := maxDisplacement + kr
	r := maxDisplacement / stride2
	d := 2*r + 1

	return corrGeometry{
		kernelRadius: kr,
		border:       bd,
		radius:       r,
		grid:         d,
		outChannels:  d * d,
		outHeight:    h + 2*floorDiv(pad-bd, stride1),
		outWidth:     w + 2*floorDiv(pad-bd, stride1),
	}
}

// floorDiv divides rounding toward negative infinity. Go's integer division
// truncates toward zero, which disagrees with the output-extent formula when
// pad < border.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
