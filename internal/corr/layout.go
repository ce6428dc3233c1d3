package corr

import (
	"fmt"

	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

// Layout identifies the axis ordering of a caller-supplied tensor.
//
// All core computation runs in the canonical channel-first ordering;
// channel-last tensors are permuted at the operator boundary only, never
// inside the kernels.
type Layout int

// Recognized layouts. These are the only two values the operator accepts.
const (
	ChannelsFirst Layout = iota // [N, C, H, W] (canonical)
	ChannelsLast                // [N, H, W, C]
)

// String returns the layout tag used by the string form of the API.
func (l Layout) String() string {
	switch l {
	case ChannelsFirst:
		return "channels_first"
	case ChannelsLast:
		return "channels_last"
	default:
		return "unknown"
	}
}

func (l Layout) valid() bool {
	return l == ChannelsFirst || l == ChannelsLast
}

// ParseLayout converts a layout tag to a Layout value. Exactly
// "channels_first" and "channels_last" are accepted; anything else fails
// with ErrInvalidLayout.
func ParseLayout(tag string) (Layout, error) {
	switch tag {
	case "channels_first":
		return ChannelsFirst, nil
	case "channels_last":
		return ChannelsLast, nil
	default:
		return 0, fmt.Errorf("%w: %q (want channels_first or channels_last)", ErrInvalidLayout, tag)
	}
}

// Axis permutations between the two orderings.
var (
	axesToChannelFirst = []int{0, 3, 1, 2} // NHWC -> NCHW
	axesToChannelLast  = []int{0, 2, 3, 1} // NCHW -> NHWC
)

// toCanonical returns t in channel-first layout. Channel-first input is
// passed through untouched; channel-last input is permuted via the backend.
func toCanonical(backend tensor.Backend, t *tensor.RawTensor, l Layout) *tensor.RawTensor {
	if l == ChannelsFirst {
		return t
	}
	return backend.Transpose(t, axesToChannelFirst...)
}

// fromCanonical converts a channel-first result back to the caller's
// declared layout.
func fromCanonical(backend tensor.Backend, t *tensor.RawTensor, l Layout) *tensor.RawTensor {
	if l == ChannelsFirst {
		return t
	}
	return backend.Transpose(t, axesToChannelLast...)
}

// canonicalShape reorders a caller-layout shape to channel-first.
func canonicalShape(s tensor.Shape, l Layout) tensor.Shape {
	if l == ChannelsFirst {
		return s.Clone()
	}
	return s.Permute(axesToChannelFirst)
}

// callerShape reorders a channel-first shape to the caller's layout.
func callerShape(s tensor.Shape, l Layout) tensor.Shape {
	if l == ChannelsFirst {
		return s.Clone()
	}
	return s.Permute(axesToChannelLast)
}
