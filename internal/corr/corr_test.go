package corr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcorr-ml/flowcorr/internal/backend/cpu"
	"github.com/flowcorr-ml/flowcorr/internal/tensor"
)

func testTensor(t *testing.T, shape tensor.Shape, seed int) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	data := raw.AsFloat32()
	for i := range data {
		data[i] = float32((i*31+seed*17)%13-6) / 4
	}
	return raw
}

func TestForward(t *testing.T) {
	backend := cpu.New()
	p, err := NewParams(3, 2, 1, 1, 3, ChannelsFirst)
	require.NoError(t, err)

	a := testTensor(t, tensor.Shape{2, 3, 8, 8}, 1)
	b := testTensor(t, tensor.Shape{2, 3, 8, 8}, 2)

	out, err := Forward(backend, a, b, p)
	require.NoError(t, err)

	want, err := OutputShape(a.Shape(), p)
	require.NoError(t, err)
	assert.Equal(t, want, out.Shape())
	assert.Equal(t, tensor.Float32, out.DType())
}

func TestForwardValidation(t *testing.T) {
	backend := cpu.New()
	p, err := NewParams(3, 1, 1, 1, 2, ChannelsFirst)
	require.NoError(t, err)

	a := testTensor(t, tensor.Shape{1, 2, 6, 6}, 1)

	t.Run("nil input", func(t *testing.T) {
		_, err := Forward(backend, a, nil, p)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		b := testTensor(t, tensor.Shape{1, 2, 6, 7}, 2)
		_, err := Forward(backend, a, b, p)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("rank mismatch", func(t *testing.T) {
		b := testTensor(t, tensor.Shape{2, 6, 6}, 2)
		_, err := Forward(backend, a, b, p)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("dtype mismatch", func(t *testing.T) {
		b, err := tensor.NewRaw(tensor.Shape{1, 2, 6, 6}, tensor.Float64, tensor.CPU)
		require.NoError(t, err)
		_, err = Forward(backend, a, b, p)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("invalid layout", func(t *testing.T) {
		bad := p
		bad.Layout = Layout(9)
		b := testTensor(t, tensor.Shape{1, 2, 6, 6}, 2)
		_, err := Forward(backend, a, b, bad)
		assert.ErrorIs(t, err, ErrInvalidLayout)
	})

	t.Run("degenerate output extent", func(t *testing.T) {
		tiny := testTensor(t, tensor.Shape{1, 2, 3, 3}, 3)
		tinyB := testTensor(t, tensor.Shape{1, 2, 3, 3}, 4)
		noPad, err := NewParams(3, 1, 1, 1, 0, ChannelsFirst)
		require.NoError(t, err)
		_, err = Forward(backend, tiny, tinyB, noPad)
		assert.ErrorIs(t, err, ErrInvalidGeometry)
	})
}

func TestForwardLayoutEquivalence(t *testing.T) {
	// channels_last is a boundary adaptation: permuting the inputs to NHWC
	// and declaring channels_last must give exactly the NHWC permutation of
	// the channels_first result.
	backend := cpu.New()

	first, err := NewParams(3, 1, 1, 1, 2, ChannelsFirst)
	require.NoError(t, err)
	last := first
	last.Layout = ChannelsLast

	a := testTensor(t, tensor.Shape{2, 3, 6, 6}, 5)
	b := testTensor(t, tensor.Shape{2, 3, 6, 6}, 6)

	outFirst, err := Forward(backend, a, b, first)
	require.NoError(t, err)

	aLast := backend.Transpose(a, 0, 2, 3, 1)
	bLast := backend.Transpose(b, 0, 2, 3, 1)
	outLast, err := Forward(backend, aLast, bLast, last)
	require.NoError(t, err)

	assert.Equal(t, outFirst.Shape().Permute([]int{0, 2, 3, 1}), outLast.Shape())
	assert.Equal(t, backend.Transpose(outFirst, 0, 2, 3, 1).AsFloat32(), outLast.AsFloat32())
}

func TestBackward(t *testing.T) {
	backend := cpu.New()
	p, err := NewParams(3, 1, 1, 1, 2, ChannelsFirst)
	require.NoError(t, err)

	a := testTensor(t, tensor.Shape{1, 2, 6, 6}, 1)
	b := testTensor(t, tensor.Shape{1, 2, 6, 6}, 2)

	out, err := Forward(backend, a, b, p)
	require.NoError(t, err)
	grad := testTensor(t, out.Shape(), 3)

	gradA, gradB, err := Backward(backend, a, b, grad, p)
	require.NoError(t, err)

	assert.Equal(t, a.Shape(), gradA.Shape())
	assert.Equal(t, b.Shape(), gradB.Shape())

	// The operator boundary adds validation and layout handling but no
	// arithmetic of its own.
	wantA, wantB := backend.CorrelationBackward(a, b, grad, p.KernelSize, p.MaxDisplacement, p.Stride1, p.Stride2, p.Pad)
	assert.Equal(t, wantA.AsFloat32(), gradA.AsFloat32())
	assert.Equal(t, wantB.AsFloat32(), gradB.AsFloat32())
}

func TestBackwardValidation(t *testing.T) {
	backend := cpu.New()
	p, err := NewParams(3, 1, 1, 1, 2, ChannelsFirst)
	require.NoError(t, err)

	a := testTensor(t, tensor.Shape{1, 2, 6, 6}, 1)
	b := testTensor(t, tensor.Shape{1, 2, 6, 6}, 2)

	t.Run("nil upstream gradient", func(t *testing.T) {
		_, _, err := Backward(backend, a, b, nil, p)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("wrong upstream gradient shape", func(t *testing.T) {
		grad := testTensor(t, tensor.Shape{1, 9, 5, 5}, 3)
		_, _, err := Backward(backend, a, b, grad, p)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("upstream gradient dtype mismatch", func(t *testing.T) {
		out, err := Forward(backend, a, b, p)
		require.NoError(t, err)
		grad, err := tensor.NewRaw(out.Shape(), tensor.Float64, tensor.CPU)
		require.NoError(t, err)
		_, _, err = Backward(backend, a, b, grad, p)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestBackwardChannelsLast(t *testing.T) {
	backend := cpu.New()
	p, err := NewParams(1, 1, 1, 1, 1, ChannelsLast)
	require.NoError(t, err)

	shape := tensor.Shape{1, 5, 5, 2} // NHWC
	a := testTensor(t, shape, 1)
	b := testTensor(t, shape, 2)

	out, err := Forward(backend, a, b, p)
	require.NoError(t, err)
	grad := testTensor(t, out.Shape(), 3)

	gradA, gradB, err := Backward(backend, a, b, grad, p)
	require.NoError(t, err)

	// Gradients come back in the caller's layout.
	assert.Equal(t, shape, gradA.Shape())
	assert.Equal(t, shape, gradB.Shape())

	// And must equal the channels_first gradients permuted to NHWC.
	firstP := p
	firstP.Layout = ChannelsFirst
	aFirst := backend.Transpose(a, 0, 3, 1, 2)
	bFirst := backend.Transpose(b, 0, 3, 1, 2)
	gradFirst := backend.Transpose(grad, 0, 3, 1, 2)
	wantA, wantB, err := Backward(backend, aFirst, bFirst, gradFirst, firstP)
	require.NoError(t, err)

	assert.Equal(t, backend.Transpose(wantA, 0, 2, 3, 1).AsFloat32(), gradA.AsFloat32())
	assert.Equal(t, backend.Transpose(wantB, 0, 2, 3, 1).AsFloat32(), gradB.AsFloat32())
}

func TestForwardDoesNotMutateInputs(t *testing.T) {
	backend := cpu.New()
	p, err := NewParams(1, 1, 1, 1, 1, ChannelsFirst)
	require.NoError(t, err)

	a := testTensor(t, tensor.Shape{1, 2, 4, 4}, 1)
	b := testTensor(t, tensor.Shape{1, 2, 4, 4}, 2)
	aBefore := a.Clone()
	bBefore := b.Clone()

	_, err = Forward(backend, a, b, p)
	require.NoError(t, err)

	assert.Equal(t, aBefore.AsFloat32(), a.AsFloat32())
	assert.Equal(t, bBefore.AsFloat32(), b.AsFloat32())
}
