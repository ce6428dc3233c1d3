package autodiff

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

func TestTapeRecording(t *testing.T) {
	tape := NewGradientTape()
	assert.False(t, tape.IsRecording())

	a := &tensor.RawTensor{}
	op := NewMishOp(a, a)

	tape.Record(op)
	assert.Equal(t, 0, tape.NumOps(), "recorded while stopped")

	tape.StartRecording()
	assert.True(t, tape.IsRecording())
	tape.Record(op)
	assert.Equal(t, 1, tape.NumOps())

	tape.StopRecording()
	tape.Record(op)
	assert.Equal(t, 1, tape.NumOps(), "recorded after stop")

	tape.Clear()
	assert.Equal(t, 0, tape.NumOps())
}

func TestTapeBackwardEmpty(t *testing.T) {
	tape := NewGradientTape()
	grads := tape.Backward(nil, cpu.New())
	assert.Empty(t, grads)
}

func TestCorrelationOpBackwardMatchesKernel(t *testing.T) {
	backend := cpu.New()

	shape := tensor.Shape{1, 2, 5, 5}
	a := testTensor(t, shape, 1)
	b := testTensor(t, shape, 2)

	out := backend.CorrelationForward(a, b, 3, 1, 1, 1, 2)
	grad := testTensor(t, out.Shape(), 3)

	tape := NewGradientTape()
	tape.StartRecording()
	tape.Record(NewCorrelationOp(a, b, out, 3, 1, 1, 1, 2))

	grads := tape.Backward(grad, backend)

	wantA, wantB := backend.CorrelationBackward(a, b, grad, 3, 1, 1, 1, 2)
	require.Contains(t, grads, a)
	require.Contains(t, grads, b)
	assert.Equal(t, wantA.AsFloat32(), grads[a].AsFloat32())
	assert.Equal(t, wantB.AsFloat32(), grads[b].AsFloat32())
}

func TestTapeAccumulatesSharedInput(t *testing.T) {
	// Correlating a tensor with itself: the gradient flowing into it is
	// the sum of the grad_a and grad_b contributions.
	backend := cpu.New()

	shape := tensor.Shape{1, 2, 4, 4}
	a := testTensor(t, shape, 1)

	out := backend.CorrelationForward(a, a, 1, 1, 1, 1, 1)
	grad := testTensor(t, out.Shape(), 2)

	tape := NewGradientTape()
	tape.StartRecording()
	tape.Record(NewCorrelationOp(a, a, out, 1, 1, 1, 1, 1))

	grads := tape.Backward(grad, backend)

	gradA, gradB := backend.CorrelationBackward(a, a, grad, 1, 1, 1, 1, 1)
	want := backend.Add(gradA, gradB)

	require.Contains(t, grads, a)
	assert.Equal(t, want.AsFloat32(), grads[a].AsFloat32())
}

func TestTapeChainsCorrelationAndMish(t *testing.T) {
	// correlation -> mish: upstream gradient is scaled by mish' at the
	// cost volume before the correlation adjoint scatters it back.
	backend := cpu.New()

	shape := tensor.Shape{1, 2, 5, 5}
	a := testTensor(t, shape, 1)
	b := testTensor(t, shape, 2)

	vol := backend.CorrelationForward(a, b, 1, 1, 1, 1, 1)
	act := backend.Mish(vol)
	upstream := testTensor(t, act.Shape(), 3)

	tape := NewGradientTape()
	tape.StartRecording()
	tape.Record(NewCorrelationOp(a, b, vol, 1, 1, 1, 1, 1))
	tape.Record(NewMishOp(vol, act))

	grads := tape.Backward(upstream, backend)

	volGrad := backend.MishBackward(vol, upstream)
	wantA, wantB := backend.CorrelationBackward(a, b, volGrad, 1, 1, 1, 1, 1)

	require.Contains(t, grads, vol)
	require.Contains(t, grads, a)
	require.Contains(t, grads, b)
	assert.Equal(t, volGrad.AsFloat32(), grads[vol].AsFloat32())
	assert.Equal(t, wantA.AsFloat32(), grads[a].AsFloat32())
	assert.Equal(t, wantB.AsFloat32(), grads[b].AsFloat32())
}

func TestTapeSkipsDisconnectedOps(t *testing.T) {
	// An operation whose output receives no gradient contributes nothing.
	backend := cpu.New()

	shape := tensor.Shape{1, 1, 4, 4}
	a := testTensor(t, shape, 1)
	b := testTensor(t, shape, 2)
	orphan := testTensor(t, shape, 3)
	orphanOut := backend.Mish(orphan)

	out := backend.CorrelationForward(a, b, 1, 0, 1, 1, 0)
	grad := testTensor(t, out.Shape(), 4)

	tape := NewGradientTape()
	tape.StartRecording()
	tape.Record(NewMishOp(orphan, orphanOut))
	tape.Record(NewCorrelationOp(a, b, out, 1, 0, 1, 1, 0))

	grads := tape.Backward(grad, backend)

	assert.Contains(t, grads, a)
	assert.Contains(t, grads, b)
	assert.NotContains(t, grads, orphan)
}

func TestTapeBackwardDoesNotRecord(t *testing.T) {
	backend := cpu.New()

	shape := tensor.Shape{1, 1, 4, 4}
	a := testTensor(t, shape, 1)
	out := backend.Mish(a)
	grad := testTensor(t, shape, 2)

	tape := NewGradientTape()
	tape.StartRecording()
	tape.Record(NewMishOp(a, out))

	tape.Backward(grad, backend)

	assert.Equal(t, 1, tape.NumOps())
	assert.True(t, tape.IsRecording(), "recording state not restored")
}
