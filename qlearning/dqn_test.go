package qlearning

import (
	"encoding/gob"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gorgonia.org/tensor"
)

func newTestDQN(seed uint64) *DQN {
	return NewDQN(rand.New(rand.NewSource(seed)))
}

// testState encodes i+1 in binary over the features, so distinct i give
// distinct, never all-zero states.
func testState(i int) []float64 {
	s := make([]float64, InputFeatures)
	for j := range s {
		if (i+1)>>j&1 == 1 {
			s[j] = 1
		}
	}
	return s
}

func TestDQN_ForwardShape(t *testing.T) {
	dqn := newTestDQN(1)

	out, err := dqn.Predict(testState(0))
	require.NoError(t, err)
	assert.Len(t, out, OutputActions)

	batch := append(testState(0), testState(1)...)
	batch = append(batch, testState(2)...)
	out, err = dqn.Forward(batch)
	require.NoError(t, err)
	assert.Len(t, out, 3*OutputActions)
}

func TestDQN_BatchMatchesSingle(t *testing.T) {
	dqn := newTestDQN(2)

	a, err := dqn.Predict(testState(0))
	require.NoError(t, err)
	b, err := dqn.Predict(testState(1))
	require.NoError(t, err)

	both, err := dqn.Forward(append(testState(0), testState(1)...))
	require.NoError(t, err)

	assert.InDeltaSlice(t, a, both[:OutputActions], 1e-9)
	assert.InDeltaSlice(t, b, both[OutputActions:], 1e-9)
}

func TestDQN_SameSeedSameWeights(t *testing.T) {
	a, err := newTestDQN(42).Predict(testState(5))
	require.NoError(t, err)
	b, err := newTestDQN(42).Predict(testState(5))
	require.NoError(t, err)
	c, err := newTestDQN(43).Predict(testState(5))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDQN_GlorotBounds(t *testing.T) {
	dqn := newTestDQN(3)
	limit := math.Sqrt(6 / float64(InputFeatures+HiddenLayerSize))

	w1 := dqn.params[0].Data().([]float64)
	assert.Len(t, w1, InputFeatures*HiddenLayerSize)
	for _, w := range w1 {
		assert.LessOrEqual(t, abs(w), limit)
	}
	for _, b := range dqn.params[1].Data().([]float64) {
		assert.Zero(t, b)
	}
}

func TestDQN_ForwardRejectsBadInput(t *testing.T) {
	dqn := newTestDQN(4)

	_, err := dqn.Forward(nil)
	assert.Error(t, err)

	_, err = dqn.Forward(make([]float64, InputFeatures+1))
	assert.Error(t, err)
}

func TestDQN_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model", "model.gob")
	src := newTestDQN(5)
	require.NoError(t, src.Save(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	dst := newTestDQN(6)
	require.NoError(t, dst.Load(path))

	want, err := src.Predict(testState(4))
	require.NoError(t, err)
	got, err := dst.Predict(testState(4))
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1e-12)
}

func TestDQN_LoadMissingFile(t *testing.T) {
	dqn := newTestDQN(7)
	before, err := dqn.Predict(testState(2))
	require.NoError(t, err)

	require.NoError(t, dqn.Load(filepath.Join(t.TempDir(), "nope.gob")))

	after, err := dqn.Predict(testState(2))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDQN_LoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0644))

	assert.Error(t, newTestDQN(8).Load(path))
}

func TestDQN_LoadShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.gob")
	require.NoError(t, newTestDQN(9).Save(good))

	f, err := os.Open(good)
	require.NoError(t, err)
	var weights map[string]*tensor.Dense
	require.NoError(t, gob.NewDecoder(f).Decode(&weights))
	require.NoError(t, f.Close())

	weights["w1"] = tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float64{1, 2, 3, 4}))
	bad := filepath.Join(dir, "bad.gob")
	out, err := os.Create(bad)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(out).Encode(weights))
	require.NoError(t, out.Close())

	dqn := newTestDQN(10)
	before, err := dqn.Predict(testState(3))
	require.NoError(t, err)

	assert.Error(t, dqn.Load(bad))

	after, err := dqn.Predict(testState(3))
	require.NoError(t, err)
	assert.Equal(t, before, after, "a rejected checkpoint must not touch the weights")
}
