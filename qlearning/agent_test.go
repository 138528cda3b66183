package qlearning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"snake-ai/game"
)

func newTestAgent(seed uint64) *Agent {
	dqn := newTestDQN(seed)
	return NewAgent(dqn, NewTrainer(dqn, LearningRate, Gamma), rand.New(rand.NewSource(seed)))
}

func stateOf(v []float64) game.State {
	var s game.State
	copy(s[:], v)
	return s
}

func TestAgent_GreedyWhenEpsilonExhausted(t *testing.T) {
	a := newTestAgent(11)
	a.Games = EpsilonStart
	state := stateOf(testState(1))

	values, err := a.Model().Predict(state.Slice())
	require.NoError(t, err)
	want := game.Action(argmax(values))

	for i := 0; i < 100; i++ {
		got, err := a.GetAction(state)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, a.Epsilon)
}

func TestAgent_EpsilonDecaysWithGames(t *testing.T) {
	a := newTestAgent(1)
	state := stateOf(testState(0))

	_, err := a.GetAction(state)
	require.NoError(t, err)
	assert.Equal(t, EpsilonStart, a.Epsilon)

	for i := 0; i < 100; i++ {
		a.EndGame()
	}
	_, err = a.GetAction(state)
	require.NoError(t, err)
	assert.Equal(t, EpsilonStart-100, a.Epsilon)
}

func TestAgent_ExploresEarly(t *testing.T) {
	a := newTestAgent(5)
	state := stateOf(testState(2))

	seen := make(map[game.Action]bool)
	for i := 0; i < 500; i++ {
		action, err := a.GetAction(state)
		require.NoError(t, err)
		seen[action] = true
	}
	assert.Len(t, seen, game.NumActions, "a fresh agent should try every action")
}

func TestAgent_RememberAndTrain(t *testing.T) {
	a := newTestAgent(2)

	loss, err := a.TrainLongMemory()
	require.NoError(t, err)
	assert.Zero(t, loss)

	for i := 0; i < 20; i++ {
		tr := NewTransition(stateOf(testState(i)), game.TurnLeft, game.RewardFood, stateOf(testState(i + 1)), i == 19)
		a.Remember(tr)
		_, err := a.TrainShortMemory(tr)
		require.NoError(t, err)
	}
	assert.Equal(t, 20, a.Memory().Len())

	_, err = a.TrainLongMemory()
	require.NoError(t, err)
}

func TestNewTransition(t *testing.T) {
	s := stateOf(testState(0))
	next := stateOf(testState(1))

	tr := NewTransition(s, game.TurnRight, game.RewardCollision, next, true)

	assert.Equal(t, s.Slice(), tr.State)
	assert.Equal(t, next.Slice(), tr.NextState)
	assert.Equal(t, int(game.TurnRight), tr.Action)
	assert.Equal(t, -10.0, tr.Reward)
	assert.True(t, tr.Done)
}
