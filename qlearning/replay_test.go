package qlearning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestReplayBuffer_AddBelowCapacity(t *testing.T) {
	b := NewReplayBuffer(4)
	for i := 0; i < 3; i++ {
		b.Add(Transition{Action: i})
	}

	require.Equal(t, 3, b.Len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, i, b.At(i).Action)
	}
}

func TestReplayBuffer_EvictsOldest(t *testing.T) {
	b := NewReplayBuffer(MaxMemory)
	for i := 0; i <= MaxMemory; i++ {
		b.Add(Transition{Reward: float64(i)})
	}

	require.Equal(t, MaxMemory, b.Len())
	assert.Equal(t, 1.0, b.At(0).Reward, "first transition should be gone")
	assert.Equal(t, float64(MaxMemory), b.At(MaxMemory-1).Reward)

	for i := 0; i < b.Len(); i++ {
		assert.NotEqual(t, 0.0, b.At(i).Reward)
	}
}

func TestReplayBuffer_AtOutOfRange(t *testing.T) {
	b := NewReplayBuffer(2)
	b.Add(Transition{})

	assert.Panics(t, func() { b.At(1) })
	assert.Panics(t, func() { b.At(-1) })
}

func TestReplayBuffer_SampleAllWhenSmall(t *testing.T) {
	b := NewReplayBuffer(10)
	for i := 0; i < 5; i++ {
		b.Add(Transition{Action: i})
	}

	batch := b.Sample(rand.New(rand.NewSource(1)), BatchSize)

	require.Len(t, batch, 5)
	for i, tr := range batch {
		assert.Equal(t, i, tr.Action)
	}
}

func TestReplayBuffer_SampleWithoutReplacement(t *testing.T) {
	b := NewReplayBuffer(100)
	for i := 0; i < 250; i++ {
		b.Add(Transition{Reward: float64(i)})
	}

	batch := b.Sample(rand.New(rand.NewSource(3)), 60)

	require.Len(t, batch, 60)
	seen := make(map[float64]bool)
	for _, tr := range batch {
		assert.False(t, seen[tr.Reward], "duplicate sample %v", tr.Reward)
		seen[tr.Reward] = true
		assert.GreaterOrEqual(t, tr.Reward, 150.0, "sampled an evicted transition")
	}
}

func TestReplayBuffer_SampleEmpty(t *testing.T) {
	b := NewReplayBuffer(10)
	assert.Empty(t, b.Sample(rand.New(rand.NewSource(1)), 5))
}
