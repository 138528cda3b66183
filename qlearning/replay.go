package qlearning

import (
	"golang.org/x/exp/rand"
)

// Transition is one observed step of the environment.
type Transition struct {
	State     []float64
	Action    int
	Reward    float64
	NextState []float64
	Done      bool
}

// ReplayBuffer is a fixed-capacity ring of transitions. Once full, every Add
// overwrites the oldest entry.
type ReplayBuffer struct {
	buffer   []Transition
	maxSize  int
	position int
	size     int
}

// NewReplayBuffer creates an empty buffer holding up to maxSize transitions.
func NewReplayBuffer(maxSize int) *ReplayBuffer {
	return &ReplayBuffer{
		buffer:  make([]Transition, maxSize),
		maxSize: maxSize,
	}
}

// Add appends t, evicting the oldest transition when the buffer is full.
func (b *ReplayBuffer) Add(t Transition) {
	b.buffer[b.position] = t
	b.position = (b.position + 1) % b.maxSize
	if b.size < b.maxSize {
		b.size++
	}
}

func (b *ReplayBuffer) Len() int { return b.size }

func (b *ReplayBuffer) Cap() int { return b.maxSize }

// At returns the i-th stored transition, 0 being the oldest.
func (b *ReplayBuffer) At(i int) Transition {
	if i < 0 || i >= b.size {
		panic("qlearning: replay index out of range")
	}
	start := 0
	if b.size == b.maxSize {
		start = b.position
	}
	return b.buffer[(start+i)%b.maxSize]
}

// Sample draws up to batchSize distinct transitions uniformly at random.
// When the buffer holds no more than batchSize entries all of them are
// returned, oldest first.
func (b *ReplayBuffer) Sample(rng *rand.Rand, batchSize int) []Transition {
	if batchSize >= b.size {
		batch := make([]Transition, b.size)
		for i := range batch {
			batch[i] = b.At(i)
		}
		return batch
	}

	batch := make([]Transition, batchSize)
	for i, idx := range rng.Perm(b.size)[:batchSize] {
		batch[i] = b.buffer[idx]
	}
	return batch
}
