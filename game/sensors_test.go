package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenseFreshGame(t *testing.T) {
	g := newTestGame(t)
	g.food = Point{X: 0, Y: 0}

	s := Sense(g)

	assert.Equal(t, State{
		0, 0, 0,
		0, 1, 0, 0,
		1, 0, 1, 0,
	}, s)
}

func TestSenseDangers(t *testing.T) {
	g := newTestGame(t)
	// heading up along the left wall with the body curling to the right
	g.snake = []Point{{0, 100}, {20, 100}, {20, 120}, {0, 120}}
	g.direction = Up
	g.food = Point{X: 100, Y: 200}

	s := Sense(g)

	assert.Equal(t, 0.0, s[0], "straight is free")
	assert.Equal(t, 1.0, s[1], "right is the body")
	assert.Equal(t, 1.0, s[2], "left is the wall")
	assert.Equal(t, []float64{0, 0, 1, 0}, s[3:7])
	assert.Equal(t, []float64{0, 1, 0, 1}, s[7:11])
}

func TestSenseDoesNotMutate(t *testing.T) {
	g := newTestGame(t)
	before := g.Snapshot()

	Sense(g)
	Sense(g)

	assert.Equal(t, before, g.Snapshot())
}

func TestStateSlice(t *testing.T) {
	s := State{1, 2, 3}
	out := s.Slice()
	out[0] = 9

	assert.Len(t, out, StateSize)
	assert.Equal(t, 1.0, s[0])
}
