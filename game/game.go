package game

import (
	"golang.org/x/exp/rand"
)

const (
	// BlockSize is the side of one grid cell in pixels.
	BlockSize = 20

	// StagnationFactor bounds an episode to StagnationFactor*len(snake) frames.
	StagnationFactor = 100

	RewardFood      = 10
	RewardCollision = -10

	initialLength = 3
)

type Point struct {
	X, Y int
}

// Add returns p moved by one cell in direction d.
func (p Point) Add(d Direction) Point {
	v := d.ToPoint()
	return Point{X: p.X + v.X*BlockSize, Y: p.Y + v.Y*BlockSize}
}

// Snapshot is a read-only copy of what a display needs to draw one frame.
type Snapshot struct {
	Width     int
	Height    int
	Snake     []Point
	Food      Point
	Direction Direction
	Score     int
	Frame     int
}

// Game is a single-snake environment advanced one tick per Step.
type Game struct {
	width     int
	height    int
	snake     []Point // head at index 0
	direction Direction
	food      Point
	score     int
	frame     int
	rng       *rand.Rand
}

// NewGame creates a game on a width x height pixel board and resets it.
// Both sizes are expected to be multiples of BlockSize.
func NewGame(width, height int, rng *rand.Rand) *Game {
	g := &Game{
		width:  width,
		height: height,
		rng:    rng,
	}
	g.Reset()
	return g
}

// Reset puts the snake back in the middle of the board heading right.
func (g *Game) Reset() {
	g.direction = Right

	head := Point{
		X: (g.width / 2) / BlockSize * BlockSize,
		Y: (g.height / 2) / BlockSize * BlockSize,
	}
	g.snake = make([]Point, 0, initialLength)
	for i := 0; i < initialLength; i++ {
		g.snake = append(g.snake, Point{X: head.X - i*BlockSize, Y: head.Y})
	}

	g.score = 0
	g.frame = 0
	g.placeFood()
}

// Step applies a relative action and advances the game by one tick.
func (g *Game) Step(action Action) (reward int, done bool, score int) {
	// exactly one frame per tick
	g.frame++

	g.direction = action.Apply(g.direction)
	head := g.snake[0].Add(g.direction)
	g.snake = append([]Point{head}, g.snake...)

	if g.IsCollision(head) || g.frame > StagnationFactor*len(g.snake) {
		return RewardCollision, true, g.score
	}

	if head == g.food {
		g.score++
		reward = RewardFood
		g.placeFood()
	} else {
		g.snake = g.snake[:len(g.snake)-1]
	}

	return reward, false, g.score
}

// IsCollision reports whether p is off the board or on the snake's body.
// The head cell itself is never a collision.
func (g *Game) IsCollision(p Point) bool {
	if p.X < 0 || p.X > g.width-BlockSize || p.Y < 0 || p.Y > g.height-BlockSize {
		return true
	}

	for _, part := range g.snake[1:] {
		if p == part {
			return true
		}
	}
	return false
}

func (g *Game) placeFood() {
	cols := g.width / BlockSize
	rows := g.height / BlockSize
	if len(g.snake) >= cols*rows {
		// board is full, nothing left to eat
		return
	}

	for {
		food := Point{
			X: g.rng.Intn(cols) * BlockSize,
			Y: g.rng.Intn(rows) * BlockSize,
		}
		if !g.occupied(food) {
			g.food = food
			return
		}
	}
}

func (g *Game) occupied(p Point) bool {
	for _, part := range g.snake {
		if p == part {
			return true
		}
	}
	return false
}

func (g *Game) Head() Point          { return g.snake[0] }
func (g *Game) Food() Point          { return g.food }
func (g *Game) Direction() Direction { return g.direction }
func (g *Game) Score() int           { return g.score }
func (g *Game) Frame() int           { return g.frame }
func (g *Game) Width() int           { return g.width }
func (g *Game) Height() int          { return g.height }

// Snake returns a copy of the body, head first.
func (g *Game) Snake() []Point {
	body := make([]Point, len(g.snake))
	copy(body, g.snake)
	return body
}

// Snapshot copies the state a renderer needs.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Width:     g.width,
		Height:    g.height,
		Snake:     g.Snake(),
		Food:      g.food,
		Direction: g.direction,
		Score:     g.score,
		Frame:     g.frame,
	}
}
