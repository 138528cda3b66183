package game

// StateSize is the length of the feature vector produced by Sense.
const StateSize = 11

// State is the encoded view of a game the agent decides on:
//
//	[0..2]  danger straight, right, left
//	[3..6]  heading left, right, up, down
//	[7..10] food left, right, up, down of the head
type State [StateSize]float64

// Slice returns the state as a freshly allocated slice.
func (s State) Slice() []float64 {
	out := make([]float64, StateSize)
	copy(out, s[:])
	return out
}

// Sense encodes g without modifying it.
func Sense(g *Game) State {
	head := g.Head()
	dir := g.Direction()
	food := g.Food()

	return State{
		boolToFloat(g.IsCollision(head.Add(dir))),
		boolToFloat(g.IsCollision(head.Add(dir.TurnRight()))),
		boolToFloat(g.IsCollision(head.Add(dir.TurnLeft()))),

		boolToFloat(dir == Left),
		boolToFloat(dir == Right),
		boolToFloat(dir == Up),
		boolToFloat(dir == Down),

		boolToFloat(food.X < head.X),
		boolToFloat(food.X > head.X),
		boolToFloat(food.Y < head.Y),
		boolToFloat(food.Y > head.Y),
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
