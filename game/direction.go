package game

// Direction is an absolute heading. The constants are declared clockwise so
// that turning is index arithmetic modulo 4.
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up

	numDirections = 4
)

// ToPoint converts a Direction into a unit displacement.
func (d Direction) ToPoint() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Right:
		return Point{X: 1, Y: 0}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	default:
		return Point{}
	}
}

// TurnRight returns the heading after a clockwise quarter turn.
func (d Direction) TurnRight() Direction {
	return (d + 1) % numDirections
}

// TurnLeft returns the heading after a counter-clockwise quarter turn.
func (d Direction) TurnLeft() Direction {
	return (d + numDirections - 1) % numDirections
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// Action is a move relative to the current heading.
type Action int

const (
	Straight Action = iota
	TurnRight
	TurnLeft

	// NumActions is the size of the action space.
	NumActions = 3
)

// Apply returns the heading that results from taking a in direction d.
func (a Action) Apply(d Direction) Direction {
	switch a {
	case TurnRight:
		return d.TurnRight()
	case TurnLeft:
		return d.TurnLeft()
	default:
		return d
	}
}

// OneHot encodes a as [straight, right, left].
func (a Action) OneHot() [NumActions]float64 {
	var v [NumActions]float64
	if a >= 0 && a < NumActions {
		v[a] = 1
	}
	return v
}

// ActionFromOneHot returns the action whose slot holds the largest value.
// Ties resolve to the lowest index.
func ActionFromOneHot(v []float64) Action {
	best := 0
	for i := 1; i < len(v) && i < NumActions; i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return Action(best)
}

func (a Action) String() string {
	switch a {
	case Straight:
		return "straight"
	case TurnRight:
		return "right"
	case TurnLeft:
		return "left"
	default:
		return "unknown"
	}
}
