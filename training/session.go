package training

import (
	"github.com/google/uuid"
)

// Session is the bookkeeping of one training run: how many games were
// played, the best score so far and the curves fed to the plotter.
type Session struct {
	ID         string
	Games      int
	Record     int
	TotalScore int
	Scores     []int
	MeanScores []float64
}

func NewSession() *Session {
	return &Session{
		ID:         uuid.New().String(),
		Scores:     make([]int, 0),
		MeanScores: make([]float64, 0),
	}
}

// AddGame records a finished game and reports whether it beat the record.
func (s *Session) AddGame(score int) bool {
	s.Games++
	s.TotalScore += score
	s.Scores = append(s.Scores, score)
	s.MeanScores = append(s.MeanScores, s.Mean())

	if score > s.Record {
		s.Record = score
		return true
	}
	return false
}

// Mean is the average score over every game of the session.
func (s *Session) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Games)
}
