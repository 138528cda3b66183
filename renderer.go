package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"snake-ai/config"
	"snake-ai/game"
	"snake-ai/training"
)

const (
	graphHeight = 120
	innerInset  = 4
)

var (
	snakeOuter = rl.NewColor(0, 0, 255, 255)
	snakeInner = rl.NewColor(0, 100, 255, 255)
	foodColor  = rl.NewColor(200, 0, 0, 255)
)

// Renderer draws the board in a raylib window, with the score history of the
// running session underneath.
type Renderer struct {
	boardWidth  int32
	boardHeight int32
	session     *training.Session
}

// NewRenderer opens the window. Speed is the tick rate, so it doubles as the
// target FPS.
func NewRenderer(w config.Window) *Renderer {
	r := &Renderer{
		boardWidth:  int32(w.Width),
		boardHeight: int32(w.Height),
	}
	rl.InitWindow(r.boardWidth, r.boardHeight+graphHeight, "Snake AI - Deep Q-Learning")
	if w.Speed > 0 {
		rl.SetTargetFPS(int32(w.Speed))
	}
	return r
}

// Follow makes the history panel track s.
func (r *Renderer) Follow(s *training.Session) { r.session = s }

func (r *Renderer) Close() { rl.CloseWindow() }

func (r *Renderer) QuitRequested() bool {
	return rl.WindowShouldClose() || rl.IsKeyPressed(rl.KeyQ)
}

func (r *Renderer) Draw(snap game.Snapshot) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	for _, p := range snap.Snake {
		x, y := int32(p.X), int32(p.Y)
		rl.DrawRectangle(x, y, game.BlockSize, game.BlockSize, snakeOuter)
		rl.DrawRectangle(x+innerInset, y+innerInset, game.BlockSize-2*innerInset, game.BlockSize-2*innerInset, snakeInner)
	}
	rl.DrawRectangle(int32(snap.Food.X), int32(snap.Food.Y), game.BlockSize, game.BlockSize, foodColor)

	rl.DrawText(fmt.Sprintf("Score: %d", snap.Score), 4, 4, 25, rl.White)

	r.drawHistory()

	rl.EndDrawing()
}

// drawHistory plots one bar per finished game and the running mean as a line.
func (r *Renderer) drawHistory() {
	top := r.boardHeight
	rl.DrawRectangle(0, top, r.boardWidth, graphHeight, rl.DarkGray)
	if r.session == nil || len(r.session.Scores) == 0 {
		return
	}

	scores := r.session.Scores
	means := r.session.MeanScores
	fontSize := int32(16)

	rl.DrawText(fmt.Sprintf("Games: %d", r.session.Games), 6, top+4, fontSize, rl.White)
	rl.DrawText(fmt.Sprintf("Record: %d", r.session.Record), 140, top+4, fontSize, rl.Green)
	rl.DrawText(fmt.Sprintf("Mean: %.2f", r.session.Mean()), 280, top+4, fontSize, rl.Purple)

	maxScore := 1
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	// Only the most recent games that fit one per pixel column pair.
	visible := int(r.boardWidth / 2)
	if len(scores) > visible {
		offset := len(scores) - visible
		scores = scores[offset:]
		means = means[offset:]
	}

	plotTop := float32(top + fontSize + 8)
	plotHeight := float32(graphHeight) - float32(fontSize) - 12
	bottom := plotTop + plotHeight
	scaleY := plotHeight / float32(maxScore)
	spacing := float32(r.boardWidth) / float32(len(scores))
	barWidth := spacing - 1
	if barWidth < 1 {
		barWidth = 1
	}

	for i, s := range scores {
		x := float32(i) * spacing
		y := bottom - float32(s)*scaleY
		rl.DrawRectangle(int32(x), int32(y), int32(barWidth), int32(bottom-y), rl.Color{R: 0, G: 180, B: 0, A: 180})

		if i < len(means)-1 {
			rl.DrawLine(
				int32(x+barWidth/2), int32(bottom-float32(means[i])*scaleY),
				int32(x+spacing+barWidth/2), int32(bottom-float32(means[i+1])*scaleY),
				rl.Purple)
		}
	}
}
