// Package training drives an agent against the snake environment.
package training

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"snake-ai/game"
	"snake-ai/qlearning"
	"snake-ai/stats"
)

// Display shows the game and reports when the user asked to stop.
type Display interface {
	Draw(snap game.Snapshot)
	QuitRequested() bool
}

// Headless is a Display that draws nothing and never quits.
type Headless struct{}

func (Headless) Draw(game.Snapshot)  {}
func (Headless) QuitRequested() bool { return false }

// EpisodeSink stores finished episodes.
type EpisodeSink interface {
	SaveEpisode(ctx context.Context, rec stats.EpisodeRecord) (int64, error)
}

// ScorePlotter receives the score curves after a game ends.
type ScorePlotter interface {
	Plot(scores []int, means []float64) error
}

// CheckpointPolicy decides when the model is written to disk.
type CheckpointPolicy struct {
	SaveOnImprovement bool
	Path              string
}

// Loop runs the agent one tick at a time.
type Loop struct {
	env     *game.Game
	agent   *qlearning.Agent
	session *Session
	learn   bool

	display    Display
	sink       EpisodeSink
	plotter    ScorePlotter
	plotEvery  int
	checkpoint CheckpointPolicy
	logger     *log.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithDisplay draws every tick on d. The default is Headless.
func WithDisplay(d Display) Option {
	return func(l *Loop) { l.display = d }
}

// WithEpisodeSink stores every finished episode in s.
func WithEpisodeSink(s EpisodeSink) Option {
	return func(l *Loop) { l.sink = s }
}

// WithPlotter redraws the score plot every n games; n <= 0 disables it.
func WithPlotter(p ScorePlotter, every int) Option {
	return func(l *Loop) {
		l.plotter = p
		l.plotEvery = every
	}
}

// WithCheckpoint sets when the model is saved.
func WithCheckpoint(c CheckpointPolicy) Option {
	return func(l *Loop) { l.checkpoint = c }
}

// WithLogger replaces the default charmbracelet logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithSession continues bookkeeping in s instead of a fresh session.
func WithSession(s *Session) Option {
	return func(l *Loop) { l.session = s }
}

// WithoutLearning plays the current model without updating it or its memory.
func WithoutLearning() Option {
	return func(l *Loop) { l.learn = false }
}

// NewLoop creates a learning loop of agent against env.
func NewLoop(env *game.Game, agent *qlearning.Agent, opts ...Option) *Loop {
	l := &Loop{
		env:     env,
		agent:   agent,
		session: NewSession(),
		learn:   true,
		display: Headless{},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Session returns the bookkeeping of the running session.
func (l *Loop) Session() *Session { return l.session }

// Run plays until ctx is cancelled or the display asks to quit. Neither is
// an error.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("training started", "session", l.session.ID, "learn", l.learn)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopped", "games", l.session.Games, "record", l.session.Record)
			return nil
		default:
		}
		if l.display.QuitRequested() {
			l.logger.Info("quit requested", "games", l.session.Games, "record", l.session.Record)
			return nil
		}

		if err := l.Tick(ctx); err != nil {
			return err
		}
	}
}

// Tick plays a single step and, when it ends the game, closes the episode.
func (l *Loop) Tick(ctx context.Context) error {
	stateOld := game.Sense(l.env)

	action, err := l.agent.GetAction(stateOld)
	if err != nil {
		return errors.Wrap(err, "select action")
	}

	reward, done, score := l.env.Step(action)
	stateNew := game.Sense(l.env)

	if l.learn {
		t := qlearning.NewTransition(stateOld, action, reward, stateNew, done)
		if _, err := l.agent.TrainShortMemory(t); err != nil {
			return err
		}
		l.agent.Remember(t)
	}

	// The final frame of a game is drawn before the board resets.
	l.display.Draw(l.env.Snapshot())
	if !done {
		return nil
	}
	return l.endEpisode(ctx, score)
}

func (l *Loop) endEpisode(ctx context.Context, score int) error {
	frames := l.env.Frame()
	l.env.Reset()
	l.agent.EndGame()

	if l.learn {
		if _, err := l.agent.TrainLongMemory(); err != nil {
			return err
		}
	}

	improved := l.session.AddGame(score)
	if improved && l.learn && l.checkpoint.SaveOnImprovement {
		if err := l.agent.Model().Save(l.checkpoint.Path); err != nil {
			l.logger.Warn("could not save checkpoint", "path", l.checkpoint.Path, "error", err)
		} else {
			l.logger.Debug("checkpoint saved", "path", l.checkpoint.Path, "record", score)
		}
	}

	l.logger.Info("game over",
		"game", l.session.Games,
		"score", score,
		"record", l.session.Record,
		"mean", l.session.Mean(),
	)

	if l.sink != nil {
		rec := stats.EpisodeRecord{
			SessionID: l.session.ID,
			Game:      l.session.Games,
			Score:     score,
			Record:    l.session.Record,
			MeanScore: l.session.Mean(),
			Frames:    frames,
			Epsilon:   l.agent.Epsilon,
			CreatedAt: time.Now(),
		}
		if _, err := l.sink.SaveEpisode(ctx, rec); err != nil {
			l.logger.Warn("could not store episode", "game", rec.Game, "error", err)
		}
	}

	if l.plotter != nil && l.plotEvery > 0 && l.session.Games%l.plotEvery == 0 {
		if err := l.plotter.Plot(l.session.Scores, l.session.MeanScores); err != nil {
			l.logger.Warn("could not plot scores", "error", err)
		}
	}
	return nil
}
