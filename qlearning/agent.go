package qlearning

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"snake-ai/game"
)

const (
	MaxMemory = 100_000
	BatchSize = 1000

	// EpsilonStart is the exploration budget of a fresh agent; it drops by
	// one for every finished game.
	EpsilonStart = 80
	epsilonRange = 200
)

// Agent plays the game with an epsilon-greedy policy over a DQN and learns
// from what it sees, both online and from its replay memory.
type Agent struct {
	// Games counts the finished episodes.
	Games int
	// EpsilonStart is the value epsilon takes before the first game.
	EpsilonStart int
	// Epsilon is the value used by the last GetAction call.
	Epsilon int

	model   *DQN
	trainer *Trainer
	memory  *ReplayBuffer
	rng     *rand.Rand
}

// NewAgent creates an agent with a fresh replay memory and full exploration.
func NewAgent(model *DQN, trainer *Trainer, rng *rand.Rand) *Agent {
	return &Agent{
		EpsilonStart: EpsilonStart,
		Epsilon:      EpsilonStart,
		model:        model,
		trainer:      trainer,
		memory:       NewReplayBuffer(MaxMemory),
		rng:          rng,
	}
}

func (a *Agent) Model() *DQN { return a.model }

func (a *Agent) Memory() *ReplayBuffer { return a.memory }

// GetAction picks a random move with probability max(0, epsilon)/201 and the
// model's best move otherwise.
func (a *Agent) GetAction(state game.State) (game.Action, error) {
	a.Epsilon = a.EpsilonStart - a.Games
	if a.rng.Intn(epsilonRange+1) < a.Epsilon {
		return game.Action(a.rng.Intn(game.NumActions)), nil
	}
	return a.BestAction(state)
}

// BestAction returns the action with the highest predicted value.
// Ties resolve to the lowest index.
func (a *Agent) BestAction(state game.State) (game.Action, error) {
	values, err := a.model.Predict(state.Slice())
	if err != nil {
		return game.Straight, errors.Wrap(err, "predict action values")
	}
	return game.Action(argmax(values)), nil
}

// Remember stores t in the replay memory.
func (a *Agent) Remember(t Transition) {
	a.memory.Add(t)
}

// TrainShortMemory learns from the transition just observed.
func (a *Agent) TrainShortMemory(t Transition) (float64, error) {
	loss, err := a.trainer.TrainStep([]Transition{t})
	if err != nil {
		return 0, errors.Wrap(err, "short memory")
	}
	return loss, nil
}

// TrainLongMemory replays a random batch of at most BatchSize remembered
// transitions.
func (a *Agent) TrainLongMemory() (float64, error) {
	if a.memory.Len() == 0 {
		return 0, nil
	}
	batch := a.memory.Sample(a.rng, BatchSize)
	loss, err := a.trainer.TrainStep(batch)
	if err != nil {
		return 0, errors.Wrap(err, "long memory")
	}
	return loss, nil
}

// EndGame records a finished episode, lowering future exploration.
func (a *Agent) EndGame() {
	a.Games++
}

// NewTransition builds a replay entry from two encoded states.
func NewTransition(state game.State, action game.Action, reward int, next game.State, done bool) Transition {
	return Transition{
		State:     state.Slice(),
		Action:    int(action),
		Reward:    float64(reward),
		NextState: next.Slice(),
		Done:      done,
	}
}
