package qlearning

import (
	"math"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

const (
	LearningRate = 0.001
	Gamma        = 0.9
)

// Trainer performs one-step Q-learning updates on a DQN. There is no target
// network: the bootstrap value comes from the model being trained.
type Trainer struct {
	model  *DQN
	gamma  float64
	solver gorgonia.Solver
}

// NewTrainer creates a trainer updating model with Adam.
func NewTrainer(model *DQN, learningRate, gamma float64) *Trainer {
	return &Trainer{
		model:  model,
		gamma:  gamma,
		solver: gorgonia.NewAdamSolver(gorgonia.WithLearnRate(learningRate)),
	}
}

// TrainStep fits the model towards the Q-learning targets of batch with a
// single gradient step on the mean squared error, and returns that error.
// A single transition is a batch of one; an empty batch does nothing.
func (t *Trainer) TrainStep(batch []Transition) (float64, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	n := len(batch)

	states := make([]float64, 0, n*InputFeatures)
	nextStates := make([]float64, 0, n*InputFeatures)
	for i, tr := range batch {
		if len(tr.State) != InputFeatures || len(tr.NextState) != InputFeatures {
			return 0, errors.Errorf("transition %d: state size %d/%d, want %d", i, len(tr.State), len(tr.NextState), InputFeatures)
		}
		if tr.Action < 0 || tr.Action >= OutputActions {
			return 0, errors.Errorf("transition %d: action %d out of range", i, tr.Action)
		}
		states = append(states, tr.State...)
		nextStates = append(nextStates, tr.NextState...)
	}

	pred, err := t.model.Forward(states)
	if err != nil {
		return 0, errors.Wrap(err, "predict current states")
	}
	nextQ, err := t.model.Forward(nextStates)
	if err != nil {
		return 0, errors.Wrap(err, "predict next states")
	}

	target := make([]float64, len(pred))
	copy(target, pred)
	for i, tr := range batch {
		q := tr.Reward
		if !tr.Done {
			q += t.gamma * maxValue(nextQ[i*OutputActions:(i+1)*OutputActions])
		}
		target[i*OutputActions+tr.Action] = q
	}

	return t.step(states, target, n)
}

func (t *Trainer) step(states, target []float64, n int) (float64, error) {
	net, err := t.model.build(n)
	if err != nil {
		return 0, err
	}

	y := gorgonia.NewMatrix(net.g, tensor.Float64,
		gorgonia.WithShape(n, OutputActions),
		gorgonia.WithName("y"))

	diff, err := gorgonia.Sub(net.pred, y)
	if err != nil {
		return 0, errors.Wrap(err, "loss")
	}
	sq, err := gorgonia.Square(diff)
	if err != nil {
		return 0, errors.Wrap(err, "loss")
	}
	cost, err := gorgonia.Mean(sq)
	if err != nil {
		return 0, errors.Wrap(err, "loss")
	}
	if _, err := gorgonia.Grad(cost, net.learn...); err != nil {
		return 0, errors.Wrap(err, "gradient")
	}

	if err := gorgonia.Let(net.x, tensor.New(tensor.WithShape(n, InputFeatures), tensor.WithBacking(states))); err != nil {
		return 0, errors.Wrap(err, "bind states")
	}
	if err := gorgonia.Let(y, tensor.New(tensor.WithShape(n, OutputActions), tensor.WithBacking(target))); err != nil {
		return 0, errors.Wrap(err, "bind targets")
	}

	vm := gorgonia.NewTapeMachine(net.g, gorgonia.BindDualValues(net.learn...))
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return 0, errors.Wrap(err, "backprop")
	}

	loss, ok := cost.Value().Data().(float64)
	if !ok {
		return 0, errors.New("loss is not a float64 scalar")
	}

	if err := t.solver.Step(gorgonia.NodesToValueGrads(net.learn)); err != nil {
		return 0, errors.Wrap(err, "solver step")
	}
	for i, node := range net.learn {
		w, ok := node.Value().(*tensor.Dense)
		if !ok {
			return 0, errors.Errorf("parameter %s lost its dense value", node.Name())
		}
		t.model.params[i] = w
	}

	return loss, nil
}

func maxValue(values []float64) float64 {
	best := math.Inf(-1)
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best
}

func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
