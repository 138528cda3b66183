package qlearning

import (
	"encoding/gob"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"snake-ai/game"
)

func init() {
	gob.Register(&tensor.Dense{})
	gob.Register(map[string]*tensor.Dense{})
}

const (
	InputFeatures   = game.StateSize
	HiddenLayerSize = 256
	OutputActions   = game.NumActions
)

var paramNames = [...]string{"w1", "b1", "w2", "b2"}

// DQN is a one-hidden-layer network mapping a state to one value per action.
// Parameters live outside any expression graph; every pass builds a fresh
// graph around them so the batch size can change between calls.
type DQN struct {
	params [len(paramNames)]*tensor.Dense
}

// NewDQN creates a network with Glorot-uniform weights drawn from rng and
// zero biases, so equal seeds give equal networks.
func NewDQN(rng *rand.Rand) *DQN {
	shapes := paramShapes()
	dqn := &DQN{}
	for i, s := range shapes {
		var backing []float64
		if i%2 == 0 {
			backing = glorotUniform(rng, s[0], s[1])
		} else {
			backing = gorgonia.Zeroes()(tensor.Float64, s...).([]float64)
		}
		dqn.params[i] = tensor.New(tensor.WithShape(s...), tensor.WithBacking(backing))
	}
	return dqn
}

// glorotUniform samples a fanIn x fanOut matrix from U(-l, l) with
// l = sqrt(6 / (fanIn + fanOut)).
func glorotUniform(rng *rand.Rand, fanIn, fanOut int) []float64 {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	w := make([]float64, fanIn*fanOut)
	for i := range w {
		w[i] = (rng.Float64()*2 - 1) * limit
	}
	return w
}

func paramShapes() [len(paramNames)]tensor.Shape {
	return [...]tensor.Shape{
		{InputFeatures, HiddenLayerSize},
		{1, HiddenLayerSize},
		{HiddenLayerSize, OutputActions},
		{1, OutputActions},
	}
}

// net is one expression graph built around the DQN parameters.
type net struct {
	g     *gorgonia.ExprGraph
	x     *gorgonia.Node
	learn gorgonia.Nodes
	pred  *gorgonia.Node
}

func (dqn *DQN) build(batch int) (*net, error) {
	g := gorgonia.NewGraph()
	x := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(batch, InputFeatures),
		gorgonia.WithName("x"))

	learn := make(gorgonia.Nodes, len(paramNames))
	for i, name := range paramNames {
		learn[i] = gorgonia.NewMatrix(g, tensor.Float64,
			gorgonia.WithShape(dqn.params[i].Shape()...),
			gorgonia.WithName(name),
			gorgonia.WithValue(dqn.params[i]))
	}
	w1, b1, w2, b2 := learn[0], learn[1], learn[2], learn[3]

	h, err := gorgonia.Mul(x, w1)
	if err != nil {
		return nil, errors.Wrap(err, "hidden layer")
	}
	if h, err = gorgonia.BroadcastAdd(h, b1, nil, []byte{0}); err != nil {
		return nil, errors.Wrap(err, "hidden bias")
	}
	if h, err = gorgonia.Rectify(h); err != nil {
		return nil, errors.Wrap(err, "hidden activation")
	}

	out, err := gorgonia.Mul(h, w2)
	if err != nil {
		return nil, errors.Wrap(err, "output layer")
	}
	if out, err = gorgonia.BroadcastAdd(out, b2, nil, []byte{0}); err != nil {
		return nil, errors.Wrap(err, "output bias")
	}

	return &net{g: g, x: x, learn: learn, pred: out}, nil
}

// Forward runs a batch of states (len = N*InputFeatures) through the network
// and returns N*OutputActions action values, row-major.
func (dqn *DQN) Forward(states []float64) ([]float64, error) {
	if len(states) == 0 || len(states)%InputFeatures != 0 {
		return nil, errors.Errorf("forward: got %d inputs, want a multiple of %d", len(states), InputFeatures)
	}
	batch := len(states) / InputFeatures

	n, err := dqn.build(batch)
	if err != nil {
		return nil, err
	}

	input := make([]float64, len(states))
	copy(input, states)
	if err := gorgonia.Let(n.x, tensor.New(tensor.WithShape(batch, InputFeatures), tensor.WithBacking(input))); err != nil {
		return nil, errors.Wrap(err, "forward: bind input")
	}

	vm := gorgonia.NewTapeMachine(n.g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return nil, errors.Wrap(err, "forward pass")
	}

	return readValues(n.pred, batch*OutputActions)
}

// Predict returns the action values of a single state.
func (dqn *DQN) Predict(state []float64) ([]float64, error) {
	return dqn.Forward(state)
}

func readValues(n *gorgonia.Node, size int) ([]float64, error) {
	v := n.Value()
	if v == nil {
		return nil, errors.Errorf("nil value for node %s", n.Name())
	}
	data, ok := v.Data().([]float64)
	if !ok || len(data) != size {
		return nil, errors.Errorf("unexpected value for node %s", n.Name())
	}
	out := make([]float64, size)
	copy(out, data)
	return out, nil
}

// Save writes the network parameters to filename, creating its directory.
func (dqn *DQN) Save(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "failed to create checkpoint directory")
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create weights file")
	}
	defer f.Close()

	weights := make(map[string]*tensor.Dense, len(paramNames))
	for i, name := range paramNames {
		weights[name] = dqn.params[i]
	}
	if err := gob.NewEncoder(f).Encode(weights); err != nil {
		return errors.Wrap(err, "failed to encode weights")
	}
	return nil
}

// Load replaces the network parameters with the ones stored in filename.
// A missing file leaves the network untouched.
func (dqn *DQN) Load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to open weights file")
	}
	defer f.Close()

	var weights map[string]*tensor.Dense
	if err := gob.NewDecoder(f).Decode(&weights); err != nil {
		return errors.Wrap(err, "failed to decode weights")
	}

	shapes := paramShapes()
	loaded := dqn.params
	for i, name := range paramNames {
		w, ok := weights[name]
		if !ok {
			return errors.Errorf("weights file has no %q", name)
		}
		if !w.Shape().Eq(shapes[i]) {
			return errors.Errorf("%s has shape %v, want %v", name, w.Shape(), shapes[i])
		}
		loaded[i] = w
	}
	dqn.params = loaded
	return nil
}
