package eval

import (
	"fmt"
	"math/rand"

	"github.com/baldhumanity/neat-go/neat"
	"github.com/baldhumanity/neat-go/neat/nn"
)

var _ Game = (*XorGame)(nil)

// XorGame feeds random bits to the first Pins sensors and expects the first
// output to be above 0.5 exactly when an odd number of bits is set.
type XorGame struct {
	Pins   int
	Rounds int

	rng     *rand.Rand
	sensors []uint64
	output  uint64
	last    nn.DataPkt
	round   int
	correct bool
}

// NewXorGame creates an XOR gate with pins inputs, evaluated for rounds ticks.
// A nil rng uses a fixed seed.
func NewXorGame(pins, rounds int, rng *rand.Rand) (*XorGame, error) {
	if pins < 2 {
		return nil, fmt.Errorf("xor game needs at least 2 pins, got %d", pins)
	}
	if rounds < 1 {
		return nil, fmt.Errorf("xor game needs at least 1 round, got %d", rounds)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &XorGame{Pins: pins, Rounds: rounds, rng: rng}, nil
}

// Initialize binds the game to g's sensors and first output and resets the
// round counter.
func (x *XorGame) Initialize(g *neat.Genotype) error {
	sensors := g.SensorIDs()
	if len(sensors) < x.Pins {
		return fmt.Errorf("genotype %s has %d sensors, xor game needs %d", g.ID, len(sensors), x.Pins)
	}
	outputs := g.OutputIDs()
	if len(outputs) == 0 {
		return fmt.Errorf("genotype %s has no output node", g.ID)
	}
	x.sensors = sensors
	x.output = outputs[0]
	x.round = 0
	x.correct = false
	return nil
}

// Collect draws one random bit per pin. Sensors beyond Pins read 0.
func (x *XorGame) Collect() (nn.DataPkt, error) {
	pkt := make(nn.DataPkt, len(x.sensors))
	for i, id := range x.sensors {
		v := 0.0
		if i < x.Pins && x.rng.Intn(100) >= 50 {
			v = 1
		}
		pkt[id] = v
	}
	x.last = pkt
	return pkt, nil
}

// Actuate checks the output against the parity of the last inputs.
func (x *XorGame) Actuate(out nn.DataPkt) (bool, error) {
	v, ok := out[x.output]
	if !ok {
		return false, fmt.Errorf("output node %d: %w", x.output, ErrNoOutput)
	}
	ones := 0
	for _, id := range x.sensors[:x.Pins] {
		if x.last[id] > 0.5 {
			ones++
		}
	}
	x.correct = (v > 0.5) == (ones%2 == 1)
	x.round++
	return x.round < x.Rounds, nil
}

// UpdateScore adds one point for a correct answer.
func (x *XorGame) UpdateScore(old float64) float64 {
	if x.correct {
		return old + 1
	}
	return old
}
