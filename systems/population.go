package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/tinsel/components"
)

// Population is a fixed-size set of instances of one ornament type. Records,
// accumulators, scratch transforms and the instance buffer are all allocated
// here and indexed by the same instance index for the population's lifetime.
type Population struct {
	Type    components.OrnamentType
	Records []components.PlacementRecord

	accums     []components.Accumulator
	transforms []components.Transform
	buffer     *InstanceBuffer
}

// NewPopulation generates count records for spec. A zero count is a valid
// empty population.
func NewPopulation(count int, spec TypeSpec, rng *rand.Rand) (*Population, error) {
	if count < 0 {
		return nil, fmt.Errorf("population %s: negative count %d", spec.Type, count)
	}
	records := GeneratePlacements(count, spec, rng)
	return &Population{
		Type:       spec.Type,
		Records:    records,
		accums:     make([]components.Accumulator, count),
		transforms: make([]components.Transform, count),
		buffer:     NewInstanceBuffer(count),
	}, nil
}

// Len returns the instance count.
func (p *Population) Len() int {
	return len(p.Records)
}

// EvaluateRange evaluates instances [start, end). Disjoint ranges may run
// concurrently within a tick.
func (p *Population) EvaluateRange(start, end int, ps components.ProgressState, elapsed, dt float32, m MotionConfig) {
	apex := p.Type.IsApex()
	for i := start; i < end; i++ {
		p.transforms[i] = Evaluate(&p.Records[i], &p.accums[i], apex, ps, elapsed, dt, m)
	}
}

// Evaluate runs every instance serially.
func (p *Population) Evaluate(ps components.ProgressState, elapsed, dt float32, m MotionConfig) {
	p.EvaluateRange(0, p.Len(), ps, elapsed, dt, m)
}

// Flush writes this tick's transforms into the instance buffer.
func (p *Population) Flush() bool {
	return p.buffer.Write(p.transforms)
}

// Buffer returns the population's instance buffer.
func (p *Population) Buffer() *InstanceBuffer {
	return p.buffer
}

// Transform returns the last evaluated transform of instance i.
func (p *Population) Transform(i int) components.Transform {
	return p.transforms[i]
}

// Accumulator returns the accumulator of instance i.
func (p *Population) Accumulator(i int) components.Accumulator {
	return p.accums[i]
}
