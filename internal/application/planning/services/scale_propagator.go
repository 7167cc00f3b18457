package services

import (
	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
)

// DefaultMaxScalePasses bounds how often UpdateScales is repeated
const DefaultMaxScalePasses = 50

// PropagationResult reports how scale propagation ended
type PropagationResult struct {
	Passes    int
	Converged bool
}

// ScalePropagator repeats top-down scale passes until the graph is stable.
//
// Scales only grow and every adopted increase exceeds planning.ScaleThreshold,
// so the loop terminates on any finite demand. MaxPasses is the safety bound;
// hitting it leaves every node at least as large as after the first pass.
type ScalePropagator struct {
	maxPasses int
	logger    logging.Logger
}

// NewScalePropagator creates a propagator. maxPasses <= 0 uses the default.
func NewScalePropagator(maxPasses int, logger logging.Logger) *ScalePropagator {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxScalePasses
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &ScalePropagator{maxPasses: maxPasses, logger: logger}
}

// MaxPasses returns the pass bound
func (p *ScalePropagator) MaxPasses() int {
	return p.maxPasses
}

// Propagate runs UpdateScales until a pass changes nothing or MaxPasses is reached.
// The final pass that reports no change is counted.
func (p *ScalePropagator) Propagate(graph *planning.ProductionGraph, integerMode bool) PropagationResult {
	for pass := 1; pass <= p.maxPasses; pass++ {
		if !graph.UpdateScales(integerMode) {
			p.logger.Log(logging.LevelDebug, "Scale propagation converged", map[string]interface{}{
				"passes": pass,
				"nodes":  graph.Len(),
			})
			return PropagationResult{Passes: pass, Converged: true}
		}
	}

	p.logger.Log(logging.LevelWarn, "Scale propagation did not converge, scales may be under-propagated", map[string]interface{}{
		"max_passes": p.maxPasses,
		"nodes":      graph.Len(),
	})
	return PropagationResult{Passes: p.maxPasses, Converged: false}
}
