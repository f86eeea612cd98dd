package systems

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/tinsel/components"
	"github.com/pthm-cable/tinsel/config"
)

// ErrNegativeRate is returned when a damping rate would make progress diverge.
var ErrNegativeRate = errors.New("damping rate must be finite and non-negative")

// TransitionConfig holds the direction-dependent damping rates.
type TransitionConfig struct {
	AssembleRate float64 // toward 1; slower so the formation settles deliberately
	DisperseRate float64 // toward 0; faster so scattering reads as a release
}

// TransitionConfigFrom extracts the rates from the scene config.
func TransitionConfigFrom(cfg *config.Config) TransitionConfig {
	return TransitionConfig{
		AssembleRate: cfg.Transition.AssembleRate,
		DisperseRate: cfg.Transition.DisperseRate,
	}
}

// TransitionController owns the single progress scalar shared by every population.
type TransitionController struct {
	cfg    TransitionConfig
	mode   components.TargetMode
	linear float64
	eased  float64
	vel    float64
}

// NewTransitionController creates a controller resting at the initial mode's target.
func NewTransitionController(cfg TransitionConfig, initial components.TargetMode) (*TransitionController, error) {
	if !validRate(cfg.AssembleRate) {
		return nil, fmt.Errorf("assemble rate %v: %w", cfg.AssembleRate, ErrNegativeRate)
	}
	if !validRate(cfg.DisperseRate) {
		return nil, fmt.Errorf("disperse rate %v: %w", cfg.DisperseRate, ErrNegativeRate)
	}
	p := initial.Target()
	return &TransitionController{
		cfg:    cfg,
		mode:   initial,
		linear: p,
		eased:  p,
	}, nil
}

// SetTargetMode changes the direction of travel. Progress is continuous across changes.
func (c *TransitionController) SetTargetMode(mode components.TargetMode) {
	c.mode = mode
}

// Mode returns the current target mode.
func (c *TransitionController) Mode() components.TargetMode {
	return c.mode
}

// Tick advances progress by dt seconds and returns the snapshot for this tick.
// A non-positive dt leaves the state unchanged and reports zero velocity.
func (c *TransitionController) Tick(dt float32) components.ProgressState {
	if !(dt > 0) {
		c.vel = 0
		return c.State()
	}
	step := float64(dt)

	assembling := c.mode == components.ModeAssembled
	rate := c.cfg.DisperseRate
	if assembling {
		rate = c.cfg.AssembleRate
	}
	c.linear = clamp01(Damp(c.linear, c.mode.Target(), rate, step))

	var next float64
	if assembling {
		next = EaseInOutCubic(c.linear)
	} else {
		next = EaseInOutBack(c.linear)
	}

	c.vel = math.Abs(next-c.eased) / step
	c.eased = next
	return c.State()
}

// State returns the current snapshot without advancing.
func (c *TransitionController) State() components.ProgressState {
	return components.ProgressState{
		Linear:          float32(c.linear),
		Eased:           float32(c.eased),
		AngularVelocity: float32(c.vel),
	}
}

func validRate(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r >= 0
}
