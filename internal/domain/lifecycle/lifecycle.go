// Package lifecycle implements the match clock state machine: which
// transitions are legal, how the per-second tick behaves, and how
// overtime past the half duration is presented.
package lifecycle

import "fmt"

// State is a match lifecycle state.
type State string

// Lifecycle states. Completed is terminal.
const (
	NotStarted State = "not_started"
	Running    State = "running"
	Paused     State = "paused"
	HalfBreak  State = "half_break"
	Completed  State = "completed"
)

// Action names a requested transition.
type Action string

// Lifecycle actions.
const (
	ActionStart    Action = "start"
	ActionToggle   Action = "toggle"
	ActionNextHalf Action = "next_half"
	ActionEnd      Action = "end"
)

// transition is a single allowed edge in the state machine.
type transition struct {
	from   State
	action Action
	to     State
}

var transitions = []transition{
	{NotStarted, ActionStart, Running},

	{Running, ActionToggle, Paused},
	{Paused, ActionToggle, Running},
	{HalfBreak, ActionToggle, Running},

	{Running, ActionNextHalf, HalfBreak},
	{Paused, ActionNextHalf, HalfBreak},

	{Running, ActionEnd, Completed},
	{Paused, ActionEnd, Completed},
	{HalfBreak, ActionEnd, Completed},
}

// next returns the target state for (from, action), or "" when the edge
// does not exist.
func next(from State, action Action) State {
	for _, t := range transitions {
		if t.from == from && t.action == action {
			return t.to
		}
	}
	return ""
}

// Clock tracks elapsed seconds, the current half, and injury-time accrual.
// Invalid actions are silent no-ops; the reporting boolean is advisory.
type Clock struct {
	state      State
	elapsed    int
	half       int
	injury     int
	halfLength int
	injuryStep int
	capReached bool
}

// NewClock creates a clock in NotStarted with the given half length in
// seconds and injury-time increment.
func NewClock(halfLength, injuryStep int) *Clock {
	return &Clock{
		state:      NotStarted,
		half:       1,
		halfLength: halfLength,
		injuryStep: injuryStep,
	}
}

// State returns the current lifecycle state.
func (c *Clock) State() State { return c.state }

// Elapsed returns elapsed seconds within the current half.
func (c *Clock) Elapsed() int { return c.elapsed }

// Half returns the current half number, starting at 1.
func (c *Clock) Half() int { return c.half }

// Injury returns the accrued injury-time seconds for the current half.
func (c *Clock) Injury() int { return c.injury }

// Start begins the match. Reports whether the transition happened.
func (c *Clock) Start() bool {
	return c.apply(ActionStart)
}

// Toggle flips between running and paused. It is purely a clock gate and
// never touches the ledger.
func (c *Clock) Toggle() bool {
	return c.apply(ActionToggle)
}

// Tick advances the clock by one second. It only moves while running, and
// auto-pauses exactly once per half when elapsed first reaches the half
// length; after that the counter keeps climbing into overtime. Reports
// whether time advanced.
func (c *Clock) Tick() bool {
	if c.state != Running {
		return false
	}
	c.elapsed++
	if !c.capReached && c.elapsed >= c.halfLength {
		c.capReached = true
		c.state = Paused
	}
	return true
}

// NextHalf closes the current half: elapsed and injury accrual reset, the
// half counter advances, and the clock holds in the half break until
// toggled. Reports whether the transition happened.
func (c *Clock) NextHalf() bool {
	if !c.apply(ActionNextHalf) {
		return false
	}
	c.half++
	c.elapsed = 0
	c.injury = 0
	c.capReached = false
	return true
}

// AddInjuryTime accrues one injury-time increment. Informational only;
// the running clock is unaffected.
func (c *Clock) AddInjuryTime() bool {
	switch c.state {
	case NotStarted, Completed:
		return false
	}
	c.injury += c.injuryStep
	return true
}

// End completes the match. Completed is terminal.
func (c *Clock) End() bool {
	return c.apply(ActionEnd)
}

func (c *Clock) apply(action Action) bool {
	to := next(c.state, action)
	if to == "" {
		return false
	}
	c.state = to
	return true
}

// Display renders the clock as "mm:ss", with overtime past the half
// length shown separately as "+mm:ss". The second value is empty while
// inside regulation time.
func (c *Clock) Display() (main, overtime string) {
	shown := c.elapsed
	if shown > c.halfLength {
		shown = c.halfLength
		over := c.elapsed - c.halfLength
		overtime = fmt.Sprintf("+%02d:%02d", over/60, over%60)
	}
	main = fmt.Sprintf("%02d:%02d", shown/60, shown%60)
	return main, overtime
}
