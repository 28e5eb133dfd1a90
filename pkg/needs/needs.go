// Package needs holds the normalized satisfaction record that house
// furniture and activities restore.
package needs

import (
	"math"
	"slices"
)

// Need names one axis of an occupant's needs record.
type Need string

const (
	Hunger Need = "hunger"
	Sleep  Need = "sleep"
	Fun    Need = "fun"
	Social Need = "social"
)

// All lists the tracked needs in display order.
var All = []Need{Hunger, Sleep, Fun, Social}

// Tracked reports whether need is one of All.
func Tracked(need Need) bool {
	return slices.Contains(All, need)
}

// Needs maps each need to a satisfaction level in [0.0, 1.0].
// A missing key reads as 0.
type Needs map[Need]float64

// New returns a record with every tracked need set to v.
func New(v float64) Needs {
	n := make(Needs, len(All))
	for _, need := range All {
		n[need] = clamp(v)
	}
	return n
}

// Full returns a fully satisfied record.
func Full() Needs {
	return New(1.0)
}

// Effect is a nominal increment applied to one need.
type Effect struct {
	Need   Need    `json:"need"`
	Amount float64 `json:"amount"`
}

// Gain is the increase actually applied after clamping.
type Gain struct {
	Need   Need    `json:"need"`
	Amount float64 `json:"amount"`
}

// Get returns the current value of need.
func (n Needs) Get(need Need) float64 {
	return n[need]
}

// Add raises need by amount, clamped to [0, 1], and returns the applied
// increase. Negative amounts are ignored: restoration never lowers a need.
func (n Needs) Add(need Need, amount float64) float64 {
	old := clamp(n[need])
	if amount <= 0 {
		n[need] = old
		return 0
	}
	updated := math.Min(1.0, old+amount)
	n[need] = updated
	return updated - old
}

// Apply adds every effect in order and reports the gains in the same order.
func (n Needs) Apply(effects []Effect) []Gain {
	gains := make([]Gain, 0, len(effects))
	for _, e := range effects {
		gains = append(gains, Gain{Need: e.Need, Amount: n.Add(e.Need, e.Amount)})
	}
	return gains
}

// Lowest returns the least satisfied tracked need. Ties resolve in All order.
func (n Needs) Lowest() (Need, float64) {
	lowest := All[0]
	value := n.Get(lowest)
	for _, need := range All[1:] {
		if v := n.Get(need); v < value {
			lowest, value = need, v
		}
	}
	return lowest, value
}

// AnyBelow reports whether any need present in the record is below threshold.
func (n Needs) AnyBelow(threshold float64) bool {
	for _, v := range n {
		if v < threshold {
			return true
		}
	}
	return false
}

// AllAbove reports whether every need present in the record is above threshold.
func (n Needs) AllAbove(threshold float64) bool {
	for _, v := range n {
		if v <= threshold {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (n Needs) Clone() Needs {
	out := make(Needs, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// Percent renders a gain as a whole percentage for player-facing messages.
func Percent(amount float64) int {
	return int(math.Round(amount * 100))
}

// Clamp limits v to the closed interval [0, 1].
func Clamp(v float64) float64 {
	return clamp(v)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
