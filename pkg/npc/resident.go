// Package npc provides a concrete house occupant and the behaviour that
// sends it home, in and out again as its needs rise and fall.
package npc

import (
	"math"

	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/needs"
)

// Resident is a town NPC that can own a house. It implements every occupant
// capability the house manager asks for.
type Resident struct {
	name          string
	pos           house.Point
	target        *house.Point
	state         house.ControlState
	needs         needs.Needs
	energy        float64
	socialBattery float64
}

var (
	_ house.Traveler            = (*Resident)(nil)
	_ house.Visitor             = (*Resident)(nil)
	_ house.Placeable           = (*Resident)(nil)
	_ house.Needy               = (*Resident)(nil)
	_ house.EnergyHolder        = (*Resident)(nil)
	_ house.SocialBatteryHolder = (*Resident)(nil)
)

// NewResident returns an idle, fully rested resident standing at pos.
func NewResident(name string, pos house.Point) *Resident {
	return &Resident{
		name:          name,
		pos:           pos,
		state:         house.StateIdle,
		needs:         needs.Full(),
		energy:        1.0,
		socialBattery: 1.0,
	}
}

func (r *Resident) Name() string                  { return r.name }
func (r *Resident) Position() house.Point         { return r.pos }
func (r *Resident) SetPosition(p house.Point)     { r.pos = p }
func (r *Resident) State() house.ControlState     { return r.state }
func (r *Resident) SetState(s house.ControlState) { r.state = s }
func (r *Resident) Needs() needs.Needs            { return r.needs }
func (r *Resident) Energy() float64               { return r.energy }
func (r *Resident) SocialBattery() float64        { return r.socialBattery }

// SetTarget records where the resident should walk to. Movement itself is
// left to whatever drives the resident around the map.
func (r *Resident) SetTarget(p house.Point) {
	r.target = &p
}

// Target returns the current walk target, if any.
func (r *Resident) Target() (house.Point, bool) {
	if r.target == nil {
		return house.Point{}, false
	}
	return *r.target, true
}

// ClearTarget drops the walk target.
func (r *Resident) ClearTarget() {
	r.target = nil
}

func (r *Resident) SetEnergy(v float64) {
	r.energy = needs.Clamp(v)
}

func (r *Resident) SetSocialBattery(v float64) {
	r.socialBattery = needs.Clamp(v)
}

// Drain lowers every need, energy and the social battery by amount,
// stopping at 0. It models time passing between routine ticks.
func (r *Resident) Drain(amount float64) {
	if amount <= 0 {
		return
	}
	for _, need := range needs.All {
		r.needs[need] = math.Max(0, r.needs[need]-amount)
	}
	r.energy = math.Max(0, r.energy-amount)
	r.socialBattery = math.Max(0, r.socialBattery-amount)
}

// Snapshot is the serialisable view of a resident.
type Snapshot struct {
	Name          string             `json:"name"`
	Position      house.Point        `json:"position"`
	Target        *house.Point       `json:"target,omitempty"`
	State         house.ControlState `json:"state"`
	Needs         needs.Needs        `json:"needs"`
	Energy        float64            `json:"energy"`
	SocialBattery float64            `json:"social_battery"`
}

// Snapshot copies the resident's current state.
func (r *Resident) Snapshot() Snapshot {
	s := Snapshot{
		Name:          r.name,
		Position:      r.pos,
		State:         r.state,
		Needs:         r.needs.Clone(),
		Energy:        r.energy,
		SocialBattery: r.socialBattery,
	}
	if r.target != nil {
		t := *r.target
		s.Target = &t
	}
	return s
}

// FromSnapshot rebuilds a resident. Missing needs are treated as fully
// satisfied and untracked ones are dropped.
func FromSnapshot(s Snapshot) *Resident {
	r := NewResident(s.Name, s.Position)
	if s.State != "" {
		r.state = s.State
	}
	for need, v := range s.Needs {
		if needs.Tracked(need) {
			r.needs[need] = needs.Clamp(v)
		}
	}
	r.energy = needs.Clamp(s.Energy)
	r.socialBattery = needs.Clamp(s.SocialBattery)
	if s.Target != nil {
		r.SetTarget(*s.Target)
	}
	return r
}
