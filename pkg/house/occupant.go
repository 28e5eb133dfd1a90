package house

import (
	"math"

	"github.com/jwebster45206/hearth/pkg/needs"
)

// Point is a position on the world map or inside an interior.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the straight-line distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// ControlState is the occupant's house-related behaviour state.
type ControlState string

const (
	StateIdle          ControlState = "idle"
	StateTravelingHome ControlState = "traveling_home"
	StateInside        ControlState = "inside"
)

// Named is anything the manager can key an assignment by.
type Named interface {
	Name() string
}

// Controllable occupants expose the state the manager drives.
type Controllable interface {
	Named
	SetState(ControlState)
}

// Traveler can be sent home.
type Traveler interface {
	Controllable
	SetTarget(Point)
}

// Visitor reports where it stands, for the enter-house distance check.
type Visitor interface {
	Controllable
	Position() Point
}

// Placeable can be repositioned outside its house on exit.
type Placeable interface {
	Controllable
	SetPosition(Point)
}

// Needy occupants carry a needs record that furniture restores in place.
// Entities without needs do not implement it and cannot interact.
type Needy interface {
	Named
	Needs() needs.Needs
}

// EnergyHolder occupants also track an energy level raised by sleep.
type EnergyHolder interface {
	Energy() float64
	SetEnergy(float64)
}

// SocialBatteryHolder occupants track a social battery raised by social gains.
type SocialBatteryHolder interface {
	SocialBattery() float64
	SetSocialBattery(float64)
}
