package npc

import (
	"math/rand"
	"time"

	"github.com/jwebster45206/hearth/pkg/house"
)

// Routine defaults.
const (
	DefaultCriticalThreshold = 0.3
	DefaultExitThreshold     = 0.7
	DefaultGoHomeChance      = 0.3
	DefaultNearRadius        = 80.0
	DefaultRestoreBelow      = 0.4
)

const (
	msgGoHome = "I should head home to take care of myself."
	msgEnter  = "Home sweet home!"
	msgExit   = "Feeling much better! Time to get back out there."
)

// Action is what a routine tick did for one resident.
type Action string

const (
	ActionNone    Action = "none"
	ActionGoHome  Action = "go_home"
	ActionEnter   Action = "enter"
	ActionExit    Action = "exit"
	ActionRestore Action = "restore"
)

// Outcome reports a single tick. Detail carries the restore message when
// an activity was performed.
type Outcome struct {
	Resident string         `json:"resident"`
	Action   Action         `json:"action"`
	Message  string         `json:"message,omitempty"`
	Activity house.Activity `json:"activity,omitempty"`
	Detail   string         `json:"detail,omitempty"`
}

// Routine decides when a resident heads home, goes inside, recovers and
// leaves again.
type Routine struct {
	Manager *house.Manager
	Rand    *rand.Rand

	CriticalThreshold float64 // a need or energy below this sends the resident home
	ExitThreshold     float64 // every need and energy above this lets it leave
	GoHomeChance      float64 // per-tick probability of acting on a critical need
	NearRadius        float64 // distance at which a traveling resident goes in
	RestoreBelow      float64 // lowest need must be under this to restore
}

// NewRoutine returns a routine with the default thresholds. A nil rng is
// replaced by a time-seeded source.
func NewRoutine(m *house.Manager, rng *rand.Rand) *Routine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Routine{
		Manager:           m,
		Rand:              rng,
		CriticalThreshold: DefaultCriticalThreshold,
		ExitThreshold:     DefaultExitThreshold,
		GoHomeChance:      DefaultGoHomeChance,
		NearRadius:        DefaultNearRadius,
		RestoreBelow:      DefaultRestoreBelow,
	}
}

// Tick advances r by one step of the home routine.
func (rt *Routine) Tick(r *Resident) Outcome {
	switch r.State() {
	case house.StateInside:
		return rt.tickInside(r)
	case house.StateTravelingHome:
		return rt.tickTraveling(r)
	default:
		return rt.tickOutside(r)
	}
}

func (rt *Routine) tickOutside(r *Resident) Outcome {
	out := Outcome{Resident: r.Name(), Action: ActionNone}
	if rt.Manager.IsHome(r.Name()) || !rt.critical(r) {
		return out
	}
	if rt.Rand.Float64() >= rt.GoHomeChance {
		return out
	}
	if rt.Manager.GoHome(r) {
		out.Action = ActionGoHome
		out.Message = msgGoHome
	}
	return out
}

func (rt *Routine) tickTraveling(r *Resident) Outcome {
	out := Outcome{Resident: r.Name(), Action: ActionNone}
	if !rt.Manager.IsNearHouse(r.Name(), r.Position(), rt.NearRadius) {
		return out
	}
	if !rt.Manager.EnterHouse(r) {
		return out
	}
	r.ClearTarget()
	out.Action = ActionEnter
	out.Message = msgEnter
	if activity, detail, ok := rt.restore(r); ok {
		out.Activity = activity
		out.Detail = detail
	}
	return out
}

func (rt *Routine) tickInside(r *Resident) Outcome {
	out := Outcome{Resident: r.Name(), Action: ActionNone}
	if r.Needs().AllAbove(rt.ExitThreshold) && r.Energy() > rt.ExitThreshold {
		if rt.Manager.ExitHouse(r) {
			out.Action = ActionExit
			out.Message = msgExit
		}
		return out
	}
	if activity, detail, ok := rt.restore(r); ok {
		out.Action = ActionRestore
		out.Activity = activity
		out.Detail = detail
	}
	return out
}

func (rt *Routine) critical(r *Resident) bool {
	return r.Needs().AnyBelow(rt.CriticalThreshold) || r.Energy() < rt.CriticalThreshold
}

// restore performs the activity for the resident's lowest need when that
// need is low enough. Low energy with otherwise healthy needs means sleep.
func (rt *Routine) restore(r *Resident) (house.Activity, string, bool) {
	need, value := r.Needs().Lowest()
	activity := house.ActivityForNeed(need)
	if e := r.Energy(); e < value {
		value = e
		activity = house.ActivitySleep
	}
	if value >= rt.RestoreBelow {
		return "", "", false
	}
	activity = rt.furnished(r.Name(), activity)
	msg, ok := rt.Manager.RestoreStats(r, activity)
	if !ok {
		return "", "", false
	}
	return activity, msg, true
}

// furnished returns preferred when the occupant's interior can host it,
// otherwise the first activity the interior does have furniture for. The
// mansion, for one, has a bookshelf but no bed.
func (rt *Routine) furnished(occupant string, preferred house.Activity) house.Activity {
	in, ok := rt.Manager.Interior(occupant)
	if !ok {
		return preferred
	}
	if req, ok := house.ActivityRequirements(preferred); ok && in.HasAny(req...) {
		return preferred
	}
	for _, a := range house.Activities() {
		if req, _ := house.ActivityRequirements(a); in.HasAny(req...) {
			return a
		}
	}
	return preferred
}
