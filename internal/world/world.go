// Package world owns the process-wide house manager and resident registry
// and serialises access to them.
package world

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/jwebster45206/hearth/internal/logger"
	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/needs"
	"github.com/jwebster45206/hearth/pkg/npc"
)

var (
	ErrResidentExists   = errors.New("resident already exists")
	ErrResidentNotFound = errors.New("resident not found")
	ErrNoHouse          = errors.New("occupant has no house")
	ErrNoVacancy        = errors.New("no available houses")
	ErrTooFar           = errors.New("occupant is too far from its house")
	ErrNotHome          = errors.New("occupant is not at home")
	ErrRestoreFailed    = errors.New("restore failed")
	ErrNoItem           = errors.New("no item there")
	ErrUnknownNeed      = errors.New("unknown need")
)

// World is safe for concurrent use.
type World struct {
	mu        sync.Mutex
	manager   *house.Manager
	residents map[string]*npc.Resident
	order     []string
	routine   *npc.Routine
	logger    *slog.Logger
}

// Options configure a World.
type Options struct {
	Seed        int64 // 0 picks a random seed
	EnterRadius float64
	Logger      *slog.Logger
	HouseOpts   []house.Option
}

// New builds a world over the default map.
func New(opts Options) *World {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	houseOpts := []house.Option{house.WithLogger(log), house.WithRand(rng)}
	if opts.EnterRadius > 0 {
		houseOpts = append(houseOpts, house.WithEnterRadius(opts.EnterRadius))
	}
	houseOpts = append(houseOpts, opts.HouseOpts...)

	m := house.NewManager(houseOpts...)
	routine := npc.NewRoutine(m, rng)
	if opts.EnterRadius > 0 {
		routine.NearRadius = opts.EnterRadius
	}

	return &World{
		manager:   m,
		residents: make(map[string]*npc.Resident),
		routine:   routine,
		logger:    log,
	}
}

// AddResident registers a new resident at pos.
func (w *World) AddResident(name string, pos house.Point) (npc.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.residents[name]; ok {
		return npc.Snapshot{}, fmt.Errorf("%w: %s", ErrResidentExists, name)
	}
	r := npc.NewResident(name, pos)
	if w.manager.IsHome(name) {
		r.SetState(house.StateInside)
	}
	w.residents[name] = r
	w.order = append(w.order, name)
	w.logger.Info("Added resident", "resident", name, "x", pos.X, "y", pos.Y)
	return r.Snapshot(), nil
}

// Resident returns one resident.
func (w *World) Resident(name string) (npc.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.resident(name)
	if err != nil {
		return npc.Snapshot{}, err
	}
	return r.Snapshot(), nil
}

// Residents lists residents in registration order.
func (w *World) Residents() []npc.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]npc.Snapshot, 0, len(w.order))
	for _, name := range w.order {
		out = append(out, w.residents[name].Snapshot())
	}
	return out
}

// ResidentUpdate overwrites parts of a resident. Nil fields are left alone.
type ResidentUpdate struct {
	Position      *house.Point `json:"position,omitempty"`
	Needs         needs.Needs  `json:"needs,omitempty"`
	Energy        *float64     `json:"energy,omitempty"`
	SocialBattery *float64     `json:"social_battery,omitempty"`
}

// UpdateResident applies u to a resident. Movement is driven from outside,
// so this is how a traveling resident arrives at its door.
func (w *World) UpdateResident(name string, u ResidentUpdate) (npc.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.resident(name)
	if err != nil {
		return npc.Snapshot{}, err
	}
	for need := range u.Needs {
		if !needs.Tracked(need) {
			return npc.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownNeed, need)
		}
	}
	if u.Position != nil {
		r.SetPosition(*u.Position)
	}
	for need, v := range u.Needs {
		r.Needs()[need] = needs.Clamp(v)
	}
	if u.Energy != nil {
		r.SetEnergy(*u.Energy)
	}
	if u.SocialBattery != nil {
		r.SetSocialBattery(*u.SocialBattery)
	}
	return r.Snapshot(), nil
}

func (w *World) resident(name string) (*npc.Resident, error) {
	r, ok := w.residents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResidentNotFound, name)
	}
	return r, nil
}

// Assign gives name a house; the occupant need not be a registered resident.
func (w *World) Assign(name string) (house.Assignment, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.manager.Assign(name) {
		return house.Assignment{}, fmt.Errorf("%w for %s", ErrNoVacancy, name)
	}
	a, _ := w.manager.Assignment(name)
	logger.WithOccupant(w.logger, name).Info("House assigned",
		"x", a.Location.X,
		"y", a.Location.Y,
		"wealthy_family", w.manager.InWealthyFamily(name))
	return a, nil
}

// House returns the listing entry for name's house.
func (w *World) House(name string) (house.HouseInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, info := range w.manager.HouseInfo() {
		if info.Occupant == name {
			return info, nil
		}
	}
	return house.HouseInfo{}, fmt.Errorf("%w: %s", ErrNoHouse, name)
}

// Houses lists every assignment.
func (w *World) Houses() []house.HouseInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.manager.HouseInfo()
}

// Available returns the unassigned pool.
func (w *World) Available() []house.PoolEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.manager.Pool()
}

// Interior returns a copy of name's interior, building it if needed.
func (w *World) Interior(name string) (*house.Interior, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	in, ok := w.manager.Interior(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHouse, name)
	}
	return in.Clone(), nil
}

// GoHome sends a resident toward its house.
func (w *World) GoHome(name string) (npc.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.resident(name)
	if err != nil {
		return npc.Snapshot{}, err
	}
	if !w.manager.GoHome(r) {
		return npc.Snapshot{}, fmt.Errorf("%w: %s", ErrNoHouse, name)
	}
	return r.Snapshot(), nil
}

// Enter moves a resident inside if it stands close enough.
func (w *World) Enter(name string) (npc.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.resident(name)
	if err != nil {
		return npc.Snapshot{}, err
	}
	if _, ok := w.manager.Location(name); !ok {
		return npc.Snapshot{}, fmt.Errorf("%w: %s", ErrNoHouse, name)
	}
	if !w.manager.EnterHouse(r) {
		return npc.Snapshot{}, fmt.Errorf("%w: %s", ErrTooFar, name)
	}
	r.ClearTarget()
	return r.Snapshot(), nil
}

// Exit places a resident outside its house.
func (w *World) Exit(name string) (npc.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.resident(name)
	if err != nil {
		return npc.Snapshot{}, err
	}
	if !w.manager.ExitHouse(r) {
		return npc.Snapshot{}, fmt.Errorf("%w: %s", ErrNotHome, name)
	}
	return r.Snapshot(), nil
}

// Restore performs an activity at home and returns its message.
func (w *World) Restore(name string, activity house.Activity) (string, npc.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.resident(name)
	if err != nil {
		return "", npc.Snapshot{}, err
	}
	msg, ok := w.manager.RestoreStats(r, activity)
	if !ok {
		return msg, r.Snapshot(), fmt.Errorf("%w: %s", ErrRestoreFailed, msg)
	}
	return msg, r.Snapshot(), nil
}

// Interact uses the item under (x, y) in the resident's own interior.
// The resident must be inside. A door walks it back out.
func (w *World) Interact(name string, x, y int) (house.Result, npc.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.resident(name)
	if err != nil {
		return house.Result{}, npc.Snapshot{}, err
	}
	if !w.manager.IsHome(name) {
		return house.Result{}, r.Snapshot(), fmt.Errorf("%w: %s", ErrNotHome, name)
	}
	in, _ := w.manager.Interior(name)
	item, ok := in.ItemAt(x, y)
	if !ok {
		return house.Result{}, r.Snapshot(), fmt.Errorf("%w: (%d, %d)", ErrNoItem, x, y)
	}
	result := in.Interact(item, r.Needs())
	if result.Exit {
		w.manager.ExitHouse(r)
	}
	return result, r.Snapshot(), nil
}

// Use interacts with the first item of category in the resident's house.
func (w *World) Use(name, category string) (house.Result, npc.Snapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := w.resident(name)
	if err != nil {
		return house.Result{}, npc.Snapshot{}, err
	}
	if _, ok := w.manager.Location(name); !ok {
		return house.Result{}, r.Snapshot(), fmt.Errorf("%w: %s", ErrNoHouse, name)
	}
	result, ok := w.manager.UseItem(r, category)
	if !ok {
		return result, r.Snapshot(), fmt.Errorf("%w: %s", ErrNoItem, result.Message)
	}
	return result, r.Snapshot(), nil
}

// Tick drains every resident by drain and runs one routine step for each,
// in registration order.
func (w *World) Tick(drain float64) []npc.Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()

	outcomes := make([]npc.Outcome, 0, len(w.order))
	for _, name := range w.order {
		r := w.residents[name]
		r.Drain(drain)
		out := w.routine.Tick(r)
		if out.Action != npc.ActionNone {
			w.logger.Debug("Routine step", "resident", name, "action", out.Action, "activity", out.Activity)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// Save snapshots the house manager.
func (w *World) Save() house.SaveData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.manager.Save()
}

// Load restores the house manager and brings resident states in line with
// the restored is_home flags.
func (w *World) Load(sd house.SaveData) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.manager.Load(sd)
	for _, name := range w.order {
		r := w.residents[name]
		switch {
		case w.manager.IsHome(name):
			r.SetState(house.StateInside)
			r.ClearTarget()
		case r.State() == house.StateInside:
			r.SetState(house.StateIdle)
		}
	}
}

// Debug writes the manager's assignment dump.
func (w *World) Debug(out io.Writer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.manager.Debug(out)
}
