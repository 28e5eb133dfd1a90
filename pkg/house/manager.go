package house

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/jwebster45206/hearth/pkg/needs"
)

// DefaultEnterRadius is how close an occupant must stand to its house to
// go inside, and how far in front of the house it reappears on exit.
const DefaultEnterRadius = 80.0

// Manager assigns houses to occupants, builds their interiors on demand and
// drives the home/away transitions. It is not safe for concurrent use.
type Manager struct {
	assignments map[string]*Assignment
	order       []string
	interiors   map[string]*Interior
	pool        []PoolEntry
	family      map[string]bool

	rng         *rand.Rand
	logger      *slog.Logger
	enterRadius float64
	width       int
	height      int
}

// Option configures a Manager.
type Option func(*Manager)

// WithPool replaces the default map locations.
func WithPool(pool []PoolEntry) Option {
	return func(m *Manager) {
		m.pool = append([]PoolEntry(nil), pool...)
	}
}

// WithWealthyFamily replaces the set of occupants sharing the mansion.
func WithWealthyFamily(names ...string) Option {
	return func(m *Manager) {
		m.family = make(map[string]bool, len(names))
		for _, n := range names {
			m.family[n] = true
		}
	}
}

// WithRand sets the source used to pick personality variations.
func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithEnterRadius overrides the enter-house distance.
func WithEnterRadius(r float64) Option {
	return func(m *Manager) {
		if r > 0 {
			m.enterRadius = r
		}
	}
}

// WithInteriorSize sets the dimensions interiors are laid out in.
func WithInteriorSize(width, height int) Option {
	return func(m *Manager) {
		if width > 0 && height > 0 {
			m.width, m.height = width, height
		}
	}
}

// NewManager returns a manager over the default world map.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		assignments: make(map[string]*Assignment),
		interiors:   make(map[string]*Interior),
		pool:        DefaultPool(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      slog.Default(),
		enterRadius: DefaultEnterRadius,
		width:       DefaultInteriorWidth,
		height:      DefaultInteriorHeight,
	}
	WithWealthyFamily(DefaultWealthyFamily()...)(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InWealthyFamily reports whether occupant shares the family mansion.
func (m *Manager) InWealthyFamily(occupant string) bool {
	return m.family[occupant]
}

// Assign gives occupant a house. Assigning an occupant twice is a no-op.
// It reports false only when no suitable location is left.
func (m *Manager) Assign(occupant string) bool {
	if _, ok := m.assignments[occupant]; ok {
		return true
	}

	if m.family[occupant] {
		if founder := m.familyMansion(); founder != nil {
			m.add(&Assignment{Occupant: occupant, Location: founder.Location, Type: TypeMansion})
			m.logger.Info("Assigned occupant to family mansion",
				"occupant", occupant, "x", founder.Location.X, "y", founder.Location.Y)
			return true
		}
		if entry, ok := m.take(func(e PoolEntry) bool { return e.Type == TypeMansion }); ok {
			m.add(&Assignment{Occupant: occupant, Location: entry.Location(), Type: TypeMansion})
			m.logger.Info("Assigned mansion to occupant", "occupant", occupant, "x", entry.X, "y", entry.Y)
			return true
		}
	}

	entry, ok := m.take(func(e PoolEntry) bool { return e.Type != TypeMansion })
	if !ok {
		m.logger.Warn("No available houses", "occupant", occupant)
		return false
	}

	// Interior is built lazily on first access.
	m.add(&Assignment{Occupant: occupant, Location: entry.Location(), Type: entry.Type})
	m.logger.Info("Assigned house to occupant", "occupant", occupant, "x", entry.X, "y", entry.Y)
	return true
}

func (m *Manager) familyMansion() *Assignment {
	for _, name := range m.order {
		a := m.assignments[name]
		if m.family[name] && a.Type == TypeMansion {
			return a
		}
	}
	return nil
}

// take removes and returns the first pool entry matching keep.
func (m *Manager) take(keep func(PoolEntry) bool) (PoolEntry, bool) {
	for i, e := range m.pool {
		if keep(e) {
			m.pool = append(m.pool[:i:i], m.pool[i+1:]...)
			return e, true
		}
	}
	return PoolEntry{}, false
}

func (m *Manager) add(a *Assignment) {
	m.assignments[a.Occupant] = a
	m.order = append(m.order, a.Occupant)
}

// Interior returns occupant's interior, building and caching it on first
// access. It reports false if occupant has no house.
func (m *Manager) Interior(occupant string) (*Interior, bool) {
	if _, ok := m.assignments[occupant]; !ok {
		return nil, false
	}
	in, ok := m.interiors[occupant]
	if !ok {
		in = m.buildInterior(occupant)
		m.interiors[occupant] = in
	}
	return in, true
}

// buildInterior furnishes a house for occupant: the mansion for the wealthy
// family, otherwise the resident base set plus one personality variation.
func (m *Manager) buildInterior(occupant string) *Interior {
	in := newInterior(occupant, m.width, m.height)
	if m.family[occupant] {
		in.Items = mansionLayout(m.width, m.height)
	} else {
		in.Items = append(residentLayout(m.width, m.height), pickVariation(m.rng)...)
	}
	m.logger.Debug("Built house interior", "occupant", occupant, "items", len(in.Items))
	return in
}

// Location returns the map position of occupant's house.
func (m *Manager) Location(occupant string) (Point, bool) {
	a, ok := m.assignments[occupant]
	if !ok {
		return Point{}, false
	}
	return a.Location, true
}

// Assignment returns a copy of occupant's assignment.
func (m *Manager) Assignment(occupant string) (Assignment, bool) {
	a, ok := m.assignments[occupant]
	if !ok {
		return Assignment{}, false
	}
	return *a, true
}

// Assignments returns copies of every assignment in assignment order.
func (m *Manager) Assignments() []Assignment {
	out := make([]Assignment, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, *m.assignments[name])
	}
	return out
}

// IsHome reports whether occupant is currently inside its house.
func (m *Manager) IsHome(occupant string) bool {
	a, ok := m.assignments[occupant]
	return ok && a.IsHome
}

// AvailableCount is the number of unassigned locations left in the pool.
func (m *Manager) AvailableCount() int {
	return len(m.pool)
}

// Pool returns a copy of the unassigned locations.
func (m *Manager) Pool() []PoolEntry {
	return append([]PoolEntry(nil), m.pool...)
}

// IsNearHouse reports whether pos is within threshold of occupant's house.
func (m *Manager) IsNearHouse(occupant string, pos Point, threshold float64) bool {
	loc, ok := m.Location(occupant)
	if !ok {
		return false
	}
	return pos.DistanceTo(loc) <= threshold
}

// GoHome points t at its house and marks it traveling home.
func (m *Manager) GoHome(t Traveler) bool {
	a, ok := m.assignments[t.Name()]
	if !ok {
		return false
	}
	t.SetTarget(a.Location)
	t.SetState(StateTravelingHome)
	return true
}

// EnterHouse moves v inside its house if it stands within the enter radius.
func (m *Manager) EnterHouse(v Visitor) bool {
	a, ok := m.assignments[v.Name()]
	if !ok {
		return false
	}
	if v.Position().DistanceTo(a.Location) > m.enterRadius {
		return false
	}
	a.IsHome = true
	v.SetState(StateInside)
	m.logger.Debug("Occupant entered house", "occupant", a.Occupant)
	return true
}

// ExitHouse places p in front of its house. It fails unless p is home.
func (m *Manager) ExitHouse(p Placeable) bool {
	a, ok := m.assignments[p.Name()]
	if !ok || !a.IsHome {
		return false
	}
	p.SetPosition(Point{X: a.Location.X, Y: a.Location.Y + m.enterRadius})
	a.IsHome = false
	p.SetState(StateIdle)
	m.logger.Debug("Occupant exited house", "occupant", a.Occupant)
	return true
}

// RestoreStats performs activity at home and applies its effects to o's
// needs. The message is fixed per activity; on failure the message says why.
func (m *Manager) RestoreStats(o Needy, activity Activity) (string, bool) {
	name := o.Name()
	if !m.IsHome(name) {
		return fmt.Sprintf("%s is not at home.", name), false
	}

	in, ok := m.Interior(name)
	if !ok {
		return fmt.Sprintf("%s doesn't have a house.", name), false
	}

	rule, ok := activityRules[activity]
	if !ok {
		return fmt.Sprintf("Unknown activity: %s", activity), false
	}

	if !in.HasAny(rule.Requires...) {
		return fmt.Sprintf("%s's house doesn't have the required furniture for %s.", name, activity), false
	}

	o.Needs().Apply(rule.Effects)
	for _, e := range rule.Effects {
		m.applySideEffects(o, e.Need, e.Amount)
	}

	return fmt.Sprintf(rule.Message, name), true
}

// applySideEffects mirrors sleep into energy and social gains into the
// social battery for occupants that track them.
func (m *Manager) applySideEffects(o Needy, need needs.Need, amount float64) {
	switch need {
	case needs.Sleep:
		if e, ok := o.(EnergyHolder); ok {
			e.SetEnergy(math.Min(1.0, e.Energy()+amount))
		}
	case needs.Social:
		if s, ok := o.(SocialBatteryHolder); ok {
			s.SetSocialBattery(math.Min(1.0, s.SocialBattery()+amount*0.5))
		}
	}
}

// UseItem has o use the first item of category in its own house.
func (m *Manager) UseItem(o Needy, category string) (Result, bool) {
	name := o.Name()
	in, ok := m.Interior(name)
	if !ok {
		return Result{Category: category, Message: fmt.Sprintf("%s doesn't have a house assigned.", name)}, false
	}
	item, ok := in.FirstOf(category)
	if !ok {
		return Result{Category: category, Message: fmt.Sprintf("No %s found in %s's house.", category, name)}, false
	}
	return in.Interact(item, o.Needs()), true
}

// HouseInfo lists every assignment for display.
func (m *Manager) HouseInfo() []HouseInfo {
	out := make([]HouseInfo, 0, len(m.order))
	for _, name := range m.order {
		a := m.assignments[name]
		_, built := m.interiors[name]
		out = append(out, HouseInfo{
			Occupant: a.Occupant,
			Location: a.Location,
			Type:     a.Type,
			IsHome:   a.IsHome,
			Built:    built,
		})
	}
	return out
}

// Debug writes a human-readable dump of assignments and the pool.
func (m *Manager) Debug(w io.Writer) {
	fmt.Fprintln(w, "=== House Assignments ===")
	for _, name := range m.order {
		a := m.assignments[name]
		status := "away"
		if a.IsHome {
			status = "at home"
		}
		fmt.Fprintf(w, "%s: %s at (%g, %g) - %s\n", name, a.Type, a.Location.X, a.Location.Y, status)
	}
	fmt.Fprintf(w, "Available houses remaining: %d\n", len(m.pool))
	for _, e := range m.pool {
		fmt.Fprintf(w, "  - %s (%d, %d)\n", e.Type, e.X, e.Y)
	}
}
