package house

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/jwebster45206/hearth/pkg/needs"
)

type testOccupant struct {
	name   string
	pos    Point
	target *Point
	state  ControlState
	needs  needs.Needs
}

func newTestOccupant(name string) *testOccupant {
	return &testOccupant{name: name, state: StateIdle, needs: needs.New(0.5)}
}

func (o *testOccupant) Name() string            { return o.name }
func (o *testOccupant) Position() Point         { return o.pos }
func (o *testOccupant) SetPosition(p Point)     { o.pos = p }
func (o *testOccupant) SetTarget(p Point)       { o.target = &p }
func (o *testOccupant) SetState(s ControlState) { o.state = s }
func (o *testOccupant) Needs() needs.Needs      { return o.needs }

// energeticOccupant also tracks energy and a social battery.
type energeticOccupant struct {
	*testOccupant
	energy  float64
	battery float64
}

func (o *energeticOccupant) Energy() float64            { return o.energy }
func (o *energeticOccupant) SetEnergy(v float64)        { o.energy = v }
func (o *energeticOccupant) SocialBattery() float64     { return o.battery }
func (o *energeticOccupant) SetSocialBattery(v float64) { o.battery = v }

func newTestManager(opts ...Option) *Manager {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	base := []Option{WithLogger(logger), WithRand(rand.New(rand.NewSource(42)))}
	return NewManager(append(base, opts...)...)
}

func TestManager_AssignIdempotent(t *testing.T) {
	m := newTestManager()

	if !m.Assign("Alice") {
		t.Fatal("first Assign failed")
	}
	loc, _ := m.Location("Alice")
	before := m.AvailableCount()

	if !m.Assign("Alice") {
		t.Fatal("second Assign failed")
	}
	if m.AvailableCount() != before {
		t.Errorf("second Assign consumed pool: %d -> %d", before, m.AvailableCount())
	}
	if again, _ := m.Location("Alice"); again != loc {
		t.Errorf("location changed from %v to %v", loc, again)
	}
	if len(m.Assignments()) != 1 {
		t.Errorf("got %d assignments, want 1", len(m.Assignments()))
	}
}

func TestManager_AssignFIFO(t *testing.T) {
	m := newTestManager()
	names := []string{"Alice", "Bob", "Charlie", "Diana", "Emma", "Frank", "Grace", "Henry", "Ivy"}
	pool := DefaultPool()

	for i, name := range names {
		ok := m.Assign(name)
		if i < 7 {
			if !ok {
				t.Fatalf("Assign(%s) failed with houses left", name)
			}
			loc, _ := m.Location(name)
			if want := pool[i].Location(); loc != want {
				t.Errorf("Assign(%s) got %v, want %v", name, loc, want)
			}
			a, _ := m.Assignment(name)
			if a.Type != TypeHouse {
				t.Errorf("Assign(%s) type = %s, want house", name, a.Type)
			}
		} else if ok {
			t.Errorf("Assign(%s) succeeded after regular houses ran out", name)
		}
	}

	// Only the mansion remains, reserved for the family.
	if m.AvailableCount() != 1 {
		t.Errorf("AvailableCount() = %d, want 1", m.AvailableCount())
	}
	if m.Pool()[0].Type != TypeMansion {
		t.Errorf("remaining entry = %v, want mansion", m.Pool()[0])
	}
}

func TestManager_AssignEmptyPool(t *testing.T) {
	m := newTestManager(WithPool(nil))
	if m.Assign("Alice") {
		t.Error("Assign succeeded with an empty pool")
	}
	if _, ok := m.Assignment("Alice"); ok {
		t.Error("failed Assign created an assignment")
	}
}

func TestManager_WealthyFamilySharesMansion(t *testing.T) {
	m := newTestManager()

	for _, name := range []string{"Kailey", "Steve", "Louie"} {
		if !m.Assign(name) {
			t.Fatalf("Assign(%s) failed", name)
		}
	}

	mansion := Point{X: 1800, Y: 400}
	for _, name := range []string{"Steve", "Kailey", "Louie"} {
		a, _ := m.Assignment(name)
		if a.Location != mansion || a.Type != TypeMansion {
			t.Errorf("%s assigned %v %s, want mansion at %v", name, a.Location, a.Type, mansion)
		}
	}

	// The mansion entry is consumed exactly once.
	if m.AvailableCount() != 7 {
		t.Errorf("AvailableCount() = %d, want 7", m.AvailableCount())
	}
	for _, e := range m.Pool() {
		if e.Type == TypeMansion {
			t.Error("mansion still in pool after founding")
		}
	}
}

func TestManager_FamilyWithoutMansionFallsBack(t *testing.T) {
	m := newTestManager(WithPool([]PoolEntry{{X: 1, Y: 2, Type: TypeHouse}}))
	if !m.Assign("Steve") {
		t.Fatal("Assign(Steve) failed")
	}
	a, _ := m.Assignment("Steve")
	if a.Type != TypeHouse || a.Location != (Point{X: 1, Y: 2}) {
		t.Errorf("Steve got %+v, want the regular house", a)
	}
}

func TestManager_InteriorLazy(t *testing.T) {
	m := newTestManager()
	m.Assign("Alice")

	if info := m.HouseInfo(); info[0].Built {
		t.Error("Assign built an interior")
	}

	in, ok := m.Interior("Alice")
	if !ok || in == nil {
		t.Fatal("Interior(Alice) missing")
	}
	again, _ := m.Interior("Alice")
	if in != again {
		t.Error("Interior not cached")
	}
	if in.Owner != "Alice" {
		t.Errorf("Owner = %q, want Alice", in.Owner)
	}

	base := residentLayout(DefaultInteriorWidth, DefaultInteriorHeight)
	if len(in.Items) != len(base)+2 {
		t.Errorf("resident interior has %d items, want %d", len(in.Items), len(base)+2)
	}
	if !m.HouseInfo()[0].Built {
		t.Error("HouseInfo does not report the built interior")
	}

	if _, ok := m.Interior("Nobody"); ok {
		t.Error("Interior returned a house for an unassigned occupant")
	}
}

func TestManager_InteriorVariationIsSeeded(t *testing.T) {
	categories := func() []string {
		m := newTestManager()
		for _, name := range []string{"A", "B", "C", "D"} {
			m.Assign(name)
		}
		var out []string
		for _, name := range []string{"A", "B", "C", "D"} {
			in, _ := m.Interior(name)
			out = append(out, in.Items[len(in.Items)-1].Category)
		}
		return out
	}

	first, second := categories(), categories()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different variations: %v vs %v", first, second)
		}
	}
}

func TestManager_MansionInterior(t *testing.T) {
	m := newTestManager()
	m.Assign("Steve")
	in, _ := m.Interior("Steve")

	if !in.HasAny("king_bed", "grand_piano") {
		t.Error("mansion interior missing luxury furniture")
	}
	if !in.HasAny(CategoryMansionDoor) {
		t.Error("mansion interior has no door")
	}
}

func TestManager_GoHome(t *testing.T) {
	m := newTestManager()
	o := newTestOccupant("Alice")

	if m.GoHome(o) {
		t.Error("GoHome succeeded without an assignment")
	}
	if o.target != nil || o.state != StateIdle {
		t.Error("failed GoHome changed the occupant")
	}

	m.Assign("Alice")
	if !m.GoHome(o) {
		t.Fatal("GoHome failed")
	}
	if o.target == nil || *o.target != (Point{X: 600, Y: 300}) {
		t.Errorf("target = %v, want house location", o.target)
	}
	if o.state != StateTravelingHome {
		t.Errorf("state = %s, want traveling_home", o.state)
	}
}

func TestManager_EnterHouseDistance(t *testing.T) {
	tests := []struct {
		name string
		pos  Point
		want bool
	}{
		{name: "at the door", pos: Point{X: 600, Y: 300}, want: true},
		{name: "boundary is inclusive", pos: Point{X: 680, Y: 300}, want: true},
		{name: "diagonal inside", pos: Point{X: 648, Y: 364}, want: true},
		{name: "just outside", pos: Point{X: 680.01, Y: 300}, want: false},
		{name: "far away", pos: Point{X: 0, Y: 0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			m.Assign("Alice")
			o := newTestOccupant("Alice")
			o.pos = tt.pos
			o.state = StateTravelingHome

			if got := m.EnterHouse(o); got != tt.want {
				t.Errorf("EnterHouse() = %v, want %v", got, tt.want)
			}
			if m.IsHome("Alice") != tt.want {
				t.Errorf("IsHome = %v, want %v", m.IsHome("Alice"), tt.want)
			}
			wantState := StateTravelingHome
			if tt.want {
				wantState = StateInside
			}
			if o.state != wantState {
				t.Errorf("state = %s, want %s", o.state, wantState)
			}
		})
	}
}

func TestManager_EnterHouseUnassigned(t *testing.T) {
	m := newTestManager()
	if m.EnterHouse(newTestOccupant("Ghost")) {
		t.Error("EnterHouse succeeded without an assignment")
	}
}

func TestManager_ExitHouse(t *testing.T) {
	m := newTestManager()
	m.Assign("Alice")
	o := newTestOccupant("Alice")
	o.pos = Point{X: 600, Y: 300}

	if m.ExitHouse(o) {
		t.Error("ExitHouse succeeded while not home")
	}

	m.EnterHouse(o)
	if !m.ExitHouse(o) {
		t.Fatal("ExitHouse failed")
	}
	if o.pos != (Point{X: 600, Y: 380}) {
		t.Errorf("position = %v, want (600, 380)", o.pos)
	}
	if o.state != StateIdle {
		t.Errorf("state = %s, want idle", o.state)
	}
	if m.IsHome("Alice") {
		t.Error("still home after exit")
	}
}

func TestManager_RestoreStatsCook(t *testing.T) {
	m := newTestManager()
	m.Assign("Alice")
	o := newTestOccupant("Alice")
	o.pos = Point{X: 600, Y: 300}
	m.EnterHouse(o)
	o.needs[needs.Hunger] = 0.9
	o.needs[needs.Fun] = 0.2

	msg, ok := m.RestoreStats(o, ActivityCook)
	if !ok {
		t.Fatalf("RestoreStats failed: %s", msg)
	}
	if msg != "🍳 Alice cooks a delicious meal in their kitchen!" {
		t.Errorf("message = %q", msg)
	}
	if o.needs[needs.Hunger] != 1.0 {
		t.Errorf("hunger = %v, want 1.0", o.needs[needs.Hunger])
	}
	if math.Abs(o.needs[needs.Fun]-0.3) > 1e-9 {
		t.Errorf("fun = %v, want 0.3", o.needs[needs.Fun])
	}
}

func TestManager_RestoreStatsFailures(t *testing.T) {
	m := newTestManager()
	m.Assign("Alice")
	o := newTestOccupant("Alice")
	before := o.needs.Clone()

	msg, ok := m.RestoreStats(o, ActivitySleep)
	if ok || !strings.Contains(msg, "not at home") {
		t.Errorf("RestoreStats while away = %q %v", msg, ok)
	}

	o.pos = Point{X: 600, Y: 300}
	m.EnterHouse(o)

	msg, ok = m.RestoreStats(o, Activity("juggle"))
	if ok || !strings.Contains(msg, "Unknown activity") {
		t.Errorf("RestoreStats unknown = %q %v", msg, ok)
	}

	// Strip the bathroom so freshen_up has nothing to use.
	in, _ := m.Interior("Alice")
	kept := in.Items[:0]
	for _, item := range in.Items {
		if item.Category != "sink" && item.Category != "toilet" {
			kept = append(kept, item)
		}
	}
	in.Items = kept

	msg, ok = m.RestoreStats(o, ActivityFreshenUp)
	if ok || !strings.Contains(msg, "required furniture") {
		t.Errorf("RestoreStats without furniture = %q %v", msg, ok)
	}

	for _, need := range needs.All {
		if o.needs[need] != before[need] {
			t.Errorf("failed restores changed %s: %v -> %v", need, before[need], o.needs[need])
		}
	}
}

func TestManager_RestoreStatsNotHomeRegardlessOfFurniture(t *testing.T) {
	m := newTestManager()
	m.Assign("Alice")
	m.Interior("Alice")
	o := newTestOccupant("Alice")

	for _, a := range Activities() {
		if _, ok := m.RestoreStats(o, a); ok {
			t.Errorf("RestoreStats(%s) succeeded while away", a)
		}
	}
}

func TestManager_RestoreStatsSideEffects(t *testing.T) {
	m := newTestManager()
	m.Assign("Alice")
	o := &energeticOccupant{testOccupant: newTestOccupant("Alice"), energy: 0.5, battery: 0.9}
	o.pos = Point{X: 600, Y: 300}
	m.EnterHouse(o)

	if _, ok := m.RestoreStats(o, ActivitySleep); !ok {
		t.Fatal("sleep failed")
	}
	if o.energy != 1.0 {
		t.Errorf("energy = %v, want 1.0", o.energy)
	}

	if _, ok := m.RestoreStats(o, ActivityRead); !ok {
		t.Fatal("read failed")
	}
	if math.Abs(o.battery-0.95) > 1e-9 {
		t.Errorf("social battery = %v, want 0.95", o.battery)
	}
}

func TestManager_UseItem(t *testing.T) {
	m := newTestManager()
	o := newTestOccupant("Alice")
	o.needs = needs.New(0)

	if _, ok := m.UseItem(o, "tv"); ok {
		t.Error("UseItem succeeded without a house")
	}

	m.Assign("Alice")
	result, ok := m.UseItem(o, "tv")
	if !ok {
		t.Fatalf("UseItem failed: %s", result.Message)
	}
	if math.Abs(o.needs[needs.Fun]-0.5) > 1e-9 {
		t.Errorf("fun = %v, want 0.5", o.needs[needs.Fun])
	}

	if result, ok := m.UseItem(o, "jacuzzi_tub"); ok || !strings.Contains(result.Message, "No jacuzzi_tub") {
		t.Errorf("UseItem(jacuzzi_tub) = %q %v", result.Message, ok)
	}
}

func TestManager_IsNearHouse(t *testing.T) {
	m := newTestManager()
	m.Assign("Alice")

	if !m.IsNearHouse("Alice", Point{X: 650, Y: 300}, 80) {
		t.Error("IsNearHouse false within threshold")
	}
	if m.IsNearHouse("Alice", Point{X: 700, Y: 300}, 80) {
		t.Error("IsNearHouse true outside threshold")
	}
	if m.IsNearHouse("Bob", Point{}, 1e9) {
		t.Error("IsNearHouse true for unassigned occupant")
	}
}

func TestManager_Debug(t *testing.T) {
	m := newTestManager()
	m.Assign("Alice")

	var buf bytes.Buffer
	m.Debug(&buf)
	out := buf.String()
	if !strings.Contains(out, "Alice: house at (600, 300) - away") {
		t.Errorf("Debug output missing assignment:\n%s", out)
	}
	if !strings.Contains(out, "Available houses remaining: 7") {
		t.Errorf("Debug output missing pool count:\n%s", out)
	}
}
