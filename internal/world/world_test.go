package world

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/hearth/pkg/house"
	"github.com/jwebster45206/hearth/pkg/needs"
	"github.com/jwebster45206/hearth/pkg/npc"
)

func newTestWorld() *World {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(Options{Seed: 1, Logger: logger})
}

func TestWorld_ResidentRegistry(t *testing.T) {
	w := newTestWorld()

	_, err := w.AddResident("Alice", house.Point{X: 10, Y: 20})
	require.NoError(t, err)
	_, err = w.AddResident("Bob", house.Point{})
	require.NoError(t, err)

	_, err = w.AddResident("Alice", house.Point{})
	assert.ErrorIs(t, err, ErrResidentExists)

	_, err = w.Resident("Nobody")
	assert.ErrorIs(t, err, ErrResidentNotFound)

	list := w.Residents()
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, house.Point{X: 10, Y: 20}, list[0].Position)
}

func TestWorld_AssignAndList(t *testing.T) {
	w := newTestWorld()

	a, err := w.Assign("Alice")
	require.NoError(t, err)
	assert.Equal(t, house.Point{X: 600, Y: 300}, a.Location)

	info, err := w.House("Alice")
	require.NoError(t, err)
	assert.Equal(t, house.TypeHouse, info.Type)

	_, err = w.House("Bob")
	assert.ErrorIs(t, err, ErrNoHouse)

	assert.Len(t, w.Houses(), 1)
	assert.Len(t, w.Available(), 7)
}

func TestWorld_AssignLogsOccupant(t *testing.T) {
	var buf bytes.Buffer
	w := New(Options{Seed: 1, Logger: slog.New(slog.NewTextHandler(&buf, nil))})

	_, err := w.Assign("Steve")
	require.NoError(t, err)
	_, err = w.Assign("Alice")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "occupant=Steve")
	assert.Contains(t, out, "wealthy_family=true")
	assert.Contains(t, out, "occupant=Alice")
	assert.Contains(t, out, "wealthy_family=false")
}

func TestWorld_NoVacancy(t *testing.T) {
	w := New(Options{
		Seed:      1,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		HouseOpts: []house.Option{house.WithPool(nil)},
	})
	_, err := w.Assign("Alice")
	assert.ErrorIs(t, err, ErrNoVacancy)
}

func TestWorld_HomeLifecycle(t *testing.T) {
	w := newTestWorld()
	_, err := w.AddResident("Alice", house.Point{})
	require.NoError(t, err)

	_, err = w.GoHome("Alice")
	assert.ErrorIs(t, err, ErrNoHouse)
	_, err = w.Enter("Alice")
	assert.ErrorIs(t, err, ErrNoHouse)

	_, err = w.Assign("Alice")
	require.NoError(t, err)

	s, err := w.GoHome("Alice")
	require.NoError(t, err)
	assert.Equal(t, house.StateTravelingHome, s.State)
	require.NotNil(t, s.Target)

	_, err = w.Enter("Alice")
	assert.ErrorIs(t, err, ErrTooFar)

	_, err = w.UpdateResident("Alice", ResidentUpdate{Position: &house.Point{X: 600, Y: 300}})
	require.NoError(t, err)

	s, err = w.Enter("Alice")
	require.NoError(t, err)
	assert.Equal(t, house.StateInside, s.State)
	assert.Nil(t, s.Target)

	s, err = w.Exit("Alice")
	require.NoError(t, err)
	assert.Equal(t, house.Point{X: 600, Y: 380}, s.Position)

	_, err = w.Exit("Alice")
	assert.ErrorIs(t, err, ErrNotHome)
}

func TestWorld_UpdateRejectsUnknownNeeds(t *testing.T) {
	w := newTestWorld()
	_, err := w.AddResident("Alice", house.Point{X: 600, Y: 300})
	require.NoError(t, err)
	_, err = w.Assign("Alice")
	require.NoError(t, err)
	_, err = w.Enter("Alice")
	require.NoError(t, err)

	_, err = w.UpdateResident("Alice", ResidentUpdate{
		Needs:    needs.Needs{"thirst": 0, needs.Fun: 0.1},
		Position: &house.Point{X: 1, Y: 1},
	})
	assert.ErrorIs(t, err, ErrUnknownNeed)

	s, err := w.Resident("Alice")
	require.NoError(t, err)
	assert.Len(t, s.Needs, len(needs.All))
	assert.NotContains(t, s.Needs, needs.Need("thirst"))
	assert.Equal(t, 1.0, s.Needs[needs.Fun], "a rejected update changes nothing")
	assert.Equal(t, house.Point{X: 600, Y: 300}, s.Position)

	// With every tracked need full the resident leaves on the next tick.
	outcomes := w.Tick(0)
	require.Len(t, outcomes, 1)
	assert.Equal(t, npc.ActionExit, outcomes[0].Action)
}

func TestWorld_RestoreAndUse(t *testing.T) {
	w := newTestWorld()
	_, _ = w.AddResident("Alice", house.Point{X: 600, Y: 300})
	_, _ = w.Assign("Alice")

	_, _, err := w.Restore("Alice", house.ActivitySleep)
	assert.ErrorIs(t, err, ErrRestoreFailed)

	_, err = w.Enter("Alice")
	require.NoError(t, err)

	_, err = w.UpdateResident("Alice", ResidentUpdate{Needs: needs.Needs{needs.Hunger: 0.2}})
	require.NoError(t, err)

	msg, s, err := w.Restore("Alice", house.ActivityCook)
	require.NoError(t, err)
	assert.Contains(t, msg, "cooks a delicious meal")
	assert.InDelta(t, 0.8, s.Needs[needs.Hunger], 1e-9)

	result, _, err := w.Use("Alice", "tv")
	require.NoError(t, err)
	assert.Equal(t, "tv", result.Category)

	_, _, err = w.Use("Alice", "grand_piano")
	assert.ErrorIs(t, err, ErrNoItem)
}

func TestWorld_InteractByPosition(t *testing.T) {
	w := newTestWorld()
	_, _ = w.AddResident("Alice", house.Point{X: 600, Y: 300})
	_, _ = w.Assign("Alice")

	_, _, err := w.Interact("Alice", 120, 120)
	assert.ErrorIs(t, err, ErrNotHome)

	_, err = w.Enter("Alice")
	require.NoError(t, err)

	_, _ = w.UpdateResident("Alice", ResidentUpdate{Needs: needs.Needs{needs.Sleep: 0}})

	result, s, err := w.Interact("Alice", 120, 120)
	require.NoError(t, err)
	assert.Equal(t, "bed", result.Category)
	assert.InDelta(t, 0.8, s.Needs[needs.Sleep], 1e-9)

	_, _, err = w.Interact("Alice", 1000, 10)
	assert.ErrorIs(t, err, ErrNoItem)

	in, err := w.Interior("Alice")
	require.NoError(t, err)
	door, ok := in.FirstOf(house.CategoryDoor)
	require.True(t, ok)

	result, s, err = w.Interact("Alice", door.X+1, door.Y+1)
	require.NoError(t, err)
	assert.True(t, result.Exit)
	assert.Equal(t, house.StateIdle, s.State)
	info, _ := w.House("Alice")
	assert.False(t, info.IsHome)
}

func TestWorld_InteriorIsCopy(t *testing.T) {
	w := newTestWorld()
	_, _ = w.Assign("Alice")

	in, err := w.Interior("Alice")
	require.NoError(t, err)
	in.Items = nil

	again, _ := w.Interior("Alice")
	assert.NotEmpty(t, again.Items)

	_, err = w.Interior("Bob")
	assert.ErrorIs(t, err, ErrNoHouse)
}

func TestWorld_TickRunsRoutine(t *testing.T) {
	w := newTestWorld()
	w.routine.GoHomeChance = 1.0
	_, _ = w.AddResident("Alice", house.Point{})
	_, _ = w.AddResident("Bob", house.Point{})
	_, _ = w.Assign("Alice")

	outcomes := w.Tick(0.8)
	require.Len(t, outcomes, 2)
	assert.Equal(t, npc.ActionGoHome, outcomes[0].Action)
	assert.Equal(t, "Alice", outcomes[0].Resident)
	// Bob has no house to go to.
	assert.Equal(t, npc.ActionNone, outcomes[1].Action)
}

func TestWorld_LoadSyncsResidentState(t *testing.T) {
	w := newTestWorld()
	_, _ = w.AddResident("Alice", house.Point{X: 600, Y: 300})
	_, _ = w.AddResident("Bob", house.Point{X: 1200, Y: 150})
	_, _ = w.Assign("Alice")
	_, _ = w.Assign("Bob")
	_, err := w.Enter("Bob")
	require.NoError(t, err)

	saved := w.Save()
	saved.Assignments["Alice"] = house.SavedAssignment{HouseLocation: []float64{600, 300}, HouseType: house.TypeHouse, IsHome: true}
	saved.Assignments["Bob"] = house.SavedAssignment{HouseLocation: []float64{1200, 150}, HouseType: house.TypeHouse}

	w.Load(saved)

	alice, _ := w.Resident("Alice")
	bob, _ := w.Resident("Bob")
	assert.Equal(t, house.StateInside, alice.State)
	assert.Equal(t, house.StateIdle, bob.State)
}

func TestWorld_Debug(t *testing.T) {
	w := newTestWorld()
	_, _ = w.Assign("Alice")

	var buf bytes.Buffer
	w.Debug(&buf)
	assert.Contains(t, buf.String(), "Alice: house at (600, 300)")
}

func TestWorld_ConcurrentAccess(t *testing.T) {
	w := newTestWorld()
	names := []string{"Alice", "Bob", "Charlie", "Diana", "Emma", "Frank", "Grace"}

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, _ = w.AddResident(name, house.Point{})
			_, _ = w.Assign(name)
			_ = w.Houses()
			_ = w.Save()
			_ = w.Tick(0.01)
		}(name)
	}
	wg.Wait()

	assert.Len(t, w.Houses(), len(names))
	assert.Len(t, w.Available(), 1)
}
