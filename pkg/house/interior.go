package house

import (
	"fmt"

	"github.com/jwebster45206/hearth/pkg/needs"
)

// Default interior dimensions, in interior pixels.
const (
	DefaultInteriorWidth  = 1024
	DefaultInteriorHeight = 768
)

// Interior is the furniture of one dwelling.
// Item order is significant: ItemAt returns the first match.
type Interior struct {
	Owner  string `json:"owner,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Items  []Item `json:"items"`
	Rooms  []Room `json:"rooms"`
}

// Result is the outcome of using one item.
type Result struct {
	Category string       `json:"category"`
	Message  string       `json:"message"`
	Gains    []needs.Gain `json:"gains,omitempty"`
	Exit     bool         `json:"exit,omitempty"`
}

// NewInterior returns an interior furnished with the standard layout.
func NewInterior(owner string) *Interior {
	return newInterior(owner, DefaultInteriorWidth, DefaultInteriorHeight)
}

func newInterior(owner string, width, height int) *Interior {
	in := &Interior{
		Owner:  owner,
		Width:  width,
		Height: height,
		Rooms:  defaultRooms(),
	}
	in.Items = standardLayout(width, height)
	return in
}

// ItemAt returns the first item, in list order, whose footprint contains (x, y).
func (in *Interior) ItemAt(x, y int) (Item, bool) {
	for _, item := range in.Items {
		if item.Contains(x, y) {
			return item, true
		}
	}
	return Item{}, false
}

// FirstOf returns the first item of category.
func (in *Interior) FirstOf(category string) (Item, bool) {
	for _, item := range in.Items {
		if item.Category == category {
			return item, true
		}
	}
	return Item{}, false
}

// HasAny reports whether at least one item matches any of categories.
func (in *Interior) HasAny(categories ...string) bool {
	for _, c := range categories {
		if _, ok := in.FirstOf(c); ok {
			return true
		}
	}
	return false
}

// Interact uses item and applies its effects to n in place. Doors signal an
// exit and leave n untouched; unknown categories are only examined.
func (in *Interior) Interact(item Item, n needs.Needs) Result {
	if IsExit(item.Category) {
		return Result{Category: item.Category, Message: "exit_house", Exit: true}
	}

	rule, ok := itemRules[item.Category]
	if !ok {
		return Result{
			Category: item.Category,
			Message:  fmt.Sprintf("🔍 You examine the %s. It's a nice piece of furniture.", item.Label()),
		}
	}

	gains := n.Apply(rule.Effects)
	return Result{
		Category: item.Category,
		Message:  rule.message(gains),
		Gains:    gains,
	}
}

// Clone returns a deep copy safe to hand to renderers.
func (in *Interior) Clone() *Interior {
	out := *in
	out.Items = append([]Item(nil), in.Items...)
	out.Rooms = append([]Room(nil), in.Rooms...)
	return &out
}
