package house

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultItemSize = 32

// Item is a piece of interactive furniture placed inside an interior.
type Item struct {
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Category     string `json:"category"`
	Interactable bool   `json:"interactable"`
}

// NewItem places a category of furniture at (x, y). Non-positive sizes fall
// back to a 32x32 footprint.
func NewItem(x, y int, category string, width, height int) Item {
	if width <= 0 {
		width = defaultItemSize
	}
	if height <= 0 {
		height = defaultItemSize
	}
	return Item{
		X:            x,
		Y:            y,
		Width:        width,
		Height:       height,
		Category:     category,
		Interactable: true,
	}
}

// Contains reports whether (px, py) falls inside the half-open region
// [X, X+Width) x [Y, Y+Height).
func (i Item) Contains(px, py int) bool {
	return px >= i.X && px < i.X+i.Width && py >= i.Y && py < i.Y+i.Height
}

// Center returns the midpoint of the item's footprint.
func (i Item) Center() Point {
	return Point{X: float64(i.X) + float64(i.Width)/2, Y: float64(i.Y) + float64(i.Height)/2}
}

// Rect returns the item's footprint.
func (i Item) Rect() Rect {
	return Rect{X: i.X, Y: i.Y, Width: i.Width, Height: i.Height}
}

// Label is the display name, e.g. "grand_chandelier" -> "Grand Chandelier".
func (i Item) Label() string {
	return Label(i.Category)
}

// Label converts a snake_case category into a title-cased display name.
func Label(category string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(category, "_", " "))
}

// Rect is an axis-aligned rectangle in interior coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Room is a decorative floor area; it plays no part in hit testing.
type Room struct {
	Name string `json:"name"`
	Area Rect   `json:"area"`
}
