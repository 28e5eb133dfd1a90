package house

// HouseType is the dwelling category of a map location.
type HouseType string

const (
	TypeHouse   HouseType = "house"
	TypeMansion HouseType = "mansion"
)

// Valid reports whether t is a known dwelling category.
func (t HouseType) Valid() bool {
	return t == TypeHouse || t == TypeMansion
}

// PoolEntry is an unassigned dwelling location on the world map.
type PoolEntry struct {
	X    int       `json:"x"`
	Y    int       `json:"y"`
	Type HouseType `json:"type"`
}

// Location returns the entry's map position.
func (e PoolEntry) Location() Point {
	return Point{X: float64(e.X), Y: float64(e.Y)}
}

// DefaultPool is the set of houses on the standard world map, in allocation
// order. The mansion is reserved for the wealthy family.
func DefaultPool() []PoolEntry {
	return []PoolEntry{
		{X: 600, Y: 300, Type: TypeHouse},
		{X: 1200, Y: 150, Type: TypeHouse},
		{X: 400, Y: 800, Type: TypeHouse},
		{X: 1400, Y: 600, Type: TypeHouse},
		{X: 800, Y: 1200, Type: TypeHouse},
		{X: 300, Y: 1500, Type: TypeHouse},
		{X: 1600, Y: 300, Type: TypeHouse},
		{X: 1800, Y: 400, Type: TypeMansion},
	}
}

// DefaultWealthyFamily names the occupants who share the mansion.
func DefaultWealthyFamily() []string {
	return []string{"Steve", "Kailey", "Louie"}
}

// Assignment binds one occupant to a fixed house location.
// Location and Type never change once created.
type Assignment struct {
	Occupant string    `json:"occupant"`
	Location Point     `json:"house_location"`
	Type     HouseType `json:"house_type"`
	IsHome   bool      `json:"is_home"`
}

// HouseInfo is the flattened view used by listings and the console.
type HouseInfo struct {
	Occupant string    `json:"occupant"`
	Location Point     `json:"house_location"`
	Type     HouseType `json:"house_type"`
	IsHome   bool      `json:"is_home"`
	Built    bool      `json:"interior_built"`
}
