package house

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SaveData is the persisted form of a Manager.
type SaveData struct {
	Assignments     map[string]SavedAssignment `json:"assignments"`
	AvailableHouses []PoolEntry                `json:"available_houses"`
}

// SavedAssignment is one occupant's persisted house.
// HouseLocation is [x, y]; HouseType and IsHome may be absent.
type SavedAssignment struct {
	HouseLocation []float64 `json:"house_location"`
	HouseType     HouseType `json:"house_type"`
	IsHome        bool      `json:"is_home"`
}

// Location converts the persisted pair into a Point. Missing coordinates
// read as 0.
func (s SavedAssignment) Location() Point {
	var p Point
	if len(s.HouseLocation) > 0 {
		p.X = s.HouseLocation[0]
	}
	if len(s.HouseLocation) > 1 {
		p.Y = s.HouseLocation[1]
	}
	return p
}

// ParseSaveData decodes a save payload.
func ParseSaveData(data []byte) (SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return SaveData{}, fmt.Errorf("failed to unmarshal house save data: %w", err)
	}
	return sd, nil
}

// Save snapshots every assignment and the remaining pool.
func (m *Manager) Save() SaveData {
	sd := SaveData{
		Assignments:     make(map[string]SavedAssignment, len(m.assignments)),
		AvailableHouses: append([]PoolEntry{}, m.pool...),
	}
	for name, a := range m.assignments {
		sd.Assignments[name] = SavedAssignment{
			HouseLocation: []float64{a.Location.X, a.Location.Y},
			HouseType:     a.Type,
			IsHome:        a.IsHome,
		}
	}
	return sd
}

// Load replaces the manager's state with sd. Unlike Assign, every interior
// is rebuilt immediately. The pool is taken verbatim without checking for
// locations that are also assigned. A nil section leaves that part of the
// state untouched.
func (m *Manager) Load(sd SaveData) {
	if sd.Assignments != nil {
		m.assignments = make(map[string]*Assignment, len(sd.Assignments))
		m.interiors = make(map[string]*Interior, len(sd.Assignments))
		m.order = m.order[:0]

		names := make([]string, 0, len(sd.Assignments))
		for name := range sd.Assignments {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			saved := sd.Assignments[name]
			houseType := saved.HouseType
			if houseType == "" {
				houseType = TypeHouse
			}
			m.add(&Assignment{
				Occupant: name,
				Location: saved.Location(),
				Type:     houseType,
				IsHome:   saved.IsHome,
			})
			m.interiors[name] = m.buildInterior(name)
		}
	}

	if sd.AvailableHouses != nil {
		m.pool = append([]PoolEntry(nil), sd.AvailableHouses...)
	}

	m.logger.Info("Loaded house data", "assignments", len(m.assignments), "available", len(m.pool))
}
