package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwebster45206/hearth/pkg/house"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <save.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := newSaveValidator()

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Save file is valid!")
}

type SaveValidator struct {
	family map[string]bool
	errors []string
}

func newSaveValidator() *SaveValidator {
	family := make(map[string]bool)
	for _, name := range house.DefaultWealthyFamily() {
		family[name] = true
	}
	return &SaveValidator{family: family}
}

func (v *SaveValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("save file must have .json extension: %s", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return v.validateData(data, filename)
}

func (v *SaveValidator) validateData(data []byte, filename string) error {
	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var sd house.SaveData
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&sd); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.validateSave(&sd)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

type location struct{ x, y float64 }

func (v *SaveValidator) validateSave(sd *house.SaveData) {
	names := make([]string, 0, len(sd.Assignments))
	for name := range sd.Assignments {
		names = append(names, name)
	}
	sort.Strings(names)

	// Non-mansion locations and who holds them.
	held := make(map[location]string)

	for _, name := range names {
		a := sd.Assignments[name]
		if name == "" {
			v.addError("assignment with empty occupant name")
		}
		if a.HouseType != "" && !a.HouseType.Valid() {
			v.addError(fmt.Sprintf("%s has unknown house_type '%s'", name, a.HouseType))
		}
		if len(a.HouseLocation) != 2 {
			v.addError(fmt.Sprintf("%s has house_location with %d elements, want [x, y]", name, len(a.HouseLocation)))
			continue
		}

		loc := location{a.HouseLocation[0], a.HouseLocation[1]}
		if a.HouseType == house.TypeMansion {
			if !v.family[name] {
				v.addError(fmt.Sprintf("%s lives in the mansion but is not in the wealthy family", name))
			}
			continue
		}
		if other, ok := held[loc]; ok {
			v.addError(fmt.Sprintf("%s and %s share the house at (%g, %g)", other, name, loc.x, loc.y))
			continue
		}
		held[loc] = name
	}

	for i, e := range sd.AvailableHouses {
		if !e.Type.Valid() {
			v.addError(fmt.Sprintf("available_houses[%d] has unknown type '%s'", i, e.Type))
		}
		if e.Type == house.TypeMansion {
			continue
		}
		if name, ok := held[location{float64(e.X), float64(e.Y)}]; ok {
			v.addError(fmt.Sprintf("available_houses[%d] at (%d, %d) is already assigned to %s", i, e.X, e.Y, name))
		}
	}
}

func (v *SaveValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
