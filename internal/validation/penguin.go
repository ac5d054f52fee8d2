package validation

import (
	"fmt"
	"math"
	"strings"
)

// Penguin field constraints.
const (
	PenguinNameMaxLength    = 100
	PenguinSpeciesMaxLength = 50
	PenguinAgeMin           = 0
	PenguinAgeMax           = 50
	PenguinWeightMin        = 0
	PenguinWeightMax        = 50
	PenguinHeightMin        = 0
	PenguinHeightMax        = 150
)

// PenguinInput is the transport-independent payload for creating or
// updating a penguin record.
type PenguinInput struct {
	Name     string         `json:"name"`
	Species  string         `json:"species"`
	Age      OptionalNumber `json:"age"`
	Location string         `json:"location"`
	Weight   OptionalNumber `json:"weight"`
	Height   OptionalNumber `json:"height"`
}

// ValidatePenguin checks the payload against the field constraints and
// returns the aggregated list of violations; an empty list means the payload
// is valid.
func ValidatePenguin(in *PenguinInput) []string {
	var errs []string

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs = append(errs, "Name is required")
	} else if len(name) > PenguinNameMaxLength {
		errs = append(errs, fmt.Sprintf("Name must be less than %d characters", PenguinNameMaxLength))
	}

	species := strings.TrimSpace(in.Species)
	if species == "" {
		errs = append(errs, "Species is required")
	} else if len(species) > PenguinSpeciesMaxLength {
		errs = append(errs, fmt.Sprintf("Species must be less than %d characters", PenguinSpeciesMaxLength))
	}

	if in.Age.Invalid || (in.Age.Present() && !validAge(*in.Age.Value)) {
		errs = append(errs, fmt.Sprintf("Age must be between %d and %d", PenguinAgeMin, PenguinAgeMax))
	}

	if in.Weight.Invalid || (in.Weight.Present() && (*in.Weight.Value < PenguinWeightMin || *in.Weight.Value > PenguinWeightMax)) {
		errs = append(errs, fmt.Sprintf("Weight must be between %d and %d kg", PenguinWeightMin, PenguinWeightMax))
	}

	if in.Height.Invalid || (in.Height.Present() && (*in.Height.Value < PenguinHeightMin || *in.Height.Value > PenguinHeightMax)) {
		errs = append(errs, fmt.Sprintf("Height must be between %d and %d cm", PenguinHeightMin, PenguinHeightMax))
	}

	return errs
}

func validAge(v float64) bool {
	// age is an integer field
	if v != math.Trunc(v) {
		return false
	}
	return v >= PenguinAgeMin && v <= PenguinAgeMax
}
