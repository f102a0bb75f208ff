package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/fittracker/internal/workout/plan"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// Profile holds the onboarding answers. All values are kept as entered.
type Profile struct {
	Name         string `json:"name"`
	Age          string `json:"age"`
	Weight       string `json:"weight"`
	Height       string `json:"height"`
	Gender       string `json:"gender"`
	FitnessLevel string `json:"fitnessLevel"`
}

// Level resolves the stored fitness level, defaulting to basic.
func (p Profile) Level() plan.FitnessLevel {
	level, _ := plan.ParseLevel(p.FitnessLevel)
	return level
}

func (p Profile) WithLevel(level plan.FitnessLevel) Profile {
	p.FitnessLevel = level.String()
	return p
}

// Validate requires every field, and a known fitness level.
func (p Profile) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"age", p.Age},
		{"weight", p.Weight},
		{"height", p.Height},
		{"gender", p.Gender},
		{"fitnessLevel", p.FitnessLevel},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s empty", ErrInvalidProfile, f.name)
		}
	}

	if _, ok := plan.ParseLevel(p.FitnessLevel); !ok {
		return fmt.Errorf("%w: unknown fitness level [%s]", ErrInvalidProfile, p.FitnessLevel)
	}

	return nil
}
