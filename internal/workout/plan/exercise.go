package plan

import (
	"fmt"
	"strings"
)

const videoEmbedURLFormat = "https://www.youtube.com/embed/%s?rel=0&modestbranding=1"

// FitnessLevel can be one of:
//   - basic
//   - intermediate
//   - advanced
type FitnessLevel string

const (
	LevelBasic        FitnessLevel = "basic"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

func (l FitnessLevel) String() string {
	return string(l)
}

func (l FitnessLevel) IsValid() bool {
	switch l {
	case LevelBasic,
		LevelIntermediate,
		LevelAdvanced:
		return true
	default:
		return false
	}
}

// Next returns the level a user is promoted to after the dwell time,
// and false for the terminal level or an unknown one.
func (l FitnessLevel) Next() (FitnessLevel, bool) {
	switch l {
	case LevelBasic:
		return LevelIntermediate, true
	case LevelIntermediate:
		return LevelAdvanced, true
	default:
		return l, false
	}
}

// Title is the capitalised level name, e.g. "Intermediate".
func (l FitnessLevel) Title() string {
	if l == "" {
		return ""
	}
	s := string(l)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseLevel is lenient about case and surrounding spaces.
func ParseLevel(s string) (FitnessLevel, bool) {
	level := FitnessLevel(strings.ToLower(strings.TrimSpace(s)))
	if !level.IsValid() {
		return LevelBasic, false
	}
	return level, true
}

type Exercise struct {
	Name          string   `json:"name"`
	Sets          int      `json:"sets"`
	Reps          string   `json:"reps"`
	RestTime      int      `json:"restTime"`
	Description   string   `json:"description"`
	VideoID       string   `json:"videoId"`
	TargetMuscles []string `json:"targetMuscles"`
}

// VideoEmbedURL resolves the opaque video reference to the embeddable
// player URL. The id is not validated.
func (e Exercise) VideoEmbedURL() string {
	return fmt.Sprintf(videoEmbedURLFormat, e.VideoID)
}
