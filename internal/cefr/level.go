package cefr

import (
	"fmt"
	"strings"
)

// Level is a CEFR proficiency level on the six-point A1–C2 scale.
// The zero value is A1.
type Level int

const (
	A1 Level = iota
	A2
	B1
	B2
	C1
	C2
)

// levelNames is ordered lowest to highest; index doubles as scale position.
var levelNames = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

// AllLevels returns the six levels in ascending order.
func AllLevels() []Level {
	return []Level{A1, A2, B1, B2, C1, C2}
}

// String returns the canonical level name, e.g. "B1".
func (l Level) String() string {
	if l < A1 || l > C2 {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Parse converts a level name ("b1", "B1") to a Level.
func Parse(s string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range levelNames {
		if name == upper {
			return Level(i), nil
		}
	}
	return A1, fmt.Errorf("invalid CEFR level %q (want one of %s)", s, strings.Join(levelNames, ", "))
}

// Index returns the scale position in [0, 5].
func (l Level) Index() int {
	return int(l.clamp())
}

// FromIndex returns the level at the given scale position, clamped to [A1, C2].
func FromIndex(i int) Level {
	return Level(i).clamp()
}

// Step moves the level by delta positions, clamping at both ends of the
// scale. Stepping past A1 or C2 is a silent no-op, never an error, so
// adaptation policies never carry bounds checks of their own.
func (l Level) Step(delta int) Level {
	return FromIndex(l.Index() + delta)
}

// Max returns the higher of two levels.
func Max(a, b Level) Level {
	if a.clamp() > b.clamp() {
		return a.clamp()
	}
	return b.clamp()
}

func (l Level) clamp() Level {
	if l < A1 {
		return A1
	}
	if l > C2 {
		return C2
	}
	return l
}

// Exam returns the Cambridge exam target aligned with the level:
// KET for A1/A2, PET for B1, FCE for B2 and above.
func (l Level) Exam() string {
	switch l.clamp() {
	case A1, A2:
		return "KET"
	case B1:
		return "PET"
	default:
		return "FCE"
	}
}
