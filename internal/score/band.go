package score

import "github.com/cocowutech/placement/internal/cefr"

// Band maps a 0-100 score to a CEFR band via a monotonic step function.
func Band(score int) cefr.Level {
	switch {
	case score >= 96:
		return cefr.C2
	case score >= 88:
		return cefr.C1
	case score >= 75:
		return cefr.B2
	case score >= 60:
		return cefr.B1
	case score >= 50:
		return cefr.A2
	default:
		return cefr.A1
	}
}
