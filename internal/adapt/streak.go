package adapt

// StreakPolicy is the shared rule for the Vocabulary and Speaking
// tracks: two consecutive correct answers move the level up one, two
// consecutive incorrect answers move it down one, anything else leaves
// it unchanged.
type StreakPolicy struct{}

func (StreakPolicy) Apply(in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}
	res := Result{
		Level:           in.Level,
		CorrectStreak:   in.CorrectStreak,
		IncorrectStreak: in.IncorrectStreak,
	}
	stepStreak(&res, in.Correct)
	return res, nil
}
