package item

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated unit. They execute in order; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorTexts is the maximum number of prior item texts
	// to include in the prompt for deduplication.
	MaxPriorTexts int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults. Reading units (a passage plus five
// questions) are the largest output, so the token budget is sized
// for them.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
		},
		MaxTokens:     2048,
		Temperature:   0.7,
		MaxPriorTexts: 10,
	}
}
