package item

import "github.com/cocowutech/placement/internal/llm"

func mcqProperties() map[string]any {
	return map[string]any{
		"question": map[string]any{
			"type":        "string",
			"description": "The question stem shown to the learner",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    4,
			"maxItems":    4,
			"description": "Exactly 4 options, exactly one correct",
		},
		"correct_index": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"maximum":     3,
			"description": "0-based index of the correct option",
		},
		"rationale": map[string]any{
			"type":        "string",
			"description": "One-sentence explanation of why the correct option is correct",
		},
	}
}

// ReadingUnitSchema is the schema for one reading passage with its
// 5 comprehension questions.
var ReadingUnitSchema = &llm.Schema{
	Name:        "reading-unit",
	Description: "A reading passage with 5 multiple-choice comprehension questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passage": map[string]any{
				"type":        "string",
				"description": "Self-contained passage of connected prose, no lists or headings",
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 5,
				"maxItems": 5,
				"items": map[string]any{
					"type":                 "object",
					"properties":           mcqProperties(),
					"required":             []any{"question", "options", "correct_index", "rationale"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"passage", "questions"},
		"additionalProperties": false,
	},
}

// ListeningUnitSchema is the schema for a pair of listening clips, each
// with its own transcript and question.
var ListeningUnitSchema = &llm.Schema{
	Name:        "listening-unit",
	Description: "Two short audio clip scripts, each with one multiple-choice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"clips": map[string]any{
				"type":     "array",
				"minItems": 2,
				"maxItems": 2,
				"items": map[string]any{
					"type": "object",
					"properties": mergeProps(mcqProperties(), map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short label for the clip",
						},
						"transcript": map[string]any{
							"type":        "string",
							"description": "Exact text to be spoken, 70-110 words of naturalistic English",
						},
					}),
					"required":             []any{"title", "transcript", "question", "options", "correct_index", "rationale"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"clips"},
		"additionalProperties": false,
	},
}

// VocabularyItemSchema is the schema for one vocabulary-in-context item.
var VocabularyItemSchema = &llm.Schema{
	Name:        "vocabulary-item",
	Description: "One vocabulary multiple-choice item embedded in a short context",
	Definition: map[string]any{
		"type": "object",
		"properties": mergeProps(mcqProperties(), map[string]any{
			"passage": map[string]any{
				"type":        "string",
				"description": "Short context sentence or passage containing the gap or target word",
			},
		}),
		"required":             []any{"passage", "question", "options", "correct_index", "rationale"},
		"additionalProperties": false,
	},
}

// SpeakingTaskSchema is the schema for one speaking task.
var SpeakingTaskSchema = &llm.Schema{
	Name:        "speaking-task",
	Description: "One short speaking task with timing and answer guidance",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "The speaking prompt read to the learner",
			},
			"prep_seconds": map[string]any{
				"type":        "integer",
				"description": "Preparation time in seconds, typically 30",
			},
			"record_seconds": map[string]any{
				"type":        "integer",
				"description": "Speaking time in seconds, typically 60",
			},
			"guidance": map[string]any{
				"type":        "string",
				"description": "What a good answer should include",
			},
		},
		"required":             []any{"prompt", "prep_seconds", "record_seconds", "guidance"},
		"additionalProperties": false,
	},
}

// WritingPromptSchema is the schema for one writing prompt.
var WritingPromptSchema = &llm.Schema{
	Name:        "writing-prompt",
	Description: "One writing prompt asking for roughly 200 words",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "The writing prompt shown to the learner",
			},
		},
		"required":             []any{"prompt"},
		"additionalProperties": false,
	},
}

func mergeProps(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
