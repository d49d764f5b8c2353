package item

import (
	"fmt"
	"strings"

	"github.com/cocowutech/placement/internal/track"
)

const systemPrompt = `You are an ESL assessment item writer producing content for an adaptive English placement test.

Rules:
- Target the requested CEFR level precisely: vocabulary range, sentence complexity, and topic abstractness must match the level, not drift above or below it.
- Align tasks with the requested Cambridge exam (KET, PET, or FCE) in style and register.
- Use everyday, age-neutral topics. Avoid culture-specific references.
- Multiple-choice items have exactly 4 options with exactly one unambiguously correct answer. Distractors must be plausible and at the same register.
- Questions must be answerable from the given material alone, with no outside knowledge.
- Do not repeat any item from the "already asked" list.
- Return only the requested JSON. No markdown, no commentary.`

// readingInstruction asks for one passage plus its question block.
const readingInstruction = `Write one self-contained reading passage of connected prose (no lists, no headings) appropriate for the level, then 5 multiple-choice comprehension questions on it. Cover a mix of comprehension, inference, detail, and vocabulary-in-context. Each question must be answerable using the passage only.`

// listeningInstruction asks for a pair of clip scripts.
const listeningInstruction = `Write 2 short audio clip scripts of naturalistic spoken English (conversational or announcement style), 70-110 words each. For each clip produce a short title, the exact transcript to be spoken, and one multiple-choice question about it.`

// vocabularyInstruction asks for one vocabulary item in context.
const vocabularyInstruction = `Write one vocabulary multiple-choice item. Prefer gap-fill in-context, synonym-in-context, or best completion. Provide a short context sentence or passage, the question stem, and 4 options.`

// speakingInstruction asks for one speaking task.
const speakingInstruction = `Write one short speaking prompt. Default to 30 seconds preparation and 60 seconds speaking time. The prompt type can be: personal experience, picture description (no image provided), short opinion with two reasons, role-play cue, or explain a process. Include concise guidance on what a good answer should include.`

// writingInstruction asks for one writing prompt.
const writingInstruction = `Write one writing prompt on a random everyday topic that asks the learner to write approximately 200 words.`

func instructionFor(t track.Track) string {
	switch t {
	case track.Reading:
		return readingInstruction
	case track.Listening:
		return listeningInstruction
	case track.Vocabulary:
		return vocabularyInstruction
	case track.Speaking:
		return speakingInstruction
	case track.Writing:
		return writingInstruction
	}
	return ""
}

// buildUserMessage constructs the user message from GenerateInput and
// Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CEFR level: %s\n", input.Level)
	fmt.Fprintf(&b, "Cambridge exam target: %s\n", input.Level.Exam())
	b.WriteString("\n")
	b.WriteString(instructionFor(input.Track))

	b.WriteString("\n\nAlready asked in this session:\n")
	b.WriteString(buildDedup(input.PriorTexts, cfg.MaxPriorTexts))

	return b.String()
}

// buildDedup formats prior item texts for the prompt, keeping only the
// most recent N.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}

	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
