package generate

import (
	"fmt"
	"strings"
)

// MaxContext is the number of characters of source text embedded in a prompt.
const MaxContext = 10000

// Quiz sizing bounds.
const (
	MinQuestions     = 3
	MaxQuestions     = 15
	DefaultQuestions = 5
)

// DefaultTopic is used when a caller generates without naming a topic.
const DefaultTopic = "General Knowledge"

// Difficulty is the requested quiz difficulty.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// ParseDifficulty matches s case-insensitively, falling back to Medium.
func ParseDifficulty(s string) Difficulty {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d
		}
	}
	return Medium
}

// QuizOptions tunes QuizPrompt.
type QuizOptions struct {
	Count      int
	Difficulty Difficulty
}

// Normalize clamps Count to [MinQuestions, MaxQuestions] and fills defaults.
func (o QuizOptions) Normalize() QuizOptions {
	switch {
	case o.Count == 0:
		o.Count = DefaultQuestions
	case o.Count < MinQuestions:
		o.Count = MinQuestions
	case o.Count > MaxQuestions:
		o.Count = MaxQuestions
	}
	o.Difficulty = ParseDifficulty(string(o.Difficulty))
	return o
}

// Truncate keeps at most MaxContext characters of s without splitting a rune.
func Truncate(s string) string {
	n := 0
	for i := range s {
		if n == MaxContext {
			return s[:i]
		}
		n++
	}
	return s
}

// QuizPrompt asks for multiple-choice questions in the line format parse.Quiz reads.
func QuizPrompt(context string, opts QuizOptions) string {
	opts = opts.Normalize()
	return fmt.Sprintf(`Generate exactly %d multiple-choice questions about this text. For each question explain context shortly so that the reader does not rely on the text, just on the question.
Difficulty: %s
Format each question exactly like this:

Question 1: [question text]
A) [option 1]
B) [option 2]
C) [option 3]
D) [option 4]
Correct Answer: [letter]

Text:
%s
`, opts.Count, opts.Difficulty, Truncate(context))
}

// FlashcardPrompt asks for a JSON array of count {front, back} cards.
func FlashcardPrompt(context string, count int) string {
	if count <= 0 {
		count = 1
	}
	return fmt.Sprintf(`Based on the following text, generate exactly %d flashcards in JSON format.
Each flashcard should be an object with:
- "front": a unique, concise question or topic (max 7 words), covering a different aspect than other cards, in the language of the document
- "back": a short, clear answer or key fact (max 15 words).

Avoid repeating similar questions. Include different types such as definitions, purposes, examples, and key points.
Return only the JSON array.

Text:
%s
`, count, Truncate(context))
}

// MindMapPrompt asks for a concept graph rooted at topic.
func MindMapPrompt(context, topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}
	return fmt.Sprintf(`Build a concept mind map about "%s" from the text below.
Return only a JSON object of the form:
{"nodes": [{"id": "...", "label": "...", "description": "..."}], "edges": [{"source": "...", "target": "...", "relation": "..."}]}

Use "%s" as the id of the central node. Every edge must connect two declared node ids.
Keep labels short and descriptions to one sentence.

Text:
%s
`, topic, topic, Truncate(context))
}

// AnswerPrompt asks a free-form question over notes.
func AnswerPrompt(notes, question string) string {
	return fmt.Sprintf(`Given the following notes, answer the question:

Notes:
%s

Question:
%s
`, Truncate(notes), strings.TrimSpace(question))
}
