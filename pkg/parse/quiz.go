package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/studykit/pkg/core"
)

// maxOptions is the number of option letters a block may use (A-D).
const maxOptions = 4

var (
	questionLine = regexp.MustCompile(`^Question\b[^:]*:\s*(.*)$`)
	optionLine   = regexp.MustCompile(`^([A-D])\)\s*(.*)$`)
	answerLine   = regexp.MustCompile(`^Correct Answer\s*:\s*(.*)$`)
	answerLetter = regexp.MustCompile(`^\(?([A-Za-z])\)?(?:[).:\s]|$)`)
)

// block accumulates one question while its lines are being read.
type block struct {
	number   int
	question string
	options  []string
	answer   string
	resolved bool
}

// Quiz parses question blocks of the form
//
//	Question 1: <prompt>
//	A) <option>
//	B) <option>
//	Correct Answer: B
//
// Unrecognized lines are ignored. A block is emitted only when it has at least
// one option and its answer letter resolves to a non-blank one; any other block is
// recorded in the report and skipped. Empty input yields no questions.
func Quiz(text string) ([]core.QuizQuestion, Report) {
	var (
		report    Report
		questions = []core.QuizQuestion{}
		current   *block
		count     int
	)

	flush := func() {
		if current == nil {
			return
		}
		switch {
		case len(current.options) == 0:
			report.drop(fmt.Errorf("%w: question %d %q has no options", core.ErrValidationDropped, current.number, current.question))
		case !current.resolved:
			report.drop(fmt.Errorf("%w: question %d %q has no resolvable answer", core.ErrValidationDropped, current.number, current.question))
		default:
			questions = append(questions, core.QuizQuestion{
				Question: current.question,
				Options:  current.options,
				Answer:   current.answer,
			})
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := cleanLine(raw)
		if line == "" {
			continue
		}

		if m := questionLine.FindStringSubmatch(line); m != nil {
			flush()
			count++
			current = &block{number: count, question: strings.Trim(m[1], "*_ ")}
			continue
		}
		if current == nil {
			continue
		}

		if m := optionLine.FindStringSubmatch(line); m != nil {
			if len(current.options) < maxOptions {
				current.options = append(current.options, strings.TrimSpace(m[2]))
			}
			continue
		}

		if m := answerLine.FindStringSubmatch(line); m != nil {
			letter := answerLetter.FindStringSubmatch(strings.Trim(m[1], "*_ "))
			if letter == nil {
				continue
			}
			idx := int(strings.ToUpper(letter[1])[0] - 'A')
			if idx >= 0 && idx < maxOptions && idx < len(current.options) && current.options[idx] != "" {
				current.answer = current.options[idx]
				current.resolved = true
			}
		}
	}
	flush()

	return questions, report
}

// cleanLine trims whitespace and markdown emphasis/heading markers around a line.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "#*_ ")
	return strings.TrimSpace(s)
}
