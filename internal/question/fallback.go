package question

import (
	"fmt"

	"github.com/pkandie/examhall/internal/model"
)

// Generate deterministically synthesizes count placeholder questions labeled
// with the subject, an incrementing index, and the difficulty. The first
// option is always the correct one. Used whenever every registered source
// fails, so exam creation is never blocked by a third party.
func Generate(subject string, count int, difficulty string) []model.Question {
	questions := make([]model.Question, 0, count)
	for i := 1; i <= count; i++ {
		options := []string{
			fmt.Sprintf("Option A for %s #%d", subject, i),
			fmt.Sprintf("Option B for %s #%d", subject, i),
			fmt.Sprintf("Option C for %s #%d", subject, i),
			fmt.Sprintf("Option D for %s #%d", subject, i),
		}
		questions = append(questions, model.Question{
			Text:    fmt.Sprintf("%s question #%d (%s)", subject, i, difficulty),
			Answer:  options[0],
			Options: options,
		})
	}
	return questions
}
