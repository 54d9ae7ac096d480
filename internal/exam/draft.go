package exam

import (
	"fmt"
	"slices"

	"github.com/pkandie/examhall/internal/model"
	"github.com/pkandie/examhall/internal/question"
)

// Draft is an in-memory candidate question list under edit between preview
// and save. Edits never touch the store; a draft that is discarded leaves no
// trace. Every edit re-normalizes the touched question so the 4-option
// invariant holds at all times.
type Draft struct {
	questions []model.Question
}

// NewDraft starts a draft from previewed questions.
func NewDraft(qs []model.Question) *Draft {
	d := &Draft{questions: make([]model.Question, 0, len(qs))}
	for _, q := range qs {
		d.questions = append(d.questions, question.Normalize(q))
	}
	return d
}

// Questions returns a copy of the current candidate list.
func (d *Draft) Questions() []model.Question {
	out := make([]model.Question, len(d.questions))
	copy(out, d.questions)
	return out
}

// Len returns the number of candidate questions.
func (d *Draft) Len() int {
	return len(d.questions)
}

// Append adds a question to the end of the draft.
func (d *Draft) Append(q model.Question) {
	d.questions = append(d.questions, question.Normalize(q))
}

// RemoveAt deletes the question at index i.
func (d *Draft) RemoveAt(i int) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.questions = slices.Delete(d.questions, i, i+1)
	return nil
}

// SetText replaces the text of question i.
func (d *Draft) SetText(i int, text string) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.questions[i].Text = text
	return nil
}

// SetOption replaces option j of question i. If the replaced option was the
// designated correct answer, the correct answer follows the new text.
func (d *Draft) SetOption(i, j int, text string) error {
	if err := d.check(i); err != nil {
		return err
	}
	q := d.questions[i]
	if j < 0 || j >= len(q.Options) {
		return fmt.Errorf("option index %d out of range", j)
	}
	if q.Options[j] == q.Answer {
		q.Answer = text
	}
	q.Options[j] = text
	d.questions[i] = question.Normalize(q)
	return nil
}

// SetCorrect designates option j of question i as the correct answer.
func (d *Draft) SetCorrect(i, j int) error {
	if err := d.check(i); err != nil {
		return err
	}
	q := d.questions[i]
	if j < 0 || j >= len(q.Options) {
		return fmt.Errorf("option index %d out of range", j)
	}
	q.Answer = q.Options[j]
	d.questions[i] = q
	return nil
}

// Shuffle randomizes the option order of question i.
func (d *Draft) Shuffle(i int) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.questions[i] = question.ShuffleOptions(d.questions[i])
	return nil
}

func (d *Draft) check(i int) error {
	if i < 0 || i >= len(d.questions) {
		return fmt.Errorf("question index %d out of range", i)
	}
	return nil
}
