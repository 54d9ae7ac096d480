package exam

import (
	"time"

	"github.com/pkandie/examhall/internal/model"
)

// DefaultGrader is recorded when a grade call omits the grader identifier.
const DefaultGrader = "Teacher"

// SubmittedAnswer is one answer in an incoming submission. SelectedOption is
// nil when the student left the question blank, which happens with
// auto-submitted partial attempts when the time limit expires.
type SubmittedAnswer struct {
	Question       string  `json:"question"`
	SelectedOption *string `json:"selected_option"`
}

// SubmitParams carries an incoming answer set.
type SubmitParams struct {
	StudentID   string
	StudentName string
	ExamID      string
	Answers     []SubmittedAnswer
}

// Submit records a student's answer set against an exam. The exam's correct
// answers are snapshotted onto the submission by exact question-text match,
// so later edits or deletion of the exam do not change what was captured.
// Grading is deferred: every answer starts with IsCorrect unresolved.
func (s *Service) Submit(p SubmitParams) (model.Submission, error) {
	switch {
	case p.StudentID == "":
		return model.Submission{}, validationErr("student_id")
	case p.ExamID == "":
		return model.Submission{}, validationErr("exam_id")
	case len(p.Answers) == 0:
		return model.Submission{}, validationErr("answers")
	}

	e, err := s.store.GetExam(p.ExamID)
	if err != nil {
		return model.Submission{}, err
	}

	answerByText := make(map[string]string, len(e.Questions))
	for _, q := range e.Questions {
		answerByText[q.Text] = q.Answer
	}

	answers := make([]model.Answer, 0, len(p.Answers))
	for _, a := range p.Answers {
		rec := model.Answer{
			Question:       a.Question,
			SelectedOption: a.SelectedOption,
		}
		if correct, ok := answerByText[a.Question]; ok {
			rec.CorrectAnswer = &correct
		}
		answers = append(answers, rec)
	}

	return s.store.CreateSubmission(model.Submission{
		StudentID:   p.StudentID,
		StudentName: p.StudentName,
		ExamID:      p.ExamID,
		Answers:     answers,
	})
}

// Grade resolves every answer of a submission by exact, case-sensitive
// string equality, sums the correct count into the score, and stamps the
// grading metadata. Re-grading recomputes from scratch and overwrites the
// previous grade.
func (s *Service) Grade(submissionID, gradedBy string) (model.Submission, error) {
	sub, err := s.store.GetSubmission(submissionID)
	if err != nil {
		return model.Submission{}, err
	}

	score := 0
	for i := range sub.Answers {
		a := &sub.Answers[i]
		correct := a.SelectedOption != nil && a.CorrectAnswer != nil &&
			*a.SelectedOption == *a.CorrectAnswer
		a.IsCorrect = &correct
		if correct {
			score++
		}
	}
	sub.Score = score

	now := time.Now()
	sub.GradedAt = &now
	if gradedBy == "" {
		gradedBy = DefaultGrader
	}
	sub.GradedBy = gradedBy

	if err := s.store.UpdateGrade(sub); err != nil {
		return model.Submission{}, err
	}
	return sub, nil
}

// StudentResult looks up the submission for a (student, exam) pair.
// store.ErrNotFound means the student has not submitted yet; callers should
// treat that as "not yet submitted", not a hard failure.
func (s *Service) StudentResult(studentID, examID string) (model.Submission, error) {
	return s.store.GetStudentSubmission(studentID, examID)
}

// SubmissionsForExam returns every submission recorded against an exam id.
// Submissions survive deletion of their exam, so this works for orphans too.
func (s *Service) SubmissionsForExam(examID string) ([]model.Submission, error) {
	return s.store.ListSubmissionsForExam(examID)
}
