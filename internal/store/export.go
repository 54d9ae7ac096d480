package store

import (
	"fmt"
	"time"

	"github.com/pkandie/examhall/internal/model"
)

// ExportExamResults builds an export-ready view of every submission for an exam.
func (s *Store) ExportExamResults(examID string) (model.ExamResultsExport, error) {
	exam, err := s.GetExam(examID)
	if err != nil {
		return model.ExamResultsExport{}, fmt.Errorf("get exam %s: %w", examID, err)
	}

	subs, err := s.ListSubmissionsForExam(examID)
	if err != nil {
		return model.ExamResultsExport{}, fmt.Errorf("list submissions for exam %s: %w", examID, err)
	}

	export := model.ExamResultsExport{
		ExamID:     exam.ID,
		Title:      exam.Title,
		Subject:    exam.Subject,
		Difficulty: exam.Difficulty,
		ExportedAt: time.Now(),
	}

	for _, sub := range subs {
		result := model.SubmissionResult{
			StudentID:   sub.StudentID,
			StudentName: sub.StudentName,
			Score:       sub.Score,
			Total:       len(sub.Answers),
			SubmittedAt: sub.SubmittedAt,
			GradedAt:    sub.GradedAt,
			GradedBy:    sub.GradedBy,
		}
		for _, a := range sub.Answers {
			result.Answers = append(result.Answers, model.AnswerLine{
				Question:       a.Question,
				SelectedOption: a.SelectedOption,
				CorrectAnswer:  a.CorrectAnswer,
				IsCorrect:      a.IsCorrect,
			})
		}
		export.Results = append(export.Results, result)
	}

	return export, nil
}
