package model

import "time"

// ExamResultsExport is the top-level JSON structure for the export command.
type ExamResultsExport struct {
	ExamID     string             `json:"exam_id"`
	Title      string             `json:"title"`
	Subject    string             `json:"subject"`
	Difficulty string             `json:"difficulty"`
	ExportedAt time.Time          `json:"exported_at"`
	Results    []SubmissionResult `json:"results"`
}

// SubmissionResult holds one student's submission data for export.
type SubmissionResult struct {
	StudentID   string       `json:"student_id"`
	StudentName string       `json:"student_name"`
	Score       int          `json:"score"`
	Total       int          `json:"total"`
	SubmittedAt time.Time    `json:"submitted_at"`
	GradedAt    *time.Time   `json:"graded_at,omitempty"`
	GradedBy    string       `json:"graded_by,omitempty"`
	Answers     []AnswerLine `json:"answers"`
}

// AnswerLine is a single answer row in an exported result.
type AnswerLine struct {
	Question       string  `json:"question"`
	SelectedOption *string `json:"selected_option"`
	CorrectAnswer  *string `json:"correct_answer"`
	IsCorrect      *bool   `json:"is_correct"`
}
