package model

import "time"

type SubmissionStatus string

const (
	SubmissionAccepted          SubmissionStatus = "Accepted"
	SubmissionWrongAnswer       SubmissionStatus = "Wrong Answer"
	SubmissionTimeLimitExceeded SubmissionStatus = "Time Limit Exceeded"
)

// SubmissionRecord is one recorded attempt. Records are immutable once
// created and are only created for fully passing runs; they are
// prepended to the owning profile's submission list.
type SubmissionRecord struct {
	ID          string           `json:"id"`
	ChallengeID int              `json:"challenge_id"`
	Title       string           `json:"title"`
	Status      SubmissionStatus `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
	Code        string           `json:"code"`
	Language    string           `json:"language"`
}

// TestCaseVerdict is the per-case outcome of a submit run.
type TestCaseVerdict string

const (
	VerdictPass  TestCaseVerdict = "pass"
	VerdictFail  TestCaseVerdict = "fail"
	VerdictError TestCaseVerdict = "error"
)

// TestCaseResult pairs a challenge test case with its verdict for one
// submit run. Not persisted; returned to the caller for display.
type TestCaseResult struct {
	Input          string          `json:"input"`
	ExpectedOutput string          `json:"expected_output"`
	ActualOutput   string          `json:"actual_output"`
	Verdict        TestCaseVerdict `json:"verdict"`
	ErrorMessage   string          `json:"error_message,omitempty"`
}
