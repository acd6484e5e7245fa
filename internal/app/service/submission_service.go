package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"codecampus/internal/common"
	"codecampus/internal/domain/model"
	"codecampus/internal/domain/repository"
	"codecampus/internal/gateway"
	"codecampus/internal/platform/logger"

	"github.com/google/uuid"
)

// SubmissionService drives the run/submit workflow of the challenge
// editor against the execution gateway. At most one gateway-backed
// operation may be outstanding per session; overlapping requests are
// rejected rather than queued, mirroring the editor's disabled
// Run/Submit controls.
type SubmissionService struct {
	profileRepo repository.ProfileRepository
	catalog     *CatalogService
	executor    gateway.CodeExecutionService
	log         *logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{} // keyed by session email
}

func NewSubmissionService(
	profileRepo repository.ProfileRepository,
	catalog *CatalogService,
	executor gateway.CodeExecutionService,
	log *logger.Logger,
) *SubmissionService {
	return &SubmissionService{
		profileRepo: profileRepo,
		catalog:     catalog,
		executor:    executor,
		log:         log,
		inFlight:    make(map[string]struct{}),
	}
}

func (s *SubmissionService) acquire(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[email]; busy {
		return common.ErrExecutionInProgress
	}
	s.inFlight[email] = struct{}{}
	return nil
}

func (s *SubmissionService) release(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, email)
}

type RunRequest struct {
	Language  string                `json:"language"`
	Files     []gateway.VirtualFile `json:"files"`
	EntryFile string                `json:"entry_file"`
	Stdin     string                `json:"stdin"`
}

type RunResponse struct {
	Result *gateway.ExecutionResult `json:"result"`
	// Natural-language explanation, present only for compile errors.
	Explanation string `json:"explanation,omitempty"`
}

// Run performs one compile-and-run with custom stdin. A compilation
// error is a first-class outcome and triggers a follow-up explanation
// call; a failed explanation never fails the run.
func (s *SubmissionService) Run(ctx context.Context, email string, req RunRequest) (*RunResponse, error) {
	if req.Language == "" || len(req.Files) == 0 {
		return nil, fmt.Errorf("language and files are required: %w", common.ErrBadRequest)
	}
	if err := s.acquire(email); err != nil {
		return nil, err
	}
	defer s.release(email)

	result, err := s.executor.Execute(ctx, gateway.ExecutionRequest{
		Language:  req.Language,
		Files:     req.Files,
		EntryFile: req.EntryFile,
		Stdin:     req.Stdin,
	})
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", common.ErrServiceUnavailable)
	}

	resp := &RunResponse{Result: result}
	if result.Compile.Status == gateway.CompileError {
		resp.Explanation = s.explainCompileError(ctx, req.Language, entrySource(req.Files, req.EntryFile), result.Compile.Message)
	}
	return resp, nil
}

type SubmitRequest struct {
	ChallengeID int                   `json:"challenge_id"`
	Language    string                `json:"language"`
	Files       []gateway.VirtualFile `json:"files"`
	EntryFile   string                `json:"entry_file"`
}

type SubmitResponse struct {
	CompileError *gateway.CompileResult  `json:"compile_error,omitempty"`
	Explanation  string                  `json:"explanation,omitempty"`
	Results      []model.TestCaseResult  `json:"results,omitempty"`
	Passed       int                     `json:"passed"`
	Total        int                     `json:"total"`
	Accepted     bool                    `json:"accepted"`
	Record       *model.SubmissionRecord `json:"record,omitempty"`
}

// Submit runs every test case of the challenge sequentially. The loop
// stops on the first compilation error; once compilation succeeds all
// cases run so the caller sees a full pass/fail tally. Only a fully
// passing run creates a SubmissionRecord.
func (s *SubmissionService) Submit(ctx context.Context, email string, req SubmitRequest) (*SubmitResponse, error) {
	if req.Language == "" || len(req.Files) == 0 {
		return nil, fmt.Errorf("language and files are required: %w", common.ErrBadRequest)
	}

	challenge, err := s.catalog.GetByID(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetProfile(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if err := s.acquire(email); err != nil {
		return nil, err
	}
	defer s.release(email)

	resp := &SubmitResponse{Total: len(challenge.TestCases)}
	for _, tc := range challenge.TestCases {
		result, err := s.executor.Execute(ctx, gateway.ExecutionRequest{
			Language:  req.Language,
			Files:     req.Files,
			EntryFile: req.EntryFile,
			Stdin:     tc.Input,
		})
		if err != nil {
			return nil, fmt.Errorf("execution failed: %w", common.ErrServiceUnavailable)
		}

		if result.Compile.Status == gateway.CompileError {
			// The same source cannot compile for a later case either.
			compile := result.Compile
			resp.CompileError = &compile
			resp.Explanation = s.explainCompileError(ctx, req.Language, entrySource(req.Files, req.EntryFile), compile.Message)
			return resp, nil
		}

		caseResult := evaluateCase(tc, result.Run)
		if caseResult.Verdict == model.VerdictPass {
			resp.Passed++
		}
		resp.Results = append(resp.Results, caseResult)
	}

	if resp.Passed == resp.Total && resp.Total > 0 {
		record, err := s.recordAccepted(ctx, profile, challenge, req)
		if err != nil {
			return nil, err
		}
		resp.Accepted = true
		resp.Record = record
	}
	return resp, nil
}

// evaluateCase compares gateway output against the expected output. A
// run that did not complete is a runtime fault and keeps its message
// for display; a completed run with different output is a plain fail.
func evaluateCase(tc model.TestCase, run *gateway.RunResult) model.TestCaseResult {
	result := model.TestCaseResult{
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
	}
	if run == nil {
		result.Verdict = model.VerdictError
		result.ErrorMessage = "no execution record returned"
		return result
	}
	result.ActualOutput = strings.TrimRight(run.Stdout, "\n")
	if !run.Completed {
		result.Verdict = model.VerdictError
		result.ErrorMessage = run.Stderr
		return result
	}
	if strings.TrimSpace(run.Stdout) == strings.TrimSpace(tc.ExpectedOutput) {
		result.Verdict = model.VerdictPass
		return result
	}
	result.Verdict = model.VerdictFail
	return result
}

// recordAccepted prepends the new record and recomputes the solved and
// points stats from distinct Accepted challenge ids, then persists
// profile and session together.
func (s *SubmissionService) recordAccepted(ctx context.Context, profile *model.UserProfile, challenge *model.Challenge, req SubmitRequest) (*model.SubmissionRecord, error) {
	record := model.SubmissionRecord{
		ID:          uuid.NewString(),
		ChallengeID: challenge.ID,
		Title:       challenge.Title,
		Status:      model.SubmissionAccepted,
		Timestamp:   time.Now().UTC(),
		Code:        entrySource(req.Files, req.EntryFile),
		Language:    req.Language,
	}
	profile.Submissions = append([]model.SubmissionRecord{record}, profile.Submissions...)

	scores := make(map[int]int)
	if challenges, err := s.catalog.ListAll(ctx); err == nil {
		for _, c := range challenges {
			scores[c.ID] = c.Score
		}
	}
	points := 0
	for _, id := range profile.SolvedChallengeIDs() {
		points += scores[id]
	}
	profile.SetStat("Problems", strconv.Itoa(profile.SolvedCount()))
	profile.SetStat("Points", strconv.Itoa(points))

	if err := s.profileRepo.SaveProfileAndSession(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}
	s.log.Info("submission accepted", "email", profile.Email, "challenge_id", challenge.ID)
	return &record, nil
}

type AnalyzeRequest struct {
	Language       string `json:"language"`
	Source         string `json:"source"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	ActualOutput   string `json:"actual_output"`
}

// Analyze asks the gateway for a natural-language diagnosis of a
// wrong-answer or runtime-error case.
func (s *SubmissionService) Analyze(ctx context.Context, req AnalyzeRequest) (string, error) {
	if req.Language == "" || req.Source == "" {
		return "", fmt.Errorf("language and source are required: %w", common.ErrBadRequest)
	}
	analysis, err := s.executor.AnalyzeWrongAnswer(ctx, req.Language, req.Source, req.Input, req.ExpectedOutput, req.ActualOutput)
	if err != nil {
		return "", fmt.Errorf("analysis failed: %w", common.ErrServiceUnavailable)
	}
	return analysis, nil
}

func (s *SubmissionService) explainCompileError(ctx context.Context, language, source, message string) string {
	explanation, err := s.executor.ExplainCompileError(ctx, language, source, message)
	if err != nil {
		s.log.Warn("compile-error explanation failed", "error", err)
		return ""
	}
	return explanation
}

func entrySource(files []gateway.VirtualFile, entryFile string) string {
	for _, f := range files {
		if f.Name == entryFile {
			return f.Content
		}
	}
	if len(files) > 0 {
		return files[0].Content
	}
	return ""
}
