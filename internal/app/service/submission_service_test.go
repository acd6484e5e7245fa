package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"codecampus/internal/common"
	"codecampus/internal/domain/model"
	"codecampus/internal/domain/repository"
	"codecampus/internal/gateway"
	"codecampus/internal/platform/logger"
	"codecampus/internal/platform/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor scripts the gateway. answers maps stdin to stdout; any
// unmapped stdin yields "???". When compileMessage is set every call
// reports a compile error instead.
type fakeExecutor struct {
	answers        map[string]string
	compileMessage string
	crashOn        string // stdin that triggers a runtime fault
	executeCalls   int
	explainCalls   int
	analyzeCalls   int
	block          chan struct{} // when set, Execute waits until closed
}

func (f *fakeExecutor) Execute(_ context.Context, req gateway.ExecutionRequest) (*gateway.ExecutionResult, error) {
	f.executeCalls++
	if f.block != nil {
		<-f.block
	}
	if f.compileMessage != "" {
		return &gateway.ExecutionResult{
			Compile: gateway.CompileResult{
				Status:  gateway.CompileError,
				Message: f.compileMessage,
				Line:    3,
			},
		}, nil
	}
	if f.crashOn != "" && req.Stdin == f.crashOn {
		return &gateway.ExecutionResult{
			Compile: gateway.CompileResult{Status: gateway.CompileSuccess},
			Run: &gateway.RunResult{
				Stderr:    "segmentation fault",
				Completed: false,
			},
		}, nil
	}
	stdout, ok := f.answers[req.Stdin]
	if !ok {
		stdout = "???"
	}
	return &gateway.ExecutionResult{
		Compile: gateway.CompileResult{Status: gateway.CompileSuccess},
		Run: &gateway.RunResult{
			Stdout:    stdout + "\n",
			Completed: true,
			TimeMs:    12,
			MemoryKB:  1024,
		},
	}, nil
}

func (f *fakeExecutor) ExplainCompileError(context.Context, string, string, string) (string, error) {
	f.explainCalls++
	return "You forgot a `;` on **line 3**.", nil
}

func (f *fakeExecutor) AnalyzeWrongAnswer(context.Context, string, string, string, string, string) (string, error) {
	f.analyzeCalls++
	return "The loop bound is off by one, check `i <= n`.", nil
}

// passingAnswers scripts correct outputs for every test case of a
// default challenge.
func passingAnswers(t *testing.T, challengeID int) map[string]string {
	t.Helper()
	for _, c := range model.DefaultChallenges() {
		if c.ID == challengeID {
			answers := make(map[string]string, len(c.TestCases))
			for _, tc := range c.TestCases {
				answers[tc.Input] = tc.ExpectedOutput
			}
			return answers
		}
	}
	t.Fatalf("no default challenge with id %d", challengeID)
	return nil
}

type submissionFixture struct {
	auth       *AuthService
	catalog    *CatalogService
	submission *SubmissionService
	executor   *fakeExecutor
	repo       repository.ProfileRepository
}

func newSubmissionFixture(t *testing.T, executor *fakeExecutor) *submissionFixture {
	t.Helper()
	store := storage.NewMemoryStore()
	log := logger.NewNop()
	profileRepo := repository.NewKVProfileRepository(store, "profiles", "session", log)
	challengeRepo := repository.NewKVChallengeRepository(store, "challenges", log)
	catalog := NewCatalogService(challengeRepo, log)
	return &submissionFixture{
		auth:       NewAuthService(profileRepo, log),
		catalog:    catalog,
		submission: NewSubmissionService(profileRepo, catalog, executor, log),
		executor:   executor,
		repo:       profileRepo,
	}
}

func (f *submissionFixture) login(t *testing.T, email string) {
	t.Helper()
	_, err := f.auth.Login(context.Background(), LoginRequest{Role: model.RoleUser, Email: email})
	require.NoError(t, err)
}

func submitFiles(code string) []gateway.VirtualFile {
	return []gateway.VirtualFile{{Name: "main.cpp", Content: code}}
}

func TestSubmitAllPassingCreatesRecord(t *testing.T) {
	executor := &fakeExecutor{answers: passingAnswers(t, 1)}
	f := newSubmissionFixture(t, executor)
	f.login(t, "new@x.com")
	ctx := context.Background()

	resp, err := f.submission.Submit(ctx, "new@x.com", SubmitRequest{
		ChallengeID: 1,
		Language:    "cpp",
		Files:       submitFiles("int main() {}"),
		EntryFile:   "main.cpp",
	})
	require.NoError(t, err)

	assert.True(t, resp.Accepted)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 3, resp.Passed)
	require.NotNil(t, resp.Record)
	assert.Equal(t, model.SubmissionAccepted, resp.Record.Status)
	assert.Equal(t, 1, resp.Record.ChallengeID)
	assert.Equal(t, "int main() {}", resp.Record.Code)

	// Every test case hit the gateway exactly once.
	assert.Equal(t, 3, executor.executeCalls)

	// Profile and session both carry the new record and updated stats.
	profile, err := f.repo.GetProfile(ctx, "new@x.com")
	require.NoError(t, err)
	require.Len(t, profile.Submissions, 1)
	assert.Equal(t, resp.Record.ID, profile.Submissions[0].ID)
	session, err := f.repo.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, session)

	for _, stat := range profile.Stats {
		switch stat.Label {
		case "Problems":
			assert.Equal(t, "1", stat.Value)
		case "Points":
			assert.Equal(t, "10", stat.Value)
		}
	}
}

func TestSubmitCompileErrorFailsFast(t *testing.T) {
	executor := &fakeExecutor{compileMessage: "expected ';' before '}' token"}
	f := newSubmissionFixture(t, executor)
	f.login(t, "new@x.com")

	resp, err := f.submission.Submit(context.Background(), "new@x.com", SubmitRequest{
		ChallengeID: 1,
		Language:    "cpp",
		Files:       submitFiles("int main() {"),
		EntryFile:   "main.cpp",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.CompileError)
	assert.Equal(t, gateway.CompileError, resp.CompileError.Status)
	assert.False(t, resp.Accepted)
	assert.Nil(t, resp.Record)
	assert.Empty(t, resp.Results)

	// Fail-fast: only the first case reached the gateway, and the
	// explanation follow-up fired automatically.
	assert.Equal(t, 1, executor.executeCalls)
	assert.Equal(t, 1, executor.explainCalls)
	assert.Contains(t, resp.Explanation, "`;`")
}

func TestSubmitWrongAnswerRunsAllCases(t *testing.T) {
	answers := passingAnswers(t, 1)
	answers["-7 7"] = "14" // one wrong case
	executor := &fakeExecutor{answers: answers}
	f := newSubmissionFixture(t, executor)
	f.login(t, "new@x.com")

	resp, err := f.submission.Submit(context.Background(), "new@x.com", SubmitRequest{
		ChallengeID: 1,
		Language:    "cpp",
		Files:       submitFiles("int main() {}"),
		EntryFile:   "main.cpp",
	})
	require.NoError(t, err)

	// No fail-fast for logic errors: every case still runs.
	assert.Equal(t, 3, executor.executeCalls)
	assert.Equal(t, 2, resp.Passed)
	assert.Equal(t, 3, resp.Total)
	assert.False(t, resp.Accepted)
	assert.Nil(t, resp.Record)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, model.VerdictFail, resp.Results[1].Verdict)
	assert.Equal(t, "14", resp.Results[1].ActualOutput)

	// Nothing was recorded against the profile.
	profile, err := f.repo.GetProfile(context.Background(), "new@x.com")
	require.NoError(t, err)
	assert.Empty(t, profile.Submissions)
}

func TestSubmitRuntimeFaultRecordedAsError(t *testing.T) {
	executor := &fakeExecutor{answers: passingAnswers(t, 1), crashOn: "-7 7"}
	f := newSubmissionFixture(t, executor)
	f.login(t, "new@x.com")

	resp, err := f.submission.Submit(context.Background(), "new@x.com", SubmitRequest{
		ChallengeID: 1,
		Language:    "cpp",
		Files:       submitFiles("int main() {}"),
		EntryFile:   "main.cpp",
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, model.VerdictError, resp.Results[1].Verdict)
	assert.Equal(t, "segmentation fault", resp.Results[1].ErrorMessage)
	assert.False(t, resp.Accepted)
}

func TestSubmissionOrderingAndSolvedCount(t *testing.T) {
	executor := &fakeExecutor{answers: passingAnswers(t, 1)}
	f := newSubmissionFixture(t, executor)
	f.login(t, "new@x.com")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp, err := f.submission.Submit(ctx, "new@x.com", SubmitRequest{
			ChallengeID: 1,
			Language:    "cpp",
			Files:       submitFiles(fmt.Sprintf("int main() { /* attempt %d */ }", i)),
			EntryFile:   "main.cpp",
		})
		require.NoError(t, err)
		require.True(t, resp.Accepted)
	}

	profile, err := f.repo.GetProfile(ctx, "new@x.com")
	require.NoError(t, err)
	require.Len(t, profile.Submissions, 3)

	// Newest first: later attempts sit at the front.
	assert.Contains(t, profile.Submissions[0].Code, "attempt 2")
	assert.Contains(t, profile.Submissions[2].Code, "attempt 0")
	for i := 0; i < len(profile.Submissions)-1; i++ {
		assert.False(t, profile.Submissions[i].Timestamp.Before(profile.Submissions[i+1].Timestamp))
	}

	// Solved count is distinct challenges, not raw submissions.
	assert.Equal(t, 1, profile.SolvedCount())
	for _, stat := range profile.Stats {
		if stat.Label == "Problems" {
			assert.Equal(t, "1", stat.Value)
		}
	}
}

func TestRunReturnsVerdictAndExplainsCompileError(t *testing.T) {
	executor := &fakeExecutor{compileMessage: "undefined reference to `main`"}
	f := newSubmissionFixture(t, executor)
	f.login(t, "new@x.com")

	resp, err := f.submission.Run(context.Background(), "new@x.com", RunRequest{
		Language: "cpp",
		Files:    submitFiles("void notmain() {}"),
		Stdin:    "1 2",
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.CompileError, resp.Result.Compile.Status)
	assert.NotEmpty(t, resp.Explanation)
	assert.Equal(t, 1, executor.explainCalls)
}

func TestOverlappingExecutionRejected(t *testing.T) {
	executor := &fakeExecutor{answers: passingAnswers(t, 1), block: make(chan struct{})}
	f := newSubmissionFixture(t, executor)
	f.login(t, "new@x.com")
	ctx := context.Background()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := f.submission.Run(ctx, "new@x.com", RunRequest{
			Language: "cpp",
			Files:    submitFiles("int main() {}"),
			Stdin:    "2 3",
		})
		done <- err
	}()

	<-started
	// Give the goroutine time to take the in-flight slot.
	require.Eventually(t, func() bool {
		_, err := f.submission.Run(ctx, "new@x.com", RunRequest{
			Language: "cpp",
			Files:    submitFiles("int main() {}"),
			Stdin:    "2 3",
		})
		return err != nil && strings.Contains(err.Error(), common.ErrExecutionInProgress.Error())
	}, time.Second, 10*time.Millisecond)

	close(executor.block)
	require.NoError(t, <-done)

	// The slot frees after completion.
	executor.block = nil
	_, err := f.submission.Run(ctx, "new@x.com", RunRequest{
		Language: "cpp",
		Files:    submitFiles("int main() {}"),
		Stdin:    "2 3",
	})
	assert.NoError(t, err)
}

func TestAnalyzeWrongAnswer(t *testing.T) {
	executor := &fakeExecutor{}
	f := newSubmissionFixture(t, executor)

	analysis, err := f.submission.Analyze(context.Background(), AnalyzeRequest{
		Language:       "cpp",
		Source:         "int main() {}",
		Input:          "2 3",
		ExpectedOutput: "5",
		ActualOutput:   "6",
	})
	require.NoError(t, err)
	assert.Contains(t, analysis, "off by one")
	assert.Equal(t, 1, executor.analyzeCalls)
}

// Fresh storage, login, solve, logout, relogin: the profile survives
// with its submission intact.
func TestEndToEndLoginSubmitRelogin(t *testing.T) {
	executor := &fakeExecutor{answers: passingAnswers(t, 1)}
	f := newSubmissionFixture(t, executor)
	ctx := context.Background()

	first, err := f.auth.Login(ctx, LoginRequest{Role: model.RoleUser, Email: "new@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "new", first.User.Username)
	assert.Equal(t, model.DefaultStats(), first.User.Stats)
	assert.Empty(t, first.User.Submissions)

	resp, err := f.submission.Submit(ctx, "new@x.com", SubmitRequest{
		ChallengeID: 1,
		Language:    "cpp",
		Files:       submitFiles("int main() {}"),
		EntryFile:   "main.cpp",
	})
	require.NoError(t, err)
	require.True(t, resp.Accepted)

	require.NoError(t, f.auth.Logout(ctx))

	again, err := f.auth.Login(ctx, LoginRequest{Role: model.RoleUser, Email: "new@x.com"})
	require.NoError(t, err)
	require.Len(t, again.User.Submissions, 1)
	assert.Equal(t, model.SubmissionAccepted, again.User.Submissions[0].Status)
	assert.Equal(t, 1, again.User.Submissions[0].ChallengeID)
}
