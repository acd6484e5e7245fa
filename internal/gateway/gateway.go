// Package gateway defines the simulated code-execution boundary. The
// platform never compiles or runs user code itself; it hands the full
// virtual file set to an external service and gets a structured
// verdict back. Any real runner (sandboxed interpreter, container
// executor) can be substituted behind CodeExecutionService without
// touching the editor or navigation logic.
package gateway

import "context"

// VirtualFile is one named file of the editor's in-memory workspace.
type VirtualFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ExecutionRequest describes one compile-and-run of the workspace.
type ExecutionRequest struct {
	Language  string        `json:"language"`
	Files     []VirtualFile `json:"files"`
	EntryFile string        `json:"entry_file"`
	Stdin     string        `json:"stdin"`
}

type CompileStatus string

const (
	CompileSuccess CompileStatus = "success"
	CompileError   CompileStatus = "error"
)

// CompileResult reports the simulated compilation outcome. Line and
// column are zero when the service did not locate the error.
type CompileResult struct {
	Status  CompileStatus `json:"status"`
	Message string        `json:"message,omitempty"`
	Line    int           `json:"line,omitempty"`
	Column  int           `json:"column,omitempty"`
}

// IOChunk is one entry of the chronological stdin/stdout/stderr
// transcript.
type IOChunk struct {
	Stream string `json:"stream"` // stdin, stdout or stderr
	Text   string `json:"text"`
}

// RunResult is the execution record for a successful compilation.
type RunResult struct {
	Stdout     string        `json:"stdout"`
	Stderr     string        `json:"stderr"`
	Transcript []IOChunk     `json:"transcript,omitempty"`
	Completed  bool          `json:"completed"`
	TimeMs     int           `json:"time_ms,omitempty"`
	MemoryKB   int           `json:"memory_kb,omitempty"`
	Files      []VirtualFile `json:"files,omitempty"` // created or modified
}

// ExecutionResult is the structured verdict of one gateway call. Run
// is nil when compilation failed.
type ExecutionResult struct {
	Compile CompileResult `json:"compile"`
	Run     *RunResult    `json:"run,omitempty"`
}

// CodeExecutionService is the opaque execution collaborator. The two
// auxiliary calls return free-form text using backtick code spans and
// double-asterisk bold.
type CodeExecutionService interface {
	Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error)
	ExplainCompileError(ctx context.Context, language, source, message string) (string, error)
	AnalyzeWrongAnswer(ctx context.Context, language, source, input, expected, actual string) (string, error)
}
