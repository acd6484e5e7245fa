package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiGateway implements CodeExecutionService against the Gemini API.
// Execute forces a JSON response schema so the verdict parses into
// ExecutionResult; the auxiliary calls are plain text generation.
type GeminiGateway struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiGateway(apiKey, model string, timeout time.Duration) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGateway{client: client, model: model, timeout: timeout}, nil
}

// executionSchema constrains the model's answer to the ExecutionResult
// wire shape.
func executionSchema() *genai.Schema {
	fileSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":    {Type: genai.TypeString},
			"content": {Type: genai.TypeString},
		},
		Required: []string{"name", "content"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"compile": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"status":  {Type: genai.TypeString, Enum: []string{"success", "error"}},
					"message": {Type: genai.TypeString},
					"line":    {Type: genai.TypeInteger},
					"column":  {Type: genai.TypeInteger},
				},
				Required: []string{"status"},
			},
			"run": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"stdout": {Type: genai.TypeString},
					"stderr": {Type: genai.TypeString},
					"transcript": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"stream": {Type: genai.TypeString, Enum: []string{"stdin", "stdout", "stderr"}},
								"text":   {Type: genai.TypeString},
							},
							Required: []string{"stream", "text"},
						},
					},
					"completed": {Type: genai.TypeBoolean},
					"time_ms":   {Type: genai.TypeInteger},
					"memory_kb": {Type: genai.TypeInteger},
					"files":     {Type: genai.TypeArray, Items: fileSchema},
				},
				Required: []string{"stdout", "stderr", "completed"},
			},
		},
		Required: []string{"compile"},
	}
}

func (g *GeminiGateway) Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "You are a strict %s compiler and runtime.\n", req.Language)
	prompt.WriteString("Compile the program below. If compilation fails, report status \"error\" with the compiler message and, when known, the line and column, and omit the run record.\n")
	prompt.WriteString("If compilation succeeds, simulate one execution with the given stdin and report exact stdout and stderr, a chronological transcript of interleaved stdin/stdout/stderr chunks, whether the program ran to completion, estimated elapsed time in milliseconds and memory in KB, and any files the program created or modified.\n\n")
	fmt.Fprintf(&prompt, "Entry file: %s\n", req.EntryFile)
	for _, file := range req.Files {
		fmt.Fprintf(&prompt, "\n--- %s ---\n%s\n", file.Name, file.Content)
	}
	fmt.Fprintf(&prompt, "\n--- stdin ---\n%s\n", req.Stdin)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt.String(), genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   executionSchema(),
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini execute call failed: %w", err)
	}

	result := &ExecutionResult{}
	if err := json.Unmarshal([]byte(resp.Text()), result); err != nil {
		return nil, fmt.Errorf("failed to parse execution verdict: %w", err)
	}
	if result.Compile.Status != CompileSuccess && result.Compile.Status != CompileError {
		return nil, fmt.Errorf("execution verdict has unknown compile status %q", result.Compile.Status)
	}
	return result, nil
}

func (g *GeminiGateway) ExplainCompileError(ctx context.Context, language, source, message string) (string, error) {
	prompt := fmt.Sprintf(
		"A student's %s program failed to compile.\n\nSource:\n%s\n\nCompiler message:\n%s\n\n"+
			"Explain the error in plain language for a beginner and suggest a fix. "+
			"Use `backticks` for code spans and **double asterisks** for emphasis. Keep it short.",
		language, source, message)
	return g.generateText(ctx, prompt)
}

func (g *GeminiGateway) AnalyzeWrongAnswer(ctx context.Context, language, source, input, expected, actual string) (string, error) {
	prompt := fmt.Sprintf(
		"A student's %s program compiled but produced the wrong result.\n\nSource:\n%s\n\n"+
			"Input:\n%s\n\nExpected output:\n%s\n\nActual output:\n%s\n\n"+
			"Explain the likely logic error and point at the part of the code to look at. "+
			"Use `backticks` for code spans and **double asterisks** for emphasis. Keep it short.",
		language, source, input, expected, actual)
	return g.generateText(ctx, prompt)
}

func (g *GeminiGateway) generateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini text call failed: %w", err)
	}
	return resp.Text(), nil
}
