package gateway

import (
	"context"
	"fmt"

	"codecampus/internal/common"
)

// DisabledGateway stands in for the execution service when no API key
// is configured. Every call fails with common.ErrServiceUnavailable so
// the rest of the platform (catalog, navigation, profiles) stays
// usable and execution endpoints answer 503 instead of the server
// refusing to start.
type DisabledGateway struct{}

func NewDisabledGateway() *DisabledGateway {
	return &DisabledGateway{}
}

func (g *DisabledGateway) Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error) {
	return nil, fmt.Errorf("execution gateway is not configured: %w", common.ErrServiceUnavailable)
}

func (g *DisabledGateway) ExplainCompileError(ctx context.Context, language, source, message string) (string, error) {
	return "", fmt.Errorf("execution gateway is not configured: %w", common.ErrServiceUnavailable)
}

func (g *DisabledGateway) AnalyzeWrongAnswer(ctx context.Context, language, source, input, expected, actual string) (string, error) {
	return "", fmt.Errorf("execution gateway is not configured: %w", common.ErrServiceUnavailable)
}
