package gateway

import (
	"context"
	"net/http"
	"testing"

	"codecampus/internal/common"

	"github.com/stretchr/testify/assert"
)

func TestDisabledGatewayAnswersServiceUnavailable(t *testing.T) {
	g := NewDisabledGateway()
	ctx := context.Background()

	_, err := g.Execute(ctx, ExecutionRequest{Language: "Python"})
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, common.HTTPStatusFromError(err))

	_, err = g.ExplainCompileError(ctx, "C++", "int main(){}", "boom")
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)

	_, err = g.AnalyzeWrongAnswer(ctx, "C++", "int main(){}", "1", "2", "3")
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
}
