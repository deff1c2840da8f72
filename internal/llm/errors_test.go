package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	err := classify(ctx, errors.New("rpc error: code = DeadlineExceeded"), "call")
	assert.Equal(t, FailureTimeout, err.Kind)
}

func TestClassify_NetTimeout(t *testing.T) {
	err := classify(context.Background(), fmt.Errorf("dial: %w", timeoutErr{}), "call")
	assert.Equal(t, FailureTimeout, err.Kind)
}

func TestClassify_APIError(t *testing.T) {
	quota := &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}
	err := classify(context.Background(), quota, "call")
	assert.Equal(t, FailureUnavailable, err.Kind)

	timeout := &openai.APIError{HTTPStatusCode: 408, Message: "timeout"}
	assert.Equal(t, FailureTimeout, classify(context.Background(), timeout, "call").Kind)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("resume extraction: %w", &CallError{Kind: FailureBadResponse, Message: "no candidates"})
	assert.Equal(t, FailureBadResponse, KindOf(wrapped))
	assert.Equal(t, FailureTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, FailureUnavailable, KindOf(errors.New("connection refused")))
}

func TestCallError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &CallError{Kind: FailureUnavailable, Message: "call", Cause: cause}
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unavailable")
}
