package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/internship-matcher/internal/analysis"
	"github.com/jonathan/internship-matcher/internal/extraction"
	"github.com/jonathan/internship-matcher/internal/parsing"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&parsing.Error{Kind: parsing.KindTimeout}))
	assert.True(t, IsRetryable(&analysis.Error{Kind: analysis.KindServiceUnavailable}))
	assert.False(t, IsRetryable(&parsing.Error{Kind: parsing.KindInvalidResponse}))
	assert.False(t, IsRetryable(&extraction.Error{Kind: extraction.KindUnreadable}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestRetry_StopsAfterAttempts(t *testing.T) {
	calls := 0
	_, err := retry(context.Background(), RetryPolicy{Attempts: 3, Backoff: time.Millisecond}, "op", func() (int, error) {
		calls++
		return 0, &parsing.Error{Kind: parsing.KindServiceUnavailable}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ZeroPolicyRunsOnce(t *testing.T) {
	calls := 0
	_, err := retry(context.Background(), RetryPolicy{}, "op", func() (int, error) {
		calls++
		return 0, &parsing.Error{Kind: parsing.KindTimeout}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_HonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := retry(ctx, RetryPolicy{Attempts: 5, Backoff: time.Hour}, "op", func() (int, error) {
		calls++
		cancel()
		return 0, &parsing.Error{Kind: parsing.KindTimeout}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetry_Success(t *testing.T) {
	calls := 0
	got, err := retry(context.Background(), DefaultRetryPolicy(), "op", func() (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}
