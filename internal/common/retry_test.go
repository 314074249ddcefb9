package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type tempErr struct{}

func (tempErr) Error() string   { return "temporary" }
func (tempErr) Temporary() bool { return true }

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return errors.New("permanent")
	}, 3, time.Millisecond)

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRetriesTemporaryErrors(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return tempErr{}
		}
		return nil
	}, 3, time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetry(ctx, func() error { return tempErr{} }, 5, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
