package common

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"time"
)

// IsTemporary 判断是否为临时性错误
func IsTemporary(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if temp, ok := err.(interface{ Temporary() bool }); ok {
		return temp.Temporary()
	}
	return false
}

// IsRetryable 判断是否可重试
func IsRetryable(err error) bool {
	return IsTemporary(err) || errors.Is(err, sql.ErrConnDone)
}

// WithRetry 通用重试机制，每次失败后线性退避
func WithRetry(ctx context.Context, operation func() error, maxRetries int, backoff time.Duration) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	return err
}
