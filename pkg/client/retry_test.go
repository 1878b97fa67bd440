package client

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    5 * time.Millisecond,
		MaxBackoff:        20 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", config.MaxAttempts)
	}
	if config.InitialBackoff != 1*time.Second {
		t.Errorf("InitialBackoff = %v, want 1s", config.InitialBackoff)
	}
	if config.MaxBackoff != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want 30s", config.MaxBackoff)
	}
	if config.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %v, want 2.0", config.BackoffMultiplier)
	}
}

func TestRetry_SuccessFirstAttempt(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		attempts++
		return nil
	})
	if err != nil {
		t.Errorf("Retry failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_NetworkErrorThenSuccess(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return NetworkError("timeout", ErrTimeout)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Retry failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_NonRetryableReturnsImmediately(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "decode error",
			err:  DecodeError("bad json", nil),
		},
		{
			name: "validation error",
			err:  ValidationError("duplicate id", nil),
		},
		{
			name: "unclassified error",
			err:  errors.New("plain"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
				attempts++
				return tt.err
			})
			if !errors.Is(err, tt.err) {
				t.Errorf("Retry error = %v, want %v", err, tt.err)
			}
			if attempts != 1 {
				t.Errorf("attempts = %d, want 1 (no retry)", attempts)
			}
		})
	}
}

func TestRetry_Exhaustion(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		attempts++
		return NetworkError("request failed", nil)
	})

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Retry error = %v, want ErrRetryExhausted", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	config := fastRetryConfig()
	config.InitialBackoff = 500 * time.Millisecond

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Retry(ctx, config, func(ctx context.Context) error {
		return NetworkError("timeout", ErrTimeout)
	})

	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Retry error = %v, want ErrContextCancelled", err)
	}
	if elapsed := time.Since(start); elapsed >= 500*time.Millisecond {
		t.Errorf("Retry did not abort backoff on cancel (took %v)", elapsed)
	}
}

func TestRetry_ZeroConfigUsesDefault(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), RetryConfig{}, func(ctx context.Context) error {
		attempts++
		return nil
	})
	if err != nil {
		t.Errorf("Retry failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
