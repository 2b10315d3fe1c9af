package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/aptpod/mptcp-go/internal/retry"
)

var errTest = errors.New("test")

func TestRetry_nextSleep(t *testing.T) {
	type args struct {
		count           int
		baseInterval    time.Duration
		maxBaseInterval time.Duration
	}
	tests := []struct {
		name string
		args args
		want time.Duration
	}{
		{
			name: "success:0",
			args: args{count: 0, baseInterval: 1, maxBaseInterval: 1000},
			want: 1,
		},
		{
			name: "success:1",
			args: args{count: 1, baseInterval: 1, maxBaseInterval: 1000},
			want: 2,
		},
		{
			name: "success:2",
			args: args{count: 2, baseInterval: 1, maxBaseInterval: 1000},
			want: 4,
		},
		{
			name: "success:5",
			args: args{count: 5, baseInterval: 1, maxBaseInterval: 1000},
			want: 32,
		},
		{
			name: "success:7",
			args: args{count: 7, baseInterval: 1, maxBaseInterval: 1000},
			want: 128,
		},
		{
			name: "success:100",
			args: args{count: 100000, baseInterval: 1, maxBaseInterval: 1000},
			want: 1000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetRandFloat64(t, 0.5)
			assert.Equal(t, tt.want, NextSleep(tt.args.count, tt.args.baseInterval, tt.args.maxBaseInterval))
		})
	}
}

func TestRetry_Do(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		start := time.Now()
		var count int
		err := Do(ctx, func(context.Context) error {
			count++
			if count == 3 {
				return nil
			}
			return errTest
		})
		assert.NoError(t, err)
		assert.Greater(t, time.Since(start), time.Millisecond*150)
		assert.Less(t, time.Since(start), time.Millisecond*450)
	}
}

func TestRetry_Do_MaxAttempt(t *testing.T) {
	var count int
	err := Retry{MaxAttempt: 2, BaseInterval: time.Millisecond}.Do(context.Background(), func(context.Context) error {
		count++
		return errTest
	})
	assert.ErrorIs(t, err, errTest)
	assert.Equal(t, 3, count)
}

func TestRetry_Do_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var count int
	err := Retry{BaseInterval: time.Hour}.Do(ctx, func(context.Context) error {
		count++
		cancel()
		return errTest
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, count)
}
