package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

var (
	randFloat64         = rand.Float64
	defaultBaseInterval = 100 * time.Millisecond
	defaultMaxInterval  = 5 * time.Second
)

// RetryはExponential Backoff and Jitter方式のリトライを行います。
//
// Jitterは 0.5 ~ 1.5のランダム値です。
type Retry struct {
	// 最大リトライ回数。0はリトライをし続けます。デフォルトは0です。
	MaxAttempt int

	// 基準リトライ間隔。デフォルトは100ミリ秒です。
	BaseInterval time.Duration

	// 最大基準リトライ間隔。デフォルトは5秒です。
	MaxBaseInterval time.Duration
}

// Funcは、リトライ対象の処理です。nilを返すと成功としてリトライを終了します。
type Func func(ctx context.Context) error

// Doは、fが成功するか、最大リトライ回数に達するか、ctxが終了するまでfを繰り返します。
//
// 成功しなかった場合は最後にfが返したエラーを返却します。
// ctxが終了した場合はctxのエラーを返却します。
func (r Retry) Do(ctx context.Context, f Func) error {
	baseInterval := r.BaseInterval
	if baseInterval == 0 {
		baseInterval = defaultBaseInterval
	}
	maxBaseInterval := r.MaxBaseInterval
	if maxBaseInterval == 0 {
		maxBaseInterval = defaultMaxInterval
	}
	var retryCount int
	for {
		err := f(ctx)
		if err == nil {
			return nil
		}
		if r.MaxAttempt != 0 && retryCount >= r.MaxAttempt {
			return err
		}
		timer := time.NewTimer(nextSleep(retryCount, baseInterval, maxBaseInterval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		retryCount++
	}
}

func nextSleep(count int, base, max time.Duration) time.Duration {
	baseInterval := float64(base) * math.Pow(2, float64(count))
	if baseInterval > float64(max) {
		baseInterval = float64(max)
	}

	jitter := 0.5 + randFloat64()
	return time.Duration(baseInterval * jitter)
}

// Doは、デフォルト設定のRetryでfを実行します。
func Do(ctx context.Context, f Func) error {
	return Retry{}.Do(ctx, f)
}
