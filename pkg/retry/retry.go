package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"laboutique_erp_202610/pkg/logger"
)

// Config 重试配置
type Config struct {
	MaxRetries     int           // 最大重试次数（不含首次）
	InitialBackoff time.Duration // 首次退避
	MaxBackoff     time.Duration // 退避上限
	BackoffFactor  float64       // 指数因子
	Jitter         float64       // 抖动比例 0~1
	RetryableKinds []Kind
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		MaxRetries:     5,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     60 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.1,
		RetryableKinds: []Kind{KindNetwork, KindTimeout, KindRateLimited, KindServer},
	}
}

// Result 执行结果
type Result struct {
	Attempts      int
	LastError     error
	TotalDuration time.Duration
}

// Err 最终错误，成功时为 nil
func (r *Result) Err() error {
	return r.LastError
}

// Retrier 指数退避重试器
type Retrier struct {
	cfg   Config
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier 创建重试器，零值字段使用默认配置
func NewRetrier(cfg Config) *Retrier {
	def := DefaultConfig()
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = def.BackoffFactor
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Jitter < 0 || cfg.Jitter > 1 {
		cfg.Jitter = def.Jitter
	}
	if len(cfg.RetryableKinds) == 0 {
		cfg.RetryableKinds = def.RetryableKinds
	}
	return &Retrier{cfg: cfg, sleep: sleepCtx}
}

// Config 返回当前配置
func (r *Retrier) Config() Config {
	return r.cfg
}

// ShouldRetry 判断错误是否可重试
func (r *Retrier) ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	kind := Classify(err)
	for _, k := range r.cfg.RetryableKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// exponential 单次 Do 使用的指数退避，不设总时长上限
func (r *Retrier) exponential() *backoff.ExponentialBackOff {
	eb := &backoff.ExponentialBackOff{
		InitialInterval:     r.cfg.InitialBackoff,
		RandomizationFactor: r.cfg.Jitter,
		Multiplier:          r.cfg.BackoffFactor,
		MaxInterval:         r.cfg.MaxBackoff,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	eb.Reset()
	return eb
}

// Backoff 第 attempt 次重试前的等待时间（attempt 从 0 开始）
func (r *Retrier) Backoff(attempt int) time.Duration {
	eb := r.exponential()
	d := eb.NextBackOff()
	for i := 0; i < attempt; i++ {
		d = eb.NextBackOff()
	}
	return d
}

// Do 执行 fn，可重试错误按退避策略重试
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) *Result {
	start := time.Now()
	res := &Result{}
	b := backoff.WithMaxRetries(backoff.WithContext(r.exponential(), ctx), uint64(r.cfg.MaxRetries))

	for {
		res.Attempts++
		err := fn(ctx)
		res.LastError = err
		if err == nil || !r.ShouldRetry(err) {
			break
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			break
		}
		if ra := RetryAfterOf(err); ra > wait {
			wait = min(ra, r.cfg.MaxBackoff)
		}

		logger.Warn("[Retry] 操作失败，准备重试",
			zap.String("op", op),
			zap.Int("attempt", res.Attempts),
			zap.String("kind", string(Classify(err))),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		if serr := r.sleep(ctx, wait); serr != nil {
			res.LastError = serr
			break
		}
	}

	res.TotalDuration = time.Since(start)
	return res
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
