package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"laboutique_erp_202610/pkg/logger"
)

// ==================== 依赖接口 ====================

// TokenRefresher AliExpress 授权续期
type TokenRefresher interface {
	RefreshExpiring(ctx context.Context) (refreshed, failed int, err error)
}

// CartCleaner 过期购物车清理
type CartCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// TicketCloser 已解决工单自动关闭
type TicketCloser interface {
	AutoCloseResolved(ctx context.Context, olderThan time.Duration) (int, error)
}

// Sweeper 内存缓存过期清理
type Sweeper interface {
	Sweep() int
}

// ==================== AliExpress Token 续期 ====================

type TokenRefreshJob struct {
	refresher TokenRefresher
}

func NewTokenRefreshJob(refresher TokenRefresher) *TokenRefreshJob {
	return &TokenRefreshJob{refresher: refresher}
}

func (j *TokenRefreshJob) Name() string { return "aliexpress_token_refresh" }

// Spec 每 30 分钟
func (j *TokenRefreshJob) Spec() string { return "0 */30 * * * *" }

func (j *TokenRefreshJob) Run(ctx context.Context) error {
	refreshed, failed, err := j.refresher.RefreshExpiring(ctx)
	if err != nil {
		return err
	}
	if refreshed > 0 || failed > 0 {
		logger.Info("[Task] AliExpress 授权续期完成", zap.Int("refreshed", refreshed), zap.Int("failed", failed))
	}
	return nil
}

// ==================== 购物车清理 ====================

type CartCleanupJob struct {
	cleaner CartCleaner
}

func NewCartCleanupJob(cleaner CartCleaner) *CartCleanupJob {
	return &CartCleanupJob{cleaner: cleaner}
}

func (j *CartCleanupJob) Name() string { return "cart_cleanup" }

// Spec 每小时第 5 分钟
func (j *CartCleanupJob) Spec() string { return "0 5 * * * *" }

func (j *CartCleanupJob) Run(ctx context.Context) error {
	n, err := j.cleaner.CleanupExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("[Task] 已清理过期购物车", zap.Int64("count", n))
	}
	return nil
}

// ==================== 工单自动关闭 ====================

type TicketAutoCloseJob struct {
	closer    TicketCloser
	olderThan time.Duration
}

func NewTicketAutoCloseJob(closer TicketCloser, olderThan time.Duration) *TicketAutoCloseJob {
	return &TicketAutoCloseJob{closer: closer, olderThan: olderThan}
}

func (j *TicketAutoCloseJob) Name() string { return "ticket_auto_close" }

// Spec 每天 03:00
func (j *TicketAutoCloseJob) Spec() string { return "0 0 3 * * *" }

func (j *TicketAutoCloseJob) Run(ctx context.Context) error {
	n, err := j.closer.AutoCloseResolved(ctx, j.olderThan)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("[Task] 已自动关闭工单", zap.Int("count", n))
	}
	return nil
}

// ==================== 缓存清理 ====================

type CacheSweepJob struct {
	sweeper Sweeper
}

func NewCacheSweepJob(sweeper Sweeper) *CacheSweepJob {
	return &CacheSweepJob{sweeper: sweeper}
}

func (j *CacheSweepJob) Name() string { return "cache_sweep" }

// Spec 每 10 分钟
func (j *CacheSweepJob) Spec() string { return "0 */10 * * * *" }

func (j *CacheSweepJob) Run(ctx context.Context) error {
	if n := j.sweeper.Sweep(); n > 0 {
		logger.Debug("[Task] 已清理过期缓存", zap.Int("count", n))
	}
	return nil
}
