package task

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"laboutique_erp_202610/pkg/logger"
)

// ==================== TaskManager 定时任务管理器 ====================

// Job 定时任务
type Job interface {
	Name() string
	Spec() string // cron 表达式，支持秒
	Run(ctx context.Context) error
}

// TaskManager 统一调度后台定时任务
// 同一任务上一轮未结束时跳过本轮
type TaskManager struct {
	cron    *cron.Cron
	timeout time.Duration

	mu      sync.Mutex
	jobs    map[string]Job
	entries map[string]cron.EntryID
	lastRun map[string]RunResult
}

// RunResult 最近一次执行结果
type RunResult struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// NewTaskManager timeout 为单次执行的超时时间
func NewTaskManager(timeout time.Duration) *TaskManager {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	cl := cronLogger{}
	return &TaskManager{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		timeout: timeout,
		jobs:    make(map[string]Job),
		entries: make(map[string]cron.EntryID),
		lastRun: make(map[string]RunResult),
	}
}

// Add 注册任务，名称重复或表达式非法时返回错误
func (tm *TaskManager) Add(job Job) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if _, ok := tm.jobs[job.Name()]; ok {
		return fmt.Errorf("任务已存在: %s", job.Name())
	}
	id, err := tm.cron.AddFunc(job.Spec(), func() { tm.execute(job) })
	if err != nil {
		return fmt.Errorf("任务 %s 表达式无效: %w", job.Name(), err)
	}
	tm.jobs[job.Name()] = job
	tm.entries[job.Name()] = id
	return nil
}

// ==================== 生命周期管理 ====================

// Start 启动调度
func (tm *TaskManager) Start() {
	tm.cron.Start()
	logger.Info("[TaskManager] 定时任务已启动", zap.Strings("jobs", tm.Names()))
}

// Stop 停止调度并等待执行中的任务结束
func (tm *TaskManager) Stop(ctx context.Context) {
	done := tm.cron.Stop()
	select {
	case <-done.Done():
		logger.Info("[TaskManager] 定时任务已全部停止")
	case <-ctx.Done():
		logger.Warn("[TaskManager] 等待任务结束超时")
	}
}

// ==================== 手动触发 ====================

// RunNow 同步执行一次指定任务
func (tm *TaskManager) RunNow(name string) error {
	tm.mu.Lock()
	job, ok := tm.jobs[name]
	tm.mu.Unlock()
	if !ok {
		return ErrTaskNotFound
	}
	return tm.execute(job)
}

func (tm *TaskManager) execute(job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), tm.timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)

	result := RunResult{StartedAt: start, Duration: time.Since(start)}
	if err != nil {
		result.Error = err.Error()
		logger.Error("[Task] 执行失败", zap.String("job", job.Name()), zap.Error(err))
	}

	tm.mu.Lock()
	tm.lastRun[job.Name()] = result
	tm.mu.Unlock()
	return err
}

// ==================== 状态查询 ====================

// Names 已注册的任务名
func (tm *TaskManager) Names() []string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	names := make([]string, 0, len(tm.jobs))
	for name := range tm.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LastRun 最近一次执行结果
func (tm *TaskManager) LastRun(name string) (RunResult, bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	r, ok := tm.lastRun[name]
	return r, ok
}

// Next 下次计划执行时间
func (tm *TaskManager) Next(name string) (time.Time, bool) {
	tm.mu.Lock()
	id, ok := tm.entries[name]
	tm.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return tm.cron.Entry(id).Next, true
}

// ==================== cron 日志适配 ====================

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("[Cron] "+msg, zap.Any("kv", keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("[Cron] "+msg, zap.Error(err), zap.Any("kv", keysAndValues))
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskNotFound TaskError = "task not found"
)
