package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"laboutique_erp_202610/internal/app"
	"laboutique_erp_202610/internal/service"
	"laboutique_erp_202610/internal/task"
	"laboutique_erp_202610/pkg/logger"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "启动 HTTP 服务与定时任务",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "admin-user", Value: "admin", EnvVars: []string{"ADMIN_USERNAME"}, Usage: "首次启动创建的管理员"},
			&cli.StringFlag{Name: "admin-password", EnvVars: []string{"ADMIN_PASSWORD"}, Usage: "首次启动的管理员密码"},
			&cli.BoolFlag{Name: "no-tasks", Usage: "不启动定时任务"},
		},
		Action: func(c *cli.Context) error {
			// 1. 初始化依赖
			deps, err := initDependencies(c.Context, true)
			if err != nil {
				return err
			}
			defer closeDependencies(deps)

			// 2. 初始管理员
			if pwd := c.String("admin-password"); pwd != "" {
				if err := deps.Services.User.EnsureAdmin(c.Context, c.String("admin-user"), pwd); err != nil {
					return err
				}
			}

			// 3. 实时推送
			go deps.Hub.Run()

			// 4. 启动定时任务
			var tm *task.TaskManager
			if !c.Bool("no-tasks") {
				tm, err = initTasks(deps)
				if err != nil {
					return err
				}
				tm.Start()
			}

			// 5. 启动服务
			startServer(deps.Router(), deps.Config.App.Port)

			if tm != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				tm.Stop(ctx)
			}
			return nil
		},
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *app.Dependencies) (*task.TaskManager, error) {
	tm := task.NewTaskManager(5 * time.Minute)

	jobs := []task.Job{
		task.NewTokenRefreshJob(deps.Services.AliExpress),
		task.NewCartCleanupJob(deps.Services.Cart),
		task.NewTicketAutoCloseJob(deps.Services.Ticket, service.TicketAutoCloseAfter),
	}
	// Redis 自带过期，只有内存缓存需要清理
	if sweeper, ok := deps.Cache.(task.Sweeper); ok {
		jobs = append(jobs, task.NewCacheSweepJob(sweeper))
	}

	for _, job := range jobs {
		if err := tm.Add(job); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(r *gin.Engine, port string) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 异步启动服务
	go func() {
		logger.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务强制关闭", zap.Error(err))
		return
	}

	logger.Info("服务已退出")
}
