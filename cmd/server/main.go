// JianZhi 兼职排班引擎服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jianzhi/jianzhi/internal/config"
	"github.com/jianzhi/jianzhi/internal/database"
	"github.com/jianzhi/jianzhi/internal/handler"
	"github.com/jianzhi/jianzhi/internal/holiday"
	"github.com/jianzhi/jianzhi/internal/metrics"
	"github.com/jianzhi/jianzhi/internal/middleware"
	"github.com/jianzhi/jianzhi/internal/repository"
	"github.com/jianzhi/jianzhi/internal/security"
	"github.com/jianzhi/jianzhi/pkg/logger"
	"github.com/jianzhi/jianzhi/pkg/scheduler/proposer"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// .env 不存在时静默跳过
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logFormat := "json"
	if cfg.IsDevelopment() {
		logFormat = "console"
	}
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: logFormat,
	})

	fmt.Printf("JianZhi 兼职排班引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// 数据库
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("数据库连接失败")
	}
	defer db.Close()

	// 仓储
	jobRepo := repository.NewJobRepository(db)
	unavailableRepo := repository.NewUnavailableTimeRepository(db)
	shiftRepo := repository.NewPartTimeShiftRepository(db, db)

	// 安全
	keyManager := security.NewAPIKeyManager()
	if cfg.API.Keys != "" {
		if err := keyManager.LoadStatic(splitKeys(cfg.API.Keys)); err != nil {
			logger.Fatal().Err(err).Msg("加载API密钥失败")
		}
	}
	rateLimiter := security.NewRateLimiter(cfg.API.RateLimit, time.Minute)

	// 节假日数据源
	holidayClient := holiday.NewClient(cfg.Holiday.URL, cfg.Holiday.Timeout)

	// 处理器
	scheduleHandler := handler.NewScheduleHandler(proposer.New(jobRepo, unavailableRepo, shiftRepo))
	jobHandler := handler.NewJobHandler(jobRepo)
	unavailableHandler := handler.NewUnavailableTimeHandler(unavailableRepo)
	exportHandler := handler.NewExportHandler(shiftRepo, holidayClient)
	holidayHandler := handler.NewHolidayHandler(holidayClient)

	mux := http.NewServeMux()

	// ========================================
	// 系统端点
	// ========================================

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","service":"jianzhi","database":"down"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"jianzhi"}`))
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// ========================================
	// API v1 端点
	// ========================================

	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "JianZhi 兼职排班引擎 API v1",
			"endpoints": {
				"schedule": {
					"propose": "POST /api/v1/schedule/propose",
					"validate": "POST /api/v1/schedule/validate",
					"shifts": "GET /api/v1/schedule/shifts?month=YYYY-MM",
					"export": "GET /api/v1/schedule/export?month=YYYY-MM"
				},
				"jobs": {
					"collection": "GET|POST /api/v1/jobs",
					"item": "GET|PUT|DELETE /api/v1/jobs/{id}"
				},
				"unavailable_times": {
					"collection": "GET|POST /api/v1/unavailable-times",
					"item": "GET|DELETE /api/v1/unavailable-times/{id}"
				},
				"holidays": "GET /api/v1/holidays?year=YYYY"
			}
		}`))
	})

	// 排班提案 API
	mux.HandleFunc("/api/v1/schedule/propose", scheduleHandler.Propose)
	mux.HandleFunc("/api/v1/schedule/validate", scheduleHandler.Validate)
	mux.HandleFunc("/api/v1/schedule/shifts", exportHandler.Shifts)
	mux.HandleFunc("/api/v1/schedule/export", exportHandler.Export)

	// 工作定义 API
	mux.HandleFunc("/api/v1/jobs", jobHandler.Collection)
	mux.HandleFunc("/api/v1/jobs/", jobHandler.Item)

	// 不可用时间 API
	mux.HandleFunc("/api/v1/unavailable-times", unavailableHandler.Collection)
	mux.HandleFunc("/api/v1/unavailable-times/", unavailableHandler.Item)

	// 节假日 API
	mux.HandleFunc("/api/v1/holidays", holidayHandler.List)

	// ========================================
	// 监控端点
	// ========================================

	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// 数据库连接池指标采样
	poolCtx, poolCancel := context.WithCancel(context.Background())
	defer poolCancel()
	go db.MonitorPool(poolCtx, 15*time.Second)

	// ========================================
	// 中间件
	// ========================================

	// 执行顺序：requestID -> recovery -> cors -> auth -> logging -> handler
	auth := middleware.Auth(&middleware.AuthConfig{
		APIKeyManager:   keyManager,
		RateLimiter:     rateLimiter,
		SkipPaths:       []string{"/health", "/version", cfg.Metrics.Path},
		EnableRateLimit: cfg.API.RateLimit > 0,
	})
	root := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Recovery,
		middleware.CORS,
		auth,
		middleware.Logging,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Str("env", cfg.App.Env).
			Str("api_docs", fmt.Sprintf("http://localhost:%d/api/v1/", cfg.App.Port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}

// splitKeys 拆分逗号分隔的密钥配置
func splitKeys(raw string) []string {
	return strings.Split(raw, ",")
}
