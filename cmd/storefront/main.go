package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aybjewelry-client/internal/cache"
	"github.com/aybjewelry-client/internal/cli"
	"github.com/aybjewelry-client/internal/config"
	"github.com/aybjewelry-client/internal/logger"
	"github.com/aybjewelry-client/internal/notify"
	"github.com/aybjewelry-client/internal/provider"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Mode, cfg.Log.ToLoggerOptions())
	defer func() { _ = logger.Z().Sync() }()

	// 初始化商品目录缓存（未启用时为空操作）
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("redis_init_failed", "error", err)
	}

	// 瞬态提示直接打到终端
	notifier := notify.Func(func(level notify.Level, message string) {
		fmt.Fprintf(os.Stderr, "%s! %s%s\n", ansiDim, message, ansiReset)
	})

	container, err := provider.Build(cfg, notifier)
	if err != nil {
		logger.Errorw("container_build_failed", "error", err)
		fmt.Fprintf(os.Stderr, "启动失败: %v\n", err)
		os.Exit(1)
	}
	defer container.Close()

	// 跨进程会话信号（其他进程登录/登出时同步本进程状态）
	if err := container.StartSessionWatch(); err != nil {
		logger.Warnw("session_watch_start_failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shell := cli.NewShell(container, os.Stdin, os.Stdout)
	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Errorw("shell_exited", "error", err)
		os.Exit(1)
	}
	fmt.Println("Bye!")
}

func printStartupBanner() {
	fmt.Printf("%s%sAyb Jewelry%s %sstorefront%s\n", ansiBold, ansiCyan, ansiReset, ansiDim, ansiReset)
}
