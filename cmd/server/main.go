package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/palemoky/trick-taking/internal/config"
	"github.com/palemoky/trick-taking/internal/logger"
	"github.com/palemoky/trick-taking/internal/server"
)

// shutdownTimeout 等待进行中的牌局结束的最长时间
const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	if err := logger.Init(cfg.Log.File); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	// 创建服务器
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("创建服务器失败: %v", err)
	}

	// 恢复上次停服时未打完的牌桌
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if n, err := srv.Restore(ctx); err != nil {
		log.Printf("恢复牌桌失败: %v", err)
	} else if n > 0 {
		log.Printf("♻️ 已恢复 %d 张牌桌", n)
	}
	cancel()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("正在关闭服务器...")
		srv.GracefulShutdown(shutdownTimeout)
	}()

	// 启动服务器，关闭后 Start 返回
	log.Println("🎮 出牌引擎服务器启动中...")
	if err := srv.Start(); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
