package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/trick-taking/internal/config"
	"github.com/palemoky/trick-taking/internal/game"
	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/table"
	"github.com/palemoky/trick-taking/internal/server/handler"
	"github.com/palemoky/trick-taking/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
	// 消息都很小，压缩反而是负优化
	EnableCompression: false,
}

// Server WebSocket + HTTP 服务器
type Server struct {
	config     *config.Config
	engine     *game.Engine
	redis      *redis.Client // 未启用 Redis 时为 nil
	redisStore *storage.RedisStore
	tables     *table.TableManager
	clients    map[string]*Client
	clientsMu  sync.RWMutex
	handler    *handler.Handler
	echo       *echo.Echo

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	stopMonitor chan struct{}
	stopOnce    sync.Once
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	registry, err := cfg.BuildRegistry()
	if err != nil {
		return nil, fmt.Errorf("规则集配置错误: %w", err)
	}
	policy, err := round.ParseLeadPolicy(cfg.Game.LeadPolicy)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:         cfg,
		engine:         game.NewEngine(registry),
		clients:        make(map[string]*Client),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		stopMonitor:    make(chan struct{}),
	}

	opts := table.Options{
		Engine:         s.engine,
		Seats:          cfg.Game.TurnOrder(),
		HandSize:       cfg.Game.HandSize,
		LeadPolicy:     policy,
		DefaultRuleSet: cfg.Game.DefaultRuleSet,
		Timeout:        cfg.Game.TableTimeoutDuration(),
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// 测试 Redis 连接
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}

		s.redis = rdb
		s.redisStore = storage.NewRedisStore(rdb, cfg.Redis.SnapshotTTLDuration())
		opts.Store = s.redisStore
		log.Printf("💾 牌桌快照写入 Redis %s (TTL %s)", cfg.Redis.Addr, cfg.Redis.SnapshotTTLDuration())
	}

	s.tables = table.NewTableManager(opts)
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server: s,
		Tables: s.tables,
	})
	s.echo = s.newEcho()

	log.Printf("🃏 已加载 %d 个规则集，默认 %s，座位 %v，每人 %d 张",
		registry.Len(), cfg.Game.DefaultRuleSet, opts.Seats, cfg.Game.HandSize)

	return s, nil
}

// Restore 从 Redis 恢复牌桌快照；未启用 Redis 时什么也不做
func (s *Server) Restore(ctx context.Context) (int, error) {
	if s.redisStore == nil {
		return 0, nil
	}
	return s.tables.Restore(ctx)
}

// Handler 返回 HTTP 处理器（WebSocket 与 REST 接口）
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Tables 返回牌桌管理器
func (s *Server) Tables() *table.TableManager {
	return s.tables
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	// 启动监控 goroutine
	go s.monitorStats()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())

	s.echo.Server.ReadHeaderTimeout = 10 * time.Second // 防止 Slowloris 攻击
	s.echo.Server.IdleTimeout = 60 * time.Second
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
