package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/trick-taking/internal/config"
	"github.com/palemoky/trick-taking/internal/game"
	"github.com/palemoky/trick-taking/internal/logger"
	"github.com/palemoky/trick-taking/internal/ui/model"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（规则集、座位、每人手牌数）")
	logPath := flag.String("log", "", "日志文件路径，默认 ~/.trick-taking/debug.log")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("加载配置文件失败: %v", err)
		}
		cfg = loaded
	}

	// 终端归界面使用，日志写文件
	path := *logPath
	if path == "" {
		if p, err := logger.DefaultPath(); err == nil {
			path = p
		}
	}
	if path == "" {
		logger.Discard()
	} else if err := logger.Init(path); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	registry, err := cfg.BuildRegistry()
	if err != nil {
		log.Fatalf("规则集配置错误: %v", err)
	}

	m := model.New(model.Options{
		Engine:     game.NewEngine(registry),
		Seats:      cfg.Game.TurnOrder(),
		HandSize:   cfg.Game.HandSize,
		LeadPolicy: cfg.Game.Policy(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.LogError("终端界面退出: %v", err)
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
