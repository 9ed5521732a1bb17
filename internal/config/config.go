package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Redis    RedisConfig     `yaml:"redis"`
	Game     GameConfig      `yaml:"game"`
	RuleSets []RuleSetConfig `yaml:"rule_sets"`
	Log      LogConfig       `yaml:"log"`
}

// ServerConfig WebSocket/HTTP 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	SnapshotTTL int    `yaml:"snapshot_ttl"` // 牌桌快照过期时间（分钟）
}

// GameConfig 牌局配置
type GameConfig struct {
	Seats          []string `yaml:"seats"`            // 座位顺序
	DefaultRuleSet string   `yaml:"default_rule_set"` // 默认规则集
	LeadPolicy     string   `yaml:"lead_policy"`      // winner / rotate
	HandSize       int      `yaml:"hand_size"`        // 每人手牌数
	TableTimeout   int      `yaml:"table_timeout"`    // 空闲牌桌超时（分钟）
}

// RuleSetConfig 配置文件中追加的规则集
type RuleSetConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	FollowSuit  bool   `yaml:"follow_suit"`
	Trump       string `yaml:"trump"` // 花色名，空表示无将牌
}

// LogConfig 日志配置
type LogConfig struct {
	File string `yaml:"file"` // 为空时输出到 stderr
}

// SnapshotTTLDuration 返回快照过期时长
func (c *RedisConfig) SnapshotTTLDuration() time.Duration {
	return time.Duration(c.SnapshotTTL) * time.Minute
}

// TableTimeoutDuration 返回空闲牌桌超时时长
func (c *GameConfig) TableTimeoutDuration() time.Duration {
	return time.Duration(c.TableTimeout) * time.Minute
}

// TurnOrder 座位顺序
func (c *GameConfig) TurnOrder() []trick.Seat {
	seats := make([]trick.Seat, len(c.Seats))
	for i, s := range c.Seats {
		seats[i] = trick.Seat(s)
	}
	return seats
}

// Policy 解析首出约定
func (c *GameConfig) Policy() round.LeadPolicy {
	p, _ := round.ParseLeadPolicy(c.LeadPolicy)
	return p
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults 设置默认值
func (c *Config) applyDefaults() {
	def := Default()
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = def.Server.MaxConnections
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = def.Redis.Addr
	}
	if c.Redis.SnapshotTTL == 0 {
		c.Redis.SnapshotTTL = def.Redis.SnapshotTTL
	}
	if len(c.Game.Seats) == 0 {
		c.Game.Seats = def.Game.Seats
	}
	if c.Game.DefaultRuleSet == "" {
		c.Game.DefaultRuleSet = def.Game.DefaultRuleSet
	}
	if c.Game.LeadPolicy == "" {
		c.Game.LeadPolicy = def.Game.LeadPolicy
	}
	if c.Game.HandSize == 0 {
		c.Game.HandSize = card.DeckSize / len(c.Game.Seats)
	}
	if c.Game.TableTimeout == 0 {
		c.Game.TableTimeout = def.Game.TableTimeout
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Game.Seats) < 2 {
		return fmt.Errorf("至少需要两个座位，当前 %d 个", len(c.Game.Seats))
	}
	seen := make(map[string]bool)
	for _, s := range c.Game.Seats {
		if s == "" || seen[s] {
			return fmt.Errorf("座位标识为空或重复: %q", s)
		}
		seen[s] = true
	}
	if c.Game.HandSize <= 0 || c.Game.HandSize*len(c.Game.Seats) > card.DeckSize {
		return fmt.Errorf("手牌数无效: %d 张 × %d 人", c.Game.HandSize, len(c.Game.Seats))
	}
	if _, err := round.ParseLeadPolicy(c.Game.LeadPolicy); err != nil {
		return err
	}
	for _, rc := range c.RuleSets {
		if rc.ID == "" {
			return fmt.Errorf("规则集缺少 id")
		}
		if rc.Trump != "" {
			if _, err := card.ParseSuit(rc.Trump); err != nil {
				return fmt.Errorf("规则集 %q: %w", rc.ID, err)
			}
		}
	}
	return nil
}

// ToRuleSet 转换为引擎的规则集
func (rc RuleSetConfig) ToRuleSet() (ruleset.RuleSet, error) {
	rs := ruleset.RuleSet{
		ID:                 rc.ID,
		Name:               rc.Name,
		Description:        rc.Description,
		FollowSuitRequired: rc.FollowSuit,
	}
	if rs.Name == "" {
		rs.Name = rc.ID
	}
	if rc.Trump != "" {
		s, err := card.ParseSuit(rc.Trump)
		if err != nil {
			return ruleset.RuleSet{}, err
		}
		rs.TrumpSuit = ruleset.WithTrump(s)
	}
	return rs, nil
}

// BuildRegistry 内置规则集在前，配置追加的规则集在后
func (c *Config) BuildRegistry() (*ruleset.Registry, error) {
	sets := ruleset.Builtin()
	for _, rc := range c.RuleSets {
		rs, err := rc.ToRuleSet()
		if err != nil {
			return nil, err
		}
		sets = append(sets, rs)
	}
	registry, err := ruleset.NewRegistry(sets...)
	if err != nil {
		return nil, err
	}
	if _, err := registry.Resolve(c.Game.DefaultRuleSet); err != nil {
		return nil, fmt.Errorf("默认规则集: %w", err)
	}
	return registry, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           1790,
			MaxConnections: 1000,
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			SnapshotTTL: 120,
		},
		Game: GameConfig{
			Seats:          []string{"N", "E", "S", "W"},
			DefaultRuleSet: ruleset.HighestCard,
			LeadPolicy:     "winner",
			HandSize:       13,
			TableTimeout:   10,
		},
	}
}
