package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	tableKeyPrefix = "table:"
	tableIndexKey  = "tables"

	// 默认快照过期时间
	defaultTableExpiration = 2 * time.Hour
)

// TableData 牌桌数据（用于 Redis 序列化）
type TableData struct {
	ID        string       `json:"id"`
	Version   int64        `json:"version"` // 每次修改递增，旧快照不会覆盖新快照
	RuleSetID string       `json:"rule_set_id"`
	Players   []PlayerData `json:"players"`
	CreatedAt int64        `json:"created_at"`
	Round     *RoundData   `json:"round,omitempty"` // 进行中的牌局
}

// PlayerData 玩家数据
type PlayerData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat string `json:"seat"`
}

// RoundData 牌局快照，牌用 "7♣" 形式的字符串保存
type RoundData struct {
	RuleSetID    string              `json:"rule_set_id"`
	TurnOrder    []string            `json:"turn_order"`
	Hands        map[string][]string `json:"hands"`
	Plays        []PlayData          `json:"plays"`
	Leader       string              `json:"leader"`
	Turn         string              `json:"turn"`
	LeadPolicy   string              `json:"lead_policy"`
	TricksPlayed int                 `json:"tricks_played"`
}

// PlayData 当前牌墩中的一次出牌
type PlayData struct {
	Seat string `json:"seat"`
	Card string `json:"card"`
}

// RedisStore Redis 存储
type RedisStore struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedisStore 创建 Redis 存储，expiration <= 0 时使用默认值
func NewRedisStore(client *redis.Client, expiration time.Duration) *RedisStore {
	if expiration <= 0 {
		expiration = defaultTableExpiration
	}
	return &RedisStore{client: client, expiration: expiration}
}

// Ping 检查 Redis 连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// --- 牌桌存储 ---

// SaveTable 保存牌桌快照并登记到牌桌索引
func (rs *RedisStore) SaveTable(ctx context.Context, data *TableData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化牌桌数据失败: %w", err)
	}

	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tableKeyPrefix+data.ID, jsonData, rs.expiration)
		pipe.SAdd(ctx, tableIndexKey, data.ID)
		return nil
	})
	return err
}

// LoadTable 从 Redis 加载牌桌，不存在时返回 nil, nil
func (rs *RedisStore) LoadTable(ctx context.Context, id string) (*TableData, error) {
	data, err := rs.client.Get(ctx, tableKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var tableData TableData
	if err := json.Unmarshal(data, &tableData); err != nil {
		return nil, fmt.Errorf("反序列化牌桌数据失败: %w", err)
	}
	return &tableData, nil
}

// DeleteTable 从 Redis 删除牌桌
func (rs *RedisStore) DeleteTable(ctx context.Context, id string) error {
	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, tableKeyPrefix+id)
		pipe.SRem(ctx, tableIndexKey, id)
		return nil
	})
	return err
}

// ListTableIDs 获取索引中的牌桌 ID（可能包含已过期的快照）
func (rs *RedisStore) ListTableIDs(ctx context.Context) ([]string, error) {
	return rs.client.SMembers(ctx, tableIndexKey).Result()
}

// LoadAllTables 加载全部未过期的牌桌，顺带清理索引中已过期的 ID
func (rs *RedisStore) LoadAllTables(ctx context.Context) ([]*TableData, error) {
	ids, err := rs.ListTableIDs(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]*TableData, 0, len(ids))
	var stale []any
	for _, id := range ids {
		data, err := rs.LoadTable(ctx, id)
		if err != nil {
			return nil, err
		}
		if data == nil {
			stale = append(stale, id)
			continue
		}
		tables = append(tables, data)
	}

	if len(stale) > 0 {
		if err := rs.client.SRem(ctx, tableIndexKey, stale...).Err(); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// --- 辅助方法 ---

// SetTableExpiration 设置牌桌快照过期时间
func (rs *RedisStore) SetTableExpiration(ctx context.Context, id string, expiration time.Duration) error {
	return rs.client.Expire(ctx, tableKeyPrefix+id, expiration).Err()
}

// Close 关闭 Redis 连接
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
