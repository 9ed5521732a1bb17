package table

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game"
	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/protocol/codec"
	"github.com/palemoky/trick-taking/internal/server/storage"
	"github.com/palemoky/trick-taking/internal/types"
)

// storeTimeout 单次快照读写超时
const storeTimeout = 2 * time.Second

// Store 牌桌快照存储，由 storage.RedisStore 实现
type Store interface {
	SaveTable(ctx context.Context, data *storage.TableData) error
	DeleteTable(ctx context.Context, id string) error
	LoadAllTables(ctx context.Context) ([]*storage.TableData, error)
}

// Options 牌桌管理器参数
type Options struct {
	Engine         *game.Engine
	Store          Store // 可为 nil，不持久化
	Seats          []trick.Seat
	HandSize       int
	LeadPolicy     round.LeadPolicy
	DefaultRuleSet string
	Timeout        time.Duration // 空闲牌桌超时
	CleanupEvery   time.Duration // 清理间隔，默认 1 分钟
}

// TableManager 牌桌管理器
type TableManager struct {
	opts   Options
	tables map[string]*Table
	mu     sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewTableManager 创建牌桌管理器并启动清理协程
func NewTableManager(opts Options) *TableManager {
	if opts.Engine == nil {
		opts.Engine = game.NewEngine(nil)
	}
	if opts.CleanupEvery <= 0 {
		opts.CleanupEvery = time.Minute
	}
	tm := &TableManager{
		opts:   opts,
		tables: make(map[string]*Table),
		stop:   make(chan struct{}),
	}

	go tm.cleanupLoop()

	return tm
}

// Close 停止清理协程。之后的离座不再改写快照，停服时断开的牌局重启后仍可恢复。
func (tm *TableManager) Close() {
	tm.stopOnce.Do(func() { close(tm.stop) })
}

func (tm *TableManager) stopped() bool {
	select {
	case <-tm.stop:
		return true
	default:
		return false
	}
}

// Engine 返回共享的引擎
func (tm *TableManager) Engine() *game.Engine {
	return tm.opts.Engine
}

// CreateTable 新开一桌并让客户端入座
func (tm *TableManager) CreateTable(client types.ClientInterface) (*Table, error) {
	rs, err := tm.opts.Engine.SelectRuleSet(tm.opts.DefaultRuleSet)
	if err != nil {
		return nil, err
	}

	tm.mu.Lock()
	id := tm.generateTableID()
	t := newTable(id, append([]trick.Seat(nil), tm.opts.Seats...), rs)
	tm.tables[id] = t
	tm.mu.Unlock()

	t.mu.Lock()
	seat := t.Seats[0]
	t.Players[seat] = &TablePlayer{Client: client, ID: client.GetID(), Name: client.GetName(), Seat: seat}
	client.SetTable(id)
	data := t.toTableData()
	t.mu.Unlock()

	tm.persist(t, data)
	log.Printf("🃏 牌桌 %s 已创建，玩家 %s 坐在 %s", id, client.GetName(), seat)

	return t, nil
}

// JoinTable 加入指定牌桌，占用第一个空座位
func (tm *TableManager) JoinTable(client types.ClientInterface, id string) (*Table, trick.Seat, error) {
	// 锁顺序：先管理器，后牌桌。拿到牌桌锁后再释放管理器锁，
	// LeaveTable 不会在两者之间把牌桌删掉
	tm.mu.RLock()
	t, exists := tm.tables[id]
	if !exists {
		tm.mu.RUnlock()
		return nil, "", apperrors.ErrTableNotFound
	}
	t.mu.Lock()
	tm.mu.RUnlock()

	if t.removed {
		t.mu.Unlock()
		return nil, "", apperrors.ErrTableNotFound
	}
	seat, ok := t.freeSeat()
	if !ok {
		t.mu.Unlock()
		return nil, "", apperrors.ErrTableFull
	}
	t.Players[seat] = &TablePlayer{Client: client, ID: client.GetID(), Name: client.GetName(), Seat: seat}
	client.SetTable(id)
	t.touch()

	log.Printf("👤 玩家 %s 加入牌桌 %s (座位 %s)", client.GetName(), id, seat)

	// 通知牌桌上其他玩家
	t.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player: t.playerInfo(seat),
	}))

	// 从快照恢复的牌局：补发手牌和出牌提示
	if t.round != nil {
		t.sendHand(seat)
		t.announceTurn()
	}
	data := t.toTableData()
	t.mu.Unlock()

	tm.persist(t, data)
	return t, seat, nil
}

// LeaveTable 离开牌桌；牌局进行中时保留座位上的手牌，等待其他玩家补位
func (tm *TableManager) LeaveTable(client types.ClientInterface) {
	id := client.GetTable()
	if id == "" {
		return
	}

	// 锁顺序：先管理器，后牌桌；存储读写放在解锁之后
	tm.mu.Lock()
	t, exists := tm.tables[id]
	if !exists {
		tm.mu.Unlock()
		client.SetTable("")
		return
	}

	t.mu.Lock()
	seat, ok := t.seatOf(client.GetID())
	if !ok {
		t.mu.Unlock()
		tm.mu.Unlock()
		client.SetTable("")
		return
	}

	if t.round != nil {
		// 保留手牌，只断开客户端
		t.Players[seat].Client = nil
	} else {
		delete(t.Players, seat)
	}
	client.SetTable("")

	t.Broadcast(codec.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
		Seat:       string(seat),
	}))
	log.Printf("👋 玩家 %s 离开牌桌 %s (座位 %s)", client.GetName(), id, seat)

	empty := t.isEmpty()
	if empty {
		t.removed = true
		delete(tm.tables, id)
	}
	data := t.toTableData()
	t.mu.Unlock()
	tm.mu.Unlock()

	if empty {
		tm.forget(t)
		log.Printf("🃏 牌桌 %s 已解散", id)
		return
	}
	tm.persist(t, data)
}

// GetTable 获取牌桌
func (tm *TableManager) GetTable(id string) *Table {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.tables[id]
}

// clientTable 客户端所在的牌桌
func (tm *TableManager) clientTable(client types.ClientInterface) (*Table, error) {
	id := client.GetTable()
	if id == "" {
		return nil, apperrors.ErrNotAtTable
	}
	t := tm.GetTable(id)
	if t == nil {
		return nil, apperrors.ErrTableNotFound
	}
	return t, nil
}

// lockClientTable 返回客户端所在牌桌并持有其写锁。与 JoinTable 相同，
// 在管理器锁内加牌桌锁，已解散的牌桌返回 ErrTableNotFound。
func (tm *TableManager) lockClientTable(client types.ClientInterface) (*Table, error) {
	id := client.GetTable()
	if id == "" {
		return nil, apperrors.ErrNotAtTable
	}

	tm.mu.RLock()
	t, exists := tm.tables[id]
	if !exists {
		tm.mu.RUnlock()
		return nil, apperrors.ErrTableNotFound
	}
	t.mu.Lock()
	tm.mu.RUnlock()

	if t.removed {
		t.mu.Unlock()
		return nil, apperrors.ErrTableNotFound
	}
	return t, nil
}

// TableCount 牌桌数量
func (tm *TableManager) TableCount() int {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return len(tm.tables)
}

// GetActiveRoundsCount 进行中的牌局数量
func (tm *TableManager) GetActiveRoundsCount() int {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	count := 0
	for _, t := range tm.tables {
		if t.InProgress() {
			count++
		}
	}
	return count
}

// Summary 牌桌概要
type Summary struct {
	ID         string `json:"id"`
	RuleSetID  string `json:"rule_set_id"`
	Players    int    `json:"players"`
	Seats      int    `json:"seats"`
	InProgress bool   `json:"in_progress"`
	Trick      string `json:"trick,omitempty"`
}

// Summaries 所有牌桌的概要
func (tm *TableManager) Summaries() []Summary {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	out := make([]Summary, 0, len(tm.tables))
	for _, t := range tm.tables {
		t.mu.RLock()
		s := Summary{
			ID:         t.ID,
			RuleSetID:  t.ruleSet.ID,
			Seats:      len(t.Seats),
			InProgress: t.round != nil,
		}
		for _, p := range t.Players {
			if p.Client != nil {
				s.Players++
			}
		}
		if t.round != nil {
			s.Trick = t.round.Trick().String()
		}
		t.mu.RUnlock()
		out = append(out, s)
	}
	return out
}

// generateTableID 生成牌桌 ID（调用方持有 tm.mu）
func (tm *TableManager) generateTableID() string {
	for {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")[:tableIDLength]
		if _, exists := tm.tables[id]; !exists {
			return id
		}
	}
}

// cleanupLoop 定期清理空闲牌桌
func (tm *TableManager) cleanupLoop() {
	ticker := time.NewTicker(tm.opts.CleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tm.cleanup(time.Now())
		case <-tm.stop:
			return
		}
	}
}

// cleanup 清理超过 Timeout 没有活动的牌桌
func (tm *TableManager) cleanup(now time.Time) {
	if tm.opts.Timeout <= 0 {
		return
	}

	var expired []*Table

	tm.mu.Lock()
	for id, t := range tm.tables {
		t.mu.Lock()
		if now.Sub(t.lastActive) <= tm.opts.Timeout {
			t.mu.Unlock()
			continue
		}
		// 通知所有玩家牌桌已关闭
		t.Broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeTableNotFound, "牌桌长时间无操作已关闭"))
		for _, p := range t.Players {
			if p.Client != nil {
				p.Client.SetTable("")
			}
		}
		t.removed = true
		t.mu.Unlock()

		delete(tm.tables, id)
		expired = append(expired, t)
	}
	tm.mu.Unlock()

	for _, t := range expired {
		tm.forget(t)
		log.Printf("🃏 牌桌 %s 超时已清理", t.ID)
	}
}
