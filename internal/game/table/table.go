package table

import (
	"sync"
	"time"

	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/types"
)

const tableIDLength = 8 // 牌桌 ID 长度（取 UUID 前缀）

// TablePlayer 牌桌上的玩家
type TablePlayer struct {
	Client types.ClientInterface // 断线或从快照恢复时为 nil
	ID     string
	Name   string
	Seat   trick.Seat
}

// Table 一张牌桌，独占一个 Round；所有访问都经过 mu
type Table struct {
	ID        string
	Seats     []trick.Seat                // 座位顺序
	Players   map[trick.Seat]*TablePlayer // 按座位
	CreatedAt time.Time

	ruleSet    ruleset.RuleSet // 下一局（或当前局）使用的规则集
	round      *round.Round    // nil 表示未开局
	lastActive time.Time
	version    int64 // 快照版本，toTableData 时递增
	removed    bool  // 已从管理器移除，之后的操作一律失败

	mu sync.RWMutex

	// 快照写入按版本串行，saveMu 不与 mu 嵌套
	saveMu  sync.Mutex
	saved   int64
	dropped bool
}

func newTable(id string, seats []trick.Seat, rs ruleset.RuleSet) *Table {
	now := time.Now()
	return &Table{
		ID:         id,
		Seats:      seats,
		Players:    make(map[trick.Seat]*TablePlayer, len(seats)),
		CreatedAt:  now,
		ruleSet:    rs,
		lastActive: now,
	}
}

// RuleSet 当前规则集
func (t *Table) RuleSet() ruleset.RuleSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ruleSet
}

// InProgress 是否有进行中的牌局
func (t *Table) InProgress() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.round != nil
}

// CurrentTrick 当前牌墩的副本
func (t *Table) CurrentTrick() (trick.Trick, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.round == nil {
		return trick.Trick{}, false
	}
	return t.round.Trick(), true
}

// IsFull 是否所有座位都有人
func (t *Table) IsFull() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isFull()
}

func (t *Table) isFull() bool {
	for _, s := range t.Seats {
		if p, ok := t.Players[s]; !ok || p.Client == nil {
			return false
		}
	}
	return true
}

// freeSeat 第一个空座位；从快照恢复的牌桌上，离线玩家的座位可被占用
func (t *Table) freeSeat() (trick.Seat, bool) {
	for _, s := range t.Seats {
		p, ok := t.Players[s]
		if !ok || p.Client == nil {
			return s, true
		}
	}
	return "", false
}

// seatOf 查找客户端所在座位
func (t *Table) seatOf(clientID string) (trick.Seat, bool) {
	for s, p := range t.Players {
		if p.Client != nil && p.ID == clientID {
			return s, true
		}
	}
	return "", false
}

func (t *Table) isEmpty() bool {
	for _, p := range t.Players {
		if p.Client != nil {
			return false
		}
	}
	return true
}

// GetPlayerInfo 获取座位上的玩家信息
func (t *Table) GetPlayerInfo(seat trick.Seat) protocol.PlayerInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.playerInfo(seat)
}

func (t *Table) playerInfo(seat trick.Seat) protocol.PlayerInfo {
	p, ok := t.Players[seat]
	if !ok {
		return protocol.PlayerInfo{Seat: string(seat)}
	}
	return protocol.PlayerInfo{
		ID:     p.ID,
		Name:   p.Name,
		Seat:   string(seat),
		Online: p.Client != nil,
	}
}

// GetAllPlayersInfo 按座位顺序返回玩家信息
func (t *Table) GetAllPlayersInfo() []protocol.PlayerInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allPlayersInfo()
}

func (t *Table) allPlayersInfo() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(t.Players))
	for _, s := range t.Seats {
		if _, ok := t.Players[s]; ok {
			infos = append(infos, t.playerInfo(s))
		}
	}
	return infos
}

// Broadcast 广播消息给所有在线玩家（调用方持有锁）
func (t *Table) Broadcast(msg *protocol.Message) {
	for _, p := range t.Players {
		if p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

// BroadcastExcept 广播消息给除指定玩家外的所有在线玩家（调用方持有锁）
func (t *Table) BroadcastExcept(exceptID string, msg *protocol.Message) {
	for _, p := range t.Players {
		if p.Client != nil && p.ID != exceptID {
			p.Client.SendMessage(msg)
		}
	}
}

// sendTo 发送给指定座位（调用方持有锁）
func (t *Table) sendTo(seat trick.Seat, msg *protocol.Message) {
	if p, ok := t.Players[seat]; ok && p.Client != nil {
		p.Client.SendMessage(msg)
	}
}

func (t *Table) touch() {
	t.lastActive = time.Now()
}
