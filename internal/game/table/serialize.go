package table

import (
	"context"
	"fmt"
	"log"

	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/server/storage"
)

// toTableData 将 Table 转换为可序列化的 TableData，并递增版本（调用方持有写锁）
func (t *Table) toTableData() *storage.TableData {
	t.version++
	data := &storage.TableData{
		ID:        t.ID,
		Version:   t.version,
		RuleSetID: t.ruleSet.ID,
		Players:   make([]storage.PlayerData, 0, len(t.Players)),
		CreatedAt: t.CreatedAt.Unix(),
	}

	for _, s := range t.Seats {
		p, ok := t.Players[s]
		if !ok {
			continue
		}
		data.Players = append(data.Players, storage.PlayerData{
			ID:   p.ID,
			Name: p.Name,
			Seat: string(s),
		})
	}

	if t.round != nil {
		data.Round = snapshotToData(t.round.Snapshot())
	}
	return data
}

func snapshotToData(snap round.Snapshot) *storage.RoundData {
	rd := &storage.RoundData{
		RuleSetID:    snap.RuleSetID,
		TurnOrder:    make([]string, len(snap.TurnOrder)),
		Hands:        make(map[string][]string, len(snap.Hands)),
		Plays:        make([]storage.PlayData, len(snap.Plays)),
		Leader:       string(snap.Leader),
		Turn:         string(snap.Turn),
		LeadPolicy:   snap.LeadPolicy.String(),
		TricksPlayed: snap.TricksPlayed,
	}
	for i, s := range snap.TurnOrder {
		rd.TurnOrder[i] = string(s)
	}
	for s, hand := range snap.Hands {
		cards := make([]string, len(hand))
		for i, c := range hand {
			cards[i] = c.String()
		}
		rd.Hands[string(s)] = cards
	}
	for i, p := range snap.Plays {
		rd.Plays[i] = storage.PlayData{Seat: string(p.Seat), Card: p.Card.String()}
	}
	return rd
}

func dataToSnapshot(rd *storage.RoundData) (round.Snapshot, error) {
	policy, err := round.ParseLeadPolicy(rd.LeadPolicy)
	if err != nil {
		return round.Snapshot{}, err
	}
	snap := round.Snapshot{
		RuleSetID:    rd.RuleSetID,
		TurnOrder:    make([]trick.Seat, len(rd.TurnOrder)),
		Hands:        make(map[trick.Seat][]card.Card, len(rd.Hands)),
		Plays:        make([]trick.Play, len(rd.Plays)),
		Leader:       trick.Seat(rd.Leader),
		Turn:         trick.Seat(rd.Turn),
		LeadPolicy:   policy,
		TricksPlayed: rd.TricksPlayed,
	}
	for i, s := range rd.TurnOrder {
		snap.TurnOrder[i] = trick.Seat(s)
	}
	for s, cards := range rd.Hands {
		hand := make([]card.Card, len(cards))
		for i, str := range cards {
			c, err := card.Parse(str)
			if err != nil {
				return round.Snapshot{}, fmt.Errorf("座位 %s: %w", s, err)
			}
			hand[i] = c
		}
		snap.Hands[trick.Seat(s)] = hand
	}
	for i, p := range rd.Plays {
		c, err := card.Parse(p.Card)
		if err != nil {
			return round.Snapshot{}, err
		}
		snap.Plays[i] = trick.Play{Seat: trick.Seat(p.Seat), Card: c}
	}
	return snap, nil
}

// persist 保存快照，失败只记录日志。调用方不能持有 tm.mu 或 t.mu。
// 版本不高于已写入版本的快照、以及牌桌删除后的快照都会被丢弃。
func (tm *TableManager) persist(t *Table, data *storage.TableData) {
	if tm.opts.Store == nil || data == nil || tm.stopped() {
		return
	}

	t.saveMu.Lock()
	defer t.saveMu.Unlock()
	if t.dropped || data.Version <= t.saved {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := tm.opts.Store.SaveTable(ctx, data); err != nil {
		log.Printf("保存牌桌 %s 失败: %v", data.ID, err)
		return
	}
	t.saved = data.Version
}

// forget 删除快照，此后该牌桌的 persist 都是空操作
func (tm *TableManager) forget(t *Table) {
	if tm.opts.Store == nil || tm.stopped() {
		return
	}

	t.saveMu.Lock()
	defer t.saveMu.Unlock()
	t.dropped = true

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := tm.opts.Store.DeleteTable(ctx, t.ID); err != nil {
		log.Printf("删除牌桌 %s 失败: %v", t.ID, err)
	}
}

// Restore 从存储恢复牌桌（服务重启后调用）。玩家都处于离线状态，重新入座即可继续。
func (tm *TableManager) Restore(ctx context.Context) (int, error) {
	if tm.opts.Store == nil {
		return 0, nil
	}
	tables, err := tm.opts.Store.LoadAllTables(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, data := range tables {
		t, err := tm.tableFromData(data)
		if err != nil {
			log.Printf("恢复牌桌 %s 失败: %v", data.ID, err)
			continue
		}
		tm.mu.Lock()
		tm.tables[t.ID] = t
		tm.mu.Unlock()
		restored++
	}
	return restored, nil
}

func (tm *TableManager) tableFromData(data *storage.TableData) (*Table, error) {
	rs, err := tm.opts.Engine.SelectRuleSet(data.RuleSetID)
	if err != nil {
		return nil, err
	}

	seats := append([]trick.Seat(nil), tm.opts.Seats...)
	if data.Round != nil {
		seats = make([]trick.Seat, len(data.Round.TurnOrder))
		for i, s := range data.Round.TurnOrder {
			seats[i] = trick.Seat(s)
		}
	}

	t := newTable(data.ID, seats, rs)
	t.version = data.Version
	t.saved = data.Version
	for _, p := range data.Players {
		t.Players[trick.Seat(p.Seat)] = &TablePlayer{ID: p.ID, Name: p.Name, Seat: trick.Seat(p.Seat)}
	}

	if data.Round != nil {
		snap, err := dataToSnapshot(data.Round)
		if err != nil {
			return nil, err
		}
		r, err := round.Restore(snap, tm.opts.Engine.Registry(), newLogObserver(data.ID))
		if err != nil {
			return nil, err
		}
		t.round = r
	}
	return t, nil
}
