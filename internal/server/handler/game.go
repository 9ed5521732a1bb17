package handler

import (
	"fmt"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game"
	"github.com/palemoky/trick-taking/internal/game/rule"
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/protocol/codec"
	"github.com/palemoky/trick-taking/internal/protocol/convert"
	"github.com/palemoky/trick-taking/internal/types"
)

// handleStartTrick 发牌开局
func (h *Handler) handleStartTrick(client types.ClientInterface) {
	if err := h.tables.StartTrick(client); err != nil {
		client.SendMessage(codec.NewErrorFromErr(err))
	}
}

// handlePlayCard 处理出牌；被拒绝时牌桌已单独通知出牌者
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PlayCardPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	c, err := convert.InfoToCard(payload.Card)
	if err != nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, err.Error()))
		return
	}

	if _, err := h.tables.PlayCard(client, c); err != nil {
		client.SendMessage(codec.NewErrorFromErr(err))
	}
}

// handleResolve 按指定规则集判定一墩的赢家，不涉及任何牌桌状态
func (h *Handler) handleResolve(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ResolvePayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	result, err := Resolve(h.tables.Engine(), payload)
	if err != nil {
		client.SendMessage(codec.NewErrorFromErr(err))
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgResolveResult, result))
}

// Resolve 判定一墩的赢家（WebSocket 与 HTTP 接口共用）
func Resolve(engine *game.Engine, p *protocol.ResolvePayload) (protocol.ResolveResultPayload, error) {
	rs, err := engine.SelectRuleSet(p.RuleSetID)
	if err != nil {
		return protocol.ResolveResultPayload{}, err
	}

	t, err := convert.InfosToTrick(p.Plays)
	if err != nil {
		return protocol.ResolveResultPayload{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidTrickShape, err)
	}

	idx, err := rule.WinningIndex(t, rs)
	if err != nil {
		return protocol.ResolveResultPayload{}, err
	}
	return protocol.ResolveResultPayload{
		RuleSetID:    rs.ID,
		Winner:       string(t.Plays[idx].Seat),
		WinningIndex: idx,
	}, nil
}
