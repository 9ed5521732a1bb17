package handler

import (
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/protocol/codec"
	"github.com/palemoky/trick-taking/internal/protocol/convert"
	"github.com/palemoky/trick-taking/internal/types"
)

// handleListRuleSets 返回规则集列表（按注册顺序，Index 从 1 开始）
func (h *Handler) handleListRuleSets(client types.ClientInterface) {
	sets := h.tables.Engine().Registry().List()
	client.SendMessage(codec.MustNewMessage(protocol.MsgRuleSetList, protocol.RuleSetListPayload{
		RuleSets: convert.RuleSetsToInfos(sets),
	}))
}

// handleSelectRuleSet 切换所在牌桌的规则集，成功时由牌桌广播 rule_set_selected
func (h *Handler) handleSelectRuleSet(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SelectRuleSetPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if payload.RuleSetID == "" && payload.Index < 1 {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if _, err := h.tables.SelectRuleSet(client, payload.RuleSetID, payload.Index-1); err != nil {
		client.SendMessage(codec.NewErrorFromErr(err))
	}
}
