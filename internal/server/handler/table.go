package handler

import (
	"github.com/palemoky/trick-taking/internal/game/table"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/protocol/codec"
	"github.com/palemoky/trick-taking/internal/protocol/convert"
	"github.com/palemoky/trick-taking/internal/types"
)

// handleJoinTable 处理入座；table_id 为空时新开一桌
func (h *Handler) handleJoinTable(client types.ClientInterface, msg *protocol.Message) {
	// 维护模式检查
	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessageWithText(
			protocol.ErrCodeServerMaintenance, "服务器维护中，暂停入座"))
		return
	}

	payload, err := codec.ParsePayload[protocol.JoinTablePayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 如果已在牌桌上，先离开
	if client.GetTable() != "" {
		h.tables.LeaveTable(client)
	}

	var (
		t    *table.Table
		seat trick.Seat
	)
	if payload.TableID == "" {
		t, err = h.tables.CreateTable(client)
		if err == nil {
			seat = t.Seats[0]
		}
	} else {
		t, seat, err = h.tables.JoinTable(client, payload.TableID)
	}
	if err != nil {
		client.SendMessage(codec.NewErrorFromErr(err))
		return
	}

	rs := t.RuleSet()
	index := 0
	for i, candidate := range h.tables.Engine().Registry().List() {
		if candidate.ID == rs.ID {
			index = i
			break
		}
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgTableJoined, protocol.TableJoinedPayload{
		TableID: t.ID,
		Seat:    string(seat),
		Players: t.GetAllPlayersInfo(),
		RuleSet: convert.RuleSetToInfo(index, rs),
	}))
}

// handleLeaveTable 处理离座
func (h *Handler) handleLeaveTable(client types.ClientInterface) {
	h.tables.LeaveTable(client)
}
