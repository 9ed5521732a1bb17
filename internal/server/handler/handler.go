package handler

import (
	"log"

	"github.com/palemoky/trick-taking/internal/game/table"
	"github.com/palemoky/trick-taking/internal/protocol"
	"github.com/palemoky/trick-taking/internal/protocol/codec"
	"github.com/palemoky/trick-taking/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server types.ServerInterface
	Tables *table.TableManager
}

// Handler 消息处理器
type Handler struct {
	server   types.ServerInterface
	tables   *table.TableManager
	handlers map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server: deps.Server,
		tables: deps.Tables,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing: h.handlePing,

		// 规则集
		protocol.MsgListRuleSets:  func(c types.ClientInterface, _ *protocol.Message) { h.handleListRuleSets(c) },
		protocol.MsgSelectRuleSet: h.handleSelectRuleSet,

		// 牌桌操作
		protocol.MsgJoinTable:  h.handleJoinTable,
		protocol.MsgLeaveTable: func(c types.ClientInterface, _ *protocol.Message) { h.handleLeaveTable(c) },

		// 出牌操作
		protocol.MsgStartTrick: func(c types.ClientInterface, _ *protocol.Message) { h.handleStartTrick(c) },
		protocol.MsgPlayCard:   h.handlePlayCard,
		protocol.MsgResolve:    h.handleResolve,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, client.GetName(), client.GetID())
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// HandleDisconnect 连接断开时让玩家离座
func (h *Handler) HandleDisconnect(client types.ClientInterface) {
	h.tables.LeaveTable(client)
}
