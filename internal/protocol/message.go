package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 规则集
	MsgListRuleSets  MessageType = "list_rule_sets"  // 获取规则集列表
	MsgSelectRuleSet MessageType = "select_rule_set" // 选择规则集

	// 牌桌操作
	MsgJoinTable  MessageType = "join_table"  // 入座（table_id 为空时新开一桌）
	MsgLeaveTable MessageType = "leave_table" // 离座

	// 出牌操作
	MsgStartTrick MessageType = "start_trick" // 发牌开局
	MsgPlayCard   MessageType = "play_card"   // 出一张牌

	// 纯计算：按规则集判定一墩的赢家
	MsgResolve MessageType = "resolve"
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 规则集
	MsgRuleSetList     MessageType = "rule_set_list"     // 规则集列表
	MsgRuleSetSelected MessageType = "rule_set_selected" // 规则集已切换（广播）

	// 牌桌相关
	MsgTableJoined  MessageType = "table_joined"  // 入座成功
	MsgPlayerJoined MessageType = "player_joined" // 其他玩家入座
	MsgPlayerLeft   MessageType = "player_left"   // 玩家离座

	// 出牌流程
	MsgHandDealt    MessageType = "hand_dealt"    // 发牌
	MsgPlayTurn     MessageType = "play_turn"     // 轮到出牌
	MsgCardPlayed   MessageType = "card_played"   // 有人出牌
	MsgPlayRejected MessageType = "play_rejected" // 出牌被拒
	MsgTrickClosed  MessageType = "trick_closed"  // 一墩结束
	MsgRoundOver    MessageType = "round_over"    // 手牌出完

	MsgResolveResult MessageType = "resolve_result" // 判定结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
