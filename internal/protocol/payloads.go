package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// SelectRuleSetPayload 选择规则集
// 优先使用 RuleSetID；为空时按 Index（从 1 开始，对应列表位置）选择
type SelectRuleSetPayload struct {
	RuleSetID string `json:"rule_set_id,omitempty"`
	Index     int    `json:"index,omitempty"`
}

// JoinTablePayload 入座请求
type JoinTablePayload struct {
	TableID string `json:"table_id,omitempty"` // 为空时新开一桌
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	Card CardInfo `json:"card"`
}

// ResolvePayload 判定请求
type ResolvePayload struct {
	RuleSetID string     `json:"rule_set_id"`
	Plays     []PlayInfo `json:"plays"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// RuleSetListPayload 规则集列表
type RuleSetListPayload struct {
	RuleSets []RuleSetInfo `json:"rule_sets"`
}

// RuleSetSelectedPayload 规则集已切换
type RuleSetSelectedPayload struct {
	TableID string      `json:"table_id,omitempty"`
	RuleSet RuleSetInfo `json:"rule_set"`
}

// TableJoinedPayload 入座成功
type TableJoinedPayload struct {
	TableID string       `json:"table_id"`
	Seat    string       `json:"seat"`
	Players []PlayerInfo `json:"players"`
	RuleSet RuleSetInfo  `json:"rule_set"`
}

// PlayerJoinedPayload 其他玩家入座
type PlayerJoinedPayload struct {
	Player PlayerInfo `json:"player"`
}

// PlayerLeftPayload 玩家离座
type PlayerLeftPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Seat       string `json:"seat"`
}

// HandDealtPayload 发牌（只发给本人）
type HandDealtPayload struct {
	Seat   string     `json:"seat"`
	Cards  []CardInfo `json:"cards"`
	Leader string     `json:"leader"`
}

// PlayTurnPayload 轮到出牌
type PlayTurnPayload struct {
	Seat  string     `json:"seat"`
	Legal []CardInfo `json:"legal,omitempty"` // 只发给当前座位的玩家
}

// CardPlayedPayload 有人出牌
type CardPlayedPayload struct {
	Seat string   `json:"seat"`
	Card CardInfo `json:"card"`
}

// PlayRejectedPayload 出牌被拒，牌局状态不变
type PlayRejectedPayload struct {
	Seat    string   `json:"seat"`
	Card    CardInfo `json:"card"`
	Reason  string   `json:"reason"` // card_not_in_hand / must_follow_suit / not_your_turn ...
	Code    int      `json:"code"`
	Message string   `json:"message"`
}

// TrickClosedPayload 一墩结束
type TrickClosedPayload struct {
	Winner       string     `json:"winner"`
	WinningIndex int        `json:"winning_index"`
	Plays        []PlayInfo `json:"plays"`
	NextLeader   string     `json:"next_leader"`
	TricksPlayed int        `json:"tricks_played"`
}

// RoundOverPayload 手牌出完
type RoundOverPayload struct {
	TricksPlayed int `json:"tricks_played"`
}

// ResolveResultPayload 判定结果
type ResolveResultPayload struct {
	RuleSetID    string `json:"rule_set_id"`
	Winner       string `json:"winner"`
	WinningIndex int    `json:"winning_index"`
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- 公共结构 ---

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Seat   string `json:"seat"`
	Online bool   `json:"online"`
}

// RuleSetInfo 规则集信息
type RuleSetInfo struct {
	Index       int    `json:"index"` // 列表中的位置，从 1 开始
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FollowSuit  bool   `json:"follow_suit"`
	Trump       string `json:"trump,omitempty"`
}

// PlayInfo 一墩中的一次出牌
type PlayInfo struct {
	Seat string   `json:"seat"`
	Card CardInfo `json:"card"`
}

// CardInfo 牌信息
type CardInfo struct {
	Suit int `json:"suit"` // 0=♣ 1=♦ 2=♥ 3=♠
	Rank int `json:"rank"` // 2..14
}
