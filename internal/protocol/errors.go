package protocol

// 错误码
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeUnknownRuleSet    = 1101 // 规则集不存在
	ErrCodeTableNotFound     = 2001
	ErrCodeTableFull         = 2002
	ErrCodeNotAtTable        = 2003
	ErrCodeGameNotStart      = 3001
	ErrCodeNotYourTurn       = 3002
	ErrCodeCardNotInHand     = 3003
	ErrCodeMustFollowSuit    = 3004
	ErrCodeTrickInProgress   = 3005 // 本墩进行中，不能切换规则
	ErrCodeUnknownSeat       = 3006
	ErrCodeIncompleteTrick   = 4001
	ErrCodeInvalidTrickShape = 4002
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "未知错误",
	ErrCodeInvalidMsg:        "无效的消息格式",
	ErrCodeUnknownRuleSet:    "规则集不存在",
	ErrCodeTableNotFound:     "牌桌不存在",
	ErrCodeTableFull:         "牌桌已满",
	ErrCodeNotAtTable:        "您不在牌桌上",
	ErrCodeGameNotStart:      "本墩尚未开始",
	ErrCodeNotYourTurn:       "还没轮到您",
	ErrCodeCardNotInHand:     "您没有这张牌",
	ErrCodeMustFollowSuit:    "必须跟出首引花色",
	ErrCodeTrickInProgress:   "本墩进行中，不能切换规则",
	ErrCodeUnknownSeat:       "座位不存在",
	ErrCodeIncompleteTrick:   "这一墩还没出完",
	ErrCodeInvalidTrickShape: "无效的牌墩（座位或牌重复）",
	ErrCodeServerMaintenance: "服务器维护中",
}
