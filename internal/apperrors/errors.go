package apperrors

import (
	"errors"

	"github.com/palemoky/trick-taking/internal/protocol"
)

// GameError 游戏错误（引擎、牌桌和传输层共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	// 引擎
	ErrCardNotInHand     = &GameError{Code: protocol.ErrCodeCardNotInHand, Message: "您没有这张牌"}
	ErrMustFollowSuit    = &GameError{Code: protocol.ErrCodeMustFollowSuit, Message: "必须跟出首引花色"}
	ErrUnknownRuleSet    = &GameError{Code: protocol.ErrCodeUnknownRuleSet, Message: "规则集不存在"}
	ErrIncompleteTrick   = &GameError{Code: protocol.ErrCodeIncompleteTrick, Message: "这一墩还没出完"}
	ErrInvalidTrickShape = &GameError{Code: protocol.ErrCodeInvalidTrickShape, Message: "无效的牌墩"}

	// 出牌流程
	ErrNotYourTurn     = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrTrickInProgress = &GameError{Code: protocol.ErrCodeTrickInProgress, Message: "本墩进行中，不能切换规则"}
	ErrUnknownSeat     = &GameError{Code: protocol.ErrCodeUnknownSeat, Message: "座位不存在"}

	// 牌桌
	ErrTableNotFound = &GameError{Code: protocol.ErrCodeTableNotFound, Message: "牌桌不存在"}
	ErrTableFull     = &GameError{Code: protocol.ErrCodeTableFull, Message: "牌桌已满"}
	ErrNotAtTable    = &GameError{Code: protocol.ErrCodeNotAtTable, Message: "您不在牌桌上"}
	ErrGameNotStart  = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "本墩尚未开始"}
)

// Code 提取错误码，非 GameError 返回 ErrCodeUnknown
func Code(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return protocol.ErrCodeUnknown
}
