package convert

import (
	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/protocol"
)

// rejectionNames 非出牌规则导致的拒绝
var rejectionNames = map[int]string{
	protocol.ErrCodeNotYourTurn:  "not_your_turn",
	protocol.ErrCodeUnknownSeat:  "unknown_seat",
	protocol.ErrCodeGameNotStart: "game_not_started",
}

func codeOf(err error) int {
	if err == nil {
		return 0
	}
	return apperrors.Code(err)
}

func errText(err error, code int) string {
	if err != nil {
		return err.Error()
	}
	return protocol.ErrorMessages[code]
}
