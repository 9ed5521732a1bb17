package table

import (
	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/logger"
)

// logObserver 把牌局事件写入日志
type logObserver struct {
	tableID string
}

func newLogObserver(tableID string) *logObserver {
	return &logObserver{tableID: tableID}
}

func (o *logObserver) PlayAccepted(seat trick.Seat, c card.Card) {
	logger.LogInfo("牌桌 %s: %s 出 %s", o.tableID, seat, c)
}

func (o *logObserver) PlayRejected(seat trick.Seat, c card.Card, err error) {
	logger.LogInfo("牌桌 %s: %s 出 %s 被拒: %v", o.tableID, seat, c, err)
}

func (o *logObserver) TrickClosed(closed trick.Trick, winner trick.Seat) {
	logger.LogInfo("牌桌 %s: %s 结束，%s 赢", o.tableID, closed, winner)
}
