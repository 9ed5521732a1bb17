package convert

import (
	"fmt"

	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/rule"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/protocol"
)

// RuleSetToInfo index 为列表位置（0 起），对外显示为 1 起
func RuleSetToInfo(index int, rs ruleset.RuleSet) protocol.RuleSetInfo {
	info := protocol.RuleSetInfo{
		Index:       index + 1,
		ID:          rs.ID,
		Name:        rs.Name,
		Description: rs.Description,
		FollowSuit:  rs.FollowSuitRequired,
	}
	if s, ok := rs.Trump(); ok {
		info.Trump = s.Name()
	}
	return info
}

// RuleSetsToInfos 按注册顺序转换
func RuleSetsToInfos(sets []ruleset.RuleSet) []protocol.RuleSetInfo {
	infos := make([]protocol.RuleSetInfo, len(sets))
	for i, rs := range sets {
		infos[i] = RuleSetToInfo(i, rs)
	}
	return infos
}

// TrickToInfos 按出牌顺序转换
func TrickToInfos(t trick.Trick) []protocol.PlayInfo {
	infos := make([]protocol.PlayInfo, len(t.Plays))
	for i, p := range t.Plays {
		infos[i] = protocol.PlayInfo{Seat: string(p.Seat), Card: CardToInfo(p.Card)}
	}
	return infos
}

// InfosToTrick 构造一个已出完的牌墩（大小等于出牌数）
func InfosToTrick(infos []protocol.PlayInfo) (trick.Trick, error) {
	plays := make([]trick.Play, len(infos))
	for i, info := range infos {
		if info.Seat == "" {
			return trick.Trick{}, fmt.Errorf("第 %d 次出牌缺少座位", i+1)
		}
		c, err := InfoToCard(info.Card)
		if err != nil {
			return trick.Trick{}, err
		}
		plays[i] = trick.Play{Seat: trick.Seat(info.Seat), Card: c}
	}
	return trick.Of(plays...), nil
}

// RejectionReason 被拒原因的线上名称：出牌规则给出的原因优先，其他按错误码
func RejectionReason(st round.State) string {
	if st.Reason != rule.ReasonNone {
		return st.Reason.String()
	}
	if name, ok := rejectionNames[codeOf(st.Err)]; ok {
		return name
	}
	return "invalid_play"
}

// StateToRejected 生成出牌被拒消息体
func StateToRejected(st round.State, seat trick.Seat, info protocol.CardInfo) protocol.PlayRejectedPayload {
	code := codeOf(st.Err)
	return protocol.PlayRejectedPayload{
		Seat:    string(seat),
		Card:    info,
		Reason:  RejectionReason(st),
		Code:    code,
		Message: errText(st.Err, code),
	}
}

// StateToTrickClosed 生成一墩结束消息体
func StateToTrickClosed(st round.State, rs ruleset.RuleSet, tricksPlayed int) protocol.TrickClosedPayload {
	idx, err := rule.WinningIndex(st.Closed, rs)
	if err != nil {
		idx = -1
	}
	return protocol.TrickClosedPayload{
		Winner:       string(st.Winner),
		WinningIndex: idx,
		Plays:        TrickToInfos(st.Closed),
		NextLeader:   string(st.Seat),
		TricksPlayed: tricksPlayed,
	}
}
