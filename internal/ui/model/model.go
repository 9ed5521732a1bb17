// Package model contains the hot-seat terminal game model.
//
// 所有座位轮流在同一终端出牌，牌局状态完全由 game.Engine 管理。
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/trick-taking/internal/apperrors"
	"github.com/palemoky/trick-taking/internal/game"
	"github.com/palemoky/trick-taking/internal/game/card"
	"github.com/palemoky/trick-taking/internal/game/round"
	"github.com/palemoky/trick-taking/internal/game/rule"
	"github.com/palemoky/trick-taking/internal/game/ruleset"
	"github.com/palemoky/trick-taking/internal/game/trick"
	"github.com/palemoky/trick-taking/internal/logger"
	"github.com/palemoky/trick-taking/internal/ui/view"
)

// Phase 界面阶段
type Phase int

const (
	PhasePicker    Phase = iota // 选择规则集
	PhasePlaying                // 出牌
	PhaseRoundOver              // 手牌出完
)

// Dealer 给每个座位发牌
type Dealer func(seats []trick.Seat, handSize int) (map[trick.Seat][]card.Card, error)

// ShuffleDealer 洗一副新牌后发牌
func ShuffleDealer(seats []trick.Seat, handSize int) (map[trick.Seat][]card.Card, error) {
	deck := card.NewDeck()
	deck.Shuffle()
	dealt, err := deck.Deal(len(seats), handSize)
	if err != nil {
		return nil, err
	}
	hands := make(map[trick.Seat][]card.Card, len(seats))
	for i, s := range seats {
		hands[s] = dealt[i]
	}
	return hands, nil
}

// Options 终端牌局参数
type Options struct {
	Engine     *game.Engine
	Seats      []trick.Seat
	HandSize   int
	LeadPolicy round.LeadPolicy
	Dealer     Dealer // 为 nil 时随机发牌
}

// Model 热座模式的 bubbletea 模型
type Model struct {
	opts  Options
	phase Phase

	ruleSets []ruleset.RuleSet
	ruleSet  ruleset.RuleSet
	round    *round.Round
	tricks   map[trick.Seat]int

	message string
	err     string

	input  textinput.Model
	width  int
	height int
}

// New 创建模型，从规则集选择页开始
func New(opts Options) *Model {
	if opts.Engine == nil {
		opts.Engine = game.NewEngine(nil)
	}
	if len(opts.Seats) == 0 {
		opts.Seats = []trick.Seat{"N", "E", "S", "W"}
	}
	if opts.HandSize <= 0 {
		opts.HandSize = card.DeckSize / len(opts.Seats)
	}
	if opts.Dealer == nil {
		opts.Dealer = ShuffleDealer
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 16
	ti.Width = 20
	ti.Focus()

	m := &Model{
		opts:     opts,
		ruleSets: opts.Engine.Registry().List(),
		input:    ti,
	}
	m.enterPicker()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.submit(text)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit 根据阶段处理一行输入
func (m *Model) submit(text string) {
	m.err = ""
	switch m.phase {
	case PhasePicker:
		m.pick(text)
	case PhasePlaying:
		m.play(text)
	case PhaseRoundOver:
		m.enterPicker()
	}
}

func (m *Model) enterPicker() {
	m.phase = PhasePicker
	m.round = nil
	m.input.Placeholder = fmt.Sprintf("规则集序号 1-%d", len(m.ruleSets))
}

// pick 按序号（1 起）选择规则集并发牌
func (m *Model) pick(text string) {
	n, err := strconv.Atoi(text)
	if err != nil {
		m.err = fmt.Sprintf("请输入 1-%d 之间的数字", len(m.ruleSets))
		return
	}
	rs, err := m.opts.Engine.SelectRuleSetAt(n - 1)
	if err != nil {
		m.err = err.Error()
		return
	}

	hands, err := m.opts.Dealer(m.opts.Seats, m.opts.HandSize)
	if err != nil {
		m.err = "发牌失败: " + err.Error()
		return
	}
	r, err := m.opts.Engine.NewRound(rs.ID, round.Config{
		TurnOrder:  m.opts.Seats,
		Hands:      hands,
		LeadPolicy: m.opts.LeadPolicy,
	})
	if err != nil {
		m.err = err.Error()
		return
	}

	logger.LogInfo("开局: 规则集 %s，%d 个座位，每人 %d 张", rs.ID, len(m.opts.Seats), m.opts.HandSize)
	m.ruleSet = rs
	m.round = r
	m.tricks = make(map[trick.Seat]int, len(m.opts.Seats))
	m.message = fmt.Sprintf("规则集: %s，%s 先出", rs.Name, r.CurrentSeat())
	m.phase = PhasePlaying
	m.input.Placeholder = "出牌，如 7c"
}

// play 出牌或切换规则集（r <序号>）
func (m *Model) play(text string) {
	if text == "" {
		return
	}
	if idx, ok := strings.CutPrefix(text, "r "); ok {
		m.changeRuleSet(strings.TrimSpace(idx))
		return
	}

	c, err := card.Parse(text)
	if err != nil {
		m.err = err.Error()
		return
	}

	seat := m.round.CurrentSeat()
	st := m.opts.Engine.SubmitPlay(m.round, seat, c)
	switch st.Kind {
	case round.Rejected:
		m.err = rejectionText(st)
	case round.AwaitingPlay:
		m.message = fmt.Sprintf("%s 出了 %s，轮到 %s", seat, c, st.Seat)
	case round.TrickClosed:
		m.tricks[st.Winner]++
		m.message = fmt.Sprintf("%s 赢得这一墩 (%s)", st.Winner, st.Closed)
		logger.LogInfo("一墩结束: %s，赢家 %s", st.Closed, st.Winner)
		if m.round.Exhausted() {
			m.phase = PhaseRoundOver
			m.input.Placeholder = "回车继续"
		}
	}
}

// changeRuleSet 只能在一墩开始前切换
func (m *Model) changeRuleSet(text string) {
	n, err := strconv.Atoi(text)
	if err != nil {
		m.err = fmt.Sprintf("请输入 1-%d 之间的数字", len(m.ruleSets))
		return
	}
	rs, err := m.opts.Engine.SelectRuleSetAt(n - 1)
	if err != nil {
		m.err = err.Error()
		return
	}
	if _, err := m.opts.Engine.ChangeRuleSet(m.round, rs.ID); err != nil {
		m.err = err.Error()
		return
	}
	m.ruleSet = rs
	m.message = "规则集已切换为 " + rs.Name
}

func rejectionText(st round.State) string {
	switch {
	case st.Reason == rule.CardNotInHand:
		return fmt.Sprintf("%s 没有这张牌", st.Seat)
	case st.Reason == rule.MustFollowSuit:
		return fmt.Sprintf("%s 必须跟出首引花色", st.Seat)
	case errors.Is(st.Err, apperrors.ErrNotYourTurn):
		return "还没轮到这个座位"
	case st.Err != nil:
		return st.Err.Error()
	}
	return "出牌无效"
}

func (m *Model) View() string {
	switch m.phase {
	case PhasePlaying:
		return m.tableView()
	case PhaseRoundOver:
		return view.RoundOverView(m.seatProps(), m.message, m.width)
	default:
		return m.pickerView()
	}
}

func (m *Model) pickerView() string {
	items := make([]view.RuleSetItem, len(m.ruleSets))
	for i, rs := range m.ruleSets {
		items[i] = view.RuleSetItem{
			Index:       i + 1,
			Name:        rs.Name,
			Description: rs.Description,
			Selected:    rs.ID == m.ruleSet.ID,
		}
	}
	return view.PickerView(view.PickerProps{
		RuleSets: items,
		Input:    m.input.View(),
		Error:    m.err,
		Width:    m.width,
	})
}

func (m *Model) tableView() string {
	seat := m.round.CurrentSeat()
	props := view.TableProps{
		RuleSetName: m.ruleSet.Name,
		Seats:       m.seatProps(),
		Trick:       m.round.Trick().Plays,
		Turn:        seat,
		Hand:        m.round.Hand(seat),
		Legal:       m.round.LegalPlays(seat),
		Message:     m.message,
		Error:       m.err,
		Input:       m.input.View(),
		Width:       m.width,
	}
	if s, ok := m.ruleSet.Trump(); ok {
		props.Trump = s.Name()
	}
	if last, winner, ok := m.round.LastTrick(); ok {
		props.LastTrick = last.Plays
		props.LastWinner = winner
	}
	return view.TableView(props)
}

func (m *Model) seatProps() []view.SeatProps {
	current := trick.Seat("")
	if m.phase == PhasePlaying {
		current = m.round.CurrentSeat()
	}
	seats := make([]view.SeatProps, len(m.opts.Seats))
	for i, s := range m.opts.Seats {
		seats[i] = view.SeatProps{
			Seat:    s,
			Cards:   len(m.round.Hand(s)),
			Tricks:  m.tricks[s],
			Current: s == current,
		}
	}
	return seats
}

// Phase 当前阶段
func (m *Model) Phase() Phase { return m.phase }

// Round 当前牌局，选择页时为 nil
func (m *Model) Round() *round.Round { return m.round }

// RuleSet 当前规则集
func (m *Model) RuleSet() ruleset.RuleSet { return m.ruleSet }

// Err 最近一次的错误提示
func (m *Model) Err() string { return m.err }

// Message 最近一次的提示
func (m *Model) Message() string { return m.message }

// TricksWon 座位赢得的墩数
func (m *Model) TricksWon(seat trick.Seat) int { return m.tricks[seat] }
