package engine

import (
	"github.com/ByLCY/teletype/layout"
	"github.com/ByLCY/teletype/renderer"
)

// Cursor 是一次运行内的揭示位置。单调：Line 与同一行内的 Char 不回退，
// Char 仅在 Line 前进时清零。运行开始时必须从零值起步。
type Cursor struct {
	Line       int  // 当前行下标
	Char       int  // 当前行已揭示的字符数（按 rune 计）
	Hold       int  // 剩余停顿 tick 数
	Accum      int  // 揭示下一个字符前已积累的 tick（char-speed 门控）
	Finished   bool // 全部行已揭示
	PostFinish int  // 完成后的保持 tick 计数
}

// Phase 是状态机所处的阶段。
type Phase int

const (
	PhaseTyping Phase = iota
	PhaseHolding
	PhaseDwelling
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseTyping:
		return "typing"
	case PhaseHolding:
		return "holding"
	case PhaseDwelling:
		return "dwelling"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Advance 将状态机推进恰好一个 tick，返回新的游标。纯函数。
// 规则：停顿 tick 只消耗 Hold，不揭示字符；揭示到 ',' 装填 PauseComma，
// 揭示到 .!? 装填 PausePunct，停顿从下一个 tick 开始消耗；
// 占位行不消耗揭示 tick，直接越过；没有剩余字符时置 Finished，
// 此后每个 tick 只累加 PostFinish。
func Advance(c Cursor, lines []layout.Line, t layout.Timing) Cursor {
	if c.Finished {
		c.PostFinish++
		return c
	}
	if c.Hold > 0 {
		c.Hold--
		return c
	}

	// 越过占位行与已揭示完的行
	for c.Line < len(lines) {
		line := lines[c.Line]
		if line.IsPlaceholder() || c.Char >= len([]rune(line.Content)) {
			c.Line++
			c.Char = 0
			continue
		}
		break
	}
	if c.Line >= len(lines) {
		c.Finished = true
		return c
	}

	speed := t.CharSpeed
	if speed < 1 {
		speed = 1
	}
	c.Accum++
	if c.Accum < speed {
		return c
	}
	c.Accum = 0

	runes := []rune(lines[c.Line].Content)
	ch := runes[c.Char]
	c.Char++
	switch ch {
	case ',':
		c.Hold = t.PauseComma
	case '.', '!', '?':
		c.Hold = t.PausePunct
	}
	return c
}

// Terminal 报告保持阶段是否已结束（运行的终止条件）。
func Terminal(c Cursor, t layout.Timing) bool {
	return c.Finished && c.PostFinish >= t.DwellTicks()
}

// PhaseOf 返回游标所处的阶段。
func PhaseOf(c Cursor, t layout.Timing) Phase {
	switch {
	case Terminal(c, t):
		return PhaseTerminal
	case c.Finished:
		return PhaseDwelling
	case c.Hold > 0:
		return PhaseHolding
	default:
		return PhaseTyping
	}
}

// PositionOf 把游标换算为渲染位置。
func PositionOf(c Cursor) renderer.Position {
	if c.Finished {
		return renderer.Complete
	}
	return renderer.At(c.Line, c.Char)
}

// TotalTicks 计算一次运行确定性的总 tick 数（即导出时提交的总帧数）：
// 逐字符揭示 + 标点停顿 + 一个完成过渡 tick + 保持阶段。
func TotalTicks(lines []layout.Line, t layout.Timing) int {
	speed := t.CharSpeed
	if speed < 1 {
		speed = 1
	}
	total := 0
	for _, line := range lines {
		if line.IsPlaceholder() {
			continue
		}
		for _, r := range line.Content {
			total += speed
			switch r {
			case ',':
				total += t.PauseComma
			case '.', '!', '?':
				total += t.PausePunct
			}
		}
	}
	return total + 1 + t.DwellTicks()
}
