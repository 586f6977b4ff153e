package preview

import (
	"context"
	"errors"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/ByLCY/teletype/audio"
	"github.com/ByLCY/teletype/engine"
	"github.com/ByLCY/teletype/layout"
	"github.com/ByLCY/teletype/renderer"
)

// Player 在终端里实时播放打字动画：按配置的帧率逐 tick 绘制揭示文本，
// 每揭示一个字符播放一声打字音。Esc/Ctrl+C/q 随时退出。
type Player struct {
	co *engine.Coordinator
}

// NewPlayer 创建绑定到协调器的预览播放器。
func NewPlayer(co *engine.Coordinator) *Player {
	return &Player{co: co}
}

// Run 播放一次配置快照，阻塞到播放结束或用户退出。
func (p *Player) Run(ctx context.Context, cfg *layout.Config, m layout.Measurer) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var tw audio.Typewriter
	if err := tw.Init(); err != nil {
		// 没有声卡也能预览
		log.Printf("音频初始化失败，静音播放: %v", err)
	}
	defer tw.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 事件泵：vi-fighter 式的 goroutine + select
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		for {
			select {
			case ev := <-events:
				if quitEvent(ev) {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(
		int32(cfg.TextColor.R), int32(cfg.TextColor.G), int32(cfg.TextColor.B)))

	prev := engine.Cursor{}
	err = p.co.Play(ctx, cfg, m, func(pos renderer.Position, lines []layout.Line, c engine.Cursor) error {
		if revealedMore(prev, c) {
			tw.Click()
		}
		prev = c
		draw(screen, lines, pos, style)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		// 用户中途退出是正常静默转移
		return nil
	}
	return err
}

// revealedMore 报告该 tick 是否揭示了新字符（停顿与保持 tick 不发声）。
func revealedMore(prev, cur engine.Cursor) bool {
	if cur.Finished {
		return false
	}
	return cur.Line > prev.Line || cur.Char > prev.Char
}

func quitEvent(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch {
	case key.Key() == tcell.KeyEscape, key.Key() == tcell.KeyCtrlC:
		return true
	case key.Key() == tcell.KeyRune && key.Rune() == 'q':
		return true
	}
	return false
}

func draw(screen tcell.Screen, lines []layout.Line, pos renderer.Position, style tcell.Style) {
	screen.Clear()
	full := len(lines)
	if !pos.Complete && pos.Line < full {
		full = pos.Line
	}
	for i := 0; i < full; i++ {
		drawLine(screen, i, lines[i].Content, style)
	}
	if !pos.Complete && pos.Line < len(lines) {
		runes := []rune(lines[pos.Line].Content)
		n := pos.Char
		if n > len(runes) {
			n = len(runes)
		}
		drawLine(screen, pos.Line, string(runes[:n]), style)
	}
	screen.Show()
}

func drawLine(screen tcell.Screen, row int, content string, style tcell.Style) {
	col := 0
	for _, r := range content {
		screen.SetContent(col, row, r, nil, style)
		col++
	}
}
