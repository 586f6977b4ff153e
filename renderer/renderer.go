package renderer

import (
	"image"

	"github.com/ByLCY/teletype/layout"
)

// Position 描述一帧要显示到哪里：Complete 表示全部行完整绘制，
// 否则绘制 Line 之前的所有行、Line 行截断到 Char 个字符，之后的行不绘制。
type Position struct {
	Complete bool
	Line     int
	Char     int
}

// Complete 是全文完整显示的位置。
var Complete = Position{Complete: true}

// At 返回截断到 (line, char) 的位置。
func At(line, char int) Position { return Position{Line: line, Char: char} }

// Frame 是一帧渲染结果及其在本次运行中的逻辑序号。
// 帧是短暂对象：产出后被显示或编码，不被核心保留。
type Frame struct {
	Index int
	Image *image.RGBA
}

// Renderer 将配置快照与揭示位置渲染为一帧位图。
// 实现必须在每次调用开始时清空绘制表面，且不得与接收方共享可变表面。
type Renderer interface {
	Render(cfg *layout.Config, lines []layout.Line, pos Position) (*image.RGBA, error)
}
