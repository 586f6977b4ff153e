package layout

// 该文件定义渲染配置快照与折行结果，供布局、引擎与渲染器共用。

// BackgroundKind 表示背景类型。
type BackgroundKind int

const (
	BackgroundSolid    BackgroundKind = iota // 纯色填充
	BackgroundGradient                       // 双色线性渐变
	BackgroundImage                          // 缩放到盒子的图片
)

// GradientAxis 表示渐变方向。
type GradientAxis int

const (
	AxisVertical GradientAxis = iota
	AxisHorizontal
)

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// Background 描述盒子背景。Solid 仅在 Kind==BackgroundSolid 时生效，
// From/To/Axis 仅在渐变时生效，ImageSrc 仅在图片背景时生效。
type Background struct {
	Kind     BackgroundKind `json:"kind"`
	Solid    Color          `json:"solid"`
	From     Color          `json:"from"`
	To       Color          `json:"to"`
	Axis     GradientAxis   `json:"axis"`
	ImageSrc string         `json:"imageSrc,omitempty"`
}

// Timing 保存打字节奏参数。所有 *Ticks 字段以调度器 tick 为单位。
type Timing struct {
	FPS          int     `json:"fps"`
	CharSpeed    int     `json:"charSpeed"`    // 每个字符占用的 tick 数
	PauseComma   int     `json:"pauseComma"`   // 逗号后的停顿 tick 数
	PausePunct   int     `json:"pausePunct"`   // .!? 后的停顿 tick 数
	DwellSeconds float64 `json:"dwellSeconds"` // 文本完成后的保持时长（秒）
}

// DwellTicks 返回保持阶段的 tick 总数。
func (t Timing) DwellTicks() int {
	if t.DwellSeconds <= 0 || t.FPS <= 0 {
		return 0
	}
	return int(t.DwellSeconds * float64(t.FPS))
}

// Config 是一次运行的不可变配置快照。运行期间不得修改；
// 配置变更只能通过新快照开启新的运行生效。
type Config struct {
	Name string `json:"name"`
	Text string `json:"text"`

	Width   int `json:"width"`  // 盒子宽（像素）
	Height  int `json:"height"` // 盒子高（像素）
	Padding int `json:"padding"`

	FontSrc  string  `json:"fontSrc"` // 字体文件路径，留空使用内置字体
	FontSize float64 `json:"fontSize"`

	TextColor  Color      `json:"textColor"`
	Background Background `json:"background"`

	PortraitSrc     string `json:"portraitSrc,omitempty"` // 左侧立绘图片，可选
	PortraitPadding int    `json:"portraitPadding"`
	PortraitWidth   int    `json:"portraitWidth,omitempty"` // 立绘绘制宽度，运行前由渲染端量取

	Timing Timing `json:"timing"`
}

// LineHeightFactor 是行高相对字号的倍数，比字体自然行距略松，避免字形被裁切。
const LineHeightFactor = 1.25

// LineHeight 返回以像素计的固定行高。
func (c *Config) LineHeight() float64 { return c.FontSize * LineHeightFactor }

// Default 返回与命令行工具一致的默认配置（不含文本）。
func Default() Config {
	return Config{
		Width:           1000,
		Height:          209,
		Padding:         20,
		FontSize:        35,
		TextColor:       Color{R: 0, G: 0, B: 0, A: 255},
		PortraitPadding: 15,
		Background: Background{
			Kind: BackgroundGradient,
			From: Color{R: 255, G: 255, B: 255, A: 255},
			To:   Color{R: 121, G: 121, B: 121, A: 255},
			Axis: AxisVertical,
		},
		Timing: Timing{
			FPS:          30,
			CharSpeed:    1,
			PauseComma:   4,
			PausePunct:   10,
			DwellSeconds: 3,
		},
	}
}

// Normalize 将退化取值收敛到可渲染的最小形态：非正尺寸收敛为 2，
// 奇数宽高向上取偶（视频编码器要求偶数分辨率），非正节奏参数回退默认。
// 退化配置不报错，只产生退化但不崩溃的输出。
func (c *Config) Normalize() {
	if c.Width < 2 {
		c.Width = 2
	}
	if c.Height < 2 {
		c.Height = 2
	}
	if c.Width%2 != 0 {
		c.Width++
	}
	if c.Height%2 != 0 {
		c.Height++
	}
	if c.Padding < 0 {
		c.Padding = 0
	}
	if c.FontSize <= 0 {
		c.FontSize = Default().FontSize
	}
	if c.PortraitPadding < 0 {
		c.PortraitPadding = 0
	}
	if c.Timing.FPS <= 0 {
		c.Timing.FPS = Default().Timing.FPS
	}
	if c.Timing.CharSpeed <= 0 {
		c.Timing.CharSpeed = 1
	}
	if c.Timing.PauseComma < 0 {
		c.Timing.PauseComma = 0
	}
	if c.Timing.PausePunct < 0 {
		c.Timing.PausePunct = 0
	}
	if c.Timing.DwellSeconds < 0 {
		c.Timing.DwellSeconds = 0
	}
}

// TextLeft 返回文本区域的左边距：有立绘时向右避让。
func (c *Config) TextLeft() int {
	x := c.Padding
	if c.PortraitSrc != "" {
		x += c.PortraitWidth + c.PortraitPadding
	}
	return x
}

// MaxTextWidth 返回折行可用的最大像素宽度。
func (c *Config) MaxTextWidth() float64 {
	w := float64(c.Width - c.TextLeft() - c.Padding)
	if w < 0 {
		w = 0
	}
	return w
}

// Line 表示折行后的一行文本及其测量宽度。
type Line struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// IsPlaceholder 报告该行是否为空段落占位行（无可见字符）。
// 占位行保留垂直间距，但不贡献任何字符揭示 tick。
func (l Line) IsPlaceholder() bool {
	for _, r := range l.Content {
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return true
}
