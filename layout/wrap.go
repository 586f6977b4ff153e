package layout

import "strings"

// Measurer 提供文本宽度测量能力。测量必须与最终绘制使用同一字体，
// 否则折行与绘制会不一致。
type Measurer interface {
	TextWidth(s string) float64
}

// MeasureFunc 让普通函数实现 Measurer，便于在测试中注入固定宽度的桩。
type MeasureFunc func(s string) float64

func (f MeasureFunc) TextWidth(s string) float64 { return f(s) }

// Wrap 将原始文本按像素宽度贪心折行。
// 显式换行先切分为段落，段落内按空格分词累积，放不下的词另起一行；
// 单个超宽的词独占一行，不做字符级拆分。空段落产出单空格占位行。
// 纯函数：相同输入恒得相同输出，字体或宽度变化后必须重新计算。
func Wrap(text string, maxWidth float64, m Measurer) []Line {
	var lines []Line
	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = strings.TrimSuffix(paragraph, "\r")
		if strings.TrimSpace(paragraph) == "" {
			lines = append(lines, Line{Content: " ", Width: m.TextWidth(" ")})
			continue
		}
		lines = append(lines, wrapParagraph(paragraph, maxWidth, m)...)
	}
	if len(lines) == 0 {
		lines = []Line{{Content: " ", Width: m.TextWidth(" ")}}
	}
	return lines
}

func wrapParagraph(paragraph string, maxWidth float64, m Measurer) []Line {
	var lines []Line
	current := ""
	for _, word := range strings.Split(paragraph, " ") {
		test := word
		if current != "" {
			test = current + " " + word
		}
		if m.TextWidth(test) <= maxWidth {
			current = test
			continue
		}
		if current != "" {
			lines = append(lines, Line{Content: current, Width: m.TextWidth(current)})
		}
		// 超宽的词同样进入 current：下一个词放不下时它会独占一行
		current = word
	}
	if current != "" {
		lines = append(lines, Line{Content: current, Width: m.TextWidth(current)})
	}
	return lines
}

// ClampVisible 丢弃超出盒子可见区域的行：最多保留
// (height - 2*padding) / lineHeight 行。至少保留一行，保证运行可终止。
func ClampVisible(lines []Line, cfg *Config) []Line {
	lh := cfg.LineHeight()
	if lh <= 0 {
		return lines
	}
	max := int(float64(cfg.Height-2*cfg.Padding) / lh)
	if max < 1 {
		max = 1
	}
	if len(lines) > max {
		return lines[:max]
	}
	return lines
}
