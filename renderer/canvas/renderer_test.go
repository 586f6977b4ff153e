package canvasrenderer

import (
	"bytes"
	"testing"

	"github.com/ByLCY/teletype/layout"
	"github.com/ByLCY/teletype/renderer"
)

func testConfig() *layout.Config {
	cfg := layout.Default()
	cfg.Text = "Hello, there."
	cfg.Width = 200
	cfg.Height = 100
	cfg.Padding = 10
	cfg.FontSize = 16
	cfg.FontSrc = "" // 内置字体,测试无需外部资源
	cfg.Normalize()
	return &cfg
}

func TestMeasurerMonotonic(t *testing.T) {
	r := NewRenderer(".")
	m, err := r.Measurer(testConfig())
	if err != nil {
		t.Fatalf("获取测量能力失败: %v", err)
	}
	a := m.TextWidth("a")
	ab := m.TextWidth("ab")
	if a <= 0 || ab <= a {
		t.Fatalf("测量宽度应随文本增长: a=%g ab=%g", a, ab)
	}
}

func TestMeasurerFallbackOnMissingFont(t *testing.T) {
	r := NewRenderer(".")
	cfg := testConfig()
	cfg.FontSrc = "no-such-font.ttf"
	m, err := r.Measurer(cfg)
	if err != nil {
		t.Fatalf("字体缺失应回退内置字体而不报错: %v", err)
	}
	if m.TextWidth("hello") <= 0 {
		t.Fatalf("回退字体也要能测量")
	}
}

func TestRenderFrameSize(t *testing.T) {
	r := NewRenderer(".")
	cfg := testConfig()
	lines := []layout.Line{{Content: "Hello"}}
	img, err := r.Render(cfg, lines, renderer.Complete)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != cfg.Width || b.Dy() != cfg.Height {
		t.Fatalf("帧尺寸不符: got=%dx%d want=%dx%d", b.Dx(), b.Dy(), cfg.Width, cfg.Height)
	}
}

func near(got, want uint8) bool {
	d := int(got) - int(want)
	return d >= -4 && d <= 4
}

func TestRenderSolidBackground(t *testing.T) {
	r := NewRenderer(".")
	cfg := testConfig()
	cfg.Background = layout.Background{
		Kind:  layout.BackgroundSolid,
		Solid: layout.Color{R: 200, G: 30, B: 40, A: 255},
	}
	img, err := r.Render(cfg, []layout.Line{{Content: " "}}, renderer.At(0, 0))
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	c := img.RGBAAt(cfg.Width/2, cfg.Height/2)
	if !near(c.R, 200) || !near(c.G, 30) || !near(c.B, 40) {
		t.Fatalf("纯色背景颜色不符: %+v", c)
	}
}

func TestRenderGradientEndpoints(t *testing.T) {
	r := NewRenderer(".")
	cfg := testConfig()
	cfg.Background = layout.Background{
		Kind: layout.BackgroundGradient,
		From: layout.Color{R: 250, G: 250, B: 250, A: 255},
		To:   layout.Color{R: 20, G: 20, B: 20, A: 255},
		Axis: layout.AxisVertical,
	}
	img, err := r.Render(cfg, []layout.Line{{Content: " "}}, renderer.At(0, 0))
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	top := img.RGBAAt(cfg.Width-3, 0)
	bottom := img.RGBAAt(cfg.Width-3, cfg.Height-1)
	if !near(top.R, 250) || !near(bottom.R, 20) {
		t.Fatalf("渐变端点颜色不符: top=%+v bottom=%+v", top, bottom)
	}
	if top.R <= bottom.R {
		t.Fatalf("垂直渐变方向颠倒: top=%+v bottom=%+v", top, bottom)
	}
}

// TestRenderDeterministic 相同输入产出逐字节相同的帧。
func TestRenderDeterministic(t *testing.T) {
	r := NewRenderer(".")
	cfg := testConfig()
	lines := []layout.Line{{Content: "Hello,"}, {Content: "there."}}

	a, err := r.Render(cfg, lines, renderer.At(1, 3))
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	b, err := r.Render(cfg, lines, renderer.At(1, 3))
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("相同输入渲染结果不一致")
	}
}

// TestRenderClearsSurface 每帧从干净表面开始:中间渲染过完整帧后,
// 再渲染初始位置仍与最初逐字节相同。
func TestRenderClearsSurface(t *testing.T) {
	r := NewRenderer(".")
	cfg := testConfig()
	lines := []layout.Line{{Content: "Hello,"}, {Content: "there."}}

	first, err := r.Render(cfg, lines, renderer.At(0, 2))
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if _, err := r.Render(cfg, lines, renderer.Complete); err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	again, err := r.Render(cfg, lines, renderer.At(0, 2))
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.Equal(first.Pix, again.Pix) {
		t.Fatalf("前一帧内容泄漏到了后续帧")
	}
}

// TestRenderPartialDiffersFromComplete 部分揭示帧与完整帧应当不同。
func TestRenderPartialDiffersFromComplete(t *testing.T) {
	r := NewRenderer(".")
	cfg := testConfig()
	m, err := r.Measurer(cfg)
	if err != nil {
		t.Fatalf("获取测量能力失败: %v", err)
	}
	lines := layout.Wrap(cfg.Text, cfg.MaxTextWidth(), m)

	partial, err := r.Render(cfg, lines, renderer.At(0, 1))
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	complete, err := r.Render(cfg, lines, renderer.Complete)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if bytes.Equal(partial.Pix, complete.Pix) {
		t.Fatalf("截断帧与完整帧不应相同")
	}
}

func TestRenderDegenerateBox(t *testing.T) {
	r := NewRenderer(".")
	cfg := testConfig()
	cfg.Width = 0
	cfg.Height = 0
	cfg.Normalize()
	img, err := r.Render(cfg, []layout.Line{{Content: "x"}}, renderer.Complete)
	if err != nil {
		t.Fatalf("退化配置应渲染极小帧而非失败: %v", err)
	}
	if img.Bounds().Dx() < 1 || img.Bounds().Dy() < 1 {
		t.Fatalf("退化帧尺寸无效: %v", img.Bounds())
	}
}
