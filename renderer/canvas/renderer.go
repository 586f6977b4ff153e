package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/teletype/fonts"
	"github.com/ByLCY/teletype/layout"
	"github.com/ByLCY/teletype/renderer"
)

// 内部约定：配置中的像素在 canvas 坐标里按 1 单位处理，栅格化用 DPMM(1)，
// 字体面创建需要 pt，在边界做一次换算。
const ptPerPx = 72.0 / 25.4

// Renderer 基于 github.com/tdewolff/canvas 把配置快照与揭示位置画成位图帧。
// 每次 Render 都新建绘制表面，产出的 *image.RGBA 不与后续帧共享。
type Renderer struct {
	baseDir string

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
	fallback *canvas.FontFamily

	imgMu     sync.Mutex
	images    map[string]image.Image // 按原始路径缓存解码结果
	scaledBGs map[string]*image.RGBA // 按 路径|宽x高 缓存缩放结果
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 创建以 baseDir 为资源根目录的渲染器。
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{
		baseDir:   baseDir,
		families:  map[string]*canvas.FontFamily{},
		images:    map[string]image.Image{},
		scaledBGs: map[string]*image.RGBA{},
	}
}

// Measurer 返回与最终绘制同一字体面的测量能力，供折行使用。
// 字体加载失败时回退到内置字体而不是报错：折行在真实字体就绪后重算。
func (r *Renderer) Measurer(cfg *layout.Config) (layout.Measurer, error) {
	face, err := r.fontFace(cfg)
	if err != nil {
		return nil, err
	}
	return layout.MeasureFunc(func(s string) float64 { return face.TextWidth(s) }), nil
}

// Render 渲染一帧：先清空表面画背景，再画立绘，最后画已揭示的文本。
func (r *Renderer) Render(cfg *layout.Config, lines []layout.Line, pos renderer.Position) (*image.RGBA, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	w, h := float64(cfg.Width), float64(cfg.Height)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if err := r.drawBackground(ctx, cfg); err != nil {
		return nil, err
	}
	if err := r.drawPortrait(ctx, cfg); err != nil {
		return nil, err
	}
	if err := r.drawText(ctx, cfg, lines, pos); err != nil {
		return nil, err
	}

	return rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace), nil
}

func (r *Renderer) drawBackground(ctx *canvas.Context, cfg *layout.Config) error {
	w, h := float64(cfg.Width), float64(cfg.Height)
	bg := cfg.Background
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})

	switch bg.Kind {
	case layout.BackgroundSolid:
		ctx.SetFillColor(rgba(bg.Solid))
		ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
	case layout.BackgroundGradient:
		drawGradient(ctx, w, h, bg)
	case layout.BackgroundImage:
		img, err := r.scaledBackground(bg.ImageSrc, cfg.Width, cfg.Height)
		if err != nil {
			return err
		}
		ctx.DrawImage(0, 0, img, canvas.DPMM(1))
	}
	return nil
}

// drawGradient 逐行/逐列画 1 像素条带，两端颜色线性插值。
func drawGradient(ctx *canvas.Context, w, h float64, bg layout.Background) {
	if bg.Axis == layout.AxisVertical {
		n := int(h)
		for y := 0; y < n; y++ {
			t := 0.0
			if n > 1 {
				t = float64(y) / float64(n-1)
			}
			ctx.SetFillColor(rgba(lerpColor(bg.From, bg.To, t)))
			ctx.DrawPath(0, float64(y), canvas.Rectangle(w, 1))
		}
		return
	}
	n := int(w)
	for x := 0; x < n; x++ {
		t := 0.0
		if n > 1 {
			t = float64(x) / float64(n-1)
		}
		ctx.SetFillColor(rgba(lerpColor(bg.From, bg.To, t)))
		ctx.DrawPath(float64(x), 0, canvas.Rectangle(1, h))
	}
}

func (r *Renderer) drawPortrait(ctx *canvas.Context, cfg *layout.Config) error {
	if cfg.PortraitSrc == "" {
		return nil
	}
	img, err := r.loadImage(cfg.PortraitSrc)
	if err != nil {
		return err
	}
	img, _ = r.fitPortrait(img, cfg)
	ctx.DrawImage(float64(cfg.Padding), float64(cfg.Padding), img, canvas.DPMM(1))
	return nil
}

// MeasurePortrait 返回立绘的绘制宽度（像素），供运行前写回配置快照。
func (r *Renderer) MeasurePortrait(cfg *layout.Config) (int, error) {
	if cfg.PortraitSrc == "" {
		return 0, nil
	}
	img, err := r.loadImage(cfg.PortraitSrc)
	if err != nil {
		return 0, err
	}
	_, w := r.fitPortrait(img, cfg)
	return w, nil
}

// fitPortrait 把超出内容区高度的立绘等比缩小，返回绘制用图与绘制宽度。
func (r *Renderer) fitPortrait(img image.Image, cfg *layout.Config) (image.Image, int) {
	b := img.Bounds()
	maxH := cfg.Height - 2*cfg.Padding
	if maxH <= 0 || b.Dy() <= maxH {
		return img, b.Dx()
	}
	w := b.Dx() * maxH / b.Dy()
	if w < 1 {
		w = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, maxH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst, w
}

func (r *Renderer) drawText(ctx *canvas.Context, cfg *layout.Config, lines []layout.Line, pos renderer.Position) error {
	face, err := r.fontFace(cfg)
	if err != nil {
		return err
	}

	full := len(lines)
	if !pos.Complete {
		if pos.Line < full {
			full = pos.Line
		}
	}

	x := float64(cfg.TextLeft())
	lineHeight := cfg.LineHeight()
	metrics := face.Metrics()
	y := float64(cfg.Padding)

	draw := func(content string) {
		if content == "" {
			return
		}
		// 基线 = 行顶部 + 字体上升部
		ctx.DrawText(x, y+metrics.Ascent, canvas.NewTextLine(face, content, canvas.Left))
	}

	for i := 0; i < full; i++ {
		draw(lines[i].Content)
		y += lineHeight
	}
	if !pos.Complete && pos.Line < len(lines) {
		runes := []rune(lines[pos.Line].Content)
		n := pos.Char
		if n > len(runes) {
			n = len(runes)
		}
		draw(string(runes[:n]))
	}
	return nil
}

func (r *Renderer) fontFace(cfg *layout.Config) (*canvas.FontFace, error) {
	family, err := r.ensureFamily(cfg.FontSrc)
	if err != nil {
		return nil, err
	}
	return family.Face(cfg.FontSize*ptPerPx, rgba(cfg.TextColor), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFamily(src string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[src]; ok {
		return family, nil
	}

	data, err := fonts.Load(r.resolve(src))
	if err != nil {
		// 字体未就绪不是致命错误：回退内置字体继续测量与绘制
		fallback, fbErr := r.ensureFallback()
		if fbErr != nil {
			return nil, err
		}
		r.families[src] = fallback
		return fallback, nil
	}

	family := canvas.NewFontFamily("teletype-" + filepath.Base(src))
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		fallback, fbErr := r.ensureFallback()
		if fbErr != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", src, err)
		}
		r.families[src] = fallback
		return fallback, nil
	}
	r.families[src] = family
	return family, nil
}

func (r *Renderer) ensureFallback() (*canvas.FontFamily, error) {
	if r.fallback != nil {
		return r.fallback, nil
	}
	family := canvas.NewFontFamily("teletype-fallback")
	if err := family.LoadFont(fonts.Builtin(), 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载内置字体失败: %w", err)
	}
	r.fallback = family
	return family, nil
}

// resolve 把相对路径折算到资源根目录；空串与 builtin: 前缀原样返回。
func (r *Renderer) resolve(src string) string {
	if src == "" || filepath.IsAbs(src) {
		return src
	}
	if strings.HasPrefix(src, "builtin:") {
		return src
	}
	if r.baseDir == "" {
		return src
	}
	return filepath.Join(r.baseDir, src)
}

func (r *Renderer) loadImage(src string) (image.Image, error) {
	r.imgMu.Lock()
	defer r.imgMu.Unlock()

	if img, ok := r.images[src]; ok {
		return img, nil
	}
	data, err := os.ReadFile(r.resolve(src))
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", src, err)
	}
	r.images[src] = img
	return img, nil
}

// scaledBackground 返回缩放到盒子尺寸的背景图（缓存复用，不随帧重复缩放）。
func (r *Renderer) scaledBackground(src string, w, h int) (*image.RGBA, error) {
	key := fmt.Sprintf("%s|%dx%d", src, w, h)
	r.imgMu.Lock()
	if img, ok := r.scaledBGs[key]; ok {
		r.imgMu.Unlock()
		return img, nil
	}
	r.imgMu.Unlock()

	orig, err := r.loadImage(src)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), orig, orig.Bounds(), xdraw.Src, nil)

	r.imgMu.Lock()
	r.scaledBGs[key] = dst
	r.imgMu.Unlock()
	return dst, nil
}

func lerpColor(a, b layout.Color, t float64) layout.Color {
	lerp := func(x, y int) int { return int(float64(x)*(1-t) + float64(y)*t) }
	return layout.Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

func rgba(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}
