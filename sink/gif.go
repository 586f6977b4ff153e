package sink

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"github.com/ByLCY/teletype/layout"
	"github.com/ByLCY/teletype/renderer"
)

// GIF 把帧量化后累积在内存里，Finalize 时一次编码写出动图。
type GIF struct {
	out   string
	delay int // 单位 10ms
	anim  gif.GIF
}

// NewGIF 创建写往 out 的 GIF 接收器。
func NewGIF(out string, cfg *layout.Config) *GIF {
	fps := cfg.Timing.FPS
	if fps < 1 {
		fps = 1
	}
	return &GIF{out: out, delay: 100 / fps}
}

// Submit 把帧量化为 256 色并缓冲。
func (g *GIF) Submit(frame *renderer.Frame) error {
	img := frame.Image
	paletted := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, img.Bounds(), img, image.Point{})
	g.anim.Image = append(g.anim.Image, paletted)
	g.anim.Delay = append(g.anim.Delay, g.delay)
	return nil
}

// Finalize 编码全部缓冲帧并返回输出文件路径。
func (g *GIF) Finalize() (string, error) {
	if len(g.anim.Image) == 0 {
		return "", fmt.Errorf("没有任何帧被提交")
	}
	file, err := os.Create(g.out)
	if err != nil {
		return "", fmt.Errorf("创建 GIF 文件失败: %w", err)
	}
	defer file.Close()
	if err := gif.EncodeAll(file, &g.anim); err != nil {
		os.Remove(g.out)
		return "", fmt.Errorf("编码 GIF 失败: %w", err)
	}
	return g.out, nil
}

// Abort 丢弃全部缓冲帧。
func (g *GIF) Abort() {
	g.anim = gif.GIF{}
}
