package sink

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ByLCY/teletype/renderer"
)

// PNGSequence 把每一帧写成目录下的 frame_%04d.png。
// 文件名带帧序号，输出容器天然保持提交顺序。
type PNGSequence struct {
	dir     string
	created bool
	frames  int
}

// NewPNGSequence 创建写往 dir 的帧序列接收器。
func NewPNGSequence(dir string) *PNGSequence {
	return &PNGSequence{dir: dir}
}

// Submit 把一帧编码为 PNG 文件。
func (p *PNGSequence) Submit(frame *renderer.Frame) error {
	if !p.created {
		if err := os.MkdirAll(p.dir, 0o755); err != nil {
			return fmt.Errorf("创建帧目录失败: %w", err)
		}
		p.created = true
	}
	path := filepath.Join(p.dir, fmt.Sprintf("frame_%04d.png", frame.Index))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建帧文件失败: %w", err)
	}
	if err := png.Encode(file, frame.Image); err != nil {
		file.Close()
		return fmt.Errorf("编码帧 %d 失败: %w", frame.Index, err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	p.frames++
	return nil
}

// Finalize 返回帧目录路径。
func (p *PNGSequence) Finalize() (string, error) {
	if p.frames == 0 {
		return "", fmt.Errorf("没有任何帧被提交")
	}
	return p.dir, nil
}

// Abort 删除已写出的帧目录。
func (p *PNGSequence) Abort() {
	if p.created {
		os.RemoveAll(p.dir)
	}
}
