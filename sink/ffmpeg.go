package sink

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/ByLCY/teletype/layout"
	"github.com/ByLCY/teletype/renderer"
)

// Codec 是交给 ffmpeg 的视频编码器名。
type Codec string

const (
	CodecVP9  Codec = "libvpx-vp9"
	CodecH264 Codec = "libx264"
)

// FFmpeg 把原始 RGBA 帧经 stdin 管道喂给 ffmpeg 封装成视频。
// 帧以同步写入提交，背压由管道缓冲天然承担。
type FFmpeg struct {
	out    string
	width  int
	height int

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	started bool
}

// NewFFmpeg 创建写往 out 的视频接收器。ffmpeg 不可用时立即报错，
// 而不是在收帧途中才失败。
func NewFFmpeg(out string, cfg *layout.Config, codec Codec) (*FFmpeg, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("找不到 ffmpeg，可改用 gif/png 输出: %w", err)
	}
	size := fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", size,
		"-r", strconv.Itoa(cfg.Timing.FPS),
		"-i", "-",
		"-c:v", string(codec),
		"-pix_fmt", "yuv420p",
		"-b:v", "5M",
		out,
	)
	return &FFmpeg{out: out, width: cfg.Width, height: cfg.Height, cmd: cmd}, nil
}

func (f *FFmpeg) start() error {
	stdin, err := f.cmd.StdinPipe()
	if err != nil {
		return err
	}
	f.cmd.Stderr = io.Discard
	if err := f.cmd.Start(); err != nil {
		return fmt.Errorf("启动 ffmpeg 失败: %w", err)
	}
	f.stdin = stdin
	f.started = true
	return nil
}

// Submit 同步写入一帧原始像素。
func (f *FFmpeg) Submit(frame *renderer.Frame) error {
	if !f.started {
		if err := f.start(); err != nil {
			return err
		}
	}
	img := frame.Image
	b := img.Bounds()
	if b.Dx() != f.width || b.Dy() != f.height {
		return fmt.Errorf("第 %d 帧尺寸 %dx%d 与容器 %dx%d 不符", frame.Index, b.Dx(), b.Dy(), f.width, f.height)
	}
	// 逐行写出,避免对 Stride != 4*W 的图做假设
	rowLen := 4 * b.Dx()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		if _, err := f.stdin.Write(row); err != nil {
			return fmt.Errorf("写入 ffmpeg 管道失败: %w", err)
		}
	}
	return nil
}

// Finalize 关闭管道并等待 ffmpeg 封装完成，返回输出文件路径。
func (f *FFmpeg) Finalize() (string, error) {
	if !f.started {
		return "", fmt.Errorf("没有任何帧被提交")
	}
	if err := f.stdin.Close(); err != nil {
		return "", fmt.Errorf("关闭 ffmpeg 管道失败: %w", err)
	}
	if err := f.cmd.Wait(); err != nil {
		return "", fmt.Errorf("ffmpeg 退出异常: %w", err)
	}
	return f.out, nil
}

// Abort 终止 ffmpeg 并删除未完成的输出文件。
func (f *FFmpeg) Abort() {
	if f.started {
		f.stdin.Close()
		f.cmd.Process.Kill()
		f.cmd.Wait()
	}
	os.Remove(f.out)
}
