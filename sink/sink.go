package sink

import (
	"fmt"

	"github.com/ByLCY/teletype/engine"
	"github.com/ByLCY/teletype/layout"
)

// 本包提供三种帧捕获接收器实现：ffmpeg 管道（webm/mp4）、动图 GIF
// 与 PNG 帧序列目录。接收器按严格递增的帧序同步接收帧，正常完成时
// Finalize 产出产物路径；Abort 丢弃已缓冲内容，不留下部分产物。

// Kind 标识输出容器类型。
type Kind string

const (
	KindWebM Kind = "webm"
	KindMP4  Kind = "mp4"
	KindGIF  Kind = "gif"
	KindPNG  Kind = "png" // PNG 帧序列目录
)

// ParseKind 解析命令行的格式参数。
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindWebM, KindMP4, KindGIF, KindPNG:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("未知输出格式 %q（可选 webm/mp4/gif/png）", s)
	}
}

// New 按类型创建接收器。out 是不带扩展名的输出基名。
func New(kind Kind, out string, cfg *layout.Config) (engine.Sink, error) {
	switch kind {
	case KindWebM:
		return NewFFmpeg(out+".webm", cfg, CodecVP9)
	case KindMP4:
		return NewFFmpeg(out+".mp4", cfg, CodecH264)
	case KindGIF:
		return NewGIF(out+".gif", cfg), nil
	case KindPNG:
		return NewPNGSequence(out + "_frames"), nil
	default:
		return nil, fmt.Errorf("未知输出格式 %q", kind)
	}
}
