package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// 预览时每揭示一个字符播放一声短促的打字音。
// 初始化失败不致命：预览照常运行，只是没有声音。

const sampleRate = beep.SampleRate(44100)

// Typewriter 是打字音效发生器。
type Typewriter struct {
	ready bool
}

// Init 初始化扬声器。返回错误时 Typewriter 保持静音可用。
func (t *Typewriter) Init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	t.ready = true
	return nil
}

// Ready 报告音频是否可用。
func (t *Typewriter) Ready() bool { return t.ready }

// Click 播放一声打字音；未初始化时是空操作。
func (t *Typewriter) Click() {
	if !t.ready {
		return
	}
	sine, err := generators.SineTone(sampleRate, 1320)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(18*time.Millisecond), sine))
}

// Close 释放扬声器。
func (t *Typewriter) Close() {
	if t.ready {
		speaker.Close()
		t.ready = false
	}
}
