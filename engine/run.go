package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ByLCY/teletype/layout"
	"github.com/ByLCY/teletype/renderer"
)

// Sink 是帧捕获接收器：按严格递增的帧序接收帧，
// 正常完成时 Finalize 产出产物路径，取消时 Abort 丢弃全部缓冲。
type Sink interface {
	Submit(f *renderer.Frame) error
	Finalize() (string, error)
	Abort()
}

// Run 是一次播放或导出会话：折行结果 + 归零的游标 + 节奏参数。
// 配置变更不作用于进行中的 Run，只能开启携带新快照的新 Run。
type Run struct {
	cfg    *layout.Config
	lines  []layout.Line
	cursor Cursor
}

// NewRun 用配置快照开启一次运行：重新折行并把游标归零。
func NewRun(cfg *layout.Config, m layout.Measurer) *Run {
	lines := layout.Wrap(cfg.Text, cfg.MaxTextWidth(), m)
	lines = layout.ClampVisible(lines, cfg)
	return &Run{cfg: cfg, lines: lines}
}

// Step 推进一个 tick。
func (r *Run) Step() { r.cursor = Advance(r.cursor, r.lines, r.cfg.Timing) }

// Position 返回当前应渲染的位置。
func (r *Run) Position() renderer.Position { return PositionOf(r.cursor) }

// Cursor 返回当前游标（副本）。
func (r *Run) Cursor() Cursor { return r.cursor }

// Lines 返回本次运行的折行结果。
func (r *Run) Lines() []layout.Line { return r.lines }

// Terminal 报告运行是否到达终止条件。
func (r *Run) Terminal() bool { return Terminal(r.cursor, r.cfg.Timing) }

// TickFunc 在播放路径上每个触发的 tick 被调用一次。
type TickFunc func(pos renderer.Position, lines []layout.Line, cursor Cursor) error

// Coordinator 管理单个绘制表面上的运行：任意时刻至多一个活动 Run，
// 开启新 Run 前会先完整停止旧 Run。
type Coordinator struct {
	startMu sync.Mutex // 串行化 Run 的启停

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	recording bool
}

// begin 停止在途 Run（如有），登记一个新 Run，返回其上下文与收尾函数。
func (c *Coordinator) begin(parent context.Context, recording bool) (context.Context, func()) {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	c.mu.Lock()
	prevCancel, prevDone := c.cancel, c.done
	c.mu.Unlock()
	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	c.mu.Lock()
	c.cancel, c.done, c.recording = cancel, done, recording
	c.mu.Unlock()

	end := func() {
		c.mu.Lock()
		if c.done == done {
			c.cancel, c.done, c.recording = nil, nil, false
		}
		c.mu.Unlock()
		cancel()
		close(done)
	}
	return ctx, end
}

// Stop 协作式停止当前 Run：在下一个调度边界生效。
// 中途停止不会 finalize 捕获接收器，属正常静默转移而非错误。
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Recording 报告当前是否有导出 Run 在进行，用于界面上的录制指示。
func (c *Coordinator) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

// Play 以目标帧率实时播放：每个触发的 tick 推进状态机并回调 onTick。
// 运行到终止条件返回 nil；上下文取消返回 ctx.Err()（调用方按取消静默处理）。
func (c *Coordinator) Play(ctx context.Context, cfg *layout.Config, m layout.Measurer, onTick TickFunc) error {
	ctx, end := c.begin(ctx, false)
	defer end()

	run := NewRun(cfg, m)
	sched := NewScheduler(cfg.Timing.FPS)

	// 以高于帧率的节奏轮询门控，调度抖动由余数校正吸收
	poll := sched.Interval() / 4
	if poll < time.Millisecond {
		poll = time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if !sched.Gate(now) {
				continue
			}
			run.Step()
			if err := onTick(run.Position(), run.Lines(), run.Cursor()); err != nil {
				return err
			}
			if run.Terminal() {
				return nil
			}
		}
	}
}

// Export 锁步驱动一次导出：每个 tick 渲染一帧并同步提交给接收器，
// 到达终止条件后 finalize 并返回产物路径。总帧数只取决于配置与节奏，
// 与墙钟无关。取消或接收器出错时 Abort，不产出部分产物。
func (c *Coordinator) Export(ctx context.Context, cfg *layout.Config, rend renderer.Renderer, m layout.Measurer, sink Sink) (string, error) {
	ctx, end := c.begin(ctx, true)
	defer end()

	run := NewRun(cfg, m)
	index := 0
	for {
		// 取消只在 tick 边界检查，一个 tick 内不发生挂起
		select {
		case <-ctx.Done():
			sink.Abort()
			return "", ctx.Err()
		default:
		}

		run.Step()
		img, err := rend.Render(cfg, run.Lines(), run.Position())
		if err != nil {
			sink.Abort()
			return "", fmt.Errorf("渲染第 %d 帧失败: %w", index, err)
		}
		if err := sink.Submit(&renderer.Frame{Index: index, Image: img}); err != nil {
			sink.Abort()
			return "", fmt.Errorf("提交第 %d 帧失败: %w", index, err)
		}
		index++

		if run.Terminal() {
			break
		}
	}

	artifact, err := sink.Finalize()
	if err != nil {
		return "", fmt.Errorf("封装输出失败: %w", err)
	}
	return artifact, nil
}
