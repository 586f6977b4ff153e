package engine

import (
	"testing"
	"time"
)

func TestSchedulerFiresAtInterval(t *testing.T) {
	s := NewScheduler(10) // 100ms
	base := time.Unix(0, 0)

	if !s.Gate(base) {
		t.Fatalf("首次询问应触发")
	}
	if s.Gate(base.Add(50 * time.Millisecond)) {
		t.Fatalf("间隔未到不应触发")
	}
	if !s.Gate(base.Add(100 * time.Millisecond)) {
		t.Fatalf("整间隔应触发")
	}
}

// TestSchedulerRemainderCorrection 验证余数校正：以 33ms 的轮询节奏
// 观察 100ms 的帧栅格，触发点始终对齐名义栅格。若触发后把 lastTick
// 重置为 now，每帧会净漂移一个轮询周期，同样窗口内只能触发 8 次。
func TestSchedulerRemainderCorrection(t *testing.T) {
	s := NewScheduler(10) // 100ms
	base := time.Unix(0, 0)
	s.Gate(base)

	fired := 0
	for ms := 33; ms <= 1100; ms += 33 {
		if s.Gate(base.Add(time.Duration(ms) * time.Millisecond)) {
			fired++
		}
	}
	// 栅格点 100..1000ms 各在其后的首个轮询点触发一次
	if fired != 10 {
		t.Fatalf("应触发 10 次, got %d", fired)
	}
}

// TestSchedulerNoDuplicateTicks 一次询问至多触发一个 tick。
func TestSchedulerNoDuplicateTicks(t *testing.T) {
	s := NewScheduler(10)
	base := time.Unix(0, 0)
	s.Gate(base)

	// 积压了 5 个间隔,单次询问仍只触发一次
	now := base.Add(500 * time.Millisecond)
	if !s.Gate(now) {
		t.Fatalf("应触发")
	}
	// 校正后 lastTick == now,同一时刻再询问不触发
	if s.Gate(now) {
		t.Fatalf("同一时刻不应重复触发")
	}
}
