package engine

import "time"

// Scheduler 把墙钟时间换算为固定帧率的离散 tick。
// 触发时 lastTick 只前移 elapsed 的整倍数间隔（保留余数），
// 慢 tick 不会积累系统性漂移；一次询问至多触发一个 tick。
type Scheduler struct {
	interval time.Duration
	lastTick time.Time
	started  bool
}

// NewScheduler 创建目标帧率为 fps 的调度器。
func NewScheduler(fps int) *Scheduler {
	if fps < 1 {
		fps = 1
	}
	return &Scheduler{interval: time.Second / time.Duration(fps)}
}

// Interval 返回两个 tick 的名义间隔。
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Gate 判断在 now 是否应触发一个 tick。首次询问立即触发。
func (s *Scheduler) Gate(now time.Time) bool {
	if !s.started {
		s.started = true
		s.lastTick = now
		return true
	}
	elapsed := now.Sub(s.lastTick)
	if elapsed < s.interval {
		return false
	}
	s.lastTick = now.Add(-(elapsed % s.interval))
	return true
}
