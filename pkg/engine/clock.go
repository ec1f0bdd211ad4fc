package engine

import (
	"sync"
	"time"
)

// Clock 单调时间源
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时间（带单调时钟读数）
type SystemClock struct{}

// Now 返回当前时间
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock 可手动推进的时间源，用于测试
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManualClock 创建起始于 start 的手动时钟
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now 返回当前模拟时间
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance 推进模拟时间
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
