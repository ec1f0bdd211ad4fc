// Package engine 提供固定步长的逻辑更新循环
//
// 墙钟时间被换算为逻辑 tick（60 TPS），累加器攒够一整个 tick 就对所有实体执行一次 Update，
// 从不执行小数 tick。宿主帧率抖动只影响"一次追赶几个 tick"，不影响模拟结果。
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TPS 逻辑更新频率
const TPS = 60

// TickDuration 一个逻辑 tick 的时长
const TickDuration = time.Second / TPS

// 默认参数
const (
	DefaultMaxFrameDelta = 250 * time.Millisecond
	DefaultIdleSleep     = time.Millisecond
)

// ErrAlreadyRunning 重复启动
var ErrAlreadyRunning = errors.New("engine: already running")

// Entity 每个逻辑 tick 被更新一次的对象
type Entity interface {
	Update() error
}

// Options 循环参数
type Options struct {
	Clock         Clock         // 时间源，默认 SystemClock
	MaxFrameDelta time.Duration // 单次墙钟增量上限（挂起/唤醒后避免长时间追赶），<=0 不限制
	IdleSleep     time.Duration // 每次迭代后的休眠，避免空转
	ReportFPS     bool          // 每秒输出一次 tick 统计（debug 级别）
	Logger        *zap.Logger
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		Clock:         SystemClock{},
		MaxFrameDelta: DefaultMaxFrameDelta,
		IdleSleep:     DefaultIdleSleep,
	}
}

// Engine 固定步长更新循环
//
// 循环运行在独立的 goroutine 中；Start/Stop/Wait 是唯一的跨线程协调点。
// 实体列表可以在任意 goroutine 中增删。
type Engine struct {
	opts   Options
	logger *zap.Logger

	mu       sync.Mutex
	entities []Entity

	// 尚未折算为 tick 的墙钟时间；整数纳秒，避免浮点漂移
	accumulator time.Duration

	ticks atomic.Uint64

	// lifecycle 保护 current；每次 Start 都有独立的 stop/done，旧循环不会被新的 Start 复活
	lifecycle sync.Mutex
	current   *loop
}

// loop 一次 Start 对应的后台循环
type loop struct {
	stop chan struct{} // Stop 时关闭
	done chan struct{} // 循环退出时关闭
	err  error         // done 关闭前写入
}

func closed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// New 创建引擎
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		opts:   opts,
		logger: opts.Logger.Named("engine"),
	}
}

// Add 注册实体
func (e *Engine) Add(entity Entity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entities = append(e.entities, entity)
}

// Remove 注销实体
func (e *Engine) Remove(entity Entity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, existing := range e.entities {
		if existing == entity {
			e.entities = append(e.entities[:i], e.entities[i+1:]...)
			return
		}
	}
}

// Len 已注册实体数
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entities)
}

// Advance 把一段墙钟增量折算为逻辑 tick 并执行
//
// 参数：
//   - delta: 自上次调用以来经过的墙钟时间
//
// 返回：
//   - int: 本次执行的 tick 数
//   - error: 第一个失败实体的错误（剩余 tick 不再执行）
func (e *Engine) Advance(delta time.Duration) (int, error) {
	if delta <= 0 {
		return 0, nil
	}
	if e.opts.MaxFrameDelta > 0 && delta > e.opts.MaxFrameDelta {
		e.logger.Debug("clamping frame delta", zap.Duration("delta", delta))
		delta = e.opts.MaxFrameDelta
	}

	e.accumulator += delta

	ticks := 0
	for e.accumulator >= TickDuration {
		if err := e.tick(); err != nil {
			return ticks, err
		}
		e.accumulator -= TickDuration
		ticks++
	}
	return ticks, nil
}

// Pending 尚未执行的小数 tick
func (e *Engine) Pending() float64 {
	return float64(e.accumulator) / float64(TickDuration)
}

// Ticks 启动以来执行的 tick 总数
func (e *Engine) Ticks() uint64 {
	return e.ticks.Load()
}

func (e *Engine) tick() error {
	e.mu.Lock()
	entities := make([]Entity, len(e.entities))
	copy(entities, e.entities)
	e.mu.Unlock()

	for _, entity := range entities {
		if err := entity.Update(); err != nil {
			return fmt.Errorf("entity update failed: %w", err)
		}
	}
	e.ticks.Add(1)
	return nil
}

// Start 在新的 goroutine 中启动循环
//
// 上一次循环已被 Stop 但尚未退出时，先等它退出再启动，同一时刻只有一个循环在推进累加器。
func (e *Engine) Start(ctx context.Context) error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	if prev := e.current; prev != nil && !closed(prev.done) {
		if !closed(prev.stop) {
			return ErrAlreadyRunning
		}
		<-prev.done
	}

	l := &loop{stop: make(chan struct{}), done: make(chan struct{})}
	e.current = l
	// 起点在调用方 goroutine 读取，Start 返回后推进的时间都会被计入
	go e.run(ctx, l, e.opts.Clock.Now())
	e.logger.Info("update loop started", zap.Int("tps", TPS), zap.Int("entities", e.Len()))
	return nil
}

// Stop 请求停止；循环在下一次迭代开头观察到
func (e *Engine) Stop() {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	if l := e.current; l != nil && !closed(l.stop) {
		close(l.stop)
	}
}

// Wait 等待最近一次启动的循环退出，返回导致退出的实体错误（正常停止时为 nil）
func (e *Engine) Wait() error {
	e.lifecycle.Lock()
	l := e.current
	e.lifecycle.Unlock()
	if l == nil {
		return nil
	}
	<-l.done
	return l.err
}

// IsRunning 循环是否在运行（已请求停止的循环视为不在运行）
func (e *Engine) IsRunning() bool {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	l := e.current
	return l != nil && !closed(l.stop) && !closed(l.done)
}

func (e *Engine) run(ctx context.Context, l *loop, last time.Time) {
	defer close(l.done)

	reportAt := last.Add(time.Second)
	var iterations, lastTicks uint64

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("update loop cancelled")
			return
		case <-l.stop:
			e.logger.Info("update loop stopped", zap.Uint64("ticks", e.ticks.Load()))
			return
		default:
		}

		now := e.opts.Clock.Now()
		if _, err := e.Advance(now.Sub(last)); err != nil {
			l.err = err
			e.logger.Error("update loop stopped", zap.Error(err))
			return
		}
		last = now
		iterations++

		if e.opts.ReportFPS && !now.Before(reportAt) {
			ticks := e.ticks.Load()
			e.logger.Debug("loop stats", zap.Uint64("iterations", iterations), zap.Uint64("ticks", ticks-lastTicks))
			lastTicks = ticks
			iterations = 0
			reportAt = reportAt.Add(time.Second)
		}

		if e.opts.IdleSleep > 0 {
			time.Sleep(e.opts.IdleSleep)
		}
	}
}
