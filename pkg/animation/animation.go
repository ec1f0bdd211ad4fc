// Package animation 提供基于 tick 的逐帧精灵动画
//
// 一个 Animation 每个逻辑 tick 被推进一次（见 pkg/engine，60 TPS），
// 通过 spacer（帧间隔 tick 数）、delay（起始停顿 tick 数）和 loop 控制节奏。
// Registry 按名字持有一组 Animation，供 pkg/doggo 的状态机按姿态名驱动。
package animation

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// 默认计时参数
const (
	DefaultSpacerFrames       = 4
	DefaultInitialDelayFrames = 0
	DefaultLoop               = true
)

// Timing 动画的计时参数，创建后不可变
type Timing struct {
	Spacer int  // 每个可见帧额外保持的 tick 数（0 = 每 tick 换帧）
	Delay  int  // 开始推进前停留在第 0 帧的 tick 数
	Loop   bool // 是否循环播放
}

// DefaultTiming 返回默认计时：spacer 4、无起始停顿、循环
func DefaultTiming() Timing {
	return Timing{
		Spacer: DefaultSpacerFrames,
		Delay:  DefaultInitialDelayFrames,
		Loop:   DefaultLoop,
	}
}

// Animation 一段命名的帧序列及其播放游标
//
// 不变量：
//   - frame 始终位于 [0, maxFrame]
//   - done 只有在非循环且游标停在最后一帧时才为 true
//
// 非并发安全，由 tick 循环独占。
type Animation struct {
	name     string
	frames   []*ebiten.Image
	maxFrame int
	timing   Timing

	frame  int
	spacer int
	delay  int
	done   bool
}

// NewAnimation 创建动画
//
// 参数：
//   - name: 动画名（在注册表内唯一）
//   - frames: 帧图片，不能为空
//   - timing: 计时参数，Spacer/Delay 不能为负
//
// 返回：
//   - *Animation: 游标归零的新动画
//   - error: ErrInvalidArgument
func NewAnimation(name string, frames []*ebiten.Image, timing Timing) (*Animation, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: animation %q has no frames", ErrInvalidArgument, name)
	}
	if timing.Spacer < 0 || timing.Delay < 0 {
		return nil, fmt.Errorf("%w: animation %q has negative timing (spacer=%d, delay=%d)",
			ErrInvalidArgument, name, timing.Spacer, timing.Delay)
	}

	// 复制一份，避免调用方之后修改切片影响播放
	owned := make([]*ebiten.Image, len(frames))
	copy(owned, frames)

	return &Animation{
		name:     name,
		frames:   owned,
		maxFrame: len(owned) - 1,
		timing:   timing,
	}, nil
}

// Advance 推进一个 tick 并返回本 tick 应显示的图片
//
// 规则：
//  1. 起始停顿未耗尽时，停顿计数 +1，返回第 0 帧
//  2. 循环动画：spacer 计数回绕到 0 的那个 tick 才换帧，帧号循环
//  3. 非循环动画：同样受 spacer 节流，帧号封顶不回绕；首次到达最后一帧时标记 done
//  4. done 之后每次都返回最后一帧，不再修改任何计数
func (a *Animation) Advance() *ebiten.Image {
	if a.done {
		return a.frames[a.maxFrame]
	}

	if a.delay < a.timing.Delay {
		a.delay++
		return a.frames[0]
	}

	if a.timing.Loop {
		if a.spacer >= a.timing.Spacer {
			a.frame = wrapIncrement(a.frame, a.maxFrame)
		}
		a.spacer = wrapIncrement(a.spacer, a.timing.Spacer)
		return a.frames[a.frame]
	}

	if a.frame < a.maxFrame {
		if a.spacer >= a.timing.Spacer {
			a.frame++
		}
		a.spacer = wrapIncrement(a.spacer, a.timing.Spacer)
	}
	if a.frame >= a.maxFrame {
		a.done = true
	}
	return a.frames[a.frame]
}

// Reset 游标归零并清除 done
func (a *Animation) Reset() {
	a.frame = 0
	a.spacer = 0
	a.delay = 0
	a.done = false
}

// IsDone 非循环动画是否已停在最后一帧
func (a *Animation) IsDone() bool {
	return a.done
}

// ForceDone 立即跳到终止状态（最后一帧）
// 循环动画没有终止状态，调用无效果
func (a *Animation) ForceDone() {
	if a.timing.Loop {
		return
	}
	a.frame = a.maxFrame
	a.delay = a.timing.Delay
	a.done = true
}

// Frame 返回指定下标的帧，不影响游标
func (a *Animation) Frame(index int) (*ebiten.Image, error) {
	if index < 0 || index > a.maxFrame {
		return nil, fmt.Errorf("%w: frame %d of animation %q (0-%d)", ErrIndexOutOfRange, index, a.name, a.maxFrame)
	}
	return a.frames[index], nil
}

// Index 当前帧下标
func (a *Animation) Index() int {
	return a.frame
}

// Name 动画名
func (a *Animation) Name() string {
	return a.name
}

// Len 帧数
func (a *Animation) Len() int {
	return len(a.frames)
}

// Timing 计时参数
func (a *Animation) Timing() Timing {
	return a.timing
}

// wrapIncrement 自增，超过 limit 时回到 0；limit 为 0 时恒为 0
func wrapIncrement(value, limit int) int {
	if value < limit {
		return value + 1
	}
	return 0
}
