package animation

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// newFrames 创建 n 张测试帧
func newFrames(n int) []*ebiten.Image {
	frames := make([]*ebiten.Image, n)
	for i := range frames {
		frames[i] = ebiten.NewImage(2, 2)
	}
	return frames
}

// TestLoopingWalkScenario 4 帧、spacer=4 的循环动画，每帧保持 5 个 tick，
// 第 20 次推进后回到第 0 帧
func TestLoopingWalkScenario(t *testing.T) {
	frames := newFrames(4)
	anim, err := NewAnimation("WALK", frames, Timing{Spacer: 4, Delay: 0, Loop: true})
	if err != nil {
		t.Fatalf("NewAnimation failed: %v", err)
	}

	var img *ebiten.Image
	for i := 0; i < 20; i++ {
		img = anim.Advance()
	}

	if anim.Index() != 0 {
		t.Errorf("Expected frame index 0 after 20 ticks, got %d", anim.Index())
	}
	if img != frames[0] {
		t.Error("Expected image after 20 ticks to be frame 0")
	}
}

// TestLoopingFrameHold 验证循环动画的换帧节奏
func TestLoopingFrameHold(t *testing.T) {
	frames := newFrames(4)
	anim, _ := NewAnimation("WALK", frames, Timing{Spacer: 4, Loop: true})

	// tick 1-4 停在第 0 帧，tick 5 切到第 1 帧
	expected := []int{0, 0, 0, 0, 1, 1, 1, 1, 1, 2}
	for i, want := range expected {
		img := anim.Advance()
		if img != frames[want] {
			t.Errorf("tick %d: expected frame %d, got index %d", i+1, want, anim.Index())
		}
	}
}

// TestLoopingNeverDone 循环动画永远不会 done，ForceDone 也无效
func TestLoopingNeverDone(t *testing.T) {
	anim, _ := NewAnimation("WAG", newFrames(2), Timing{Spacer: 0, Loop: true})

	for i := 0; i < 100; i++ {
		anim.Advance()
		if anim.IsDone() {
			t.Fatalf("looping animation reported done at tick %d", i+1)
		}
	}

	anim.ForceDone()
	if anim.IsDone() {
		t.Error("ForceDone should not terminate a looping animation")
	}
}

// TestNonLoopingDoneOnce 非循环动画最终 done，且 reset 之前不会回退
func TestNonLoopingDoneOnce(t *testing.T) {
	frames := newFrames(4)
	anim, _ := NewAnimation("SIT_DOWN", frames, Timing{Spacer: 2, Delay: 3, Loop: false})

	transitions := 0
	wasDone := false
	for i := 0; i < 200; i++ {
		anim.Advance()
		if anim.IsDone() && !wasDone {
			transitions++
		}
		if wasDone && !anim.IsDone() {
			t.Fatalf("done reverted to false at tick %d", i+1)
		}
		wasDone = anim.IsDone()
	}

	if transitions != 1 {
		t.Errorf("Expected exactly one done transition, got %d", transitions)
	}
	if anim.Index() != 3 {
		t.Errorf("Expected index pinned at last frame 3, got %d", anim.Index())
	}
	if img := anim.Advance(); img != frames[3] {
		t.Error("Expected terminal state to keep returning the last frame")
	}

	anim.Reset()
	if anim.IsDone() || anim.Index() != 0 {
		t.Errorf("Reset should clear done and index, got done=%v index=%d", anim.IsDone(), anim.Index())
	}
}

// TestNonLoopingDoneTick 非循环动画在首次到达最后一帧的 tick 标记 done
func TestNonLoopingDoneTick(t *testing.T) {
	frames := newFrames(3)
	anim, _ := NewAnimation("POUNCE", frames, Timing{Spacer: 0, Delay: 2, Loop: false})

	// 两个停顿 tick 返回第 0 帧
	for i := 0; i < 2; i++ {
		if img := anim.Advance(); img != frames[0] {
			t.Fatalf("delay tick %d should return frame 0", i+1)
		}
		if anim.IsDone() {
			t.Fatal("should not be done during delay")
		}
	}

	if img := anim.Advance(); img != frames[1] || anim.IsDone() {
		t.Fatalf("tick 3: expected frame 1 and not done, got index %d done=%v", anim.Index(), anim.IsDone())
	}
	if img := anim.Advance(); img != frames[2] || !anim.IsDone() {
		t.Fatalf("tick 4: expected frame 2 and done, got index %d done=%v", anim.Index(), anim.IsDone())
	}
}

// TestSingleFrameNonLooping 单帧非循环动画在停顿结束后立即 done
func TestSingleFrameNonLooping(t *testing.T) {
	anim, _ := NewAnimation("STILL", newFrames(1), Timing{Loop: false})
	anim.Advance()
	if !anim.IsDone() {
		t.Error("single-frame non-looping animation should be done after first tick")
	}
}

// TestForceDone ForceDone 立即 done，下一次推进返回最后一帧
func TestForceDone(t *testing.T) {
	frames := newFrames(4)
	anim, _ := NewAnimation("SIT_LEFT", frames, Timing{Spacer: 4, Delay: 20, Loop: false})

	anim.Advance()
	anim.ForceDone()

	if !anim.IsDone() {
		t.Fatal("ForceDone should set done")
	}
	if img := anim.Advance(); img != frames[3] {
		t.Errorf("Expected last frame after ForceDone, got index %d", anim.Index())
	}
}

// TestZeroSpacerAndDelay 零 spacer/delay 不节流、不停顿
func TestZeroSpacerAndDelay(t *testing.T) {
	frames := newFrames(3)
	anim, _ := NewAnimation("FAST", frames, Timing{Spacer: 0, Delay: 0, Loop: true})

	expected := []int{1, 2, 0, 1, 2, 0}
	for i, want := range expected {
		if img := anim.Advance(); img != frames[want] {
			t.Errorf("tick %d: expected frame %d, got %d", i+1, want, anim.Index())
		}
	}
}

func TestNewAnimationInvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		frames []*ebiten.Image
		timing Timing
	}{
		{"no frames", nil, DefaultTiming()},
		{"negative spacer", newFrames(1), Timing{Spacer: -1}},
		{"negative delay", newFrames(1), Timing{Delay: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim, err := NewAnimation("X", tt.frames, tt.timing)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
			if anim != nil {
				t.Error("Expected nil animation on error")
			}
		})
	}
}

func TestFrameLookup(t *testing.T) {
	frames := newFrames(2)
	anim, _ := NewAnimation("X", frames, DefaultTiming())

	img, err := anim.Frame(1)
	if err != nil || img != frames[1] {
		t.Errorf("Frame(1) = %v, %v", img, err)
	}
	if _, err := anim.Frame(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
}
