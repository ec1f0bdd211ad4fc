package doggo

import (
	"errors"
	"testing"

	"github.com/decker502/screendoggo/pkg/animation"
)

func TestNewInitialState(t *testing.T) {
	f := newFixture(t, quietConfig(), nil)

	snap := f.doggo.Snapshot()
	if snap.State != StateFollowing || snap.Posture != PostureWalkRight {
		t.Errorf("Expected FOLLOWING/WALK_RIGHT, got %s/%s", snap.State, snap.Posture)
	}
	if snap.Image != f.frames[4] {
		t.Error("Initial image should be the first WALK_RIGHT frame")
	}
	if snap.Size != DefaultSize || f.doggo.Size() != DefaultSize {
		t.Errorf("Expected size %d, got %d", DefaultSize, snap.Size)
	}
}

func TestNewRejectsMissingPosture(t *testing.T) {
	reg := newTestRegistry(t, testFrames(40), "SLEEP", "RUN_LEFT")

	_, err := New(Options{
		Config:   quietConfig(),
		Registry: reg,
		Pointer:  &fakePointer{},
		Settings: StaticSettings{},
	})
	if !errors.Is(err, ErrMissingPosture) {
		t.Fatalf("Expected ErrMissingPosture, got %v", err)
	}
	if !errors.Is(err, animation.ErrKeyNotFound) {
		t.Errorf("Expected wrapped ErrKeyNotFound, got %v", err)
	}
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	_, err := New(Options{Config: quietConfig()})
	if !errors.Is(err, animation.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

// TestSitAndFaceWithinFollowDistance 指针在跟随距离内时原地不动，只切换坐姿
func TestSitAndFaceWithinFollowDistance(t *testing.T) {
	tests := []struct {
		name   string
		px, py int
		want   Posture
	}{
		{"pointer over doggo", 26, 16, PostureSitWag},
		{"pointer below", 16, 40, PostureSitDown},
		{"pointer left", -20, 16, PostureSitLeft},
		{"pointer right", 65, 16, PostureSitRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, quietConfig(), nil)
			f.pointer.x, f.pointer.y = tt.px, tt.py

			for i := 0; i < 30; i++ {
				f.step(t, 1)
				x, y := f.doggo.Position()
				if x != 0 || y != 0 {
					t.Fatalf("tick %d: doggo moved to (%d,%d)", i, x, y)
				}
				if !f.doggo.Posture().IsSitting() {
					t.Fatalf("tick %d: posture %s is not a sitting posture", i, f.doggo.Posture())
				}
			}
			if f.doggo.Posture() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, f.doggo.Posture())
			}
			if f.doggo.State() != StateFollowing {
				t.Errorf("Sit-and-face must not change the state, got %s", f.doggo.State())
			}
		})
	}
}

// TestFollowMovement 主方向决定动画，两个轴都按速度移动
func TestFollowMovement(t *testing.T) {
	tests := []struct {
		name         string
		px, py       int
		want         Posture
		wantX, wantY int
	}{
		{"far right runs", 500, 16, PostureRunRight, 5, 2},
		{"far left runs", -500, 16, PostureRunLeft, -5, 2},
		{"near right walks", 90, 16, PostureWalkRight, 2, 2},
		{"far below walks down fast", 16, 300, PostureWalkDown, 0, 5},
		{"above walks up", 16, -60, PostureWalkUp, 0, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, quietConfig(), nil)
			f.pointer.x, f.pointer.y = tt.px, tt.py

			f.step(t, 1)

			x, y := f.doggo.Position()
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Expected position (%d,%d), got (%d,%d)", tt.wantX, tt.wantY, x, y)
			}
			if f.doggo.Posture() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, f.doggo.Posture())
			}
		})
	}
}

func TestLargePresetRunThreshold(t *testing.T) {
	cfg := quietConfig()
	cfg.Size = 64
	cfg.FollowDistance = 80
	cfg.FollowMultiplier = 2.5
	f := newFixture(t, cfg, nil)

	// 中心 x=32，跑动阈值 200：x=200 仍然是走
	f.pointer.x, f.pointer.y = 200, 32
	f.step(t, 1)
	if f.doggo.Posture() != PostureWalkRight {
		t.Errorf("Expected WALK_RIGHT inside run range, got %s", f.doggo.Posture())
	}
}

func TestCommandTransitions(t *testing.T) {
	f := newFixture(t, quietConfig(), nil)
	f.pointer.x, f.pointer.y = 500, 16
	d := f.doggo

	steps := []struct {
		name    string
		command func()
		want    State
	}{
		{"stand while following is ignored", d.Stand, StateFollowing},
		{"wake while following is ignored", d.Wake, StateFollowing},
		{"sit", d.Sit, StateSitting},
		{"sit again is ignored", d.Sit, StateSitting},
		{"stand", d.Stand, StateFollowing},
		{"sleep", d.Sleep, StateNapping},
		{"stand while napping is ignored", d.Stand, StateNapping},
		{"sit while napping is ignored", d.Sit, StateNapping},
		{"wake", d.Wake, StateFollowing},
	}

	for _, s := range steps {
		s.command()
		f.step(t, 1)
		if d.State() != s.want {
			t.Fatalf("%s: expected %s, got %s", s.name, s.want, d.State())
		}
	}
}

// TestSittingTracksPointer SITTING 状态下不移动，但继续朝向指针
func TestSittingTracksPointer(t *testing.T) {
	f := newFixture(t, quietConfig(), nil)
	f.doggo.Sit()
	f.pointer.x, f.pointer.y = 500, 16

	f.step(t, 5)
	if x, y := f.doggo.Position(); x != 0 || y != 0 {
		t.Errorf("Sitting doggo moved to (%d,%d)", x, y)
	}
	if f.doggo.Posture() != PostureSitRight {
		t.Errorf("Expected SIT_RIGHT, got %s", f.doggo.Posture())
	}

	f.pointer.x = -500
	f.step(t, 1)
	if f.doggo.Posture() != PostureSitLeft {
		t.Errorf("Expected SIT_LEFT, got %s", f.doggo.Posture())
	}
}

// TestNapIsIndefinite 自发打盹后只有 Wake 能结束
func TestNapIsIndefinite(t *testing.T) {
	cfg := quietConfig()
	cfg.NapChance = DefaultNapChance
	f := newFixture(t, cfg, nil)
	f.roller.hit = hitsOn(DefaultNapChance)
	f.pointer.x, f.pointer.y = 500, 16

	f.step(t, 1)
	if f.doggo.State() != StateNapping || f.doggo.Posture() != PostureSleep {
		t.Fatalf("Expected NAPPING/SLEEP, got %s/%s", f.doggo.State(), f.doggo.Posture())
	}
	napX, napY := f.doggo.Position()
	rolls := f.roller.calls[DefaultNapChance]

	f.step(t, 200)
	if f.doggo.State() != StateNapping {
		t.Fatal("Nap ended without a wake command")
	}
	if x, y := f.doggo.Position(); x != napX || y != napY {
		t.Error("Napping doggo must not move")
	}
	if f.roller.calls[DefaultNapChance] != rolls {
		t.Error("Nap should not be re-rolled while napping")
	}

	f.roller.hit = nil
	f.doggo.Wake()
	f.step(t, 1)
	if f.doggo.State() != StateFollowing {
		t.Errorf("Expected FOLLOWING after wake, got %s", f.doggo.State())
	}
}

func TestNapRolledWhileSitting(t *testing.T) {
	cfg := quietConfig()
	cfg.NapChance = DefaultNapChance
	f := newFixture(t, cfg, nil)
	f.doggo.Sit()
	f.step(t, 1)
	if f.doggo.State() != StateSitting {
		t.Fatalf("Expected SITTING, got %s", f.doggo.State())
	}

	f.roller.hit = hitsOn(DefaultNapChance)
	f.step(t, 1)
	if f.doggo.State() != StateNapping {
		t.Errorf("Expected nap roll while sitting, got %s", f.doggo.State())
	}
}

// TestSkipSettleWhenAlreadySitting 坐好之后换朝向直接显示最后一帧
func TestSkipSettleWhenAlreadySitting(t *testing.T) {
	f := newFixture(t, quietConfig(), nil)
	f.pointer.x, f.pointer.y = 16, 40

	for i := 0; i < 200; i++ {
		f.step(t, 1)
		if done, _ := f.registry.IsDone("SIT_DOWN"); done {
			break
		}
	}
	if done, _ := f.registry.IsDone("SIT_DOWN"); !done {
		t.Fatal("SIT_DOWN never finished")
	}

	f.pointer.x = 65
	f.step(t, 1)

	if f.doggo.Posture() != PostureSitRight {
		t.Fatalf("Expected SIT_RIGHT, got %s", f.doggo.Posture())
	}
	if done, _ := f.registry.IsDone("SIT_RIGHT"); !done {
		t.Error("SIT_RIGHT should be skipped to its end")
	}
	if f.doggo.Snapshot().Image != f.frames[23] {
		t.Error("Expected the last SIT_RIGHT frame")
	}
}

// TestPostureReentry 重新进入已完成的姿态从头播放，未完成的继续播放
func TestPostureReentry(t *testing.T) {
	f := newFixture(t, quietConfig(), nil)
	d := f.doggo

	if err := d.changePosture(PostureSitLeft, false); err != nil {
		t.Fatalf("changePosture failed: %v", err)
	}
	for i := 0; i < 30; i++ {
		_, _ = f.registry.Advance("SIT_LEFT")
	}
	sitLeft, _ := f.registry.Get("SIT_LEFT")
	index := sitLeft.Index()
	if index == 0 || sitLeft.IsDone() {
		t.Fatalf("Expected partially played SIT_LEFT, index %d done %v", index, sitLeft.IsDone())
	}

	_ = d.changePosture(PostureWalkRight, false)
	_ = d.changePosture(PostureSitLeft, false)
	if sitLeft.Index() != index {
		t.Errorf("Unfinished posture should resume at %d, got %d", index, sitLeft.Index())
	}

	sitLeft.ForceDone()
	_ = d.changePosture(PostureWalkRight, false)
	_ = d.changePosture(PostureSitLeft, false)
	if sitLeft.IsDone() || sitLeft.Index() != 0 {
		t.Errorf("Finished posture should restart, index %d done %v", sitLeft.Index(), sitLeft.IsDone())
	}

	// 同姿态 + skip 直接结束
	_ = d.changePosture(PostureSitLeft, true)
	if !sitLeft.IsDone() {
		t.Error("skip should force the posture done")
	}
}

func TestIsOver(t *testing.T) {
	f := newFixture(t, quietConfig(), nil)

	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{31, 31, true},
		{16, 10, true},
		{32, 0, false},
		{0, 32, false},
		{-1, 5, false},
	}
	for _, tt := range tests {
		if got := f.doggo.IsOver(tt.x, tt.y); got != tt.want {
			t.Errorf("IsOver(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSnapshotTicks(t *testing.T) {
	f := newFixture(t, quietConfig(), nil)
	f.step(t, 7)
	if got := f.doggo.Snapshot().Tick; got != 7 {
		t.Errorf("Expected tick 7, got %d", got)
	}
}

func TestStateAndPostureNames(t *testing.T) {
	if StateNapping.String() != "NAPPING" || StateEvent.String() != "EVENT" {
		t.Error("unexpected state names")
	}
	seen := make(map[string]bool)
	for _, p := range AllPostures() {
		name := p.String()
		if seen[name] {
			t.Errorf("duplicate posture name %s", name)
		}
		seen[name] = true
	}
	if len(seen) != 11 {
		t.Errorf("Expected 11 postures, got %d", len(seen))
	}
}
