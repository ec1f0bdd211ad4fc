package doggo

import (
	"errors"
	"testing"

	"github.com/decker502/screendoggo/pkg/sound"
)

func barkFixture(t *testing.T, bark *testClip) *fixture {
	t.Helper()
	cfg := quietConfig()
	cfg.BarkChance = DefaultBarkChance
	barks := sound.NewSequencer("bark", nil, nil)
	barks.SetClip(bark)

	f := newFixture(t, cfg, func(o *Options) { o.Barks = barks })
	f.settings.s.Barks = true
	f.roller.hit = hitsOn(DefaultBarkChance)
	f.roller.intN = 1
	return f
}

// TestBarkNeverOverlaps 上一声没叫完不会再叫
func TestBarkNeverOverlaps(t *testing.T) {
	bark := &testClip{name: "woof"}
	f := barkFixture(t, bark)
	f.pointer.x, f.pointer.y = 500, 16

	f.step(t, 1)
	if bark.plays != 1 || bark.looped != 1 {
		t.Fatalf("Expected one bark looped once, plays=%d looped=%d", bark.plays, bark.looped)
	}

	f.step(t, 10)
	if bark.plays != 1 {
		t.Errorf("Bark overlapped itself, plays=%d", bark.plays)
	}

	bark.finish()
	f.step(t, 1)
	if bark.plays != 2 {
		t.Errorf("Expected a new bark after the first finished, plays=%d", bark.plays)
	}
}

func TestBarkGating(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		bark := &testClip{name: "woof"}
		f := barkFixture(t, bark)
		f.settings.s.Barks = false
		f.pointer.x, f.pointer.y = 500, 16

		f.step(t, 20)
		if bark.plays != 0 {
			t.Errorf("Barks disabled but played %d times", bark.plays)
		}
	})

	t.Run("sitting", func(t *testing.T) {
		bark := &testClip{name: "woof"}
		f := barkFixture(t, bark)
		f.pointer.x, f.pointer.y = 16, 16

		f.step(t, 20)
		if bark.plays != 0 {
			t.Errorf("Sitting doggo barked %d times", bark.plays)
		}
	})

	t.Run("napping", func(t *testing.T) {
		bark := &testClip{name: "woof"}
		f := barkFixture(t, bark)
		f.pointer.x, f.pointer.y = 500, 16
		f.doggo.Sleep()

		f.step(t, 20)
		if bark.plays != 0 {
			t.Errorf("Napping doggo barked %d times", bark.plays)
		}
	})
}

func musicFixture(t *testing.T, clips ...*testClip) (*fixture, *sound.Sequencer) {
	t.Helper()
	cfg := quietConfig()
	cfg.MusicChance = DefaultMusicChance
	music := sequencerOf("music", clips...)

	f := newFixture(t, cfg, func(o *Options) { o.Music = music })
	f.settings.s.Music = true
	f.roller.hit = hitsOn(DefaultMusicChance)
	return f, music
}

func TestMusicStartsWhenIdle(t *testing.T) {
	a, b := &testClip{name: "a"}, &testClip{name: "b"}
	f, music := musicFixture(t, a, b)

	f.step(t, 1)
	if !music.IsOpen() {
		t.Fatal("Expected music to start")
	}
	if song := f.doggo.Snapshot().Song; song != music.CurrentName() || song == "" {
		t.Errorf("Snapshot song %q, current %q", song, music.CurrentName())
	}

	f.step(t, 5)
	if f.roller.calls[DefaultMusicChance] != 1 {
		t.Errorf("Music should not be rolled while a song is open, rolled %d times", f.roller.calls[DefaultMusicChance])
	}
	if a.plays+b.plays != 1 {
		t.Errorf("Expected exactly one song started, got %d", a.plays+b.plays)
	}
}

// TestMusicPauseBlocksNewSongs 暂停期间跳过当前曲目不会自动开始下一首
func TestMusicPauseBlocksNewSongs(t *testing.T) {
	a, b := &testClip{name: "a"}, &testClip{name: "b"}
	f, music := musicFixture(t, a, b)
	f.step(t, 1)

	f.doggo.PauseMusic()
	f.step(t, 1)
	if music.IsPlaying() || !music.IsOpen() {
		t.Fatal("Paused song should stay open and silent")
	}

	f.doggo.Skip()
	f.step(t, 10)
	if music.IsOpen() {
		t.Error("No song should start while paused")
	}

	f.doggo.ResumeMusic()
	f.step(t, 1)
	if !music.IsOpen() {
		t.Error("Expected a new song after resume")
	}
}

func TestContinuousMusicSkipsRoll(t *testing.T) {
	a := &testClip{name: "a"}
	f, music := musicFixture(t, a)
	f.roller.hit = nil
	f.settings.s.ContinuousMusic = true

	f.step(t, 1)
	if !music.IsOpen() {
		t.Fatal("Continuous music should start without a roll")
	}

	a.finish()
	f.step(t, 1)
	if !music.IsOpen() || a.plays != 2 {
		t.Errorf("Expected the next song right after the last finished, plays=%d", a.plays)
	}
}

func TestMusicDisabled(t *testing.T) {
	a := &testClip{name: "a"}
	f, music := musicFixture(t, a)
	f.settings.s.Music = false

	f.step(t, 10)
	if music.IsOpen() || f.roller.calls[DefaultMusicChance] != 0 {
		t.Error("Disabled music must not roll or play")
	}
}

func TestTurningMusicOffStopsSong(t *testing.T) {
	a := &testClip{name: "a"}
	f, music := musicFixture(t, a)
	f.step(t, 1)

	f.settings.s.Music = false
	f.step(t, 1)
	if music.IsOpen() {
		t.Error("Song should stop when music is turned off")
	}
}

func TestVolumeAndMuteFromSettings(t *testing.T) {
	a := &testClip{name: "a"}
	f, _ := musicFixture(t, a)
	f.settings.s.Muted = true
	f.settings.s.Volume = 0.3

	f.step(t, 1)
	if !a.muted || a.volume != 0.3 {
		t.Fatalf("Expected muted at 0.3, got muted=%v volume=%v", a.muted, a.volume)
	}

	f.settings.s.Muted = false
	f.settings.s.Volume = 0.6
	f.step(t, 1)
	if a.muted || a.volume != 0.6 {
		t.Errorf("Expected unmuted at 0.6, got muted=%v volume=%v", a.muted, a.volume)
	}
}

// TestAudioFailureDoesNotStopDoggo 声音失败只降级，动画和移动照常
func TestAudioFailureDoesNotStopDoggo(t *testing.T) {
	broken := &testClip{name: "broken", playErr: errors.New("no audio device")}
	f, music := musicFixture(t, broken)
	f.settings.s.ContinuousMusic = true
	f.pointer.x, f.pointer.y = 500, 16

	f.step(t, 10)
	if !music.Degraded() {
		t.Error("Expected music channel to degrade")
	}
	if x, _ := f.doggo.Position(); x != 50 {
		t.Errorf("Expected doggo to keep running, x=%d", x)
	}
}
