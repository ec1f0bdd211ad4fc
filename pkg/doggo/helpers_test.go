package doggo

import (
	"testing"

	"github.com/decker502/screendoggo/pkg/animation"
	"github.com/decker502/screendoggo/pkg/sound"
	"github.com/hajimehoshi/ebiten/v2"
)

// testFrames 足够覆盖整张精灵表的帧
func testFrames(n int) []*ebiten.Image {
	frames := make([]*ebiten.Image, n)
	for i := range frames {
		frames[i] = ebiten.NewImage(2, 2)
	}
	return frames
}

type postureRange struct {
	name       string
	start, end int
	timing     animation.Timing
}

// standardTable 与 assets/config/doggo.yaml 中的动画表一致
func standardTable() []postureRange {
	walk := animation.DefaultTiming()
	sit := animation.Timing{Spacer: animation.DefaultSpacerFrames, Delay: 20, Loop: false}
	sleep := animation.Timing{Spacer: 30, Delay: animation.DefaultSpacerFrames, Loop: true}
	return []postureRange{
		{"WALK_DOWN", 0, 4, walk},
		{"WALK_RIGHT", 4, 8, walk},
		{"WALK_UP", 8, 12, walk},
		{"WALK_LEFT", 12, 16, walk},
		{"SIT_DOWN", 16, 20, sit},
		{"SIT_RIGHT", 20, 24, sit},
		{"SIT_LEFT", 24, 28, sit},
		{"SIT_WAG", 18, 20, walk},
		{"SLEEP", 28, 30, sleep},
		{"RUN_RIGHT", 32, 35, walk},
		{"RUN_LEFT", 36, 39, walk},
	}
}

func newTestRegistry(t *testing.T, frames []*ebiten.Image, skip ...string) *animation.Registry {
	t.Helper()
	skipped := make(map[string]bool)
	for _, name := range skip {
		skipped[name] = true
	}
	reg := animation.NewRegistry()
	for _, r := range standardTable() {
		if skipped[r.name] {
			continue
		}
		if err := reg.CreateRange(r.name, frames, r.start, r.end, r.timing); err != nil {
			t.Fatalf("CreateRange(%s) failed: %v", r.name, err)
		}
	}
	return reg
}

// fakePointer 固定的指针位置
type fakePointer struct {
	x, y int
}

func (p *fakePointer) Pointer() (int, int) { return p.x, p.y }

// fakeRoller 可控的检定，calls 记录每个 n 被检定的次数
type fakeRoller struct {
	hit   func(n, call int) bool
	calls map[int]int
	intN  int
}

func (r *fakeRoller) OneIn(n int) bool {
	if r.calls == nil {
		r.calls = make(map[int]int)
	}
	r.calls[n]++
	return r.hit != nil && r.hit(n, r.calls[n])
}

func (r *fakeRoller) IntN(n int) int {
	if r.intN >= n {
		return n - 1
	}
	return r.intN
}

// hitsOn 对指定的 n 总是命中
func hitsOn(ns ...int) func(n, call int) bool {
	return func(n, _ int) bool {
		for _, want := range ns {
			if n == want {
				return true
			}
		}
		return false
	}
}

// mutableSettings 测试中可随时修改的设置
type mutableSettings struct {
	s Settings
}

func (m *mutableSettings) DoggoSettings() Settings { return m.s }

// testClip 内存中的 sound.Clip
type testClip struct {
	name     string
	open     bool
	playing  bool
	finished bool
	paused   bool
	looped   int
	plays    int
	volume   float64
	muted    bool
	playErr  error
}

func (c *testClip) Name() string { return c.name }
func (c *testClip) Open() error  { c.open = true; return nil }
func (c *testClip) Close() error {
	c.open, c.playing, c.finished, c.paused = false, false, false, false
	return nil
}
func (c *testClip) Play() error {
	if c.playErr != nil {
		return c.playErr
	}
	c.open, c.playing, c.finished = true, true, false
	c.plays++
	c.looped = 0
	return nil
}
func (c *testClip) Loop(count int) error {
	if err := c.Play(); err != nil {
		return err
	}
	c.looped = count
	return nil
}
func (c *testClip) LoopForever() error { return c.Play() }
func (c *testClip) Pause() {
	if c.playing {
		c.playing, c.paused = false, true
	}
}
func (c *testClip) Resume() {
	if c.paused {
		c.playing, c.paused = true, false
	}
}
func (c *testClip) SetVolume(v float64) { c.volume = v }
func (c *testClip) SetMuted(m bool)     { c.muted = m }
func (c *testClip) IsPlaying() bool     { return c.playing }
func (c *testClip) IsOpen() bool        { return c.open }
func (c *testClip) IsActive() bool      { return c.open && !c.finished }
func (c *testClip) Finished() bool      { return c.finished }

func (c *testClip) finish() {
	c.playing = false
	c.finished = true
}

func sequencerOf(name string, clips ...*testClip) *sound.Sequencer {
	s := sound.NewSequencer(name, nil, nil)
	list := make([]sound.Clip, len(clips))
	for i, c := range clips {
		list[i] = c
	}
	s.SetClips(list)
	return s
}

// quietConfig 默认几何参数，关闭所有随机行为
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.NapChance = 0
	cfg.BarkChance = 0
	cfg.MusicChance = 0
	cfg.EventChance = 0
	return cfg
}

type fixture struct {
	doggo    *Doggo
	frames   []*ebiten.Image
	registry *animation.Registry
	pointer  *fakePointer
	settings *mutableSettings
	roller   *fakeRoller
}

func newFixture(t *testing.T, cfg Config, mutate func(*Options)) *fixture {
	t.Helper()
	f := &fixture{
		frames:   testFrames(40),
		pointer:  &fakePointer{},
		settings: &mutableSettings{s: Settings{Volume: 1}},
		roller:   &fakeRoller{},
	}
	f.registry = newTestRegistry(t, f.frames)
	opts := Options{
		Config:   cfg,
		Registry: f.registry,
		Pointer:  f.pointer,
		Settings: f.settings,
		Roller:   f.roller,
	}
	if mutate != nil {
		mutate(&opts)
	}
	d, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	f.doggo = d
	return f
}

func (f *fixture) step(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := f.doggo.Update(); err != nil {
			t.Fatalf("Update %d failed: %v", i, err)
		}
	}
}
