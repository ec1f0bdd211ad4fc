package sound

// fakeClip 内存中的 Clip，用 finish() 模拟播放到结尾
type fakeClip struct {
	name    string
	openErr error

	open     bool
	playing  bool
	started  bool
	finished bool
	paused   bool
	looped   int
	forever  bool

	volume float64
	muted  bool

	opens  int
	closes int
	plays  int
}

func newFakeClip(name string) *fakeClip {
	return &fakeClip{name: name, volume: 1}
}

func (c *fakeClip) Name() string { return c.name }

func (c *fakeClip) Open() error {
	if c.openErr != nil {
		return c.openErr
	}
	if !c.open {
		c.open = true
		c.opens++
	}
	return nil
}

func (c *fakeClip) Close() error {
	if c.open {
		c.closes++
	}
	c.open = false
	c.playing = false
	c.started = false
	c.finished = false
	c.paused = false
	return nil
}

func (c *fakeClip) Play() error {
	if err := c.Open(); err != nil {
		return err
	}
	c.plays++
	c.playing = true
	c.started = true
	c.finished = false
	c.looped = 0
	c.forever = false
	return nil
}

func (c *fakeClip) Loop(count int) error {
	if err := c.Play(); err != nil {
		return err
	}
	c.looped = count
	return nil
}

func (c *fakeClip) LoopForever() error {
	if err := c.Play(); err != nil {
		return err
	}
	c.forever = true
	return nil
}

func (c *fakeClip) Pause() {
	if c.playing {
		c.playing = false
		c.paused = true
	}
}

func (c *fakeClip) Resume() {
	if c.paused {
		c.playing = true
		c.paused = false
	}
}

func (c *fakeClip) SetVolume(volume float64) { c.volume = volume }
func (c *fakeClip) SetMuted(muted bool)      { c.muted = muted }
func (c *fakeClip) IsPlaying() bool          { return c.playing }
func (c *fakeClip) IsOpen() bool             { return c.open }
func (c *fakeClip) IsActive() bool           { return c.started && !c.finished }
func (c *fakeClip) Finished() bool           { return c.finished }

// finish 模拟播放到结尾
func (c *fakeClip) finish() {
	c.playing = false
	c.finished = true
}

func clipsOf(fakes ...*fakeClip) []Clip {
	clips := make([]Clip, len(fakes))
	for i, f := range fakes {
		clips[i] = f
	}
	return clips
}
