package audio

import (
	"fmt"
	"io"

	"github.com/decker502/screendoggo/pkg/sound"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

var _ sound.Clip = (*PlayerClip)(nil)

// PlayerClip 基于 ebiten audio.Player 的 sound.Clip
//
// 文件内容常驻内存，Open 时解码，Close 时释放播放器和解码流。
// 每次 Play/Loop 都会从头创建新的播放器。
// 不是并发安全的：只应在 tick 协程中调用。
type PlayerClip struct {
	ctx  *ebaudio.Context
	name string
	path string
	data []byte

	stream  io.ReadSeeker
	player  *ebaudio.Player
	volume  float64
	muted   bool
	started bool
	paused  bool
}

// NewPlayerClip 创建 clip，不做解码
//
// 参数：
//   - ctx: 全局音频上下文
//   - path: 资源路径（决定格式与显示名）
//   - data: 文件内容
func NewPlayerClip(ctx *ebaudio.Context, path string, data []byte) *PlayerClip {
	return &PlayerClip{
		ctx:    ctx,
		name:   ClipName(path),
		path:   path,
		data:   data,
		volume: 1,
	}
}

// Name 显示名
func (c *PlayerClip) Name() string { return c.name }

// Path 资源路径
func (c *PlayerClip) Path() string { return c.path }

// Open 解码音频
func (c *PlayerClip) Open() error {
	if c.stream != nil {
		return nil
	}
	if c.ctx == nil {
		return fmt.Errorf("open %s: no audio context", c.path)
	}
	stream, err := Decode(c.path, c.data, c.ctx.SampleRate())
	if err != nil {
		return err
	}
	c.stream = stream
	return nil
}

// Close 释放播放器与解码流
func (c *PlayerClip) Close() error {
	err := c.closePlayer()
	c.stream = nil
	c.started = false
	c.paused = false
	return err
}

func (c *PlayerClip) closePlayer() error {
	if c.player == nil {
		return nil
	}
	err := c.player.Close()
	c.player = nil
	if err != nil {
		return fmt.Errorf("close player %s: %w", c.path, err)
	}
	return nil
}

// Play 从头播放一次
func (c *PlayerClip) Play() error { return c.start(0) }

// Loop 播放 1+count 次
func (c *PlayerClip) Loop(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: loop count %d", sound.ErrInvalidArgument, count)
	}
	return c.start(count)
}

// LoopForever 无限循环
func (c *PlayerClip) LoopForever() error { return c.start(-1) }

func (c *PlayerClip) start(repeats int) error {
	if err := c.Open(); err != nil {
		return err
	}
	if err := c.closePlayer(); err != nil {
		return err
	}
	if _, err := c.stream.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", c.path, err)
	}

	var src io.Reader = c.stream
	if repeats != 0 {
		src = newRepeatReader(c.stream, repeats)
	}
	player, err := c.ctx.NewPlayer(src)
	if err != nil {
		return fmt.Errorf("failed to create audio player for %s: %w", c.path, err)
	}
	c.player = player
	c.applyVolume()
	player.Play()
	c.started = true
	c.paused = false
	return nil
}

// Pause 暂停，保留播放位置
func (c *PlayerClip) Pause() {
	if c.player != nil && c.player.IsPlaying() {
		c.player.Pause()
		c.paused = true
	}
}

// Resume 从暂停处继续
func (c *PlayerClip) Resume() {
	if c.player != nil && c.paused {
		c.player.Play()
		c.paused = false
	}
}

// SetVolume 线性音量，限制在 0.0 ~ 1.0
func (c *PlayerClip) SetVolume(volume float64) {
	switch {
	case volume < 0:
		volume = 0
	case volume > 1:
		volume = 1
	}
	c.volume = volume
	c.applyVolume()
}

// SetMuted 静音开关
func (c *PlayerClip) SetMuted(muted bool) {
	c.muted = muted
	c.applyVolume()
}

func (c *PlayerClip) applyVolume() {
	if c.player == nil {
		return
	}
	if c.muted {
		c.player.SetVolume(0)
		return
	}
	c.player.SetVolume(c.volume)
}

// IsPlaying 正在出声
func (c *PlayerClip) IsPlaying() bool {
	return c.player != nil && c.player.IsPlaying()
}

// IsOpen 已解码
func (c *PlayerClip) IsOpen() bool { return c.stream != nil }

// IsActive 已开始且未结束（包括暂停中）
func (c *PlayerClip) IsActive() bool { return c.started && !c.Finished() }

// Finished 已播放到结尾
func (c *PlayerClip) Finished() bool {
	return c.IsOpen() && c.started && !c.paused && !c.IsPlaying()
}
