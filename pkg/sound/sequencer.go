package sound

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

// MaxResourceFailures 连续资源错误达到该次数后 Sequencer 降级为静音
const MaxResourceFailures = 3

// DefaultVolume 默认音量
const DefaultVolume = 1.0

// Sequencer 单通道音频播放器
// 职责：
//   - 维护"当前" clip，一次只播放一个
//   - PlayNext 从洗牌队列取下一首，队列耗尽时用完整源集合重新洗牌
//   - PlayNamed 按名直接播放，不消耗队列
//   - 记住音量/静音，新 clip 开始播放前先应用
//   - Update 每 tick 非阻塞检查播放完成并释放资源
//
// 非并发安全：只允许在 tick 循环中调用。
type Sequencer struct {
	name    string
	clips   []Clip
	queue   *ShuffleQueue
	current Clip

	volume float64
	muted  bool
	loop   bool

	failures int
	degraded bool

	rng    *rand.Rand
	logger *zap.Logger
}

// NewSequencer 创建播放器
//
// 参数：
//   - name: 通道名（用于日志，如 "music"、"bark"）
//   - rng: 洗牌随机源，nil 时使用全局随机源
//   - logger: 日志，nil 时不输出
func NewSequencer(name string, rng *rand.Rand, logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{
		name:   name,
		volume: DefaultVolume,
		rng:    rng,
		logger: logger.Named("sound." + name),
	}
}

// SetClips 设置源集合，下一次 PlayNext 会重新洗牌
func (s *Sequencer) SetClips(clips []Clip) {
	s.clips = make([]Clip, 0, len(clips))
	for _, clip := range clips {
		if clip != nil {
			s.clips = append(s.clips, clip)
		}
	}
	s.queue = nil
}

// SetClip 直接设置当前 clip（单音效通道，如叫声）
func (s *Sequencer) SetClip(clip Clip) {
	s.current = clip
	if clip != nil && len(s.clips) == 0 {
		s.clips = []Clip{clip}
	}
}

// Clips 源集合
func (s *Sequencer) Clips() []Clip {
	return s.clips
}

// SetLoop 之后开始播放的 clip 是否无限循环
func (s *Sequencer) SetLoop(loop bool) {
	s.loop = loop
}

// PlayNext 播放洗牌队列中的下一首
// 队列为空或未初始化时用完整源集合重建
func (s *Sequencer) PlayNext() error {
	if s.degraded {
		return nil
	}
	if len(s.clips) == 0 {
		return fmt.Errorf("%w: %s has no clips", ErrNotFound, s.name)
	}
	if s.queue == nil || s.queue.IsEmpty() {
		s.queue = NewShuffleQueueFrom(s.clips, s.rng)
		s.logger.Debug("shuffled queue", zap.Int("size", s.queue.Len()))
	}

	clip, err := s.queue.Dequeue()
	if err != nil {
		return err
	}
	s.current = clip
	return s.start()
}

// PlayNamed 按名播放（线性查找源集合），不消耗洗牌队列
func (s *Sequencer) PlayNamed(name string) error {
	var found Clip
	for _, clip := range s.clips {
		if clip.Name() == name {
			found = clip
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: no clip named %q in %s", ErrNotFound, name, s.name)
	}
	if s.degraded {
		return nil
	}
	s.current = found
	return s.start()
}

// Loop 当前 clip 播放 1+count 次
func (s *Sequencer) Loop(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: loop count %d", ErrInvalidArgument, count)
	}
	if s.current == nil || s.degraded {
		return nil
	}
	s.apply()
	return s.track(s.current.Loop(count))
}

// start 应用记住的音量/静音后开始播放当前 clip
func (s *Sequencer) start() error {
	s.apply()
	var err error
	if s.loop {
		err = s.current.LoopForever()
	} else {
		err = s.current.Play()
	}
	if err == nil {
		s.logger.Debug("playing", zap.String("clip", s.current.Name()))
	}
	return s.track(err)
}

// track 统计连续资源错误，达到上限后降级
func (s *Sequencer) track(err error) error {
	if err == nil {
		s.failures = 0
		return nil
	}
	s.failures++
	name := ""
	if s.current != nil {
		name = s.current.Name()
	}
	s.logger.Warn("clip failed to play", zap.String("clip", name), zap.Int("failures", s.failures), zap.Error(err))
	if s.failures >= MaxResourceFailures {
		s.degraded = true
		s.logger.Warn("too many audio failures, channel is now silent")
	}
	if errors.Is(err, ErrResource) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrResource, name, err)
}

// Update 非阻塞地检查当前 clip 是否播放完毕，完毕则关闭以便下次重新打开
func (s *Sequencer) Update() {
	if s.current == nil || !s.current.IsOpen() {
		return
	}
	if s.current.Finished() {
		if err := s.current.Close(); err != nil {
			s.logger.Warn("failed to close finished clip", zap.String("clip", s.current.Name()), zap.Error(err))
		}
	}
}

// Pause 暂停当前 clip
func (s *Sequencer) Pause() {
	if s.current != nil {
		s.current.Pause()
	}
}

// Resume 恢复当前 clip
func (s *Sequencer) Resume() {
	if s.current != nil {
		s.current.Resume()
	}
}

// Skip 结束当前 clip 并释放资源
func (s *Sequencer) Skip() {
	if s.current == nil {
		return
	}
	if err := s.current.Close(); err != nil {
		s.logger.Warn("failed to close skipped clip", zap.String("clip", s.current.Name()), zap.Error(err))
	}
}

// SetVolume 设置音量（限制在 0.0 ~ 1.0），立即作用于当前 clip
func (s *Sequencer) SetVolume(volume float64) {
	s.volume = clampVolume(volume)
	s.apply()
}

// SetMuted 设置静音，立即作用于当前 clip
func (s *Sequencer) SetMuted(muted bool) {
	s.muted = muted
	s.apply()
}

func (s *Sequencer) apply() {
	if s.current != nil {
		s.current.SetVolume(s.volume)
		s.current.SetMuted(s.muted)
	}
}

// Volume 记住的音量
func (s *Sequencer) Volume() float64 {
	return s.volume
}

// Muted 记住的静音状态
func (s *Sequencer) Muted() bool {
	return s.muted
}

// IsPlaying 当前 clip 是否正在出声
func (s *Sequencer) IsPlaying() bool {
	return s.current != nil && s.current.IsPlaying()
}

// IsOpen 当前 clip 是否占用资源
func (s *Sequencer) IsOpen() bool {
	return s.current != nil && s.current.IsOpen()
}

// IsActive 当前 clip 是否已开始且未结束
func (s *Sequencer) IsActive() bool {
	return s.current != nil && s.current.IsActive()
}

// IsDone 当前 clip 是否已播放完毕；没有当前 clip 视为完毕
func (s *Sequencer) IsDone() bool {
	return s.current == nil || s.current.Finished()
}

// CurrentName 当前 clip 名；没有正在进行的 clip（未开始、已跳过或已播完）时为空字符串
// 暂停中的 clip 仍算正在进行
func (s *Sequencer) CurrentName() string {
	if !s.IsActive() {
		return ""
	}
	return s.current.Name()
}

// Degraded 是否已因资源错误降级为静音
func (s *Sequencer) Degraded() bool {
	return s.degraded
}

// Remaining 本轮洗牌队列中尚未播放的数量
func (s *Sequencer) Remaining() int {
	if s.queue == nil {
		return 0
	}
	return s.queue.Len()
}

func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
