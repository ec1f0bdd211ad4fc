// Package sound 负责 doggo 的声音排程
//
// Clip 是对底层音频设备的抽象（打开/关闭/播放/循环/音量/静音/播放完成），
// ShuffleQueue 提供"一轮内不重复"的洗牌队列，
// Sequencer 在其上实现单曲播放、按名播放、暂停/恢复/跳过等操作。
//
// 本包不做任何文件 I/O，也从不阻塞等待音频播放结束：
// Sequencer.Update 在每个 tick 检查一次 Clip.Finished() 并释放资源。
package sound

// Clip 一个可播放的音频资源
//
// 实现方（见 internal/audio.PlayerClip）负责真实的解码与设备访问。
// Open/Play/Loop 可能因设备不可用或解码失败返回错误，
// Sequencer 会把这些错误包装为 ErrResource 并降级处理。
type Clip interface {
	// Name 显示名（由资源文件名派生）
	Name() string

	// Open 预留资源（解码并创建播放器），已打开时为空操作
	Open() error
	// Close 释放资源，之后可以再次 Open
	Close() error

	// Play 从头播放一次（未打开时自动 Open）
	Play() error
	// Loop 播放 1+count 次
	Loop(count int) error
	// LoopForever 无限循环播放
	LoopForever() error

	// Pause 暂停，保留播放位置
	Pause()
	// Resume 从暂停处继续
	Resume()

	// SetVolume 线性音量 0.0 ~ 1.0
	SetVolume(volume float64)
	// SetMuted 静音开关，不改变记住的音量
	SetMuted(muted bool)

	// IsPlaying 正在出声
	IsPlaying() bool
	// IsOpen 资源已预留
	IsOpen() bool
	// IsActive 已开始且尚未结束（包括暂停中）
	IsActive() bool
	// Finished 已完整播放到结尾，非阻塞查询
	Finished() bool
}
