package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/decker502/screendoggo/pkg/config"
	"github.com/decker502/screendoggo/pkg/sound"
	"go.uber.org/zap"
)

// AudioManager 管理 doggo 的三个声音通道
// 职责：
//   - 叫声通道：单个 clip，按次数循环
//   - 音乐通道：当前歌单的所有曲目，洗牌播放
//   - 事件通道：事件音乐，按名播放
//
// 通道对象在创建时确定，之后只替换其中的 clip，
// 因此可以在加载资源之前就交给 doggo 使用。
type AudioManager struct {
	resourceManager *ResourceManager
	config          *config.DoggoConfig
	logger          *zap.Logger

	barks  *sound.Sequencer
	music  *sound.Sequencer
	events *sound.Sequencer

	playlist string
}

// NewAudioManager 创建音频管理器
//
// 参数：
//   - rm: 资源管理器（用于读取声音文件）
//   - cfg: doggo 配置（声音路径与歌单）
//   - rng: 洗牌随机源，可为 nil
//   - logger: 日志，可为 nil
func NewAudioManager(rm *ResourceManager, cfg *config.DoggoConfig, rng *rand.Rand, logger *zap.Logger) *AudioManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AudioManager{
		resourceManager: rm,
		config:          cfg,
		logger:          logger.Named("audio"),
		barks:           sound.NewSequencer("bark", rng, logger),
		music:           sound.NewSequencer("music", rng, logger),
		events:          sound.NewSequencer("event", rng, logger),
	}
}

// Barks 叫声通道
func (am *AudioManager) Barks() *sound.Sequencer { return am.barks }

// Music 音乐通道
func (am *AudioManager) Music() *sound.Sequencer { return am.music }

// Events 事件通道
func (am *AudioManager) Events() *sound.Sequencer { return am.events }

// Playlist 当前歌单名
func (am *AudioManager) Playlist() string { return am.playlist }

// LoadAll 加载叫声、歌单和事件音乐
//
// 单个通道加载失败不影响其他通道，所有错误合并返回；调用方应记录后继续运行（静音降级）。
//
// 参数：
//   - playlist: 歌单名，空字符串使用配置中的默认歌单
func (am *AudioManager) LoadAll(playlist string) error {
	return errors.Join(am.LoadBark(), am.LoadPlaylist(playlist), am.LoadEvents())
}

// LoadBark 加载叫声
func (am *AudioManager) LoadBark() error {
	if am.config.Sounds.Bark == "" {
		return nil
	}
	clip, err := am.resourceManager.LoadClip(am.config.Sounds.Bark)
	if err != nil {
		return fmt.Errorf("bark: %w", err)
	}
	am.barks.SetClip(clip)
	return nil
}

// LoadPlaylist 切换歌单
//
// 正在播放的曲目会被停止，下一次 PlayNext 从新歌单中洗牌。
// 通道不是并发安全的，只能在引擎启动前调用。
func (am *AudioManager) LoadPlaylist(name string) error {
	if len(am.config.Sounds.Playlists) == 0 {
		return nil
	}
	if name == "" {
		name = am.config.Sounds.DefaultPlaylist
	}
	dir, err := am.config.PlaylistDir(name)
	if err != nil {
		return err
	}
	clips, err := am.resourceManager.LoadClipDir(dir)
	if err != nil {
		return fmt.Errorf("playlist %s: %w", name, err)
	}

	am.music.Skip()
	am.music.SetClips(clips)
	am.playlist = name
	am.logger.Info("playlist loaded", zap.String("playlist", name), zap.Int("songs", len(clips)))
	return nil
}

// LoadEvents 加载事件音乐
func (am *AudioManager) LoadEvents() error {
	if am.config.Sounds.EventDir == "" {
		return nil
	}
	clips, err := am.resourceManager.LoadClipDir(am.config.Sounds.EventDir)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	am.events.SetClips(clips)
	return nil
}

// StopAll 停止所有通道并释放当前 clip
func (am *AudioManager) StopAll() {
	am.barks.Skip()
	am.music.Skip()
	am.events.Skip()
}
