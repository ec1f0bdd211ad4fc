package game

import (
	"fmt"
	"sync"

	"github.com/decker502/screendoggo/pkg/doggo"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Settings 用户设置
// 在启动时加载，退出时保存
type Settings struct {
	// 行为开关
	Barks           bool `yaml:"barks"`           // 随机叫声
	Music           bool `yaml:"music"`           // 背景音乐
	RareEvents      bool `yaml:"rareEvents"`      // 稀有事件
	ContinuousMusic bool `yaml:"continuousMusic"` // 一首结束立即播放下一首

	// 音频
	Volume float64 `yaml:"volume"` // 音量 0.0 ~ 1.0
	Muted  bool    `yaml:"muted"`

	// 外观与歌单（空字符串表示使用 doggo.yaml 中的默认值）
	Size     string `yaml:"size"`
	Doggo    string `yaml:"doggo"`
	Playlist string `yaml:"playlist"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() Settings {
	return Settings{
		Barks:           true,
		Music:           true,
		RareEvents:      false,
		ContinuousMusic: false,
		Volume:          0.7,
		Muted:           false,
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和并发访问
//
// UI 协程修改设置，tick 协程通过 DoggoSettings 读取，所有访问都经过互斥锁。
type SettingsManager struct {
	mu           sync.RWMutex
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     Settings
	logger       *zap.Logger
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "doggo"
)

// NewSettingsManager 创建设置管理器并尝试加载已保存的设置
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//   - logger: 日志，可为 nil
//
// 返回：
//   - *SettingsManager: 设置管理器实例（加载失败时使用默认设置）
func NewSettingsManager(gdataManager *gdata.Manager, logger *zap.Logger) *SettingsManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
		logger:       logger.Named("settings"),
	}
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		sm.logger.Warn("failed to load settings, using defaults", zap.Error(err))
	}
	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 读取或反序列化失败（此时设置被重置为默认值）
func (sm *SettingsManager) Load() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.settings = DefaultSettings()
	if sm.gdataManager == nil {
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 在默认值之上解析，旧版本文件中缺失的字段保持默认
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.Volume = clampVolume(loaded.Volume)
	sm.settings = loaded
	sm.logger.Debug("settings loaded")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	sm.mu.RLock()
	data, err := yaml.Marshal(sm.settings)
	sm.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	sm.logger.Debug("settings saved")
	return nil
}

// Persistent 是否可以持久化（非降级模式）
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// GetSettings 当前设置的副本
func (sm *SettingsManager) GetSettings() Settings {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.settings
}

// DoggoSettings 实现 doggo.SettingsSource，每个 tick 调用一次
func (sm *SettingsManager) DoggoSettings() doggo.Settings {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return doggo.Settings{
		Barks:           sm.settings.Barks,
		Music:           sm.settings.Music,
		RareEvents:      sm.settings.RareEvents,
		ContinuousMusic: sm.settings.ContinuousMusic,
		Volume:          sm.settings.Volume,
		Muted:           sm.settings.Muted,
	}
}

// update 在锁内修改设置
func (sm *SettingsManager) update(fn func(s *Settings)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	fn(&sm.settings)
}

// SetBarks 设置叫声开关
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetBarks(enabled bool) {
	sm.update(func(s *Settings) { s.Barks = enabled })
}

// SetMusic 设置音乐开关
func (sm *SettingsManager) SetMusic(enabled bool) {
	sm.update(func(s *Settings) { s.Music = enabled })
}

// SetRareEvents 设置稀有事件开关
func (sm *SettingsManager) SetRareEvents(enabled bool) {
	sm.update(func(s *Settings) { s.RareEvents = enabled })
}

// SetContinuousMusic 设置连续播放开关
func (sm *SettingsManager) SetContinuousMusic(enabled bool) {
	sm.update(func(s *Settings) { s.ContinuousMusic = enabled })
}

// SetVolume 设置音量
//
// 音量值会被限制在 0.0 ~ 1.0 范围内
//
// 参数：
//   - volume: 音量 (0.0 ~ 1.0)
func (sm *SettingsManager) SetVolume(volume float64) {
	sm.update(func(s *Settings) { s.Volume = clampVolume(volume) })
}

// AdjustVolume 按增量调整音量，返回调整后的值
func (sm *SettingsManager) AdjustVolume(delta float64) float64 {
	var v float64
	sm.update(func(s *Settings) {
		s.Volume = clampVolume(s.Volume + delta)
		v = s.Volume
	})
	return v
}

// SetMuted 设置静音
func (sm *SettingsManager) SetMuted(muted bool) {
	sm.update(func(s *Settings) { s.Muted = muted })
}

// ToggleMuted 切换静音，返回切换后的状态
func (sm *SettingsManager) ToggleMuted() bool {
	var muted bool
	sm.update(func(s *Settings) {
		s.Muted = !s.Muted
		muted = s.Muted
	})
	return muted
}

// ToggleBarks 切换叫声开关，返回切换后的状态
func (sm *SettingsManager) ToggleBarks() bool {
	return sm.toggle(func(s *Settings) *bool { return &s.Barks })
}

// ToggleMusic 切换音乐开关，返回切换后的状态
func (sm *SettingsManager) ToggleMusic() bool {
	return sm.toggle(func(s *Settings) *bool { return &s.Music })
}

// ToggleRareEvents 切换稀有事件开关，返回切换后的状态
func (sm *SettingsManager) ToggleRareEvents() bool {
	return sm.toggle(func(s *Settings) *bool { return &s.RareEvents })
}

// ToggleContinuousMusic 切换连续播放开关，返回切换后的状态
func (sm *SettingsManager) ToggleContinuousMusic() bool {
	return sm.toggle(func(s *Settings) *bool { return &s.ContinuousMusic })
}

func (sm *SettingsManager) toggle(field func(*Settings) *bool) bool {
	var value bool
	sm.update(func(s *Settings) {
		f := field(s)
		*f = !*f
		value = *f
	})
	return value
}

// SetSize 设置尺寸预设名
func (sm *SettingsManager) SetSize(name string) {
	sm.update(func(s *Settings) { s.Size = name })
}

// SetDoggo 设置精灵表显示名
func (sm *SettingsManager) SetDoggo(name string) {
	sm.update(func(s *Settings) { s.Doggo = name })
}

// SetPlaylist 设置歌单名
func (sm *SettingsManager) SetPlaylist(name string) {
	sm.update(func(s *Settings) { s.Playlist = name })
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
