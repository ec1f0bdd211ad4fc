package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/decker502/screendoggo/pkg/animation"
	"github.com/decker502/screendoggo/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath 内置配置文件路径
const DefaultConfigPath = "assets/config/doggo.yaml"

// ErrInvalidConfig 配置内容无效
var ErrInvalidConfig = errors.New("invalid doggo config")

// DoggoConfig doggo 的完整配置
// 对应 assets/config/doggo.yaml
type DoggoConfig struct {
	Sprite      SpriteConfig          `yaml:"sprite"`
	Sizes       map[string]SizePreset `yaml:"sizes"`       // 尺寸预设，如 "small"/"large"
	DefaultSize string                `yaml:"defaultSize"` // 默认尺寸预设名
	Animations  []AnimationDef        `yaml:"animations"`  // 姿态动画表
	Movement    MovementConfig        `yaml:"movement"`
	Chances     ChanceConfig          `yaml:"chances"`
	Sounds      SoundConfig           `yaml:"sounds"`
	Events      []EventConfig         `yaml:"events"` // 稀有事件，按检定顺序排列
}

// SpriteConfig 精灵表
type SpriteConfig struct {
	Sheets       map[string]string `yaml:"sheets"`       // 显示名 → 图片路径
	DefaultSheet string            `yaml:"defaultSheet"` // 默认精灵表显示名
	FrameWidth   int               `yaml:"frameWidth"`
	FrameHeight  int               `yaml:"frameHeight"`
}

// SizePreset 尺寸预设
type SizePreset struct {
	Scale            int     `yaml:"scale"`            // 帧缩放倍数
	Size             int     `yaml:"size"`             // 显示边长
	FollowDistance   int     `yaml:"followDistance"`   // 跟随距离
	FollowMultiplier float64 `yaml:"followMultiplier"` // 跑动阈值倍数
}

// AnimationDef 一个姿态动画：精灵表帧区间 [start, end) 与计时
// spacer/delay/loop 省略时使用 animation 包的默认值
type AnimationDef struct {
	Name   string `yaml:"name"`
	Start  int    `yaml:"start"`
	End    int    `yaml:"end"`
	Spacer *int   `yaml:"spacer,omitempty"`
	Delay  *int   `yaml:"delay,omitempty"`
	Loop   *bool  `yaml:"loop,omitempty"`
}

// Timing 计时参数（填充默认值）
func (d AnimationDef) Timing() animation.Timing {
	t := animation.DefaultTiming()
	if d.Spacer != nil {
		t.Spacer = *d.Spacer
	}
	if d.Delay != nil {
		t.Delay = *d.Delay
	}
	if d.Loop != nil {
		t.Loop = *d.Loop
	}
	return t
}

// MovementConfig 移动速度（像素/tick）
type MovementConfig struct {
	WalkSpeed int `yaml:"walkSpeed"`
	RunSpeed  int `yaml:"runSpeed"`
}

// ChanceConfig 每 tick 1/N 的概率，0 表示关闭
type ChanceConfig struct {
	Nap   int `yaml:"nap"`
	Bark  int `yaml:"bark"`
	Music int `yaml:"music"`
	Event int `yaml:"event"`
}

// SoundConfig 声音资源
type SoundConfig struct {
	Bark            string            `yaml:"bark"`            // 叫声文件
	Playlists       map[string]string `yaml:"playlists"`       // 歌单名 → 目录
	DefaultPlaylist string            `yaml:"defaultPlaylist"` // 默认歌单名
	EventDir        string            `yaml:"eventDir"`        // 事件音乐目录
}

// EventConfig 稀有事件
type EventConfig struct {
	Name  string `yaml:"name"`
	Music string `yaml:"music"` // 事件音乐名（eventDir 中文件的显示名），可为空
}

// LoadDoggoConfig 加载 doggo 配置
//
// 路径以 "assets/" 开头且嵌入资源已初始化时从嵌入资源读取，否则从文件系统读取。
//
// 参数：
//   - path: 配置文件路径
//
// 返回：
//   - *DoggoConfig: 已填充默认值并通过校验的配置
//   - error: 读取、解析或校验失败
func LoadDoggoConfig(path string) (*DoggoConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read doggo config %s: %w", path, err)
	}
	cfg, err := ParseDoggoConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	if embedded.IsInitialized() && strings.HasPrefix(strings.TrimPrefix(path, "./"), "assets/") {
		if data, err := embedded.ReadFile(path); err == nil {
			return data, nil
		}
	}
	return os.ReadFile(path)
}

// ParseDoggoConfig 解析 YAML 配置
func ParseDoggoConfig(data []byte) (*DoggoConfig, error) {
	var cfg DoggoConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse doggo config YAML: %w", err)
	}
	applyDoggoDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDoggoDefaults 为缺失的可选字段设置默认值
func applyDoggoDefaults(cfg *DoggoConfig) {
	if cfg.Sprite.FrameWidth == 0 {
		cfg.Sprite.FrameWidth = 32
	}
	if cfg.Sprite.FrameHeight == 0 {
		cfg.Sprite.FrameHeight = cfg.Sprite.FrameWidth
	}
	if cfg.Movement.WalkSpeed == 0 {
		cfg.Movement.WalkSpeed = 2
	}
	if cfg.Movement.RunSpeed == 0 {
		cfg.Movement.RunSpeed = 5
	}
	for name, preset := range cfg.Sizes {
		if preset.Scale == 0 {
			preset.Scale = 1
		}
		if preset.Size == 0 {
			preset.Size = cfg.Sprite.FrameWidth * preset.Scale
		}
		cfg.Sizes[name] = preset
	}
	if cfg.DefaultSize == "" && len(cfg.Sizes) > 0 {
		cfg.DefaultSize = sortedKeys(cfg.Sizes)[0]
	}
	if cfg.Sprite.DefaultSheet == "" && len(cfg.Sprite.Sheets) > 0 {
		cfg.Sprite.DefaultSheet = sortedKeys(cfg.Sprite.Sheets)[0]
	}
	if cfg.Sounds.DefaultPlaylist == "" && len(cfg.Sounds.Playlists) > 0 {
		cfg.Sounds.DefaultPlaylist = sortedKeys(cfg.Sounds.Playlists)[0]
	}
}

// Validate 校验配置
func (c *DoggoConfig) Validate() error {
	if c.Sprite.FrameWidth <= 0 || c.Sprite.FrameHeight <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidConfig, c.Sprite.FrameWidth, c.Sprite.FrameHeight)
	}
	if len(c.Sprite.Sheets) == 0 {
		return fmt.Errorf("%w: no sprite sheets", ErrInvalidConfig)
	}
	if _, ok := c.Sprite.Sheets[c.Sprite.DefaultSheet]; !ok {
		return fmt.Errorf("%w: default sheet %q not defined", ErrInvalidConfig, c.Sprite.DefaultSheet)
	}
	if len(c.Sizes) == 0 {
		return fmt.Errorf("%w: no size presets", ErrInvalidConfig)
	}
	if _, ok := c.Sizes[c.DefaultSize]; !ok {
		return fmt.Errorf("%w: default size %q not defined", ErrInvalidConfig, c.DefaultSize)
	}
	for name, preset := range c.Sizes {
		if preset.Scale == 0 || preset.Size <= 0 || preset.FollowDistance < 0 || preset.FollowMultiplier < 0 {
			return fmt.Errorf("%w: size preset %q", ErrInvalidConfig, name)
		}
	}

	seen := make(map[string]bool, len(c.Animations))
	for _, def := range c.Animations {
		if def.Name == "" {
			return fmt.Errorf("%w: animation without a name", ErrInvalidConfig)
		}
		if seen[def.Name] {
			return fmt.Errorf("%w: animation %q defined twice", ErrInvalidConfig, def.Name)
		}
		seen[def.Name] = true
		if def.Start < 0 || def.End <= def.Start {
			return fmt.Errorf("%w: animation %q has range [%d,%d)", ErrInvalidConfig, def.Name, def.Start, def.End)
		}
		if t := def.Timing(); t.Spacer < 0 || t.Delay < 0 {
			return fmt.Errorf("%w: animation %q has negative timing", ErrInvalidConfig, def.Name)
		}
	}

	if c.Movement.WalkSpeed < 0 || c.Movement.RunSpeed < 0 {
		return fmt.Errorf("%w: negative speed", ErrInvalidConfig)
	}
	if c.Chances.Nap < 0 || c.Chances.Bark < 0 || c.Chances.Music < 0 || c.Chances.Event < 0 {
		return fmt.Errorf("%w: negative chance", ErrInvalidConfig)
	}
	if len(c.Sounds.Playlists) > 0 {
		if _, ok := c.Sounds.Playlists[c.Sounds.DefaultPlaylist]; !ok {
			return fmt.Errorf("%w: default playlist %q not defined", ErrInvalidConfig, c.Sounds.DefaultPlaylist)
		}
	}
	for _, e := range c.Events {
		if e.Name == "" {
			return fmt.Errorf("%w: event without a name", ErrInvalidConfig)
		}
	}
	return nil
}

// Size 按名查找尺寸预设
func (c *DoggoConfig) Size(name string) (SizePreset, error) {
	preset, ok := c.Sizes[name]
	if !ok {
		return SizePreset{}, fmt.Errorf("%w: unknown size %q (available: %s)", ErrInvalidConfig, name, strings.Join(sortedKeys(c.Sizes), ", "))
	}
	return preset, nil
}

// SheetPath 按显示名查找精灵表路径
func (c *DoggoConfig) SheetPath(name string) (string, error) {
	path, ok := c.Sprite.Sheets[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown doggo %q (available: %s)", ErrInvalidConfig, name, strings.Join(sortedKeys(c.Sprite.Sheets), ", "))
	}
	return path, nil
}

// PlaylistDir 按名查找歌单目录
func (c *DoggoConfig) PlaylistDir(name string) (string, error) {
	dir, ok := c.Sounds.Playlists[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown playlist %q (available: %s)", ErrInvalidConfig, name, strings.Join(sortedKeys(c.Sounds.Playlists), ", "))
	}
	return dir, nil
}

// SheetNames 可选的 doggo 名称（排序后）
func (c *DoggoConfig) SheetNames() []string {
	return sortedKeys(c.Sprite.Sheets)
}

// PlaylistNames 可选的歌单名称（排序后）
func (c *DoggoConfig) PlaylistNames() []string {
	return sortedKeys(c.Sounds.Playlists)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
