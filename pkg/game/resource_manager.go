package game

import (
	"fmt"
	"image"
	_ "image/png" // Register PNG decoder
	"io/fs"
	"path"
	"sort"

	"github.com/decker502/screendoggo/internal/audio"
	"github.com/decker502/screendoggo/pkg/animation"
	"github.com/decker502/screendoggo/pkg/config"
	"github.com/decker502/screendoggo/pkg/doggo"
	"github.com/decker502/screendoggo/pkg/sound"
	"github.com/decker502/screendoggo/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

// ResourceManager 集中加载 doggo 的图片与声音资源
//
// 所有资源都从同一个 fs.FS 读取（嵌入资源或磁盘目录），路径形如 "assets/sprites/husky-sheet.png"。
// 图片按路径缓存；声音文件只读入内存，解码推迟到 clip 第一次打开。
//
// 不是并发安全的：应在启动阶段、引擎开始运行之前完成加载。
type ResourceManager struct {
	fsys         fs.FS
	audioContext *ebaudio.Context // 可为 nil（无音频设备时，clip 打开失败并降级）
	imageCache   map[string]image.Image
	logger       *zap.Logger
}

// NewResourceManager 创建资源管理器
//
// 参数：
//   - fsys: 资源文件系统
//   - audioContext: 全局音频上下文，可为 nil
//   - logger: 日志，可为 nil
func NewResourceManager(fsys fs.FS, audioContext *ebaudio.Context, logger *zap.Logger) *ResourceManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceManager{
		fsys:         fsys,
		audioContext: audioContext,
		imageCache:   make(map[string]image.Image),
		logger:       logger.Named("resources"),
	}
}

// LoadImage 加载并缓存图片
func (rm *ResourceManager) LoadImage(p string) (image.Image, error) {
	if img, ok := rm.imageCache[p]; ok {
		return img, nil
	}

	file, err := rm.fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", p, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", p, err)
	}
	rm.imageCache[p] = img
	return img, nil
}

// LoadSheetFrames 加载精灵表，切帧并按尺寸预设缩放
//
// 参数：
//   - cfg: doggo 配置
//   - sheet: 精灵表显示名（如 "Husky"）
//   - preset: 尺寸预设
//
// 返回：
//   - []image.Image: 已缩放的帧
//   - error: 精灵表不存在、无法解码或切帧失败
func (rm *ResourceManager) LoadSheetFrames(cfg *config.DoggoConfig, sheet string, preset config.SizePreset) ([]image.Image, error) {
	p, err := cfg.SheetPath(sheet)
	if err != nil {
		return nil, err
	}
	img, err := rm.LoadImage(p)
	if err != nil {
		return nil, err
	}
	frames, err := utils.SliceSheet(img, cfg.Sprite.FrameWidth, cfg.Sprite.FrameHeight)
	if err != nil {
		return nil, fmt.Errorf("slice sheet %s: %w", p, err)
	}
	frames, err = utils.ScaleFrames(frames, preset.Scale)
	if err != nil {
		return nil, fmt.Errorf("scale sheet %s: %w", p, err)
	}
	rm.logger.Debug("sprite sheet loaded",
		zap.String("sheet", sheet), zap.Int("frames", len(frames)), zap.Int("scale", preset.Scale))
	return frames, nil
}

// LoadRegistry 加载精灵表并构建完整的姿态动画表
func (rm *ResourceManager) LoadRegistry(cfg *config.DoggoConfig, sheet string, preset config.SizePreset) (*animation.Registry, error) {
	frames, err := rm.LoadSheetFrames(cfg, sheet, preset)
	if err != nil {
		return nil, err
	}
	return BuildRegistry(utils.ToEbitenImages(frames), cfg.Animations)
}

// BuildRegistry 按动画表从帧列表构建动画注册表
//
// 参数：
//   - frames: 整张精灵表的帧（行优先）
//   - defs: 动画表，每项取 frames[start:end]
//
// 返回：
//   - *animation.Registry: 注册表
//   - error: 区间越界或名称重复（animation 包的错误）
func BuildRegistry(frames []*ebiten.Image, defs []config.AnimationDef) (*animation.Registry, error) {
	reg := animation.NewRegistry()
	for _, def := range defs {
		if err := reg.CreateRange(def.Name, frames, def.Start, def.End, def.Timing()); err != nil {
			return nil, fmt.Errorf("animation %s: %w", def.Name, err)
		}
	}
	return reg, nil
}

// LoadClip 读入单个声音文件
func (rm *ResourceManager) LoadClip(p string) (*audio.PlayerClip, error) {
	if !audio.IsSupported(p) {
		return nil, fmt.Errorf("%w: %s", audio.ErrUnsupportedFormat, p)
	}
	data, err := fs.ReadFile(rm.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", p, err)
	}
	return audio.NewPlayerClip(rm.audioContext, p, data), nil
}

// LoadClipDir 读入目录下所有可解码的声音文件，按文件名排序
//
// 不支持的文件被跳过；单个文件读取失败只记录警告。
func (rm *ResourceManager) LoadClipDir(dir string) ([]sound.Clip, error) {
	entries, err := fs.ReadDir(rm.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	clips := make([]sound.Clip, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !audio.IsSupported(entry.Name()) {
			continue
		}
		clip, err := rm.LoadClip(path.Join(dir, entry.Name()))
		if err != nil {
			rm.logger.Warn("skipping audio file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		clips = append(clips, clip)
	}
	rm.logger.Debug("audio directory loaded", zap.String("dir", dir), zap.Int("clips", len(clips)))
	return clips, nil
}

// DoggoConfig 把 YAML 配置与尺寸预设映射为 doggo.Config
//
// 起始位置固定为 (0, 0)，由调用方按屏幕调整。
func DoggoConfig(cfg *config.DoggoConfig, preset config.SizePreset) doggo.Config {
	events := make([]doggo.Event, len(cfg.Events))
	for i, e := range cfg.Events {
		events[i] = doggo.Event{Name: e.Name, Music: e.Music}
	}
	return doggo.Config{
		Size:             preset.Size,
		FollowDistance:   preset.FollowDistance,
		FollowMultiplier: preset.FollowMultiplier,
		WalkSpeed:        cfg.Movement.WalkSpeed,
		RunSpeed:         cfg.Movement.RunSpeed,
		NapChance:        cfg.Chances.Nap,
		BarkChance:       cfg.Chances.Bark,
		MusicChance:      cfg.Chances.Music,
		EventChance:      cfg.Chances.Event,
		Events:           events,
	}
}
