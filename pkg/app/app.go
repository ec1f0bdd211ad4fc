// Package app 把 doggo 装配成一个 Ebitengine 游戏
//
// App 实现 ebiten.Game：Update 运行在 UI 协程，只采样输入并转发命令；
// doggo 的逻辑由 engine 在独立的协程中以 60 Hz 推进，Draw 读取它发布的快照。
// 调用 NewApp 前必须先调用 embedded.Init() 初始化嵌入资源。
package app

import (
	"context"
	"fmt"
	"io/fs"
	"math/rand/v2"

	"github.com/decker502/screendoggo/pkg/config"
	"github.com/decker502/screendoggo/pkg/doggo"
	"github.com/decker502/screendoggo/pkg/engine"
	"github.com/decker502/screendoggo/pkg/game"
	"github.com/decker502/screendoggo/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

// SampleRate 音频上下文采样率
const SampleRate = 48000

// helpText 双击显示的操作说明
const helpText = `Screen Doggo
  left click   stand up / wake up
  right click  sit
  double click show / hide this help
  M  mute      P  pause / resume music
  N  skip song +/- volume
  S  nap       B  barks on / off
  U  music on / off
  R  rare events on / off
  C  continuous music on / off
  arrows move during an event, E ends it
  Esc quit`

// Config 应用启动配置
type Config struct {
	// ConfigPath doggo.yaml 路径
	ConfigPath string
	// Size/Doggo/Playlist 覆盖已保存的设置（空字符串表示不覆盖）
	Size     string
	Doggo    string
	Playlist string
	// RareEvents/ContinuousMusic 覆盖已保存的开关（nil 表示不覆盖）
	RareEvents      *bool
	ContinuousMusic *bool
	// ScreenWidth/ScreenHeight 逻辑屏幕大小，doggo 从屏幕中央出发
	ScreenWidth  int
	ScreenHeight int
	// Seed 随机种子，0 表示随机
	Seed uint64
	// ReportTPS 以 debug 级别每秒输出 tick 统计
	ReportTPS bool
}

// App 实现 ebiten.Game
type App struct {
	logger   *zap.Logger
	settings *game.SettingsManager
	audio    *game.AudioManager
	doggo    *doggo.Doggo
	engine   *engine.Engine
	input    *inputHandler

	screenWidth  int
	screenHeight int

	cancel context.CancelFunc
}

// NewApp 加载配置与资源并装配 doggo
//
// 参数：
//   - cfg: 启动配置
//   - assets: 资源文件系统（路径以 "assets/" 开头）
//   - gdataManager: 设置存储，可为 nil（设置不持久化）
//   - logger: 日志
//
// 返回：
//   - *App: 尚未启动的应用，调用 Start 后开始运行
//   - error: 配置或精灵表加载失败（声音加载失败只会降级为静音）
func NewApp(cfg Config, assets fs.FS, gdataManager *gdata.Manager, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("app")

	doggoCfg, err := config.LoadDoggoConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("doggo 配置加载失败: %w", err)
	}

	settings := game.NewSettingsManager(gdataManager, logger)
	applyOverrides(settings, cfg)
	current := settings.GetSettings()

	sizeName := pick(current.Size, doggoCfg.DefaultSize, doggoCfg.Sizes, log, "size")
	sheetName := pick(current.Doggo, doggoCfg.Sprite.DefaultSheet, doggoCfg.Sprite.Sheets, log, "doggo")
	preset, err := doggoCfg.Size(sizeName)
	if err != nil {
		return nil, err
	}

	audioContext := ebaudio.CurrentContext()
	if audioContext == nil {
		audioContext = ebaudio.NewContext(SampleRate)
	}
	resources := game.NewResourceManager(assets, audioContext, logger)

	registry, err := resources.LoadRegistry(doggoCfg, sheetName, preset)
	if err != nil {
		return nil, fmt.Errorf("精灵表加载失败: %w", err)
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	audio := game.NewAudioManager(resources, doggoCfg, rng, logger)
	playlist := current.Playlist
	if _, ok := doggoCfg.Sounds.Playlists[playlist]; !ok {
		playlist = ""
	}
	if err := audio.LoadAll(playlist); err != nil {
		log.Warn("some sounds failed to load, continuing with what is available", zap.Error(err))
	}

	dc := game.DoggoConfig(doggoCfg, preset)
	dc.StartX = (cfg.ScreenWidth - dc.Size) / 2
	dc.StartY = (cfg.ScreenHeight - dc.Size) / 2

	pointer := utils.NewPointerTracker(dc.StartX, dc.StartY)
	d, err := doggo.New(doggo.Options{
		Config:   dc,
		Registry: registry,
		Pointer:  pointer,
		Settings: settings,
		Barks:    audio.Barks(),
		Music:    audio.Music(),
		Events:   audio.Events(),
		Roller:   doggo.NewRandRoller(rng),
		EventHook: func(e doggo.Event) {
			log.Info("rare event", zap.String("event", e.Name))
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("doggo 创建失败: %w", err)
	}

	engineOpts := engine.DefaultOptions()
	engineOpts.ReportFPS = cfg.ReportTPS
	engineOpts.Logger = logger
	eng := engine.New(engineOpts)
	eng.Add(d)

	log.Info("doggo ready",
		zap.String("doggo", sheetName), zap.String("size", sizeName),
		zap.String("playlist", audio.Playlist()), zap.Bool("persistent", settings.Persistent()))

	return &App{
		logger:       log,
		settings:     settings,
		audio:        audio,
		doggo:        d,
		engine:       eng,
		input:        newInputHandler(d, settings, pointer, log),
		screenWidth:  cfg.ScreenWidth,
		screenHeight: cfg.ScreenHeight,
	}, nil
}

// applyOverrides 命令行参数覆盖已保存的设置，并随退出时的保存一起持久化
func applyOverrides(settings *game.SettingsManager, cfg Config) {
	if cfg.Size != "" {
		settings.SetSize(cfg.Size)
	}
	if cfg.Doggo != "" {
		settings.SetDoggo(cfg.Doggo)
	}
	if cfg.Playlist != "" {
		settings.SetPlaylist(cfg.Playlist)
	}
	if cfg.RareEvents != nil {
		settings.SetRareEvents(*cfg.RareEvents)
	}
	if cfg.ContinuousMusic != nil {
		settings.SetContinuousMusic(*cfg.ContinuousMusic)
	}
}

// pick 返回已保存的名称；为空或配置中已不存在时回退到默认值
func pick[V any](saved, fallback string, available map[string]V, log *zap.Logger, what string) string {
	if saved == "" {
		return fallback
	}
	if _, ok := available[saved]; !ok {
		log.Warn("unknown "+what+", using default", zap.String("saved", saved), zap.String("default", fallback))
		return fallback
	}
	return saved
}

// Start 在独立协程中启动逻辑循环
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)
	return a.engine.Start(ctx)
}

// Update 采样输入并转发给 doggo
// 每个 UI 帧调用一次；逻辑循环出错时返回该错误结束游戏
func (a *App) Update() error {
	if !a.engine.IsRunning() {
		if err := a.engine.Wait(); err != nil {
			return fmt.Errorf("doggo stopped: %w", err)
		}
	}
	return a.input.handle(readInput())
}

// Draw 绘制 doggo 的最新快照
func (a *App) Draw(screen *ebiten.Image) {
	snap := a.doggo.Snapshot()
	if snap.Image != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(snap.X), float64(snap.Y))
		screen.DrawImage(snap.Image, op)
	}
	if snap.Song != "" {
		ebitenutil.DebugPrintAt(screen, "music: "+snap.Song, snap.X, snap.Y+snap.Size)
	}
	if a.input.showHelp {
		ebitenutil.DebugPrintAt(screen, helpText, 16, 16)
	}
}

// Layout 逻辑屏幕与窗口一致（透明全屏覆盖层）
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Close 停止逻辑循环与声音，并保存设置
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.engine.Stop()
	err := a.engine.Wait()
	a.audio.StopAll()
	if saveErr := a.settings.Save(); saveErr != nil {
		a.logger.Error("failed to save settings", zap.Error(saveErr))
		if err == nil {
			err = saveErr
		}
	}
	return err
}
