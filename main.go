// Screen Doggo：一只在桌面上跟着鼠标跑的像素小狗
//
// 用法：
//
//	screendoggo [-config path] [-size small|large] [-doggo name] [-playlist name]
//	            [-rare-events] [-continuous] [-assets dir] [-seed n] [-verbose]
//
// 环境变量（可写在 .env 中）：
//
//	DOGGO_CONFIG   配置文件路径，等同 -config
//	DOGGO_VERBOSE  非空时等同 -verbose
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/decker502/screendoggo/pkg/app"
	"github.com/decker502/screendoggo/pkg/config"
	"github.com/decker502/screendoggo/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// appName gdata 存储目录名
const appName = "screendoggo"

// 没有显示器信息时使用的逻辑屏幕大小
const (
	fallbackScreenWidth  = 1280
	fallbackScreenHeight = 720
)

var (
	configFlag   = flag.String("config", config.DefaultConfigPath, "doggo config file")
	sizeFlag     = flag.String("size", "", "size preset (overrides saved setting)")
	doggoFlag    = flag.String("doggo", "", "sprite sheet name (overrides saved setting)")
	playlistFlag = flag.String("playlist", "", "playlist name (overrides saved setting)")
	rareFlag     = flag.Bool("rare-events", false, "enable rare events (overrides saved setting)")
	contFlag     = flag.Bool("continuous", false, "play songs back to back (overrides saved setting)")
	assetsFlag   = flag.String("assets", "", "directory containing assets/ to use instead of the embedded copy")
	seedFlag     = flag.Uint64("seed", 0, "random seed, 0 for random")
	verboseFlag  = flag.Bool("verbose", false, "enable verbose logging")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	verbose := *verboseFlag || os.Getenv("DOGGO_VERBOSE") != ""
	logger := newLogger(verbose)
	defer logger.Sync()

	if err := run(logger, verbose); err != nil {
		logger.Error("screen doggo exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(logger *zap.Logger, verbose bool) error {
	configPath := *configFlag
	if env := os.Getenv("DOGGO_CONFIG"); env != "" && !isFlagSet("config") {
		configPath = env
	}

	var assets fs.FS = assetsFS
	if *assetsFlag != "" {
		assets = os.DirFS(*assetsFlag)
	}
	embedded.Init(assets)

	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		logger.Warn("settings storage unavailable, settings will not be saved", zap.Error(err))
		gdataManager = nil
	}

	width, height := fallbackScreenWidth, fallbackScreenHeight
	if m := ebiten.Monitor(); m != nil {
		if w, h := m.Size(); w > 0 && h > 0 {
			width, height = w, h
		}
	}

	appCfg := app.Config{
		ConfigPath:   configPath,
		Size:         *sizeFlag,
		Doggo:        *doggoFlag,
		Playlist:     *playlistFlag,
		ScreenWidth:  width,
		ScreenHeight: height,
		Seed:         *seedFlag,
		ReportTPS:    verbose,
	}
	// 只有显式给出的开关才覆盖已保存的设置，-rare-events=false 可以关闭
	if isFlagSet("rare-events") {
		appCfg.RareEvents = rareFlag
	}
	if isFlagSet("continuous") {
		appCfg.ContinuousMusic = contFlag
	}

	game, err := app.NewApp(appCfg, assets, gdataManager, logger)
	if err != nil {
		return fmt.Errorf("初始化失败: %w", err)
	}

	if err := game.Start(context.Background()); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	// 透明、无边框、置顶的全屏覆盖层
	ebiten.SetWindowTitle("Screen Doggo")
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowPosition(0, 0)
	ebiten.SetRunnableOnUnfocused(true)

	runErr := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{ScreenTransparent: true})
	closeErr := game.Close()
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		return runErr
	}
	return closeErr
}

// newLogger verbose 时使用开发配置，否则只输出警告及以上
func newLogger(verbose bool) *zap.Logger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
