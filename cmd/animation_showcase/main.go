// cmd/animation_showcase/main.go
// 动画展示工具：按网格同时播放一张精灵表的全部姿态动画，用于检查帧区间和计时
//
// 用法：
//
//	go run ./cmd/animation_showcase --root=. --size=large
//
// 按键：Tab 切换精灵表，Space 暂停/继续，R 重置全部动画，Esc 退出
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/screendoggo/pkg/animation"
	"github.com/decker502/screendoggo/pkg/config"
	"github.com/decker502/screendoggo/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

var (
	rootFlag    = flag.String("root", ".", "包含 assets/ 的目录")
	sizeFlag    = flag.String("size", "large", "尺寸预设")
	columnsFlag = flag.Int("columns", 4, "每行单元数")
	verbose     = flag.Bool("verbose", false, "详细日志")
)

const (
	cellPadding = 24
	labelHeight = 16
)

// Showcase 展示窗口
type Showcase struct {
	resources *game.ResourceManager
	cfg       *config.DoggoConfig
	preset    config.SizePreset

	sheets   []string
	current  int
	registry *animation.Registry
	names    []string
	frames   map[string]*ebiten.Image

	paused  bool
	columns int
}

// NewShowcase 加载配置并准备第一张精灵表
func NewShowcase(root, size string, columns int, logger *zap.Logger) (*Showcase, error) {
	cfg, err := config.LoadDoggoConfig(filepath.Join(root, config.DefaultConfigPath))
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	preset, err := cfg.Size(size)
	if err != nil {
		return nil, err
	}
	s := &Showcase{
		resources: game.NewResourceManager(os.DirFS(root), nil, logger),
		cfg:       cfg,
		preset:    preset,
		sheets:    cfg.SheetNames(),
		columns:   max(columns, 1),
	}
	if err := s.load(0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Showcase) load(index int) error {
	reg, err := s.resources.LoadRegistry(s.cfg, s.sheets[index], s.preset)
	if err != nil {
		return fmt.Errorf("加载精灵表 %s 失败: %w", s.sheets[index], err)
	}
	s.current = index
	s.registry = reg
	s.names = reg.Names()
	s.frames = make(map[string]*ebiten.Image, len(s.names))
	log.Printf("✓ %s: %d 个动画", s.sheets[index], len(s.names))
	return nil
}

func (s *Showcase) cellSize() int {
	return s.preset.Size + cellPadding
}

func (s *Showcase) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		if err := s.load((s.current + 1) % len(s.sheets)); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.paused = !s.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		for _, name := range s.names {
			_ = s.registry.Reset(name)
		}
	}

	if s.paused {
		return nil
	}
	for _, name := range s.names {
		frame, err := s.registry.Advance(name)
		if err != nil {
			return err
		}
		s.frames[name] = frame
	}
	return nil
}

func (s *Showcase) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 48, G: 52, B: 64, A: 255})
	cell := s.cellSize()
	for i, name := range s.names {
		x := (i%s.columns)*cell + cellPadding/2
		y := (i/s.columns)*(cell+labelHeight) + labelHeight + cellPadding/2
		if frame := s.frames[name]; frame != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x), float64(y))
			screen.DrawImage(frame, op)
		}
		ebitenutil.DebugPrintAt(screen, name, x, y-labelHeight)
	}
	status := s.sheets[s.current]
	if s.paused {
		status += " (paused)"
	}
	ebitenutil.DebugPrintAt(screen, status, 4, s.screenHeight()-labelHeight)
}

func (s *Showcase) screenHeight() int {
	rows := (len(s.names) + s.columns - 1) / s.columns
	return rows*(s.cellSize()+labelHeight) + labelHeight*2
}

func (s *Showcase) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.columns * s.cellSize(), s.screenHeight()
}

func main() {
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	showcase, err := NewShowcase(*rootFlag, *sizeFlag, *columnsFlag, logger)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	w, h := showcase.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Screen Doggo - 动画展示")
	if err := ebiten.RunGame(showcase); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
