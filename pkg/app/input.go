package app

import (
	"github.com/decker502/screendoggo/pkg/doggo"
	"github.com/decker502/screendoggo/pkg/game"
	"github.com/decker502/screendoggo/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// VolumeStep 每次 +/- 调整的音量
const VolumeStep = 0.1

// DoubleClickFrames 双击的最大间隔（UI 帧）
const DoubleClickFrames = 20

// Controller doggo 的命令与命中检测（*doggo.Doggo 实现）
type Controller interface {
	Sit()
	Stand()
	Wake()
	Sleep()
	Skip()
	PauseMusic()
	ResumeMusic()
	EndEvent()
	Nudge(dx, dy int)
	IsOver(x, y int) bool
}

// UserSettings 可由快捷键修改的设置（*game.SettingsManager 实现）
type UserSettings interface {
	ToggleMuted() bool
	AdjustVolume(delta float64) float64
	ToggleBarks() bool
	ToggleMusic() bool
	ToggleRareEvents() bool
	ToggleContinuousMusic() bool
}

var (
	_ Controller    = (*doggo.Doggo)(nil)
	_ UserSettings  = (*game.SettingsManager)(nil)
)

// Input 一帧内采样到的输入
type Input struct {
	X, Y int // 指针位置

	LeftClick  bool
	RightClick bool

	Mute       bool // M
	Pause      bool // P，暂停/恢复音乐
	Skip       bool // N
	VolumeUp   bool // + / =
	VolumeDown bool // -
	EndEvent   bool // E
	Nap        bool // S
	Quit       bool // Esc

	ToggleBarks      bool // B
	ToggleMusic      bool // U
	ToggleRareEvents bool // R
	ToggleContinuous bool // C

	DX, DY int // 方向键，事件中移动 doggo
}

// readInput 从 Ebitengine 采样当前帧的输入
func readInput() Input {
	in := Input{
		LeftClick:  utils.IsButtonJustPressed(ebiten.MouseButtonLeft),
		RightClick: utils.IsButtonJustPressed(ebiten.MouseButtonRight),
		Mute:       inpututil.IsKeyJustPressed(ebiten.KeyM),
		Pause:      inpututil.IsKeyJustPressed(ebiten.KeyP),
		Skip:       inpututil.IsKeyJustPressed(ebiten.KeyN),
		VolumeUp:   inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd),
		VolumeDown: inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract),
		EndEvent:   inpututil.IsKeyJustPressed(ebiten.KeyE),
		Nap:        inpututil.IsKeyJustPressed(ebiten.KeyS),
		Quit:       inpututil.IsKeyJustPressed(ebiten.KeyEscape),

		ToggleBarks:      inpututil.IsKeyJustPressed(ebiten.KeyB),
		ToggleMusic:      inpututil.IsKeyJustPressed(ebiten.KeyU),
		ToggleRareEvents: inpututil.IsKeyJustPressed(ebiten.KeyR),
		ToggleContinuous: inpututil.IsKeyJustPressed(ebiten.KeyC),
	}
	in.X, in.Y = utils.GetPointerPosition()

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.DX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.DX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.DY--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.DY++
	}
	return in
}

// inputHandler 把输入映射为 doggo 命令与设置修改
//
// 运行在 UI 协程；命令经 doggo 的命令队列送到 tick 协程。
type inputHandler struct {
	controller  Controller
	settings    UserSettings
	pointer     *utils.PointerTracker
	doubleClick *utils.DoubleClickDetector
	logger      *zap.Logger

	frame       int
	showHelp    bool
	musicPaused bool
}

func newInputHandler(controller Controller, settings UserSettings, pointer *utils.PointerTracker, logger *zap.Logger) *inputHandler {
	return &inputHandler{
		controller:  controller,
		settings:    settings,
		pointer:     pointer,
		doubleClick: utils.NewDoubleClickDetector(DoubleClickFrames),
		logger:      logger,
	}
}

// handle 处理一帧输入，返回 ebiten.Termination 表示退出
func (h *inputHandler) handle(in Input) error {
	h.frame++
	h.pointer.Set(in.X, in.Y)

	if in.Quit {
		return ebiten.Termination
	}

	if in.LeftClick {
		if h.doubleClick.Click(h.frame) {
			h.showHelp = !h.showHelp
		}
		if h.controller.IsOver(in.X, in.Y) {
			// 坐着时起身，睡着时叫醒；其他状态下两个命令都会被忽略
			h.controller.Stand()
			h.controller.Wake()
		}
	}
	if in.RightClick && h.controller.IsOver(in.X, in.Y) {
		h.controller.Sit()
	}

	if in.Mute {
		muted := h.settings.ToggleMuted()
		h.logger.Debug("mute toggled", zap.Bool("muted", muted))
	}
	if in.Pause {
		h.musicPaused = !h.musicPaused
		if h.musicPaused {
			h.controller.PauseMusic()
		} else {
			h.controller.ResumeMusic()
		}
	}
	if in.Skip {
		h.controller.Skip()
	}
	if in.VolumeUp {
		h.settings.AdjustVolume(VolumeStep)
	}
	if in.VolumeDown {
		h.settings.AdjustVolume(-VolumeStep)
	}
	if in.EndEvent {
		h.controller.EndEvent()
	}
	if in.Nap {
		h.controller.Sleep()
	}
	if in.ToggleBarks {
		h.logger.Debug("barks toggled", zap.Bool("enabled", h.settings.ToggleBarks()))
	}
	if in.ToggleMusic {
		h.logger.Debug("music toggled", zap.Bool("enabled", h.settings.ToggleMusic()))
	}
	if in.ToggleRareEvents {
		h.logger.Debug("rare events toggled", zap.Bool("enabled", h.settings.ToggleRareEvents()))
	}
	if in.ToggleContinuous {
		h.logger.Debug("continuous music toggled", zap.Bool("enabled", h.settings.ToggleContinuousMusic()))
	}
	if in.DX != 0 || in.DY != 0 {
		h.controller.Nudge(in.DX, in.DY)
	}
	return nil
}
