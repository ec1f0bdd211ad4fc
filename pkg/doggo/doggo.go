// Package doggo 实现屏幕上的小狗：跟随指针的行为状态机
//
// Doggo 实现 engine.Entity，每个逻辑 tick 由更新循环调用一次 Update：
//   - 处理 UI 线程发来的命令（坐下、站起、唤醒、跳过等）
//   - 按状态移动并选择姿态动画
//   - 按概率触发叫声、背景音乐、打盹与稀有事件
//   - 推进当前动画并发布不可变快照
//
// UI 线程只通过 Snapshot/IsOver 读取，通过命令方法与设置源写入，
// 其余状态只在 tick 循环中访问，无需加锁。
package doggo

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/decker502/screendoggo/pkg/animation"
	"github.com/decker502/screendoggo/pkg/sound"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// PointerSource 指针位置（屏幕坐标）
type PointerSource interface {
	Pointer() (x, y int)
}

// Settings 影响行为的用户设置
type Settings struct {
	Barks           bool
	Music           bool
	RareEvents      bool
	ContinuousMusic bool
	Volume          float64
	Muted           bool
}

// SettingsSource 线程安全的设置快照来源（见 game.SettingsManager）
type SettingsSource interface {
	DoggoSettings() Settings
}

// StaticSettings 固定不变的设置
type StaticSettings Settings

// DoggoSettings 实现 SettingsSource
func (s StaticSettings) DoggoSettings() Settings {
	return Settings(s)
}

// EventHook 稀有事件开始时的回调（在 tick 循环中调用）
type EventHook func(e Event)

// Snapshot 某一 tick 结束时的只读状态
type Snapshot struct {
	X, Y    int
	Size    int
	Image   *ebiten.Image
	State   State
	Posture Posture
	Song    string // 正在播放的音乐名，没有时为空
	Event   string // 进行中的事件名
	Tick    uint64
}

// Options 构造参数
type Options struct {
	Config   Config
	Registry *animation.Registry
	Pointer  PointerSource
	Settings SettingsSource

	// 声音通道，nil 时使用空通道（静音）
	Barks  *sound.Sequencer
	Music  *sound.Sequencer
	Events *sound.Sequencer

	Roller    Roller // nil 时使用 NewRandRoller(nil)
	EventHook EventHook
	Logger    *zap.Logger
}

// Doggo 屏幕小狗
type Doggo struct {
	cfg      Config
	registry *animation.Registry
	pointer  PointerSource
	settings SettingsSource
	roller   Roller
	hook     EventHook
	logger   *zap.Logger

	barks  *sound.Sequencer
	music  *sound.Sequencer
	events *sound.Sequencer

	x, y    int
	state   State
	posture Posture
	event   *Event

	musicPaused bool
	nudgeX      int
	nudgeY      int

	applied    Settings
	hasApplied bool
	current    Settings

	commands chan command
	snapshot atomic.Pointer[Snapshot]
	tick     uint64
}

// New 创建 doggo
//
// 参数：
//   - opts: 构造参数，Registry/Pointer/Settings 必填
//
// 返回：
//   - *Doggo: 初始状态为 FOLLOWING、姿态 WALK_RIGHT
//   - error: 参数无效或注册表缺少姿态
func New(opts Options) (*Doggo, error) {
	if opts.Registry == nil || opts.Pointer == nil || opts.Settings == nil {
		return nil, fmt.Errorf("%w: registry, pointer and settings are required", animation.ErrInvalidArgument)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if err := ValidatePostures(opts.Registry); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Roller == nil {
		opts.Roller = NewRandRoller(nil)
	}

	d := &Doggo{
		cfg:      opts.Config,
		registry: opts.Registry,
		pointer:  opts.Pointer,
		settings: opts.Settings,
		roller:   opts.Roller,
		hook:     opts.EventHook,
		logger:   opts.Logger.Named("doggo"),
		barks:    orSilent(opts.Barks, "bark", opts.Logger),
		music:    orSilent(opts.Music, "music", opts.Logger),
		events:   orSilent(opts.Events, "event", opts.Logger),
		x:        opts.Config.StartX,
		y:        opts.Config.StartY,
		state:    StateFollowing,
		posture:  PostureWalkRight,
		commands: make(chan command, commandBuffer),
	}

	anim, err := d.registry.Get(d.posture.String())
	if err != nil {
		return nil, err
	}
	first, err := anim.Frame(anim.Index())
	if err != nil {
		return nil, err
	}
	d.publish(first)
	return d, nil
}

func orSilent(s *sound.Sequencer, name string, logger *zap.Logger) *sound.Sequencer {
	if s != nil {
		return s
	}
	return sound.NewSequencer(name, nil, logger)
}

// Update 执行一个逻辑 tick（实现 engine.Entity）
//
// 注册表错误意味着接线错误，直接返回；声音资源错误只记录日志。
func (d *Doggo) Update() error {
	d.drainCommands()
	d.applySettings()

	var err error
	switch d.state {
	case StateFollowing:
		if err = d.follow(); err == nil {
			var napped bool
			if napped, err = d.rollNap(); err == nil && !napped {
				err = d.rollEvent()
			}
		}
	case StateSitting:
		if err = d.sitFollow(); err == nil {
			_, err = d.rollNap()
		}
	case StateNapping:
		err = d.changePosture(PostureSleep, false)
	case StateEvent:
		err = d.eventMove()
	}
	if err != nil {
		return err
	}

	if err := d.checkSound(); err != nil {
		return err
	}

	image, err := d.registry.Advance(d.posture.String())
	if err != nil {
		return err
	}
	d.tick++
	d.publish(image)
	return nil
}

func (d *Doggo) publish(image *ebiten.Image) {
	snap := &Snapshot{
		X:       d.x,
		Y:       d.y,
		Size:    d.cfg.Size,
		Image:   image,
		State:   d.state,
		Posture: d.posture,
		Tick:    d.tick,
	}
	if d.music.IsOpen() {
		snap.Song = d.music.CurrentName()
	}
	if d.event != nil {
		snap.Event = d.event.Name
	}
	d.snapshot.Store(snap)
}

// Snapshot 最近一次 tick 的状态，可在任意 goroutine 调用
func (d *Doggo) Snapshot() Snapshot {
	return *d.snapshot.Load()
}

// Position 左上角位置
func (d *Doggo) Position() (x, y int) {
	s := d.snapshot.Load()
	return s.X, s.Y
}

// Size 边长
func (d *Doggo) Size() int {
	return d.cfg.Size
}

// IsOver 点 (x, y) 是否落在 doggo 的包围盒内
func (d *Doggo) IsOver(x, y int) bool {
	s := d.snapshot.Load()
	return x >= s.X && x < s.X+s.Size && y >= s.Y && y < s.Y+s.Size
}

// State 当前状态（仅 tick 循环或测试中调用）
func (d *Doggo) State() State {
	return d.state
}

// Posture 当前姿态（仅 tick 循环或测试中调用）
func (d *Doggo) Posture() Posture {
	return d.posture
}

// changePosture 切换姿态
//
// 切换到已播放完的非循环姿态时从第 0 帧重新开始；未播放完的则继续播放。
// skip 为 true 时直接跳到最后一帧（刚坐好又换了朝向，不重播坐下过程）。
func (d *Doggo) changePosture(p Posture, skip bool) error {
	if p != d.posture {
		done, err := d.registry.IsDone(p.String())
		if err != nil {
			return err
		}
		if done {
			if err := d.registry.Reset(p.String()); err != nil {
				return err
			}
		}
		d.posture = p
	}
	if skip {
		done, err := d.registry.IsDone(d.posture.String())
		if err != nil {
			return err
		}
		if !done {
			return d.registry.SetDone(d.posture.String())
		}
	}
	return nil
}

// isDoneSitting 已经坐好（坐下动画播放完，或正在摇尾巴）
func (d *Doggo) isDoneSitting() (bool, error) {
	if !d.posture.IsSitting() {
		return false, nil
	}
	if d.posture == PostureSitWag {
		return true, nil
	}
	return d.registry.IsDone(d.posture.String())
}

// follow 朝指针移动；距离小于跟随距离时坐下朝向指针
func (d *Doggo) follow() error {
	mx, my := d.pointer.Pointer()

	size := d.cfg.Size
	inset := size / 2
	leftX := d.x
	rightX := d.x + size
	centerX := d.x + inset
	centerY := d.y + inset
	runRange := d.cfg.runRange()

	diffX := float64(centerX - mx)
	diffY := float64(centerY - my)
	if math.Hypot(diffX, diffY) < float64(d.cfg.FollowDistance) {
		return d.sitFollow()
	}

	// 动画只反映主方向，速度两个轴都生效
	horizontal := math.Abs(diffX) > math.Abs(diffY)
	velX, velY := 0, 0
	var next Posture = -1

	switch {
	case mx > rightX:
		if mx > centerX+runRange {
			next, velX = PostureRunRight, d.cfg.RunSpeed
		} else {
			next, velX = PostureWalkRight, d.cfg.WalkSpeed
		}
	case mx < centerX-runRange:
		next, velX = PostureRunLeft, -d.cfg.RunSpeed
	case mx < leftX:
		next, velX = PostureWalkLeft, -d.cfg.WalkSpeed
	}
	if !horizontal {
		next = -1
	}

	if my < centerY {
		if !horizontal {
			next = PostureWalkUp
		}
		if my < centerY-runRange {
			velY = -d.cfg.RunSpeed
		} else {
			velY = -d.cfg.WalkSpeed
		}
	} else {
		if !horizontal {
			next = PostureWalkDown
		}
		if my > centerY+runRange {
			velY = d.cfg.RunSpeed
		} else {
			velY = d.cfg.WalkSpeed
		}
	}

	if next >= 0 {
		if err := d.changePosture(next, false); err != nil {
			return err
		}
	}
	d.x += velX
	d.y += velY
	return nil
}

// sitFollow 原地坐下并朝向指针
func (d *Doggo) sitFollow() error {
	wasDoneSitting, err := d.isDoneSitting()
	if err != nil {
		return err
	}

	mx, my := d.pointer.Pointer()
	size := d.cfg.Size
	inset := size / 2
	leftX := d.x
	rightX := d.x + size
	topY := d.y
	bottomY := d.y + size

	switch {
	case mx < leftX-inset:
		return d.changePosture(PostureSitLeft, wasDoneSitting)
	case mx > rightX+inset:
		return d.changePosture(PostureSitRight, wasDoneSitting)
	case my >= topY && my <= bottomY && mx < rightX && mx > leftX:
		// 指针就在头顶上
		return d.changePosture(PostureSitWag, false)
	default:
		return d.changePosture(PostureSitDown, wasDoneSitting)
	}
}

// nap 进入打盹
func (d *Doggo) nap() error {
	d.state = StateNapping
	d.logger.Info("taking a nap")
	return d.changePosture(PostureSleep, false)
}

// rollNap 罕见的自发打盹，命中返回 true
func (d *Doggo) rollNap() (bool, error) {
	if !d.roll(d.cfg.NapChance) {
		return false, nil
	}
	return true, d.nap()
}

// roll 1/n 的检定，n<=0 表示关闭
func (d *Doggo) roll(n int) bool {
	return n > 0 && d.roller.OneIn(n)
}
