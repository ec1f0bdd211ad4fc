package doggo

import (
	"fmt"

	"github.com/decker502/screendoggo/pkg/animation"
)

// 默认参数（像素、像素/tick、1/N 每 tick 概率）
const (
	DefaultSize             = 32
	DefaultFollowDistance   = 50
	DefaultFollowMultiplier = 2.0

	DefaultWalkSpeed = 2
	DefaultRunSpeed  = 5

	DefaultNapChance   = 100000
	DefaultBarkChance  = 750
	DefaultMusicChance = 6000
	DefaultEventChance = 500000
)

// Event 稀有事件
type Event struct {
	Name  string // 事件名，如 "squirrel"
	Music string // 事件音乐名（事件通道中的 clip 名），为空则无音乐
}

// DefaultEvents 默认事件列表，按检定顺序排列
func DefaultEvents() []Event {
	return []Event{
		{Name: "squirrel"},
		{Name: "duck"},
		{Name: "rain"},
		{Name: "moose rave"},
		{Name: "chonker cat"},
		{Name: "cat storm"},
	}
}

// Config doggo 的几何与行为参数
type Config struct {
	Size             int     // 边长
	FollowDistance   int     // 小于该距离时坐下朝向指针
	FollowMultiplier float64 // 跑动阈值 = FollowDistance * FollowMultiplier

	WalkSpeed int
	RunSpeed  int

	// 概率均为每 tick 1/N，N<=0 表示关闭
	NapChance   int
	BarkChance  int
	MusicChance int
	EventChance int

	// Events 稀有事件，按顺序检定，先命中者生效
	Events []Event

	StartX, StartY int
}

// DefaultConfig 小号 doggo 的默认参数
func DefaultConfig() Config {
	return Config{
		Size:             DefaultSize,
		FollowDistance:   DefaultFollowDistance,
		FollowMultiplier: DefaultFollowMultiplier,
		WalkSpeed:        DefaultWalkSpeed,
		RunSpeed:         DefaultRunSpeed,
		NapChance:        DefaultNapChance,
		BarkChance:       DefaultBarkChance,
		MusicChance:      DefaultMusicChance,
		EventChance:      DefaultEventChance,
		Events:           DefaultEvents(),
	}
}

// Validate 检查参数
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size %d", animation.ErrInvalidArgument, c.Size)
	}
	if c.FollowDistance < 0 || c.FollowMultiplier < 0 {
		return fmt.Errorf("%w: follow distance %d multiplier %v", animation.ErrInvalidArgument, c.FollowDistance, c.FollowMultiplier)
	}
	if c.WalkSpeed < 0 || c.RunSpeed < 0 {
		return fmt.Errorf("%w: speeds walk=%d run=%d", animation.ErrInvalidArgument, c.WalkSpeed, c.RunSpeed)
	}
	return nil
}

// runRange 跑动阈值
func (c Config) runRange() int {
	return int(float64(c.FollowDistance) * c.FollowMultiplier)
}
