package doggo

import (
	"errors"
	"fmt"

	"github.com/decker502/screendoggo/pkg/animation"
)

// ErrMissingPosture 动画注册表缺少某个姿态
var ErrMissingPosture = errors.New("doggo: missing posture animation")

// State 行为状态
type State int

const (
	StateFollowing State = iota // 跟随指针（初始状态）
	StateSitting                // 坐下并朝向指针
	StateNapping                // 打盹，只能被唤醒
	StateEvent                  // 稀有事件进行中，不再跟随指针
)

// String 状态名
func (s State) String() string {
	switch s {
	case StateFollowing:
		return "FOLLOWING"
	case StateSitting:
		return "SITTING"
	case StateNapping:
		return "NAPPING"
	case StateEvent:
		return "EVENT"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Posture 姿态，即当前显示的动画
//
// String() 就是动画注册表中的键名，配置中的动画表必须覆盖全部姿态。
type Posture int

const (
	PostureWalkRight Posture = iota
	PostureWalkLeft
	PostureWalkDown
	PostureWalkUp
	PostureSleep
	PostureSitWag
	PostureSitLeft
	PostureSitRight
	PostureSitDown
	PostureRunLeft
	PostureRunRight
)

var postureNames = [...]string{
	PostureWalkRight: "WALK_RIGHT",
	PostureWalkLeft:  "WALK_LEFT",
	PostureWalkDown:  "WALK_DOWN",
	PostureWalkUp:    "WALK_UP",
	PostureSleep:     "SLEEP",
	PostureSitWag:    "SIT_WAG",
	PostureSitLeft:   "SIT_LEFT",
	PostureSitRight:  "SIT_RIGHT",
	PostureSitDown:   "SIT_DOWN",
	PostureRunLeft:   "RUN_LEFT",
	PostureRunRight:  "RUN_RIGHT",
}

// String 注册表键名
func (p Posture) String() string {
	if p < 0 || int(p) >= len(postureNames) {
		return fmt.Sprintf("Posture(%d)", int(p))
	}
	return postureNames[p]
}

// IsSitting 是否为坐姿
func (p Posture) IsSitting() bool {
	switch p {
	case PostureSitDown, PostureSitLeft, PostureSitRight, PostureSitWag:
		return true
	}
	return false
}

// AllPostures 全部姿态
func AllPostures() []Posture {
	postures := make([]Posture, len(postureNames))
	for i := range postureNames {
		postures[i] = Posture(i)
	}
	return postures
}

// ValidatePostures 检查注册表中每个姿态都有对应动画
//
// 启动时调用一次，把运行时的 KeyNotFound 提前为启动错误。
func ValidatePostures(reg *animation.Registry) error {
	var missing []error
	for _, p := range AllPostures() {
		if _, err := reg.Get(p.String()); err != nil {
			missing = append(missing, fmt.Errorf("%w %s: %w", ErrMissingPosture, p, err))
		}
	}
	return errors.Join(missing...)
}
