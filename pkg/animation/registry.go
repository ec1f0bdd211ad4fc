package animation

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// Registry 动画注册表：动画名 -> Animation
//
// 所有按名访问的方法在名字未注册时返回 ErrKeyNotFound。
// 对正确装配的 doggo 这不应发生，调用方应把它当作装配错误向上抛出。
type Registry struct {
	animations map[string]*Animation
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		animations: make(map[string]*Animation),
	}
}

// Add 注册一个已构造的动画，同名已存在时返回 ErrDuplicateKey
func (r *Registry) Add(anim *Animation) error {
	if anim == nil {
		return fmt.Errorf("%w: nil animation", ErrInvalidArgument)
	}
	if _, exists := r.animations[anim.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, anim.Name())
	}
	r.animations[anim.Name()] = anim
	return nil
}

// Create 用整段帧序列创建并注册动画
func (r *Registry) Create(name string, frames []*ebiten.Image, timing Timing) error {
	if _, exists := r.animations[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, name)
	}
	anim, err := NewAnimation(name, frames, timing)
	if err != nil {
		return err
	}
	r.animations[name] = anim
	return nil
}

// CreateRange 用帧序列的子区间 [start, end) 创建并注册动画
//
// 参数：
//   - start, end: 子区间，必须落在 [0, len(frames)] 内，且 start < end
//
// 返回：
//   - error: ErrIndexOutOfRange / ErrInvalidArgument / ErrDuplicateKey
func (r *Registry) CreateRange(name string, frames []*ebiten.Image, start, end int, timing Timing) error {
	if start < 0 || start > len(frames) || end < 0 || end > len(frames) {
		return fmt.Errorf("%w: animation %q range [%d, %d) outside 0-%d",
			ErrIndexOutOfRange, name, start, end, len(frames))
	}
	if start >= end {
		return fmt.Errorf("%w: animation %q has empty range [%d, %d)", ErrInvalidArgument, name, start, end)
	}
	return r.Create(name, frames[start:end], timing)
}

// Get 按名获取动画
func (r *Registry) Get(name string) (*Animation, error) {
	anim, ok := r.animations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	return anim, nil
}

// Has 是否已注册
func (r *Registry) Has(name string) bool {
	_, ok := r.animations[name]
	return ok
}

// Remove 注销动画
func (r *Registry) Remove(name string) error {
	if _, ok := r.animations[name]; !ok {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	delete(r.animations, name)
	return nil
}

// Advance 推进指定动画一个 tick，返回当前图片
func (r *Registry) Advance(name string) (*ebiten.Image, error) {
	anim, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return anim.Advance(), nil
}

// Reset 重置指定动画的游标
func (r *Registry) Reset(name string) error {
	anim, err := r.Get(name)
	if err != nil {
		return err
	}
	anim.Reset()
	return nil
}

// IsDone 指定动画是否已播完
func (r *Registry) IsDone(name string) (bool, error) {
	anim, err := r.Get(name)
	if err != nil {
		return false, err
	}
	return anim.IsDone(), nil
}

// SetDone 强制指定动画进入终止状态
func (r *Registry) SetDone(name string) error {
	anim, err := r.Get(name)
	if err != nil {
		return err
	}
	anim.ForceDone()
	return nil
}

// Len 已注册动画数
func (r *Registry) Len() int {
	return len(r.animations)
}

// Names 返回排序后的动画名列表
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.animations))
	for name := range r.animations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
