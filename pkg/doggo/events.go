package doggo

import (
	"errors"

	"github.com/decker502/screendoggo/pkg/sound"
	"go.uber.org/zap"
)

// rollEvent 按顺序检定每个稀有事件，第一个命中的生效
func (d *Doggo) rollEvent() error {
	if !d.current.RareEvents || d.state != StateFollowing {
		return nil
	}
	for i := range d.cfg.Events {
		if d.roll(d.cfg.EventChance) {
			return d.startEvent(d.cfg.Events[i])
		}
	}
	return nil
}

// startEvent 进入事件状态：播放事件音乐，停止跟随指针
func (d *Doggo) startEvent(e Event) error {
	d.state = StateEvent
	d.event = &e
	d.nudgeX, d.nudgeY = 0, 0
	d.logger.Info("rare event started", zap.String("event", e.Name))

	if e.Music != "" {
		if err := d.events.PlayNamed(e.Music); err != nil {
			if err := soundError(err); err != nil {
				return err
			}
			d.logger.Warn("event music unavailable", zap.String("event", e.Name), zap.String("music", e.Music))
		}
	}
	if d.hook != nil {
		d.hook(e)
	}
	return d.changePosture(PostureSitDown, false)
}

// endEvent 结束事件，回到跟随状态
func (d *Doggo) endEvent() {
	if d.state != StateEvent {
		return
	}
	d.logger.Info("rare event ended", zap.String("event", d.event.Name))
	d.events.Skip()
	d.state = StateFollowing
	d.event = nil
	d.nudgeX, d.nudgeY = 0, 0
}

// eventMove 事件中只按方向键移动，没有输入时坐着
func (d *Doggo) eventMove() error {
	dx, dy := d.nudgeX, d.nudgeY
	d.nudgeX, d.nudgeY = 0, 0
	if dx == 0 && dy == 0 {
		return d.changePosture(PostureSitDown, false)
	}

	var next Posture
	switch {
	case abs(dx) >= abs(dy) && dx > 0:
		next = PostureWalkRight
	case abs(dx) >= abs(dy):
		next = PostureWalkLeft
	case dy > 0:
		next = PostureWalkDown
	default:
		next = PostureWalkUp
	}
	d.x += dx * d.cfg.WalkSpeed
	d.y += dy * d.cfg.WalkSpeed
	return d.changePosture(next, false)
}

// soundError 声音资源错误与缺失的曲目只降级，其余错误返回
func soundError(err error) error {
	if err == nil || errors.Is(err, sound.ErrResource) || errors.Is(err, sound.ErrNotFound) {
		return nil
	}
	return err
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
