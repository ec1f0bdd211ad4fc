package utils

import (
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerTracker 在 UI 协程与 tick 协程之间共享指针位置
//
// x/y 打包进同一个 64 位原子变量，读取方总能拿到同一次写入的坐标对。
type PointerTracker struct {
	packed atomic.Uint64
}

// NewPointerTracker 创建并设置初始位置
func NewPointerTracker(x, y int) *PointerTracker {
	t := &PointerTracker{}
	t.Set(x, y)
	return t
}

// Set 记录指针位置
func (t *PointerTracker) Set(x, y int) {
	t.packed.Store(uint64(uint32(int32(x)))<<32 | uint64(uint32(int32(y))))
}

// Pointer 最近一次记录的位置
func (t *PointerTracker) Pointer() (int, int) {
	v := t.packed.Load()
	return int(int32(uint32(v >> 32))), int(int32(uint32(v)))
}

// GetPointerPosition 获取当前指针位置（触摸或鼠标）
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
func GetPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// IsButtonJustPressed 检查鼠标按键是否刚刚按下
// 左键同时接受触摸
func IsButtonJustPressed(button ebiten.MouseButton) bool {
	if button == ebiten.MouseButtonLeft && len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		return true
	}
	return inpututil.IsMouseButtonJustPressed(button)
}

// DoubleClickDetector 按帧计数识别双击
type DoubleClickDetector struct {
	window    int // 两次点击的最大间隔（帧）
	lastClick int
	armed     bool
}

// NewDoubleClickDetector 创建检测器
//
// 参数：
//   - window: 两次点击之间允许的最大帧数
func NewDoubleClickDetector(window int) *DoubleClickDetector {
	return &DoubleClickDetector{window: window}
}

// Click 记录一次点击，返回是否构成双击
//
// 构成双击后重新计数，三连击只算一次双击。
func (d *DoubleClickDetector) Click(frame int) bool {
	if d.armed && frame-d.lastClick <= d.window {
		d.armed = false
		return true
	}
	d.armed = true
	d.lastClick = frame
	return false
}
