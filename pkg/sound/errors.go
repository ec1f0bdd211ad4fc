package sound

import "errors"

var (
	// ErrQueueFull 向已满的队列入队
	ErrQueueFull = errors.New("sound: queue is full")
	// ErrQueueEmpty 从空队列出队
	ErrQueueEmpty = errors.New("sound: queue is empty")
	// ErrNotFound 按名播放时找不到对应的 clip
	ErrNotFound = errors.New("sound: clip not found")
	// ErrInvalidArgument 负的循环次数、nil clip 等
	ErrInvalidArgument = errors.New("sound: invalid argument")
	// ErrResource 音频设备或解码失败；调用方应降级为静音而不是终止
	ErrResource = errors.New("sound: resource unavailable")
)
