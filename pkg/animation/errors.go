package animation

import "errors"

// 配置类错误：出现即说明装配有误，调用方应当直接失败，不做默认值兜底
var (
	// ErrKeyNotFound 注册表中不存在该动画名
	ErrKeyNotFound = errors.New("animation: key not found")
	// ErrDuplicateKey 动画名已被注册
	ErrDuplicateKey = errors.New("animation: duplicate key")
	// ErrIndexOutOfRange 子区间超出源帧序列
	ErrIndexOutOfRange = errors.New("animation: index out of range")
	// ErrInvalidArgument 空帧序列、负数计时参数等非法入参
	ErrInvalidArgument = errors.New("animation: invalid argument")
)
