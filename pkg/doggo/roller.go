package doggo

import "math/rand/v2"

// Roller 随机检定
type Roller interface {
	// OneIn 以 1/n 的概率返回 true（n > 0）
	OneIn(n int) bool
	// IntN 返回 [0, n) 内的随机整数
	IntN(n int) int
}

// RandRoller 基于 math/rand/v2 的检定
type RandRoller struct {
	rng *rand.Rand
}

// NewRandRoller 创建检定器，rng 为 nil 时使用全局随机源
func NewRandRoller(rng *rand.Rand) *RandRoller {
	return &RandRoller{rng: rng}
}

// OneIn 抽到区间正中的那个数算命中
func (r *RandRoller) OneIn(n int) bool {
	if n <= 0 {
		return false
	}
	return r.IntN(n) == n/2
}

// IntN 返回 [0, n) 内的随机整数
func (r *RandRoller) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	if r.rng == nil {
		return rand.IntN(n)
	}
	return r.rng.IntN(n)
}
