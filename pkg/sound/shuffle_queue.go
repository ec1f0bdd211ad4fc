package sound

import (
	"fmt"
	"math/rand/v2"
)

// ShuffleQueue 固定容量的环形队列
//
// 空/满由槽位内容判定（nil 为空槽），size 始终等于已占用槽位数。
// 从源集合构造时先均匀随机排列再整体入队，所以一轮出队内每个 clip 恰好出现一次。
type ShuffleQueue struct {
	elements []Clip
	size     int
	head     int // 下一个出队位置
	tail     int // 下一个入队位置
}

// NewShuffleQueue 创建指定容量的空队列
func NewShuffleQueue(capacity int) *ShuffleQueue {
	if capacity < 0 {
		capacity = 0
	}
	return &ShuffleQueue{
		elements: make([]Clip, capacity),
	}
}

// NewShuffleQueueFrom 由源集合构造已洗牌、已装满的队列，容量等于源集合长度
//
// 参数：
//   - source: 源 clip 集合（nil 元素会被跳过）
//   - rng: 随机源，nil 时使用全局随机源
func NewShuffleQueueFrom(source []Clip, rng *rand.Rand) *ShuffleQueue {
	q := NewShuffleQueue(len(source))
	q.shuffleIn(source, rng)
	return q
}

// shuffleIn 不放回地均匀抽取剩余元素依次入队
func (q *ShuffleQueue) shuffleIn(source []Clip, rng *rand.Rand) {
	remaining := make([]Clip, 0, len(source))
	for _, clip := range source {
		if clip != nil {
			remaining = append(remaining, clip)
		}
	}

	for !q.IsFull() && len(remaining) > 0 {
		var i int
		if rng != nil {
			i = rng.IntN(len(remaining))
		} else {
			i = rand.IntN(len(remaining))
		}
		// 容量等于源集合长度，这里不会满
		_ = q.Enqueue(remaining[i])
		remaining[i] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}
}

// Enqueue 入队
func (q *ShuffleQueue) Enqueue(clip Clip) error {
	if clip == nil {
		return fmt.Errorf("%w: cannot enqueue nil clip", ErrInvalidArgument)
	}
	if q.IsFull() {
		return fmt.Errorf("%w: capacity %d", ErrQueueFull, len(q.elements))
	}
	q.elements[q.tail] = clip
	q.tail = q.nextIndex(q.tail)
	q.size++
	return nil
}

// Dequeue 出队
func (q *ShuffleQueue) Dequeue() (Clip, error) {
	if q.IsEmpty() {
		return nil, ErrQueueEmpty
	}
	clip := q.elements[q.head]
	q.elements[q.head] = nil
	q.head = q.nextIndex(q.head)
	q.size--
	return clip, nil
}

// IsEmpty 队头槽位为空即为空队列
func (q *ShuffleQueue) IsEmpty() bool {
	if len(q.elements) == 0 {
		return true
	}
	return q.elements[q.head] == nil
}

// IsFull 队尾槽位被占用即为满队列
func (q *ShuffleQueue) IsFull() bool {
	if len(q.elements) == 0 {
		return true
	}
	return q.elements[q.tail] != nil
}

// Len 当前元素个数
func (q *ShuffleQueue) Len() int {
	return q.size
}

// Cap 固定容量
func (q *ShuffleQueue) Cap() int {
	return len(q.elements)
}

func (q *ShuffleQueue) nextIndex(index int) int {
	next := index + 1
	if next >= len(q.elements) {
		return 0
	}
	return next
}
