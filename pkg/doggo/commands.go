package doggo

import "go.uber.org/zap"

// commandBuffer 命令缓冲区大小，满了之后新命令被丢弃
const commandBuffer = 64

type commandKind int

const (
	cmdSit commandKind = iota
	cmdStand
	cmdWake
	cmdSleep
	cmdSkip
	cmdPauseMusic
	cmdResumeMusic
	cmdEndEvent
	cmdNudge
)

var commandNames = [...]string{
	cmdSit:         "sit",
	cmdStand:       "stand",
	cmdWake:        "wake",
	cmdSleep:       "sleep",
	cmdSkip:        "skip",
	cmdPauseMusic:  "pause",
	cmdResumeMusic: "resume",
	cmdEndEvent:    "end event",
	cmdNudge:       "nudge",
}

type command struct {
	kind   commandKind
	dx, dy int
}

// 以下命令方法可在任意 goroutine 调用，下一个 tick 开始时生效。
// 音量与静音通过 SettingsSource 传入，不走命令通道。

// Sit FOLLOWING 时坐下
func (d *Doggo) Sit() { d.send(command{kind: cmdSit}) }

// Stand SITTING 时站起继续跟随
func (d *Doggo) Stand() { d.send(command{kind: cmdStand}) }

// Wake 唤醒打盹中的 doggo
func (d *Doggo) Wake() { d.send(command{kind: cmdWake}) }

// Sleep 立即打盹（FOLLOWING 或 SITTING 时）
func (d *Doggo) Sleep() { d.send(command{kind: cmdSleep}) }

// Skip 跳过当前音乐
func (d *Doggo) Skip() { d.send(command{kind: cmdSkip}) }

// PauseMusic 暂停音乐；暂停期间不会自动开始新曲目
func (d *Doggo) PauseMusic() { d.send(command{kind: cmdPauseMusic}) }

// ResumeMusic 恢复音乐
func (d *Doggo) ResumeMusic() { d.send(command{kind: cmdResumeMusic}) }

// EndEvent 结束进行中的稀有事件
func (d *Doggo) EndEvent() { d.send(command{kind: cmdEndEvent}) }

// Nudge 事件中用方向键移动，dx/dy 取符号
func (d *Doggo) Nudge(dx, dy int) { d.send(command{kind: cmdNudge, dx: sign(dx), dy: sign(dy)}) }

func (d *Doggo) send(c command) {
	select {
	case d.commands <- c:
	default:
		d.logger.Debug("command dropped, buffer full", zap.String("command", commandNames[c.kind]))
	}
}

// drainCommands 处理积压的全部命令，不阻塞
func (d *Doggo) drainCommands() {
	for {
		select {
		case c := <-d.commands:
			d.handle(c)
		default:
			return
		}
	}
}

func (d *Doggo) handle(c command) {
	switch c.kind {
	case cmdSit:
		if d.state == StateFollowing {
			d.state = StateSitting
		}
	case cmdStand:
		if d.state == StateSitting {
			d.state = StateFollowing
		}
	case cmdWake:
		if d.state == StateNapping {
			d.state = StateFollowing
			d.logger.Info("woke up")
		}
	case cmdSleep:
		if d.state == StateFollowing || d.state == StateSitting {
			if err := d.nap(); err != nil {
				d.logger.Error("failed to start nap", zap.Error(err))
			}
		}
	case cmdSkip:
		d.music.Skip()
	case cmdPauseMusic:
		d.musicPaused = true
		d.music.Pause()
	case cmdResumeMusic:
		d.musicPaused = false
		d.music.Resume()
	case cmdEndEvent:
		d.endEvent()
	case cmdNudge:
		if d.state == StateEvent {
			d.nudgeX += c.dx
			d.nudgeY += c.dy
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
