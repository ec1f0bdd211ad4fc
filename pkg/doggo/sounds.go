package doggo

import "go.uber.org/zap"

// applySettings 读取本 tick 的设置，音量/静音变化时同步到声音通道
func (d *Doggo) applySettings() {
	s := d.settings.DoggoSettings()
	d.current = s

	if !d.hasApplied || s.Muted != d.applied.Muted {
		d.barks.SetMuted(s.Muted)
		d.music.SetMuted(s.Muted)
		d.events.SetMuted(s.Muted)
	}
	if !d.hasApplied || s.Volume != d.applied.Volume {
		d.music.SetVolume(s.Volume)
		d.events.SetVolume(s.Volume)
	}
	if d.hasApplied && !s.Music && d.applied.Music {
		// 关闭音乐时停掉正在播放的曲目
		d.music.Skip()
	}
	d.applied = s
	d.hasApplied = true
}

// checkSound 每 tick 检查叫声与背景音乐
//
// 叫声：移动中（非坐、非睡）以 1/BarkChance 触发，不与上一声重叠，叫 1~2 声。
// 音乐：启用且未暂停、当前没有打开的曲目时，以 1/MusicChance 开始下一首，
// 连续播放模式下不检定。
func (d *Doggo) checkSound() error {
	d.barks.Update()
	d.music.Update()
	d.events.Update()

	s := d.current
	if !d.barks.IsPlaying() && d.posture != PostureSleep && !d.posture.IsSitting() {
		if d.roll(d.cfg.BarkChance) && s.Barks {
			if err := soundError(d.barks.Loop(d.roller.IntN(2))); err != nil {
				return err
			}
		}
	}

	if d.musicPaused {
		return nil
	}
	if s.Music && !d.music.IsOpen() {
		if s.ContinuousMusic || d.roll(d.cfg.MusicChance) {
			if err := soundError(d.music.PlayNext()); err != nil {
				return err
			}
			if d.music.IsOpen() {
				d.logger.Debug("now playing", zap.String("song", d.music.CurrentName()))
			}
		}
	}
	return nil
}
