// Package audio 提供基于 Ebitengine 的 sound.Clip 实现
//
// 支持 .wav/.mp3/.ogg（Ebitengine 解码器）与 .au（本包解码），
// 所有格式统一解码为上下文采样率的 16 位立体声 PCM。
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// ErrUnsupportedFormat 文件格式或编码不支持
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// SupportedExtensions 可解码的文件扩展名
var SupportedExtensions = []string{".wav", ".mp3", ".ogg", ".au"}

// IsSupported 按扩展名判断是否可解码
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Decode 按扩展名解码音频并重采样到 sampleRate
//
// 参数：
//   - path: 资源路径（只用于判断格式和错误信息）
//   - data: 文件内容
//   - sampleRate: 目标采样率（音频上下文的采样率）
//
// 返回：
//   - io.ReadSeeker: 16 位小端立体声 PCM 流
//   - error: 格式不支持或解码失败
func Decode(path string, data []byte, sampleRate int) (io.ReadSeeker, error) {
	reader := bytes.NewReader(data)
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".wav":
		stream, err := wav.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio %s: %w", path, err)
		}
		return stream, nil
	case ".mp3":
		stream, err := mp3.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", path, err)
		}
		return stream, nil
	case ".ogg":
		stream, err := vorbis.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", path, err)
		}
		return stream, nil
	case ".au":
		stream, err := DecodeAU(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode AU audio %s: %w", path, err)
		}
		if stream.SampleRate() == sampleRate {
			return stream, nil
		}
		return ebaudio.Resample(stream, stream.Length(), stream.SampleRate(), sampleRate), nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}
}

// ClipName 由资源文件名派生显示名
//
// 去掉目录和扩展名，'-' 与 '_' 替换为空格，例如 "sounds/Lofi/rainy_day-mix.ogg" → "rainy day mix"。
func ClipName(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(base))
}
