package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// AUStream 解码后的 Sun/NeXT (.au) 音频
//
// 输出为 16 位有符号小端立体声 PCM（Ebitengine 播放器要求的格式），
// 采样率保持文件原值，需要时由 Decode 重采样。
type AUStream struct {
	data       []byte // 16 位小端立体声 PCM
	sampleRate int
	offset     int64
}

// AU 文件头（大端，至少 24 字节）
type auHeader struct {
	Magic      uint32 // 0x2e736e64 (".snd")
	DataOffset uint32
	DataSize   uint32 // 0xFFFFFFFF 表示未知
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

const (
	auMagic         = 0x2e736e64 // ".snd"
	auHeaderSize    = 24
	auUnknownSize   = 0xFFFFFFFF
	auEncodingULaw  = 1 // 8 位 μ-law
	auEncodingPCM16 = 3 // 16 位线性 PCM（大端）
)

// DecodeAU 解码 .au 音频
//
// 支持 μ-law 与 16 位线性 PCM，单声道或立体声；单声道会复制到两个声道。
//
// 参数：
//   - r: .au 文件内容
//
// 返回：
//   - *AUStream: 解码后的 PCM 流
//   - error: 文件头无效或编码不支持
func DecodeAU(r io.Reader) (*AUStream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read AU data: %w", err)
	}
	if len(data) < auHeaderSize {
		return nil, fmt.Errorf("%w: AU file too short (%d bytes)", ErrUnsupportedFormat, len(data))
	}

	var header auHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read AU header: %w", err)
	}
	if header.Magic != auMagic {
		return nil, fmt.Errorf("%w: bad AU magic 0x%08x", ErrUnsupportedFormat, header.Magic)
	}
	if header.Channels < 1 || header.Channels > 2 {
		return nil, fmt.Errorf("%w: AU channel count %d", ErrUnsupportedFormat, header.Channels)
	}
	if header.SampleRate == 0 {
		return nil, fmt.Errorf("%w: AU sample rate 0", ErrUnsupportedFormat)
	}

	start := int(header.DataOffset)
	if start < auHeaderSize || start > len(data) {
		return nil, fmt.Errorf("%w: AU data offset %d (file size %d)", ErrUnsupportedFormat, start, len(data))
	}
	body := data[start:]
	if header.DataSize != auUnknownSize && int(header.DataSize) < len(body) {
		body = body[:header.DataSize]
	}

	var samples []int16
	switch header.Encoding {
	case auEncodingULaw:
		samples = make([]int16, len(body))
		for i, u := range body {
			samples[i] = mulawToPCM(u)
		}
	case auEncodingPCM16:
		samples = make([]int16, len(body)/2)
		for i := range samples {
			samples[i] = int16(binary.BigEndian.Uint16(body[i*2:]))
		}
	default:
		return nil, fmt.Errorf("%w: AU encoding %d (supported: 1 μ-law, 3 PCM16)", ErrUnsupportedFormat, header.Encoding)
	}

	return &AUStream{
		data:       toStereo16(samples, int(header.Channels)),
		sampleRate: int(header.SampleRate),
	}, nil
}

// mulawToPCM G.711 μ-law 解码
func mulawToPCM(u byte) int16 {
	u = ^u
	exponent := int32(u>>4) & 0x07
	mantissa := int32(u) & 0x0F
	magnitude := ((mantissa << 3) + 0x84) << exponent
	if u&0x80 != 0 {
		return int16(0x84 - magnitude)
	}
	return int16(magnitude - 0x84)
}

// toStereo16 交错样本转为 16 位小端立体声字节
func toStereo16(samples []int16, channels int) []byte {
	frames := len(samples) / channels
	out := make([]byte, frames*4)
	for f := 0; f < frames; f++ {
		left := samples[f*channels]
		right := left
		if channels == 2 {
			right = samples[f*channels+1]
		}
		binary.LittleEndian.PutUint16(out[f*4:], uint16(left))
		binary.LittleEndian.PutUint16(out[f*4+2:], uint16(right))
	}
	return out
}

// Read 实现 io.Reader
func (s *AUStream) Read(p []byte) (int, error) {
	if s.offset >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.offset:])
	s.offset += int64(n)
	return n, nil
}

// Seek 实现 io.Seeker
func (s *AUStream) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = s.offset + offset
	case io.SeekEnd:
		next = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative position: %d", next)
	}
	s.offset = next
	return next, nil
}

// Length PCM 数据总字节数
func (s *AUStream) Length() int64 {
	return int64(len(s.data))
}

// SampleRate 原始采样率
func (s *AUStream) SampleRate() int {
	return s.sampleRate
}
