// Package utils 提供通用工具函数
package utils

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// ErrInvalidArgument 尺寸或缩放倍数无效
var ErrInvalidArgument = errors.New("utils: invalid argument")

// SliceSheet 把精灵表按行优先切成等大的帧
//
// 不足一整帧的右侧列和底部行会被忽略。
//
// 参数：
//   - sheet: 精灵表图片
//   - frameW, frameH: 单帧宽高（像素）
//
// 返回：
//   - []image.Image: 帧列表，索引 = 行 * 列数 + 列
//   - error: 帧尺寸无效或精灵表小于一帧
func SliceSheet(sheet image.Image, frameW, frameH int) ([]image.Image, error) {
	if sheet == nil || frameW <= 0 || frameH <= 0 {
		return nil, fmt.Errorf("%w: frame size %dx%d", ErrInvalidArgument, frameW, frameH)
	}
	bounds := sheet.Bounds()
	cols := bounds.Dx() / frameW
	rows := bounds.Dy() / frameH
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("%w: sheet %dx%d is smaller than one %dx%d frame", ErrInvalidArgument, bounds.Dx(), bounds.Dy(), frameW, frameH)
	}

	frames := make([]image.Image, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			min := bounds.Min.Add(image.Pt(col*frameW, row*frameH))
			rect := image.Rectangle{Min: min, Max: min.Add(image.Pt(frameW, frameH))}
			frames = append(frames, cropImage(sheet, rect))
		}
	}
	return frames, nil
}

// cropImage 复制 rect 区域为新的 RGBA 图片（原点归零）
func cropImage(src image.Image, rect image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst
}

// ScaleImage 最近邻整数缩放，保持像素风格
//
// factor > 0 放大 factor 倍，factor < 0 缩小 |factor| 倍，factor == 0 返回错误。
// 缩小后的边长至少为 1 像素。
func ScaleImage(src image.Image, factor int) (image.Image, error) {
	if src == nil || factor == 0 {
		return nil, fmt.Errorf("%w: scale factor %d", ErrInvalidArgument, factor)
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if factor > 0 {
		w, h = w*factor, h*factor
	} else {
		shrink := -factor
		w, h = max(w/shrink, 1), max(h/shrink, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst, nil
}

// ScaleFrames 对每一帧执行 ScaleImage
func ScaleFrames(frames []image.Image, factor int) ([]image.Image, error) {
	if factor == 1 {
		return frames, nil
	}
	scaled := make([]image.Image, len(frames))
	for i, frame := range frames {
		img, err := ScaleImage(frame, factor)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		scaled[i] = img
	}
	return scaled, nil
}

// ToEbitenImages 转为 Ebitengine 图片
func ToEbitenImages(frames []image.Image) []*ebiten.Image {
	images := make([]*ebiten.Image, len(frames))
	for i, frame := range frames {
		images[i] = ebiten.NewImageFromImage(frame)
	}
	return images
}
