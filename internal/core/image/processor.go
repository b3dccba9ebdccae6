package image

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// 長邊超過此尺寸時縮小
const defaultMaxDimension = 2048

// Processor 圖片縮放
type Processor struct {
	maxSize int
}

// NewProcessor 創建圖片處理器
func NewProcessor(maxSize int) *Processor {
	return &Processor{
		maxSize: maxSize,
	}
}

// Resize 等比例縮小到長邊不超過 maxSize，較小的圖片原樣回傳
func (p *Processor) Resize(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if p.maxSize <= 0 || (w <= p.maxSize && h <= p.maxSize) {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = p.maxSize
		nh = max(1, h*p.maxSize/w)
	} else {
		nh = p.maxSize
		nw = max(1, w*p.maxSize/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
