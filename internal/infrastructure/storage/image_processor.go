package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Image variants: tên -> cạnh dài tối đa (px)
var imageVariants = map[string]int{
	"large":     1200,
	"thumbnail": 300,
}

type ImageProcessor struct {
	MaxSize int64 // bytes
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: 5 * 1024 * 1024}
}

// ValidateImage chỉ nhận JPEG/PNG <= MaxSize
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// ProcessImage resize theo imageVariants, encode JPEG quality 85
func (p *ImageProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	variants := make(map[string][]byte, len(imageVariants))
	for name, size := range imageVariants {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)
		b := new(bytes.Buffer)
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", name, err)
		}
		variants[name] = b.Bytes()
	}
	return variants, nil
}
