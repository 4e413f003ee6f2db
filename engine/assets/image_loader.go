// Package assets loads textures and shaders from an asset root.
package assets

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hubastard/grove/engine/core"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Loader resolves asset names under Root: textures live in textures/ and
// shaders in shaders/.
type Loader struct {
	Root string
}

func NewLoader(root string) *Loader { return &Loader{Root: root} }

// LoadImage returns width, height, and tightly packed RGBA8 pixels
// (row-major, top-left origin). PNG, BMP and WebP are recognised.
func (l *Loader) LoadImage(name string) (w, h int, rgba []byte, err error) {
	path := filepath.Join(l.Root, "textures", name)
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode image %q: %w", path, err)
	}

	rgbaImg := imageToRGBA(img)
	w, h = rgbaImg.Bounds().Dx(), rgbaImg.Bounds().Dy()

	// repack in tight rows (stride == 4*w)
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		row := rgbaImg.Pix[y*rgbaImg.Stride:]
		copy(out[y*w*4:(y+1)*w*4], row[:w*4])
	}
	return w, h, out, nil
}

// LoadTexture decodes an image and uploads it through tf with linear
// filtering and clamped edges.
func (l *Loader) LoadTexture(tf core.TextureFactory, name string) (core.Texture, error) {
	w, h, px, err := l.LoadImage(name)
	if err != nil {
		return nil, err
	}
	tex, err := tf.CreateTexture(core.TextureDesc{
		Width: w, Height: h,
		Format:    core.TextureRGBA8,
		Pixels:    px,
		MinFilter: "linear", MagFilter: "linear",
		WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", name, err)
	}
	return tex, nil
}

func imageToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
