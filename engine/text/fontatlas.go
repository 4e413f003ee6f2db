package text

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/hubastard/grove/engine/core"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type Glyph struct {
	Rune     rune
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // top bearing in pixels (distance from baseline to glyph top)
	W, H     int     // glyph bitmap size
	U0, V0   float32 // UVs in atlas
	U1, V1   float32
}

// Font is a rasterized face: glyph metrics plus one atlas texture holding
// every glyph as white with alpha coverage.
type Font struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Kerning                  map[rune]map[rune]float32
	Texture                  core.Texture
	AtlasW, AtlasH           int
	Face                     font.Face
	closeFace                func()
}

func (f *Font) Close() {
	if f != nil && f.closeFace != nil {
		f.closeFace()
		f.closeFace = nil
	}
}

// LineHeight is the baseline-to-baseline distance.
func (f *Font) LineHeight() float32 { return f.Ascent - f.Descent + f.LineGap }

func (f *Font) kern(a, b rune) float32 {
	if a < 0 {
		return 0
	}
	return f.Kerning[a][b]
}

// LoadTTF reads a TrueType file and builds its atlas with tf.
func LoadTTF(tf core.TextureFactory, path string, sizePx float32) (*Font, error) {
	ttfData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return Parse(tf, ttfData, sizePx)
}

// Default builds the Go Regular face, which ships with x/image.
func Default(tf core.TextureFactory, sizePx float32) (*Font, error) {
	return Parse(tf, goregular.TTF, sizePx)
}

// Parse builds a glyph atlas for Latin-1 from TrueType data.
func Parse(tf core.TextureFactory, ttfData []byte, sizePx float32) (*Font, error) {
	ft, err := opentype.Parse(ttfData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}

	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	lineGap := float32(m.Height.Round()) - ascent + descent

	type meas struct {
		r      rune
		w, h   int
		adv    float32
		bx, by float32
	}
	var measure []meas
	for rr := rune(32); rr <= rune(255); rr++ {
		br, adv, ok := face.GlyphBounds(rr)
		if !ok {
			continue
		}
		measure = append(measure, meas{
			r:   rr,
			w:   (br.Max.X - br.Min.X).Round(),
			h:   (br.Max.Y - br.Min.Y).Round(),
			adv: float32(adv.Round()),
			bx:  float32(br.Min.X.Round()),
			by:  float32(-br.Min.Y.Round()), // distance from baseline to top
		})
	}

	// Shelf packer. Start at 256^2 and grow until everything fits.
	const padding = 4
	const maxAtlas = 4096
	atlasSize := 256
	var pos map[rune]image.Point
	for {
		x, y, rowH := padding, padding, 0
		fits := true
		pos = make(map[rune]image.Point, len(measure))

		for _, g := range measure {
			if g.w == 0 || g.h == 0 {
				continue
			}
			if g.w+padding*2 > atlasSize || g.h+padding*2 > atlasSize {
				fits = false
				break
			}
			if x+g.w+padding > atlasSize {
				x = padding
				y += rowH + padding
				rowH = 0
			}
			if y+g.h+padding > atlasSize {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + padding
			rowH = max(rowH, g.h)
		}

		if fits {
			break
		}
		atlasSize *= 2
		if atlasSize > maxAtlas {
			face.Close()
			return nil, fmt.Errorf("font atlas too large (>%d)", maxAtlas)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.RGBA{}}, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
	}

	glyphs := make(map[rune]Glyph, len(measure))
	for _, g := range measure {
		glyph := Glyph{
			Rune: g.r, Advance: g.adv,
			BearingX: g.bx, BearingY: g.by,
			W: g.w, H: g.h,
		}
		if g.w > 0 && g.h > 0 {
			p := pos[g.r]
			// the drawer's dot sits on the baseline, shifted left by the bearing
			drawer.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
			drawer.DrawString(string(g.r))

			glyph.U0 = float32(p.X) / float32(atlasSize)
			glyph.V0 = float32(p.Y) / float32(atlasSize)
			glyph.U1 = float32(p.X+g.w) / float32(atlasSize)
			glyph.V1 = float32(p.Y+g.h) / float32(atlasSize)
		}
		glyphs[g.r] = glyph
	}

	kerning := make(map[rune]map[rune]float32)
	for _, a := range measure {
		for _, b := range measure {
			if dx := face.Kern(a.r, b.r); dx != 0 {
				if kerning[a.r] == nil {
					kerning[a.r] = make(map[rune]float32)
				}
				kerning[a.r][b.r] = float32(dx.Round())
			}
		}
	}

	tex, err := tf.CreateTexture(core.TextureDesc{
		Width: atlasSize, Height: atlasSize,
		Format:    core.TextureRGBA8,
		Pixels:    dst.Pix,
		MinFilter: "nearest",
		MagFilter: "nearest",
		WrapU:     "clamp",
		WrapV:     "clamp",
	})
	if err != nil {
		face.Close()
		return nil, fmt.Errorf("upload font atlas: %w", err)
	}

	return &Font{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs:    glyphs,
		Kerning:   kerning,
		Texture:   tex,
		AtlasW:    atlasSize,
		AtlasH:    atlasSize,
		Face:      face,
		closeFace: func() { _ = face.Close() },
	}, nil
}
