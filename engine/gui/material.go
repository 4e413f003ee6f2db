package gui

import (
	"github.com/hubastard/grove/engine/colors"
	"github.com/hubastard/grove/engine/core"
)

type MaterialID uint32

// Material is what a render group is drawn with. Groups batch together
// only when their IDs match.
type Material struct {
	ID      MaterialID
	Texture core.Texture // nil draws the tint as a solid color
	Tint    colors.Color
}

type materialKey struct {
	tex  core.Texture
	tint colors.Color
}

// Materials hands out one stable ID per (texture, tint) pair.
type Materials struct {
	byKey map[materialKey]Material
	next  MaterialID
}

func NewMaterials() *Materials {
	return &Materials{byKey: make(map[materialKey]Material), next: 1}
}

func (m *Materials) Sprite(tex core.Texture, tint colors.Color) Material {
	k := materialKey{tex: tex, tint: tint}
	if mat, ok := m.byKey[k]; ok {
		return mat
	}
	mat := Material{ID: m.next, Texture: tex, Tint: tint}
	m.next++
	m.byKey[k] = mat
	return mat
}

func (m *Materials) Solid(c colors.Color) Material { return m.Sprite(nil, c) }

func (m *Materials) Len() int { return len(m.byKey) }
