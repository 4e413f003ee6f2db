package colors

import "testing"

func TestRGBA8(t *testing.T) {
	tests := []struct {
		name string
		in   Color
		want [4]byte
	}{
		{"white", White, [4]byte{255, 255, 255, 255}},
		{"transparent", Transparent, [4]byte{0, 0, 0, 0}},
		{"half", Color{0.5, 0.5, 0.5, 0.5}, [4]byte{128, 128, 128, 128}},
		{"clamped", Color{-1, 2, 0, 1}, [4]byte{0, 255, 0, 255}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.RGBA8(); got != tc.want {
				t.Errorf("RGBA8() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScaleKeepsAlpha(t *testing.T) {
	got := Color{0.5, 0.8, 1, 0.25}.Scale(2)
	want := Color{1, 1, 1, 0.25}
	if got != want {
		t.Errorf("Scale(2) = %v, want %v", got, want)
	}
}
