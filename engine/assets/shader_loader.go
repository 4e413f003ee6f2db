package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadShader reads a GLSL file into a null-terminated string for OpenGL.
func (l *Loader) LoadShader(name string) (string, error) {
	path := filepath.Join(l.Root, "shaders", name)
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	if len(b) == 0 || b[len(b)-1] != 0 {
		b = append(b, 0)
	}
	return string(b), nil
}

// ShaderOverride returns the shader called name, or "" when the asset root
// does not provide one.
func (l *Loader) ShaderOverride(name string) (string, error) {
	src, err := l.LoadShader(name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return src, err
}
