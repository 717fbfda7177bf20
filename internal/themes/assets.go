package themes

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"strings"
)

//go:embed static
var static embed.FS

// BuiltinAssets returns the stylesheet and script shipped with the binary.
func BuiltinAssets() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Assets returns the file system served under AssetPrefix: the theme
// directory first, then the built-in files.
func (s *Selector) Assets() fs.FS {
	if dir := s.Dir(); dir != "" {
		return Layered{os.DirFS(dir), BuiltinAssets()}
	}
	return BuiltinAssets()
}

// Layered serves each name from the first layer that has it.
type Layered []fs.FS

func (l Layered) Open(name string) (fs.File, error) {
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	var firstErr error
	for _, layer := range l {
		if layer == nil {
			continue
		}
		file, err := layer.Open(name)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
