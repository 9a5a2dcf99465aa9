package assets

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"burgerstack/internal/download"
	"burgerstack/internal/mesh"
)

// Loader fetches and decodes the model at source.
type Loader interface {
	Load(ctx context.Context, source string) (*mesh.Node, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, source string) (*mesh.Node, error)

func (f LoaderFunc) Load(ctx context.Context, source string) (*mesh.Node, error) {
	return f(ctx, source)
}

// FSLoader reads GLB files from a file system, e.g. os.DirFS("assets") or an embed.FS.
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) Load(ctx context.Context, source string) (*mesh.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.FS, source)
	if err != nil {
		return nil, err
	}
	return mesh.Decode(bytes.NewReader(data))
}

// HTTPLoader fetches GLB files relative to BaseURL. When CacheDir is set the files are also
// kept on disk and later loads read them from there.
type HTTPLoader struct {
	BaseURL  string
	Client   *http.Client
	CacheDir string
}

func (l HTTPLoader) Load(ctx context.Context, source string) (*mesh.Node, error) {
	url := strings.TrimSuffix(l.BaseURL, "/") + "/" + strings.TrimPrefix(source, "/")
	if l.CacheDir == "" {
		data, err := download.Fetch(ctx, l.Client, url)
		if err != nil {
			return nil, err
		}
		return mesh.Decode(bytes.NewReader(data))
	}
	path, err := download.Save(ctx, l.Client, url, l.CacheDir)
	if err != nil {
		return nil, err
	}
	n, err := FSLoader{FS: os.DirFS(l.CacheDir)}.Load(ctx, download.FileName(url))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
