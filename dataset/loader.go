package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wyfcoding/naivebayes/cache"
	"github.com/wyfcoding/naivebayes/logging"
	"github.com/wyfcoding/naivebayes/storage"
	"github.com/wyfcoding/naivebayes/xerrors"
)

// DefaultDataDir 是按名称加载数据集时的默认目录。
const DefaultDataDir = "data"

// Loader 按资源名打开数据文件。
type Loader interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// LoaderFunc 允许普通函数充当 Loader。
type LoaderFunc func(ctx context.Context, name string) (io.ReadCloser, error)

// Open 实现 Loader。
func (f LoaderFunc) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return f(ctx, name)
}

// FileLoader 从本地目录读取数据文件。
type FileLoader struct {
	Dir string
}

// Open 打开 Dir 下的文件，不允许越出 Dir。
func (l FileLoader) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	dir := l.Dir
	if dir == "" {
		dir = DefaultDataDir
	}
	if !filepath.IsLocal(name) {
		return nil, xerrors.ErrInvalidInput.Derive("resource name %q escapes data dir", name)
	}
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, xerrors.ErrDatasetNotFound.Derive("%s", path).WithCause(err)
		}
		return nil, xerrors.WrapInternal(err, "open dataset file")
	}
	logging.Debug(ctx, "dataset file opened", "path", path)
	return f, nil
}

// ObjectLoader 从对象存储读取数据文件。
type ObjectLoader struct {
	Storage storage.Storage
	Prefix  string // 对象名前缀，例如 "datasets/"
}

// Open 实现 Loader。
func (l ObjectLoader) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if l.Storage == nil {
		return nil, xerrors.ErrSourceUnavailable.Derive("object storage is nil")
	}
	object := l.Prefix + name
	ok, err := l.Storage.Exists(ctx, object)
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.ErrUnavailable, "stat dataset object")
	}
	if !ok {
		return nil, xerrors.ErrDatasetNotFound.Derive("object %s", object)
	}
	logging.Debug(ctx, "dataset object opened", "object", object)
	return l.Storage.Download(ctx, object)
}

// CachedLoader 在任意 Loader 前加一层字节缓存。
type CachedLoader struct {
	Loader Loader
	Cache  cache.Cache
}

// Open 先查缓存，未命中时读穿并回填。
func (l CachedLoader) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if data, err := l.Cache.Get(ctx, name); err == nil {
		logging.Debug(ctx, "dataset cache hit", "name", name)
		return io.NopCloser(bytes.NewReader(data)), nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logging.Warn(ctx, "dataset cache read failed", "name", name, "error", err)
	}

	rc, err := l.Loader.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, xerrors.WrapInternal(err, "read dataset")
	}
	if err := l.Cache.Set(ctx, name, data); err != nil {
		logging.Warn(ctx, "dataset cache write failed", "name", name, "error", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// FromCSV 解析 CSV 文本并构造数据集。
func FromCSV(text string, opts ...Option) (*Dataset, error) {
	rows, err := ParseCSV(text)
	if err != nil {
		return nil, err
	}
	return New(rows, opts...)
}

// Load 通过 loader 读取 <name>.csv 并构造数据集，数据集名称默认取 name。
// header 为 true 时首行作为属性名。
func Load(ctx context.Context, loader Loader, name string, header bool, opts ...Option) (*Dataset, error) {
	resource := name
	if !strings.HasSuffix(resource, ".csv") {
		resource += ".csv"
	}
	rc, err := loader.Open(ctx, resource)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := ReadCSV(rc)
	if err != nil {
		return nil, err
	}

	base := []Option{WithName(strings.TrimSuffix(name, ".csv")), WithSource(resource)}
	if header {
		names, body, err := SplitHeader(rows)
		if err != nil {
			return nil, err
		}
		rows = body
		base = append(base, WithAttrNames(names))
	}
	return New(rows, append(base, opts...)...)
}
