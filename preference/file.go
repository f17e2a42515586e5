package preference

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	apperrors "github.com/kbukum/extkit/errors"
)

// File is a Store persisted to a YAML, JSON or TOML file, chosen by the
// file extension. Every SetString writes the whole file. Keys are
// case-insensitive and dots address nested maps.
type File struct {
	mu   sync.Mutex
	path string
	v    *viper.Viper
}

// NewFile opens the store at path. A missing file is created on first write.
func NewFile(path string) (*File, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "yaml", "yml", "json", "toml":
	default:
		return nil, apperrors.InvalidInput("preferences.file", fmt.Sprintf("unsupported extension %q", ext))
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(ext)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.PersistenceFailed("read", path, err)
		}
	}
	return &File{path: path, v: v}, nil
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) GetString(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.v.GetString(key), nil
}

func (f *File) SetString(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.v.Set(key, value)
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return apperrors.PersistenceFailed("write", key, err)
	}
	if err := f.v.WriteConfigAs(f.path); err != nil {
		return apperrors.PersistenceFailed("write", key, err)
	}
	return nil
}

var _ Store = (*File)(nil)
