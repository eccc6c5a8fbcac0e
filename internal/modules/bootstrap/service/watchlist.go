package service

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Entry — строка вотчлиста: один символ, несколько таймфреймов.
type Entry struct {
	Symbol     string   `yaml:"symbol"`
	Timeframes []string `yaml:"timeframes"`
}

type Watchlist struct {
	path string
}

func NewWatchlist(path string) *Watchlist {
	return &Watchlist{path: path}
}

// Load читает configs/watchlist.yaml. Отсутствие файла — пустой вотчлист,
// подписки тогда приходят только через runtime-API.
func (w *Watchlist) Load() ([]Entry, error) {
	b, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", w.path)
	}

	var doc struct {
		Watchlist []Entry `yaml:"watchlist"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode %s", w.path)
	}
	return doc.Watchlist, nil
}
