package service

import (
	"os"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// Catalogue — внешний каталог инструментов (assets.json).
// Формат файла: {"BTCUSDT": {"exchanges": ["BINANCE"], "market_open": "4h"}, ...}
type Catalogue struct {
	path string

	mu     sync.Mutex
	assets map[string]models.Asset
	loaded bool
}

func NewCatalogue(path string) *Catalogue {
	return &Catalogue{path: path}
}

func (c *Catalogue) loadLocked() error {
	if c.loaded {
		return nil
	}

	b, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.assets = map[string]models.Asset{}
			c.loaded = true
			return nil
		}
		return errors.Wrapf(err, "read %s", c.path)
	}

	raw := map[string]models.Asset{}
	if err := sonic.Unmarshal(b, &raw); err != nil {
		return errors.Wrapf(err, "decode %s", c.path)
	}

	for name, a := range raw {
		a.Name = name
		raw[name] = a
	}

	c.assets = raw
	c.loaded = true
	return nil
}

// Get — инструмент по тикеру (без биржи).
func (c *Catalogue) Get(symbol string) (models.Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(); err != nil {
		return models.Asset{}, false
	}
	a, ok := c.assets[symbol]
	return a, ok
}

// Validate проверяет пару "EXCHANGE:SYMBOL" до создания сессии:
// инструмент должен быть в каталоге, биржа — в его списке.
func (c *Catalogue) Validate(symbolID string) error {
	exchange, symbol, ok := strings.Cut(symbolID, ":")
	if !ok || exchange == "" || symbol == "" {
		return errors.Errorf("malformed symbol %q, want EXCHANGE:SYMBOL", symbolID)
	}

	a, found := c.Get(symbol)
	if !found {
		return errors.Errorf("unknown instrument %q", symbol)
	}
	for _, e := range a.Exchanges {
		if e == exchange {
			return nil
		}
	}
	return errors.Errorf("instrument %q is not listed on %q", symbol, exchange)
}
