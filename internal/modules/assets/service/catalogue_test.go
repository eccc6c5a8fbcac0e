package service

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogue(t *testing.T, data string) *Catalogue {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewCatalogue(path)
}

func TestCatalogueGet(t *testing.T) {
	c := writeCatalogue(t, `{
		"BTCUSDT": {"exchanges": ["BINANCE", "OKX"], "market_open": "7h"},
		"XAUUSD": {"exchanges": ["OANDA"], "market_open": "4h"}
	}`)

	a, ok := c.Get("BTCUSDT")
	if !ok {
		t.Fatal("BTCUSDT must be present")
	}
	if a.Name != "BTCUSDT" {
		t.Errorf("Name = %q", a.Name)
	}
	if a.OpenHour() != 7 {
		t.Errorf("OpenHour = %d, want 7", a.OpenHour())
	}

	a, _ = c.Get("XAUUSD")
	if a.OpenHour() != 4 {
		t.Errorf("XAUUSD OpenHour = %d, want 4", a.OpenHour())
	}

	if _, ok := c.Get("DOGEUSDT"); ok {
		t.Error("unknown symbol must not resolve")
	}
}

func TestCatalogueMissingFile(t *testing.T) {
	c := NewCatalogue(filepath.Join(t.TempDir(), "absent.json"))
	if _, ok := c.Get("BTCUSDT"); ok {
		t.Error("missing catalogue behaves as empty")
	}
	if err := c.Validate("BINANCE:BTCUSDT"); err == nil {
		t.Error("empty catalogue must reject everything")
	}
}

func TestCatalogueValidate(t *testing.T) {
	c := writeCatalogue(t, `{"BTCUSDT": {"exchanges": ["BINANCE", "OKX"], "market_open": "7h"}}`)

	tests := []struct {
		name     string
		symbolID string
		wantErr  bool
	}{
		{"listed exchange", "BINANCE:BTCUSDT", false},
		{"second exchange", "OKX:BTCUSDT", false},
		{"unlisted exchange", "KRAKEN:BTCUSDT", true},
		{"unknown symbol", "BINANCE:DOGEUSDT", true},
		{"no colon", "BTCUSDT", true},
		{"empty exchange", ":BTCUSDT", true},
		{"empty symbol", "BINANCE:", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Validate(tt.symbolID)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) = %v, wantErr %v", tt.symbolID, err, tt.wantErr)
			}
		})
	}
}
