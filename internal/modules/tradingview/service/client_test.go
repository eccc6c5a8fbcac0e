package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

type fakeConn struct {
	reads  chan string
	closed chan struct{}
	once   sync.Once

	mu     sync.Mutex
	writes []string
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reads:  make(chan string, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case msg, ok := <-f.reads:
		if !ok {
			return 0, nil, errors.New("abnormal close")
		}
		return 1, []byte(msg), nil
	case <-f.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, string(data))
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.writes))
	copy(out, f.writes)
	return out
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient("BINANCE:BTCUSDT", models.Interval1h, time.UTC, 300)
	c.reconnectDelay = 20 * time.Millisecond
	return c
}

func TestClientReconnectsAfterAbnormalClose(t *testing.T) {
	c := newTestClient(t)

	dials := make(chan *fakeConn, 8)
	c.dial = func(context.Context) (wsConn, error) {
		f := newFakeConn()
		close(f.reads) // мгновенный аварийный обрыв
		dials <- f
		return f, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	select {
	case <-dials:
	case <-time.After(time.Second):
		t.Fatal("no initial dial")
	}
	started := time.Now()

	// до истечения паузы реконнекта второго dial быть не должно
	select {
	case <-dials:
		t.Fatal("reconnect before delay elapsed")
	case <-time.After(5 * time.Millisecond):
	}

	select {
	case <-dials:
		if elapsed := time.Since(started); elapsed < 15*time.Millisecond {
			t.Errorf("reconnect after %v, want >= reconnect delay", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("no reconnect after abnormal close")
	}

	c.Close()
}

func TestClientCleanCloseIsTerminal(t *testing.T) {
	c := newTestClient(t)

	var mu sync.Mutex
	dialCount := 0
	connected := make(chan *fakeConn, 1)
	c.dial = func(context.Context) (wsConn, error) {
		mu.Lock()
		dialCount++
		mu.Unlock()
		f := newFakeConn()
		connected <- f
		return f, nil
	}

	done := make(chan struct{})
	go func() {
		c.Run(context.Background())
		close(done)
	}()

	select {
	case <-connected:
	case <-time.After(time.Second):
		t.Fatal("no dial")
	}

	c.Close()
	c.Close() // идемпотентно

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}

	// канал батчей закрыт, реконнектов не было
	if _, ok := <-c.Batches(); ok {
		t.Error("batch channel not drained/closed")
	}
	mu.Lock()
	if dialCount != 1 {
		t.Errorf("dials = %d, want 1 (no reconnect after clean close)", dialCount)
	}
	mu.Unlock()
}

func TestClientHandshakeOrder(t *testing.T) {
	c := newTestClient(t)

	f := newFakeConn()
	if err := c.handshake(f); err != nil {
		t.Fatalf("handshake: %v", err)
	}

	wantOrder := []string{
		"set_auth_token",
		"chart_create_session",
		"quote_create_session",
		"quote_set_fields",
		"resolve_symbol",
		"create_series",
		"set_future_tickmarks_mode",
	}

	writes := f.written()
	if len(writes) != len(wantOrder) {
		t.Fatalf("handshake writes = %d, want %d", len(writes), len(wantOrder))
	}
	for i, fn := range wantOrder {
		if !strings.Contains(writes[i], `"m":"`+fn+`"`) {
			t.Errorf("write %d = %q, want function %s", i, writes[i], fn)
		}
	}

	if !strings.Contains(writes[4], `\"adjustment\":\"splits\"`) &&
		!strings.Contains(writes[4], `"adjustment":"splits"`) {
		t.Errorf("resolve_symbol lacks splits adjustment: %q", writes[4])
	}
	if !strings.Contains(writes[5], `"60"`) {
		t.Errorf("create_series lacks interval: %q", writes[5])
	}
}

func TestClientEchoesHeartbeat(t *testing.T) {
	c := newTestClient(t)
	f := newFakeConn()

	c.handleMessage(context.Background(), f, "~m~5~m~~h~12")

	writes := f.written()
	if len(writes) != 1 || writes[0] != "~m~5~m~~h~12" {
		t.Fatalf("heartbeat echo = %v, want [~m~5~m~~h~12]", writes)
	}
}

func TestClientParsesScaleAndBars(t *testing.T) {
	c := newTestClient(t)
	f := newFakeConn()
	ctx := context.Background()

	// кадры данных до pricescale пропускаются
	series := `{"m":"timescale_update","p":["cs_x",{"s1":{"s":[{"i":0,"v":[60.0,1.0,2.0,0.5,1.5,10.0]}]}}]}`
	c.handleMessage(ctx, f, prependHeader(series))
	if c.PriceScale() != 0 {
		t.Fatalf("scale latched too early: %d", c.PriceScale())
	}
	select {
	case <-c.Batches():
		t.Fatal("batch emitted before pricescale known")
	default:
	}

	quote := `{"m":"qsd","p":["qs_x",{"n":"BINANCE:BTCUSDT","v":{"pricescale":100}}]}`
	c.handleMessage(ctx, f, prependHeader(quote))
	if c.PriceScale() != 100 {
		t.Fatalf("PriceScale = %d, want 100", c.PriceScale())
	}

	c.handleMessage(ctx, f, prependHeader(series))

	select {
	case batch := <-c.Batches():
		if len(batch) != 1 {
			t.Fatalf("batch len = %d, want 1", len(batch))
		}
		if batch[0].Close != 1.5 || batch[0].Time.Unix() != 60 {
			t.Errorf("bad candle %+v", batch[0])
		}
	case <-time.After(time.Second):
		t.Fatal("no batch after series frame")
	}

	if c.Meta().PriceScale != 100 {
		t.Errorf("Meta().PriceScale = %d, want 100", c.Meta().PriceScale)
	}
}
