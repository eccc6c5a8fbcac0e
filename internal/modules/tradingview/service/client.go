package service

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

const (
	wsURL    = "wss://data.tradingview.com/socket.io/websocket"
	wsOrigin = "https://data.tradingview.com"

	heartbeatMarker = "~h~"

	// пауза перед переподключением после аварийного обрыва
	reconnectDelay = 5 * time.Second
)

// Порядок рукопожатия — фиксированный контракт протокола, не менять.
var quoteFields = []any{
	"ch", "chp", "current_session", "description", "local_description",
	"language", "exchange", "fractional", "is_tradable", "lp", "lp_time",
	"minmov", "minmove2", "original_name", "pricescale", "pro_name",
	"short_name", "type", "update_mode", "volume", "currency_code",
	"rchp", "rtc",
}

var (
	priceScaleRe = regexp.MustCompile(`"pricescale":(\d+)`)
	seriesRe     = regexp.MustCompile(`"s":(\[.*?\}\])`)
)

type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client держит одну логическую подписку symbol/interval как бесконечный
// цикл connect → stream → reconnect. Наружу отдаёт канал декодированных
// батчей свечей; единственный потребитель читает их строго по порядку.
type Client struct {
	symbolID     string
	interval     models.Interval
	loc          *time.Location
	totalCandles int

	dial           func(ctx context.Context) (wsConn, error)
	reconnectDelay time.Duration

	mu     sync.Mutex
	conn   wsConn
	closed bool

	priceScale atomic.Int64

	buffer *CandleBuffer
	out    chan []models.Candle
}

func NewClient(symbolID string, interval models.Interval, loc *time.Location, totalCandles int) *Client {
	c := &Client{
		symbolID:       symbolID,
		interval:       interval,
		loc:            loc,
		totalCandles:   totalCandles,
		reconnectDelay: reconnectDelay,
		buffer:         NewCandleBuffer(totalCandles),
		out:            make(chan []models.Candle, 1),
	}
	dialer := &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	c.dial = func(ctx context.Context) (wsConn, error) {
		conn, _, err := dialer.DialContext(ctx, wsURL, http.Header{"Origin": {wsOrigin}})
		return conn, err
	}
	return c
}

// Batches — поток снапшотов буфера, по одному на каждый принятый кадр данных.
func (c *Client) Batches() <-chan []models.Candle { return c.out }

// PriceScale — тиковая сетка инструмента; 0 пока сервер её не сообщил.
func (c *Client) PriceScale() int { return int(c.priceScale.Load()) }

func (c *Client) Meta() models.SessionMeta {
	return models.SessionMeta{
		SymbolID:   c.symbolID,
		Interval:   c.interval,
		PriceScale: c.PriceScale(),
	}
}

// Close — идемпотентное финальное закрытие: гасит текущее соединение и
// запрещает дальнейшие реконнекты.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// setConn запоминает активное соединение, чтобы Close() мог его оборвать.
// Если нас уже закрыли — соединение не переживёт постановку.
func (c *Client) setConn(conn wsConn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		_ = conn.Close()
		return false
	}
	c.conn = conn
	return true
}

// Run работает до явного Close() или отмены ctx. Аварийный обрыв — пауза
// reconnectDelay и новый цикл с тем же буфером (история сольётся по ключу
// времени). Количество попыток не ограничено.
func (c *Client) Run(ctx context.Context) {
	defer close(c.out)

	for {
		if c.isClosed() || ctx.Err() != nil {
			return
		}

		if err := c.runOnce(ctx); err != nil {
			logger.Error("[TV] %s %s: %v", c.symbolID, c.interval, err)
		}

		if c.isClosed() || ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return errors.Wrap(err, "dial")
	}
	if !c.setConn(conn) {
		return nil
	}

	if err := c.handshake(conn); err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "handshake")
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			_ = conn.Close()
			if c.isClosed() {
				return nil
			}
			return errors.Wrap(err, "read")
		}
		c.handleMessage(ctx, conn, string(raw))
	}
}

func (c *Client) handshake(conn wsConn) error {
	quoteSession := generateSession("qs_")
	chartSession := generateSession("cs_")

	symbolSpec, err := sonic.Marshal(struct {
		Symbol     string `json:"symbol"`
		Adjustment string `json:"adjustment"`
		Session    string `json:"session"`
	}{c.symbolID, "splits", "extended"})
	if err != nil {
		return err
	}

	steps := []wireMessage{
		{M: "set_auth_token", P: []any{"unauthorized_user_token"}},
		{M: "chart_create_session", P: []any{chartSession, ""}},
		{M: "quote_create_session", P: []any{quoteSession}},
		{M: "quote_set_fields", P: append([]any{quoteSession}, quoteFields...)},
		{M: "resolve_symbol", P: []any{chartSession, "symbol_1", "=" + string(symbolSpec)}},
		{M: "create_series", P: []any{chartSession, "s1", "s1", "symbol_1", string(c.interval), c.totalCandles}},
		{M: "set_future_tickmarks_mode", P: []any{chartSession, "full_single_session"}},
	}

	for _, s := range steps {
		msg, err := createMessage(s.M, s.P)
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) handleMessage(ctx context.Context, conn wsConn, raw string) {
	for _, payload := range splitFrames(raw) {
		// heartbeat эхом обратно, иначе сервер рвёт соединение
		if len(payload) >= len(heartbeatMarker) && payload[:len(heartbeatMarker)] == heartbeatMarker {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(prependHeader(payload)))
		}
	}

	// pricescale ловим один раз из любого сообщения; до него кадры данных
	// пропускаем — стратегиям нечем округлять
	if c.priceScale.Load() == 0 {
		m := priceScaleRe.FindStringSubmatch(raw)
		if m == nil {
			return
		}
		scale, err := strconv.Atoi(m[1])
		if err != nil {
			return
		}
		c.priceScale.Store(int64(scale))
	}

	matches := seriesRe.FindAllStringSubmatch(raw, -1)
	if matches == nil {
		return
	}

	var items []struct {
		V []float64 `json:"v"`
	}
	if err := sonic.UnmarshalString(matches[len(matches)-1][1], &items); err != nil {
		return
	}

	for _, it := range items {
		c.buffer.Upsert(it.V)
	}

	select {
	case c.out <- c.buffer.Candles(c.loc):
	case <-ctx.Done():
	}
}
