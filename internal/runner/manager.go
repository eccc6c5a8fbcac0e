package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
	assets "signal_bot/internal/modules/assets/service"
	"signal_bot/internal/modules/config"
	healthsvc "signal_bot/internal/modules/health/service"
	historysvc "signal_bot/internal/modules/history/service"
	strategysvc "signal_bot/internal/modules/strategy/service"
	tv "signal_bot/internal/modules/tradingview/service"
	"signal_bot/internal/notify"
	"signal_bot/pkg/logger"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, content string)
}

// Manager владеет живыми сессиями: одна подписка symbol/timeframe — одно
// ws-соединение и один воркер. Новые сессии уходят в intake-канал,
// диспетчер снимает их блокирующим приёмом.
type Manager struct {
	cfg       *config.Config
	catalogue *assets.Catalogue
	plans     []strategysvc.Plan
	history   historysvc.Store
	disp      Dispatcher
	n         notify.Notifier
	state     *healthsvc.State
	loc       *time.Location

	mu       sync.Mutex
	sessions map[string]*tv.Client

	intake chan *tv.Client
}

func NewManager(
	cfg *config.Config,
	catalogue *assets.Catalogue,
	plans []strategysvc.Plan,
	history historysvc.Store,
	disp Dispatcher,
	n notify.Notifier,
	state *healthsvc.State,
) (*Manager, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "load timezone %q", cfg.Timezone)
	}

	return &Manager{
		cfg:       cfg,
		catalogue: catalogue,
		plans:     plans,
		history:   history,
		disp:      disp,
		n:         n,
		state:     state,
		loc:       loc,
		sessions:  make(map[string]*tv.Client),
		intake:    make(chan *tv.Client, cfg.MaxSessions),
	}, nil
}

func sessionKey(symbolID string, interval models.Interval) string {
	return fmt.Sprintf("%s_%s", symbolID, interval.Label())
}

// Subscribe валидирует пару до создания любого состояния и ставит сессию
// в очередь. За потолком сессий — capacity error, а не молчаливый дроп.
func (m *Manager) Subscribe(symbolID, timeframe string) error {
	interval, ok := models.IntervalFromLabel(timeframe)
	if !ok {
		return errors.Errorf("unsupported timeframe %q", timeframe)
	}
	if err := m.catalogue.Validate(symbolID); err != nil {
		return err
	}

	key := sessionKey(symbolID, interval)

	m.mu.Lock()
	if _, exists := m.sessions[key]; exists {
		m.mu.Unlock()
		return errors.Errorf("session %s already running", key)
	}
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return errors.Errorf("session capacity exhausted (%d)", m.cfg.MaxSessions)
	}

	client := tv.NewClient(symbolID, interval, m.loc, m.cfg.CandleCount)
	m.sessions[key] = client
	m.mu.Unlock()

	m.intake <- client
	return nil
}

// Unsubscribe закрывает сессию. Закрытие финальное: реконнектов больше
// не будет.
func (m *Manager) Unsubscribe(symbolID, timeframe string) error {
	interval, ok := models.IntervalFromLabel(timeframe)
	if !ok {
		return errors.Errorf("unsupported timeframe %q", timeframe)
	}
	key := sessionKey(symbolID, interval)

	m.mu.Lock()
	client, exists := m.sessions[key]
	if !exists {
		m.mu.Unlock()
		return errors.Errorf("session %s is not running", key)
	}
	delete(m.sessions, key)
	m.mu.Unlock()

	client.Close()
	m.n.Sendf("⏹ unsubscribed %s", key)
	return nil
}

// remove снимает запись только если она всё ещё про этого клиента: после
// Unsubscribe+Subscribe по тому же ключу живёт уже новая сессия, и отставший
// воркер не должен её выселять.
func (m *Manager) remove(key string, client *tv.Client) {
	m.mu.Lock()
	if m.sessions[key] == client {
		delete(m.sessions, key)
	}
	m.mu.Unlock()
}

// Active — число живых сессий (для health).
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Start — цикл диспетчера: блокирующий приём из intake, завершение по ctx.
func (m *Manager) Start(ctx context.Context) {
	m.state.SetReady(true)
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-m.intake:
			go m.runSession(ctx, client)
		}
	}
}

// runSession — воркер сессии: живёт, пока клиент стримит. Весь pipeline
// одной сессии крутится здесь же, последовательно, батч за батчем.
func (m *Manager) runSession(ctx context.Context, client *tv.Client) {
	meta := client.Meta()
	key := sessionKey(meta.SymbolID, meta.Interval)
	logger.Info("session %s started", key)
	m.n.Sendf("▶️ subscribed %s", key)

	go client.Run(ctx)

	for batch := range client.Batches() {
		m.onBatch(ctx, client, batch)
	}

	m.remove(key, client)
	logger.Info("session %s finished", key)
}

// CloseAll — терминальное закрытие всех сессий при остановке процесса.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	clients := make([]*tv.Client, 0, len(m.sessions))
	for _, c := range m.sessions {
		clients = append(clients, c)
	}
	m.sessions = make(map[string]*tv.Client)
	m.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}
