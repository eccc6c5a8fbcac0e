package notify

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"signal_bot/pkg/logger"
)

// Dispatcher рассылает один алерт по всем настроенным endpoint'ам.
// Отправка строго последовательная, после каждой попытки пауза pace —
// уважение к рейт-лимитам получателей. Ошибка одного endpoint'а логируется
// и не мешает остальным.
type Dispatcher struct {
	src    EndpointSource
	sender Sender
	pace   time.Duration
}

func NewDispatcher(src EndpointSource, sender Sender, pace time.Duration) *Dispatcher {
	if pace <= 0 {
		pace = time.Second
	}
	return &Dispatcher{
		src:    src,
		sender: sender,
		pace:   pace,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, content string) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "notify.dispatch")
	defer span.Finish()

	endpoints, err := d.src.Endpoints()
	if err != nil {
		logger.Error("dispatch: read endpoints: %v", err)
		return
	}

	for _, url := range endpoints {
		if err := d.sender.Send(ctx, url, content); err != nil {
			logger.Error("dispatch to %s: %v", url, err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(d.pace):
		}
	}
}
