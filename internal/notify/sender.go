package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// Sender доставляет готовый текст алерта на один endpoint.
type Sender interface {
	Send(ctx context.Context, url, content string) error
}

// DiscordSender — discord webhook. Текст заворачивается в diff-блок,
// чтобы +/- префиксы красились в зелёный/красный.
type DiscordSender struct {
	http *http.Client
}

func NewDiscordSender() *DiscordSender {
	return &DiscordSender{
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DiscordSender) Send(ctx context.Context, url, content string) error {
	body, err := sonic.Marshal(map[string]string{
		"content": fmt.Sprintf("```diff\n%s\n```", content),
	})
	if err != nil {
		return errors.Wrap(err, "marshal webhook body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "post webhook")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
