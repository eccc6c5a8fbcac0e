package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

type staticEndpoints []string

func (s staticEndpoints) Endpoints() ([]string, error) { return s, nil }

type recordingSender struct {
	urls    []string
	content []string
	failOn  string
}

func (r *recordingSender) Send(_ context.Context, url, content string) error {
	r.urls = append(r.urls, url)
	r.content = append(r.content, content)
	if url == r.failOn {
		return errors.New("boom")
	}
	return nil
}

func TestDispatcherHitsEveryEndpoint(t *testing.T) {
	sender := &recordingSender{failOn: "http://two"}
	d := NewDispatcher(staticEndpoints{"http://one", "http://two", "http://three"}, sender, time.Millisecond)

	d.Dispatch(context.Background(), "Symbol: BTCUSDT")

	want := []string{"http://one", "http://two", "http://three"}
	if !reflect.DeepEqual(sender.urls, want) {
		t.Errorf("urls = %v, want %v (failed endpoint must not stop the rest)", sender.urls, want)
	}
	for _, c := range sender.content {
		if c != "Symbol: BTCUSDT" {
			t.Errorf("content = %q", c)
		}
	}
}

func TestDispatcherPacesBetweenSends(t *testing.T) {
	sender := &recordingSender{}
	pace := 30 * time.Millisecond
	d := NewDispatcher(staticEndpoints{"http://one", "http://two"}, sender, pace)

	start := time.Now()
	d.Dispatch(context.Background(), "x")

	// пауза после каждой попытки, включая последнюю
	if elapsed := time.Since(start); elapsed < 2*pace {
		t.Errorf("dispatch took %v, want at least %v", elapsed, 2*pace)
	}
}

func TestDispatcherStopsOnContextCancel(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(staticEndpoints{"http://one", "http://two"}, sender, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Dispatch(ctx, "x")
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not stop after cancel")
	}
	if len(sender.urls) != 1 {
		t.Errorf("sent to %v, want only the first endpoint", sender.urls)
	}
}

func TestFileEndpointsRereadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webhooks.txt")
	src := NewFileEndpoints(path)

	// файла нет — пустой список без ошибки
	urls, err := src.Endpoints()
	if err != nil || urls != nil {
		t.Fatalf("missing file: (%v, %v), want (nil, nil)", urls, err)
	}

	os.WriteFile(path, []byte("http://one\n\n  http://two  \n"), 0o644)
	urls, err = src.Endpoints()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"http://one", "http://two"}; !reflect.DeepEqual(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}

	// правка файла подхватывается без рестарта
	os.WriteFile(path, []byte("http://three\n"), 0o644)
	urls, _ = src.Endpoints()
	if want := []string{"http://three"}; !reflect.DeepEqual(urls, want) {
		t.Errorf("after rewrite urls = %v, want %v", urls, want)
	}
}

func TestDiscordSenderWrapsInDiffBlock(t *testing.T) {
	var body string
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, r.ContentLength)
		r.Body.Read(b)
		body = string(b)
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordSender()
	if err := s.Send(context.Background(), srv.URL, "+ alert line"); err != nil {
		t.Fatal(err)
	}

	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if !strings.Contains(body, "```diff\\n+ alert line\\n```") {
		t.Errorf("body = %q, want diff-fenced content", body)
	}
}

func TestDiscordSenderRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewDiscordSender()
	if err := s.Send(context.Background(), srv.URL, "x"); err == nil {
		t.Error("expected error on 429")
	}
}
