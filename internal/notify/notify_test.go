package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/urlchecker/internal/domain"
)

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	texts  []string
	err    error
}

func (r *recordingNotifier) Send(_ context.Context, title, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	r.texts = append(r.texts, text)
	return r.err
}

func okResult(url string) domain.ProbeResult {
	code := 200
	ms := int64(5)
	return domain.ProbeResult{URL: url, StatusCode: &code, ResponseTimeMS: &ms, IP: "127.0.0.1"}
}

func TestFailureMessage(t *testing.T) {
	results := []domain.ProbeResult{
		okResult("https://ok.example"),
		domain.FailedResult("https://down.example", "connection refused"),
	}
	title, text, ok := FailureMessage("b-1", results)
	if !ok {
		t.Fatal("want a message when a probe failed")
	}
	if title != "urlchecker: 1 of 2 URLs failed" {
		t.Fatalf("unexpected title %q", title)
	}
	if !strings.Contains(text, "b-1") || !strings.Contains(text, "https://down.example: connection refused") {
		t.Fatalf("unexpected text %q", text)
	}
	if strings.Contains(text, "ok.example") {
		t.Fatalf("healthy URL should not be listed: %q", text)
	}
}

func TestFailureMessage_AllHealthy(t *testing.T) {
	if _, _, ok := FailureMessage("b", []domain.ProbeResult{okResult("https://a")}); ok {
		t.Fatal("want no message for a healthy batch")
	}
}

func TestFailureMessage_Truncates(t *testing.T) {
	var results []domain.ProbeResult
	for i := 0; i < maxListed+3; i++ {
		results = append(results, domain.FailedResult("https://x", "boom"))
	}
	_, text, _ := FailureMessage("b", results)
	if !strings.Contains(text, "and 3 more") {
		t.Fatalf("want truncation note, got %q", text)
	}
}

func TestDispatcher_SendsAsync(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher(n, zap.NewNop())

	done := d.BatchFailures("b-2", []domain.ProbeResult{domain.FailedResult("https://down", "timeout")})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not finish")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.titles) != 1 {
		t.Fatalf("want 1 message, got %d", len(n.titles))
	}
}

func TestDispatcher_LogsSendError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	d := NewDispatcher(&recordingNotifier{err: errors.New("nope")}, zap.New(core))

	<-d.BatchFailures("b-3", []domain.ProbeResult{domain.FailedResult("https://down", "timeout")})
	if logs.FilterMessage("notify_failed").Len() != 1 {
		t.Fatalf("want notify_failed log, got %v", logs.All())
	}
}

func TestDispatcher_NilAndHealthy(t *testing.T) {
	var d *Dispatcher
	<-d.BatchFailures("b", []domain.ProbeResult{domain.FailedResult("https://x", "e")})

	if NewDispatcher(nil, nil) != nil {
		t.Fatal("want nil dispatcher without notifier")
	}

	n := &recordingNotifier{}
	<-NewDispatcher(n, nil).BatchFailures("b", []domain.ProbeResult{okResult("https://a")})
	if len(n.titles) != 0 {
		t.Fatalf("healthy batch should not notify, got %v", n.titles)
	}
}
