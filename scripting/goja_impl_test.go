package scripting

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGojaEngine_ContextCancellation(t *testing.T) {
	engine := NewEngine()

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	if _, err := engine.Execute(ctx, "while (true) {}"); err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}

	if _, err := engine.Execute(context.Background(), "1 + 1"); err != nil {
		t.Fatalf("engine should recover after cancellation, got %v", err)
	}
}

func TestGojaEngine_ImmediateCancel(t *testing.T) {
	engine := NewEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Execute(ctx, "42"); err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
}

type fakeDoc struct {
	pages  int
	alerts []string
}

func (d *fakeDoc) PageCount() int       { return d.pages }
func (d *fakeDoc) Alert(message string) { d.alerts = append(d.alerts, message) }

func TestGojaEngine_Bind(t *testing.T) {
	engine := NewEngine()
	doc := &fakeDoc{pages: 3}
	if err := engine.Bind(doc); err != nil {
		t.Fatalf("bind: %v", err)
	}
	got, err := engine.Execute(context.Background(), `app.alert("pages: " + numPages); numPages * 2`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != int64(6) {
		t.Fatalf("got %v (%T)", got, got)
	}
	if len(doc.alerts) != 1 || doc.alerts[0] != "pages: 3" {
		t.Fatalf("alerts = %v", doc.alerts)
	}
}

func TestCheck(t *testing.T) {
	if err := Check("open.js", `app.alert("hi");`); err != nil {
		t.Fatalf("valid script rejected: %v", err)
	}
	if err := Check("broken.js", `function (`); !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
}
