package stdlog

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/wudi/hovacui/observability"
)

func newTestLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(log.New(&buf, "", 0)), &buf
}

func TestInfoWritesLevelMessageAndFields(t *testing.T) {
	l, buf := newTestLogger()
	l.Info("opened page", observability.Int("page", 3), observability.String("mode", "auto"))

	got := buf.String()
	for _, want := range []string{"INFO", "opened page", "page=3", "mode=auto"} {
		if !strings.Contains(got, want) {
			t.Fatalf("log output %q missing %q", got, want)
		}
	}
}

func TestWithPrependsFieldsToLaterCalls(t *testing.T) {
	l, buf := newTestLogger()
	scoped := l.With(observability.Int("page", 7))
	scoped.Warn("reload requested")

	got := buf.String()
	if !strings.Contains(got, "WARN") || !strings.Contains(got, "reload requested") || !strings.Contains(got, "page=7") {
		t.Fatalf("log output %q missing expected level/message/field", got)
	}
}

func TestWithDoesNotMutateTheParentLogger(t *testing.T) {
	l, buf := newTestLogger()
	_ = l.With(observability.String("scope", "child"))
	l.Error("boom")

	got := buf.String()
	if strings.Contains(got, "scope=child") {
		t.Fatalf("parent logger picked up child's field: %q", got)
	}
}

func TestNewWithNilUsesTheDefaultLogger(t *testing.T) {
	l := New(nil)
	var _ observability.Logger = l
}
