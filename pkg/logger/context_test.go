package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func TestContextRoundTrip(t *testing.T) {
	log := zap.NewNop()
	ctx := WithContext(context.Background(), log)

	if got := FromContext(ctx); got != log {
		t.Error("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext returned nil for an empty context")
	}
}

func TestFromEchoFallsBackToRequestContext(t *testing.T) {
	log := zap.NewNop()

	e := echo.New()
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithContext(req.Context(), log))
	c := e.NewContext(req, httptest.NewRecorder())

	if got := FromEcho(c); got != log {
		t.Error("FromEcho did not fall back to the request context logger")
	}

	c.Set("logger", log)
	if got := FromEcho(c); got != log {
		t.Error("FromEcho did not return the echo-scoped logger")
	}
}
