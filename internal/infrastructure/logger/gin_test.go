package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(GinRequestIDKey, "req-123")
		c.Next()
	})
	r.Use(AccessLog(l), Recovery(l))
	return r, recorded
}

func TestAccessLog_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			r, recorded := newObservedRouter(t)
			r.GET("/api/v1/catalog/items", func(c *gin.Context) { c.Status(tt.status) })

			r.ServeHTTP(httptest.NewRecorder(),
				httptest.NewRequest(http.MethodGet, "/api/v1/catalog/items?item_group=Raw", nil))

			logs := recorded.FilterMessage("HTTP Request").All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			fields := logs[0].ContextMap()
			assert.Equal(t, "req-123", fields["request_id"])
			assert.Equal(t, "/api/v1/catalog/items", fields["path"])
			assert.Equal(t, "item_group=Raw", fields["query"])
			assert.EqualValues(t, tt.status, fields["status"])
		})
	}
}

func TestAccessLog_RequestLogger(t *testing.T) {
	r, recorded := newObservedRouter(t)
	r.GET("/ping", func(c *gin.Context) {
		RequestLogger(c).Info("from request logger")
		assert.Equal(t, "req-123", GetRequestID(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	logs := recorded.FilterMessage("from request logger").All()
	require.Len(t, logs, 1)
	assert.Equal(t, "req-123", logs[0].ContextMap()["request_id"])
	assert.Equal(t, "GET", logs[0].ContextMap()["method"])
}

func TestRecovery(t *testing.T) {
	r, recorded := newObservedRouter(t)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	assert.Contains(t, w.Body.String(), "req-123")

	panics := recorded.FilterMessage("Panic recovered").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "req-123", panics[0].ContextMap()["request_id"])
	assert.Equal(t, 1, recorded.FilterMessage("HTTP Request").FilterField(zap.Int("status", 500)).Len())
}

func TestRequestLogger_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, RequestLogger(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotNil(t, RequestLogger(c))
}
