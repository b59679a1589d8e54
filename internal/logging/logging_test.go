package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogData_LogIncludesDataAndTimings(t *testing.T) {
	logger := SetupLogging()
	var out bytes.Buffer
	logger.Out = &out

	logData := NewLogData(logger)
	logData.AddData("month", "2025-10")
	logData.AddTiming("fetchMs")()
	logData.Log().Info("done")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "2025-10", line["month"])
	assert.Contains(t, line, "fetchMs")
	assert.Equal(t, "info", line["loglevel"])
}

func TestLogData_AddToExistingTimingAccumulates(t *testing.T) {
	logData := NewLogData(SetupLogging())

	for i := 0; i < 2; i++ {
		stop := logData.AddToExistingTiming("remoteMs")
		time.Sleep(5 * time.Millisecond)
		stop()
	}

	total, ok := logData.Log().Data["remoteMs"].(int64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, total, int64(10))
}

func TestSetLevel(t *testing.T) {
	logger := SetupLogging()

	assert.NoError(t, SetLevel(logger, "debug"))
	assert.Equal(t, "debug", logger.GetLevel().String())
	assert.Error(t, SetLevel(logger, "loud"))
	assert.Equal(t, "debug", logger.GetLevel().String())
}

func TestMiddleware_AttachesLogData(t *testing.T) {
	logger := SetupLogging()
	logger.Out = &bytes.Buffer{}

	var seen *LogData
	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		seen = GetLogData(req.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/entry/month/2025-10", nil))

	assert.NotNil(t, seen)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLoggingWrapper_LogsHandlerError(t *testing.T) {
	logger := SetupLogging()
	var out bytes.Buffer
	logger.Out = &out

	wrapped := LoggingWrapper("Broken", logger, func(w http.ResponseWriter, req *http.Request, logData *LogData) error {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("bad input")
	})

	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest(http.MethodGet, "/broken", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, out.String(), "Handler.Broken.Error")
}
