package logging

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
)

type logDataKey struct{}

// WithLogData returns a context carrying logData.
func WithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, logDataKey{}, logData)
}

// GetLogData returns the request's LogData, or nil outside a logged request.
func GetLogData(ctx context.Context) *LogData {
	logData, _ := ctx.Value(logDataKey{}).(*LogData)
	return logData
}

func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(http.ResponseWriter, *http.Request, *LogData) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		log.Infof("Handler.%v.Start", loggingName)

		endTimer := logData.AddTiming("duration")
		err := handler(w, req, logData)
		endTimer()
		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}

// Middleware attaches a fresh LogData to every request and logs it once the
// handler returns.
func Middleware(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logData := NewLogData(log)
			logData.AddData("method", req.Method)
			logData.AddData("path", req.URL.Path)

			endTimer := logData.AddTiming("duration")
			next.ServeHTTP(w, req.WithContext(WithLogData(req.Context(), logData)))
			endTimer()

			logData.Log().Info("Request.Complete")
		})
	}
}
