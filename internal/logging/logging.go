// Package logging configura o slog da aplicação e adapta o log do gin e do gorm.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader é propagado de volta ao cliente em toda resposta.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// ParseLevel converte "debug", "info", "warn" e "error"; qualquer outro valor vira info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New cria um logger de texto ou JSON escrevendo em w.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", "tienda")
}

// Middleware substitui o gin.Logger: uma linha estruturada por requisição,
// com o request id gerado aqui (ou recebido no cabeçalho).
func Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			logger.Error("requisição concluída", attrs...)
		case status >= 400:
			logger.Warn("requisição concluída", attrs...)
		default:
			logger.Info("requisição concluída", attrs...)
		}
	}
}

// FromContext devolve o logger com o request id da requisição atual.
func FromContext(c *gin.Context, logger *slog.Logger) *slog.Logger {
	if id, ok := c.Get(requestIDKey); ok {
		return logger.With("request_id", id)
	}
	return logger
}
