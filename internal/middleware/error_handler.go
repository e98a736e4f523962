package middleware

import (
	"errors"
	"time"

	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrorConfig controls what the global error handler exposes and where it records failures.
type ErrorConfig struct {
	// ExposeDetails adds the underlying cause to 5xx responses (off in production).
	ExposeDetails bool
	Rdb           *redis.Client
}

// ErrorHandler is the global error handler. Returns the standard error format.
func ErrorHandler(cfg ErrorConfig) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message, details := classify(err)
		if details == nil {
			details = map[string]interface{}{}
		}

		if status >= fiber.StatusInternalServerError {
			traceID := GetTraceID(c)
			log.Error().Err(err).Str("trace_id", traceID).Str("method", c.Method()).
				Str("path", c.Path()).Int("status", status).Msg("request failed")
			recordError(c, cfg.Rdb, status, err)
			if cfg.ExposeDetails {
				details["error"] = err.Error()
			}
		}

		return response.Error(c, message, status, details)
	}
}

// classify maps err to status, client message and details.
func classify(err error) (int, string, map[string]interface{}) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Status(), ae.Message, copyDetails(ae.Details)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		// Oversized bodies are an upload error, not a server state.
		if fe.Code == fiber.StatusRequestEntityTooLarge {
			return fiber.StatusBadRequest, apperr.ErrFileTooLarge.Message, nil
		}
		return fe.Code, fe.Message, nil
	}
	return fiber.StatusInternalServerError, apperr.InternalMessage, nil
}

func copyDetails(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func recordError(c *fiber.Ctx, rdb *redis.Client, status int, err error) {
	if rdb == nil {
		return
	}
	entry := ErrorLogEntry{
		Time:    time.Now().UTC(),
		Method:  c.Method(),
		Path:    c.OriginalURL(),
		Status:  status,
		Message: err.Error(),
		TraceID: GetTraceID(c),
	}
	if e := PushErrorLog(c.UserContext(), rdb, entry); e != nil {
		log.Warn().Err(e).Msg("could not record error log entry")
	}
}
