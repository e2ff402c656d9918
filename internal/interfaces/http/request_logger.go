package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ganaderia-api/pkg/logger"
)

// RequestObserver recibe cada petición atendida (métricas).
type RequestObserver interface {
	HTTPRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger registra método, ruta, código y latencia de cada petición. observer puede ser nil.
func RequestLogger(log *logger.Logger, observer RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler fije el código antes de registrar
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Str("user_id", GetUserID(c)).
			Msg("http")
		if observer != nil {
			observer.HTTPRequest(c.Method(), route, status, elapsed)
		}
		return nil
	}
}
