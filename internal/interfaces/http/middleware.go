package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-core/pkg/logger"
)

// HeaderUserID identifica al usuario que ejecuta la operación (la autenticación es externa).
const HeaderUserID = "X-User-ID"

// LocalUserID clave de c.Locals para el usuario de la petición.
const LocalUserID = "user_id"

// RequestUser copia el usuario del header X-User-ID a c.Locals; si falta, usa "system".
func RequestUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(HeaderUserID))
		if userID == "" {
			userID = "system"
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// GetUserID devuelve el usuario del contexto (después de RequestUser).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequestLogger registra cada petición con método, ruta, estado y duración.
func RequestLogger(log *logger.Logger) fiber.Handler {
	l := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := l.Info()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("petición atendida")
		return err
	}
}
