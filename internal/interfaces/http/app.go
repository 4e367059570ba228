package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewApp crea la aplicación fiber de la API.
// Immutable: los valores de Params, Query y cabeceras se copian; sin esto apuntan
// a buffers que fasthttp reutiliza entre peticiones y no pueden guardarse.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
}
