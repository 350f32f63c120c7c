package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	PanicRecoverMiddleware Middleware
	RequestIDMiddleware    Middleware
	MetricsMiddleware      Middleware
}

// GetMiddlewares returns the handlers in the order they must run: panic
// recovery outermost so it also covers the other two.
func (t *Transport) GetMiddlewares() []fiber.Handler {
	var handlers []fiber.Handler
	for _, m := range []Middleware{t.PanicRecoverMiddleware, t.RequestIDMiddleware, t.MetricsMiddleware} {
		if m == nil {
			continue
		}
		handlers = append(handlers, m.Middleware())
	}
	return handlers
}
