package http

import "github.com/gofiber/fiber/v2"

const (
	ErrInvalidJsonPayload = "invalid JSON payload"
	// ErrServerError is the only message clients see for upstream or store
	// failures; details stay in the logs.
	ErrServerError = "서버 오류가 발생했습니다."
)

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	AskHandler        Handler
	GetVersionHandler Handler
}
