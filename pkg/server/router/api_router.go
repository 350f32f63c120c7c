package router

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	handlers "github.com/rdd6584/blogqa/pkg/handlers/http"
	"github.com/rdd6584/blogqa/pkg/middleware"
)

const (
	AskPath     = "/api/ask"
	VersionPath = "/version"
)

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport.AskHandler == nil {
		return fmt.Errorf("%w: ask", ErrMissingHandler)
	}
	if r.handlerTransport.GetVersionHandler == nil {
		return fmt.Errorf("%w: version", ErrMissingHandler)
	}

	api := router.Group("", r.middlewareTransport.GetMiddlewares()...)
	api.Get(VersionPath, r.handlerTransport.GetVersionHandler.Handle)
	api.Post(AskPath, r.handlerTransport.AskHandler.Handle)
	return nil
}
