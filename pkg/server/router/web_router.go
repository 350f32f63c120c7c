package router

import (
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

type webRouter struct {
	root fs.FS
}

// NewWebRouter serves the question page from root. It must be built after
// the API routes since it answers every remaining GET.
func NewWebRouter(root fs.FS) ServerRouter {
	return &webRouter{root: root}
}

func (r *webRouter) BuildRoutes(router *fiber.App) error {
	router.Use("/", filesystem.New(filesystem.Config{
		Root:   http.FS(r.root),
		Index:  "index.html",
		MaxAge: 300,
	}))
	return nil
}
