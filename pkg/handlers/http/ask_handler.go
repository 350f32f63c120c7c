package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rdd6584/blogqa/pkg/app/ask"
	"github.com/rdd6584/blogqa/pkg/domain/embedding"
	"github.com/rdd6584/blogqa/pkg/handlers/http/request"
	"github.com/rdd6584/blogqa/pkg/infra/prometheus"
	"github.com/rdd6584/blogqa/pkg/middleware"
	"github.com/sirupsen/logrus"
)

type askHandler struct {
	logger         *logrus.Logger
	service        ask.Service
	includeSources bool
}

func NewAskHandler(logger *logrus.Logger, service ask.Service, includeSources bool) Handler {
	return &askHandler{
		logger:         logger,
		service:        service,
		includeSources: includeSources,
	}
}

// Handle answers POST /api/ask. Bad input is a 400; every other failure is
// logged with its stage and reported to the client as a generic 500.
func (h *askHandler) Handle(c *fiber.Ctx) error {
	var req request.AskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Warn("failed to bind ask request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	answer, err := h.service.Ask(c.UserContext(), ask.Query{Prompt: req.Prompt})
	if err != nil {
		if errors.Is(err, ask.ErrEmptyPrompt) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		stage := failureStage(err)
		prometheus.AskFailures.WithLabelValues(stage).Inc()
		h.logger.WithFields(logrus.Fields{
			"stage":      stage,
			"request_id": middleware.RequestID(c),
		}).WithError(err).Error("failed to answer question")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrServerError})
	}

	prometheus.ContextTokens.Observe(float64(answer.ContextTokens))
	resp := fiber.Map{"answer": answer.Text}
	if h.includeSources {
		resp["sources"] = answer.Sources
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func failureStage(err error) string {
	switch {
	case errors.Is(err, embedding.ErrStoreNotFound):
		return "store_missing"
	case errors.Is(err, embedding.ErrStoreMalformed):
		return "store_malformed"
	}
	if stage := ask.StageOf(err); stage != "" {
		return string(stage)
	}
	return "unknown"
}
