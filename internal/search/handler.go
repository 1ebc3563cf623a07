package search

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Result string `json:"result"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/search", h.search)
}

func (h *Handler) search(c *fiber.Ctx) error {
	payload := new(searchRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	result, err := h.service.Search(c.Context(), payload.Query)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(searchResponse{Result: result})
}
