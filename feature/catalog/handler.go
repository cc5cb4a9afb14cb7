package catalog

import (
	"errors"
	"strings"

	"entity-kit/core/association"
	"entity-kit/core/entity"
	"entity-kit/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/authors", h.HandleListAuthors)
	group.Post("/authors", h.HandleCreateAuthor)
	group.Get("/authors/:id", h.HandleGetAuthor)
	group.Put("/authors/:id/books", h.HandleLinkBooks)
	group.Put("/shelves/:id/books", h.HandleShelveBooks)
	group.Post("/exports", h.HandleExport)
}

type referencesRequest struct {
	Books []any `json:"books"`
}

type shelfRequest struct {
	Books []uint `json:"books"`
}

// HandleListAuthors returns every author with its books.
// @Summary List Authors
// @Tags catalog
// @Produce json
// @Success 200 {array} map[string]interface{} "Authors"
// @Router /catalog/authors [get]
func (h *Handler) HandleListAuthors(c *fiber.Ctx) error {
	authors, err := h.service.Authors(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]map[string]any, 0, len(authors))
	for _, a := range authors {
		m, err := entity.ToMapping(a)
		if err != nil {
			return h.fail(c, err)
		}
		out = append(out, m)
	}
	return c.JSON(out)
}

// HandleGetAuthor renders one author.
// @Summary Get Author
// @Description Serialize an author with its books. Cycles are replaced by ids.
// @Tags catalog
// @Produce json
// @Produce application/yaml
// @Param id path int true "Author ID"
// @Param format query string false "json or yaml"
// @Param fields query string false "Comma separated (dotted) fields"
// @Success 200 {object} map[string]interface{} "Author"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /catalog/authors/{id} [get]
func (h *Handler) HandleGetAuthor(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid author id"})
	}

	var fields []string
	if raw := c.Query("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	out, err := h.service.Render(c.UserContext(), uint(id), c.Query("format"), fields)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, ContentType(out.Format))
	return c.SendString(out.Body)
}

// HandleCreateAuthor creates an author from a JSON mapping.
// @Summary Create Author
// @Tags catalog
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "Author"
// @Failure 400 {object} map[string]string "Invalid field"
// @Router /catalog/authors [post]
func (h *Handler) HandleCreateAuthor(c *fiber.Ctx) error {
	var values map[string]any
	if err := c.BodyParser(&values); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	author, err := h.service.CreateAuthor(c.UserContext(), values)
	if err != nil {
		return h.fail(c, err)
	}
	return h.respond(c.Status(fiber.StatusCreated), author)
}

// HandleLinkBooks replaces the books of an author.
// @Summary Link Books
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} map[string]interface{} "Author"
// @Router /catalog/authors/{id}/books [put]
func (h *Handler) HandleLinkBooks(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid author id"})
	}
	var req referencesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	author, err := h.service.LinkBooks(c.UserContext(), uint(id), req.Books)
	if err != nil {
		return h.fail(c, err)
	}
	return h.respond(c, author)
}

// HandleShelveBooks replaces the books on a shelf.
// @Summary Shelve Books
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Shelf ID"
// @Success 200 {object} map[string]interface{} "Shelf"
// @Router /catalog/shelves/{id}/books [put]
func (h *Handler) HandleShelveBooks(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid shelf id"})
	}
	var req shelfRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	shelf, err := h.service.ShelveBooks(c.UserContext(), uint(id), req.Books)
	if err != nil {
		return h.fail(c, err)
	}
	return h.respond(c, shelf)
}

// HandleExport uploads all authors to object storage.
// @Summary Export Catalog
// @Tags catalog
// @Produce json
// @Param format query string false "json or yaml"
// @Success 200 {object} map[string][]string "Exported keys"
// @Router /catalog/exports [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	keys, err := h.service.Export(c.UserContext(), c.Query("format"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"keys": keys})
}

func (h *Handler) respond(c *fiber.Ctx, e any) error {
	m, err := entity.ToMapping(e)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(m)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithRayID(h.logger, c).Error("Catalog request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusOf(err error) int {
	// A reference that fails to resolve is a bad request even when the
	// lookup behind it reports not found.
	switch {
	case errors.Is(err, association.ErrCoercion),
		errors.Is(err, entity.ErrInvalidField),
		errors.Is(err, entity.ErrUnsupportedFormat),
		errors.Is(err, ErrInvalidReference):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
