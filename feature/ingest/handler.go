package ingest

import (
	"path/filepath"
	"strings"

	"inventory-sync/core/logger"
	"inventory-sync/feature/inventory"
	"inventory-sync/feature/inventory/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the ingestion engine over HTTP.
type Handler struct {
	engine *Engine
	store  *inventory.Store
	dir    string
	logger *zap.Logger
}

// NewHandler creates an HTTP handler around the engine.
func NewHandler(engine *Engine, store *inventory.Store, dir string, log *zap.Logger) *Handler {
	return &Handler{engine: engine, store: store, dir: dir, logger: log}
}

// RegisterRoutes registers the ingestion routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Get("/status", h.HandleStatus)
	group.Post("/sync", h.HandleSync)
	group.Post("/reverse-sync", h.HandleReverseSync)
}

// resolveFile turns a client-supplied file name into a path inside
// the watched directory. Anything that escapes the directory is
// rejected.
func (h *Handler) resolveFile(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) {
		return "", false
	}
	return filepath.Join(h.dir, name), true
}

type syncRequest struct {
	File string `json:"file"`
}

// HandleSync runs one ingestion pass for a file in the watched
// directory, bypassing the debounce but not the change gate.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.logger, c)

	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	path, ok := h.resolveFile(req.File)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file must be a bare name inside the watched directory",
		})
	}

	report, err := h.engine.Process(c.Context(), path)
	if err != nil {
		l.Error("manual sync failed", zap.String("file", req.File), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}

type reverseSyncRequest struct {
	File    string         `json:"file"`
	Action  ReverseAction  `json:"action"`
	Name    string         `json:"name"`
	Product models.Product `json:"product"`
}

// HandleReverseSync pushes a catalog edit back into its source
// spreadsheet.
func (h *Handler) HandleReverseSync(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.logger, c)

	var req reverseSyncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	path, ok := h.resolveFile(req.File)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file must be a bare name inside the watched directory",
		})
	}
	if req.Action != ReverseUpdate && req.Action != ReverseDelete {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "action must be update or delete",
		})
	}

	if err := h.engine.OnRecordChanged(c.Context(), path, req.Action, req.Name, &req.Product); err != nil {
		l.Error("reverse sync failed", zap.String("file", req.File), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleStatus reports tracker occupancy and catalog size.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.logger, c)

	count, err := h.store.Count(c.Context())
	if err != nil {
		l.Error("status check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	status := fiber.Map{
		"tracker":         h.engine.Tracker().Stats(),
		"active_products": count,
	}
	if archived := h.engine.ArchivedCount(c.Context()); archived >= 0 {
		status["archived_files"] = archived
	}
	return c.JSON(status)
}
