package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ManishKhulbe/Firmable-backend/internal/model"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
	"github.com/ManishKhulbe/Firmable-backend/internal/service"
	"github.com/ManishKhulbe/Firmable-backend/pkg/logger"
	"github.com/ManishKhulbe/Firmable-backend/prometheus"
)

const (
	nameNotFoundMsg  = "ABN name not found"
	nameDuplicateMsg = "This name already exists for the given ABN and type"
)

// NameRequest is the payload for name creation and update requests.
type NameRequest struct {
	ABN  string `json:"abn"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (r *NameRequest) toModel() *model.AbnName {
	return &model.AbnName{
		ABN:  r.ABN,
		Name: r.Name,
		Type: r.Type,
	}
}

// NameHandler serves the /abn-names routes.
type NameHandler struct {
	svc *service.NameService
}

// NewNameHandler creates the name handler over its service.
func NewNameHandler(svc *service.NameService) *NameHandler {
	return &NameHandler{svc: svc}
}

func nameID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// List handles GET /abn-names with filtering, sorting and pagination. Each
// entry carries the summary of its record.
func (h *NameHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("name", "list")

	q, err := query.ParseNameQuery(c.QueryParams())
	if err != nil {
		return serviceError(c, log, err, nameNotFoundMsg, nameDuplicateMsg)
	}

	names, total, err := h.svc.List(q)
	if err != nil {
		return serviceError(c, log, err, nameNotFoundMsg, nameDuplicateMsg)
	}

	log.Info("ABN names listed",
		zap.Int("count", len(names)),
		zap.Int64("total", total))
	return okPage(c, names, len(names), total, q.Page, query.Pages(total, q.EffectiveLimit()))
}

// Get handles GET /abn-names/:id.
func (h *NameHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("name", "get")

	id, valid := nameID(c)
	if !valid {
		return failError(c, http.StatusBadRequest, "Invalid ID format")
	}

	name, err := h.svc.Get(id)
	if err != nil {
		return serviceError(c, log, err, nameNotFoundMsg, nameDuplicateMsg)
	}
	return ok(c, http.StatusOK, name)
}

// ListByABN handles GET /abn-names/abn/:abn.
func (h *NameHandler) ListByABN(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("name", "list_by_abn")

	abn := c.Param("abn")
	if !model.ValidABN(abn) {
		return failError(c, http.StatusBadRequest, "ABN must be exactly 11 digits")
	}

	names, err := h.svc.ListByABN(abn)
	if err != nil {
		return serviceError(c, log, err, "No names found for this ABN", nameDuplicateMsg)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"results": len(names),
		"data":    names,
	})
}

// Create handles POST /abn-names. The referenced ABN must exist in the
// record store.
func (h *NameHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("name", "create")

	var req NameRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid name payload", zap.Error(err))
		return failError(c, http.StatusBadRequest, "Invalid request data")
	}

	name, err := h.svc.Create(req.toModel())
	if err != nil {
		return serviceError(c, log, err, nameNotFoundMsg, nameDuplicateMsg)
	}
	return ok(c, http.StatusCreated, name)
}

// Update handles PUT /abn-names/:id.
func (h *NameHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("name", "update")

	id, valid := nameID(c)
	if !valid {
		return failError(c, http.StatusBadRequest, "Invalid ID format")
	}

	var req NameRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid name payload", zap.Uint("id", id), zap.Error(err))
		return failError(c, http.StatusBadRequest, "Invalid request data")
	}

	name, err := h.svc.Update(id, req.toModel())
	if err != nil {
		return serviceError(c, log, err, nameNotFoundMsg, nameDuplicateMsg)
	}
	return ok(c, http.StatusOK, name)
}

// Delete handles DELETE /abn-names/:id.
func (h *NameHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("name", "delete")

	id, valid := nameID(c)
	if !valid {
		return failError(c, http.StatusBadRequest, "Invalid ID format")
	}

	if err := h.svc.Delete(id); err != nil {
		return serviceError(c, log, err, nameNotFoundMsg, nameDuplicateMsg)
	}
	return okMessage(c, "ABN name deleted successfully")
}

// Search handles GET /abn-names/search/:term, the relevance-ranked full-text
// search.
func (h *NameHandler) Search(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("name", "search")

	page, limit, err := query.ParsePagination(c.QueryParams())
	if err != nil {
		return serviceError(c, log, err, nameNotFoundMsg, nameDuplicateMsg)
	}

	names, total, err := h.svc.Search(c.Param("term"), page, limit)
	if err != nil {
		return serviceError(c, log, err, nameNotFoundMsg, nameDuplicateMsg)
	}

	log.Info("ABN names searched",
		zap.String("term", c.Param("term")),
		zap.Int64("total", total))
	return okPage(c, names, len(names), total, page, query.Pages(total, limit))
}

// Stats handles GET /abn-names/stats/overview.
func (h *NameHandler) Stats(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("name", "stats")

	stats, err := h.svc.Stats()
	if err != nil {
		return serviceError(c, log, err, nameNotFoundMsg, nameDuplicateMsg)
	}
	return ok(c, http.StatusOK, stats)
}
