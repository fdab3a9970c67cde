package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ManishKhulbe/Firmable-backend/internal/model"
	"github.com/ManishKhulbe/Firmable-backend/internal/query"
	"github.com/ManishKhulbe/Firmable-backend/internal/service"
	"github.com/ManishKhulbe/Firmable-backend/pkg/logger"
	"github.com/ManishKhulbe/Firmable-backend/prometheus"
)

const (
	recordNotFoundMsg  = "ABN record not found"
	recordDuplicateMsg = "ABN already exists"
)

// RecordRequest is the payload for record creation and update requests.
type RecordRequest struct {
	ABN               string     `json:"abn"`
	Status            string     `json:"status"`
	AbnStatusFromDate *time.Time `json:"abnStatusFromDate"`
	EntityTypeCode    string     `json:"entityTypeCode"`
	EntityTypeText    string     `json:"entityTypeText"`
	LegalName         string     `json:"legalName"`
	OrganisationName  string     `json:"organisationName"`
	ACN               string     `json:"acn"`
	GSTStatus         string     `json:"gstStatus"`
	GSTFromDate       *time.Time `json:"gstFromDate"`
	State             string     `json:"state"`
	Postcode          string     `json:"postcode"`
}

func (r *RecordRequest) toModel() *model.AbnRecord {
	record := &model.AbnRecord{
		ABN:              r.ABN,
		Status:           r.Status,
		EntityTypeCode:   r.EntityTypeCode,
		EntityTypeText:   r.EntityTypeText,
		LegalName:        r.LegalName,
		OrganisationName: r.OrganisationName,
		ACN:              r.ACN,
		GSTStatus:        r.GSTStatus,
		GSTFromDate:      r.GSTFromDate,
		State:            r.State,
		Postcode:         r.Postcode,
	}
	if r.AbnStatusFromDate != nil {
		record.AbnStatusFromDate = *r.AbnStatusFromDate
	}
	return record
}

// RecordHandler serves the /abn-records routes.
type RecordHandler struct {
	svc *service.RecordService
}

// NewRecordHandler creates the record handler over its service.
func NewRecordHandler(svc *service.RecordService) *RecordHandler {
	return &RecordHandler{svc: svc}
}

// List handles GET /abn-records with filtering, sorting and pagination.
func (h *RecordHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("record", "list")

	q, err := query.ParseRecordQuery(c.QueryParams())
	if err != nil {
		return serviceError(c, log, err, recordNotFoundMsg, recordDuplicateMsg)
	}

	records, total, err := h.svc.List(q)
	if err != nil {
		return serviceError(c, log, err, recordNotFoundMsg, recordDuplicateMsg)
	}

	log.Info("ABN records listed",
		zap.Int("count", len(records)),
		zap.Int64("total", total))
	return okPage(c, records, len(records), total, q.Page, query.Pages(total, q.EffectiveLimit()))
}

// Get handles GET /abn-records/:abn, returning the record with its names.
func (h *RecordHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("record", "get")

	abn := c.Param("abn")
	if !model.ValidABN(abn) {
		return failError(c, http.StatusBadRequest, "ABN must be exactly 11 digits")
	}

	record, names, err := h.svc.Get(abn)
	if err != nil {
		return serviceError(c, log, err, recordNotFoundMsg, recordDuplicateMsg)
	}
	return ok(c, http.StatusOK, echo.Map{
		"record": record,
		"names":  names,
	})
}

// Create handles POST /abn-records.
func (h *RecordHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("record", "create")

	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid record payload", zap.Error(err))
		return failError(c, http.StatusBadRequest, "Invalid request data")
	}

	record := req.toModel()
	if err := h.svc.Create(record); err != nil {
		return serviceError(c, log, err, recordNotFoundMsg, recordDuplicateMsg)
	}
	return ok(c, http.StatusCreated, record)
}

// Update handles PUT /abn-records/:abn.
func (h *RecordHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("record", "update")

	abn := c.Param("abn")
	if !model.ValidABN(abn) {
		return failError(c, http.StatusBadRequest, "ABN must be exactly 11 digits")
	}

	var req RecordRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid record payload", zap.String("abn", abn), zap.Error(err))
		return failError(c, http.StatusBadRequest, "Invalid request data")
	}

	record, err := h.svc.Update(abn, req.toModel())
	if err != nil {
		return serviceError(c, log, err, recordNotFoundMsg, recordDuplicateMsg)
	}
	return ok(c, http.StatusOK, record)
}

// Delete handles DELETE /abn-records/:abn, cascading to the record's names.
func (h *RecordHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("record", "delete")

	abn := c.Param("abn")
	if !model.ValidABN(abn) {
		return failError(c, http.StatusBadRequest, "ABN must be exactly 11 digits")
	}

	if err := h.svc.Delete(abn); err != nil {
		return serviceError(c, log, err, recordNotFoundMsg, recordDuplicateMsg)
	}
	return okMessage(c, "ABN record and associated names deleted successfully")
}

// Stats handles GET /abn-records/stats/overview.
func (h *RecordHandler) Stats(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordOperation("record", "stats")

	stats, err := h.svc.Stats()
	if err != nil {
		return serviceError(c, log, err, recordNotFoundMsg, recordDuplicateMsg)
	}
	return ok(c, http.StatusOK, stats)
}
