// Package handler maps HTTP requests onto the record and name services and
// renders the JSON response envelope.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ManishKhulbe/Firmable-backend/internal/apperr"
)

// ok renders a success envelope with the given payload.
func ok(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, echo.Map{
		"status": "success",
		"data":   data,
	})
}

// okMessage renders a success envelope carrying only a message.
func okMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": message,
	})
}

// okPage renders a success envelope for one page of a filtered listing.
func okPage(c echo.Context, data interface{}, results int, total int64, page, pages int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"results": results,
		"total":   total,
		"page":    page,
		"pages":   pages,
		"data":    data,
	})
}

// failError renders an error envelope with the given message.
func failError(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{
		"status":  "error",
		"message": message,
	})
}

// serviceError maps a service error onto the response envelope per the error
// taxonomy: validation, duplicate-key and referential violations are 400,
// missing resources 404, everything else a generic 500 with no internal
// detail leaked.
func serviceError(c echo.Context, log *zap.Logger, err error, notFoundMsg, duplicateMsg string) error {
	if ve, isValidation := apperr.AsValidation(err); isValidation {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"message": "Validation failed",
			"errors":  ve.Errors,
		})
	}
	if errors.Is(err, apperr.ErrDuplicateKey) {
		return failError(c, http.StatusBadRequest, duplicateMsg)
	}
	if errors.Is(err, apperr.ErrReferentialIntegrity) {
		return failError(c, http.StatusBadRequest, "ABN does not exist in records")
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return failError(c, http.StatusNotFound, notFoundMsg)
	}
	log.Error("unhandled service error",
		zap.String("path", c.Path()),
		zap.Error(err))
	return failError(c, http.StatusInternalServerError, "Internal server error")
}
