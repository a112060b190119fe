package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"haneul/internal/shared/biztime"
	"haneul/internal/shared/errors"
)

func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, errors.NewValidationError("invalid "+name, raw)
	}
	return uint(v), nil
}

func parseUintQuery(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("invalid "+name, raw)
	}
	return uint(v), nil
}

// parseUsageDate resolves an optional YYYY-MM-DD field, defaulting to the
// clinic's current business date.
func parseUsageDate(raw string) (time.Time, error) {
	if raw == "" {
		return biztime.Today(), nil
	}
	d, err := biztime.ParseDate(raw)
	if err != nil {
		return time.Time{}, errors.NewValidationError("invalid usage_date, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

func parseOptionalDate(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := biztime.ParseDate(raw)
	if err != nil {
		return nil, errors.NewValidationError("invalid "+field+", expected YYYY-MM-DD", raw)
	}
	return &d, nil
}
