package rest

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/golfworks/fittings/internal/apperror"
	"github.com/golfworks/fittings/internal/pagination"
)

// Accepted timestamp layouts; the zone-less ones are read in the calendar
// location.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperror.InvalidInput("Date is required")
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	for _, layout := range timeLayouts[1:] {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.InvalidInput("Invalid date: " + raw)
}

func parseOptionalTime(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseTime(*raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.InvalidInput("Invalid " + name)
	}
	return id, nil
}

// optionalUUID parses raw, treating an empty string as absent.
func optionalUUID(raw, field string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.InvalidInput("Invalid " + field)
	}
	return id, nil
}

// pageRequest reads ?page and ?limit; unparsable values fall back to the
// defaults like missing ones.
func pageRequest(c *gin.Context, defaultLimit int) pagination.Request {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return pagination.Normalize(page, limit, defaultLimit)
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperror.InvalidInput("Invalid request body")
	}
	return nil
}
