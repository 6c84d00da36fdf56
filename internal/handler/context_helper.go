package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minkhant-dev/piecerate-api/internal/middleware"
	"github.com/minkhant-dev/piecerate-api/internal/models"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
	"github.com/minkhant-dev/piecerate-api/pkg/response"
)

const dateLayout = "2006-01-02"

// sessionFromContext resolves the authenticated session or writes an
// unauthorized response. Callers must return when ok is false.
func sessionFromContext(c *gin.Context) (models.Session, bool) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Session{}, false
	}
	return session, true
}

// dateRangeFromQuery parses optional start/end query parameters in
// YYYY-MM-DD form.
func dateRangeFromQuery(c *gin.Context) (start, end *time.Time, err error) {
	if raw := c.Query("start"); raw != "" {
		t, parseErr := time.ParseInLocation(dateLayout, raw, time.UTC)
		if parseErr != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "start must be YYYY-MM-DD")
		}
		start = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, parseErr := time.ParseInLocation(dateLayout, raw, time.UTC)
		if parseErr != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "end must be YYYY-MM-DD")
		}
		end = &t
	}
	return start, end, nil
}
