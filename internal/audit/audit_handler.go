package audit

import (
	"net/http"
	"time"

	"hr-leave/internal/shared/apperror"
	"hr-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("audit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Query serves audit log lookups by actor, action, entity or date range,
// depending on which query parameters are present.
func (h *Handler) Query(c *gin.Context) {
	ctx := c.Request.Context()

	if actor := c.Query("actor"); actor != "" {
		entries, err := h.service.GetByActor(ctx, actor)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, entries, nil)
		return
	}

	if action := c.Query("action"); action != "" {
		entries, err := h.service.GetByAction(ctx, action)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, entries, nil)
		return
	}

	if entityType := c.Query("entity_type"); entityType != "" {
		entries, err := h.service.GetByEntity(ctx, entityType, c.Query("entity_id"))
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, entries, nil)
		return
	}

	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", "1970-01-01"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid from date, expected YYYY-MM-DD", nil)
		return
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("to", time.Now().UTC().Format("2006-01-02")))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid to date, expected YYYY-MM-DD", nil)
		return
	}

	entries, err := h.service.GetByDateRange(ctx, from, to.Add(24*time.Hour))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries, nil)
}
