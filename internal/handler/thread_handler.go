package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "answerme/internal/errors"
	"answerme/internal/model"
	"answerme/internal/service"
	"answerme/internal/subscription"
)

// ThreadHandler handles digest thread and chat query endpoints.
type ThreadHandler struct {
	threadService  service.ThreadService
	summaryService service.SummaryService
	queryService   service.QueryService
	userService    service.UserService
}

// NewThreadHandler creates a new thread handler.
func NewThreadHandler(
	threadService service.ThreadService,
	summaryService service.SummaryService,
	queryService service.QueryService,
	userService service.UserService,
) *ThreadHandler {
	return &ThreadHandler{
		threadService:  threadService,
		summaryService: summaryService,
		queryService:   queryService,
		userService:    userService,
	}
}

// ThreadListResponse wraps the thread listing.
type ThreadListResponse struct {
	Threads []service.ThreadSummary `json:"threads"`
	Total   int                     `json:"total"`
}

// QueryRequest represents a follow-up question.
type QueryRequest struct {
	Question string `json:"question" validate:"required,min=1"`
}

func (h *ThreadHandler) resolveUser(c echo.Context) (*model.User, error) {
	claims, err := currentClaims(c)
	if err != nil {
		return nil, err
	}
	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return user, nil
}

// List godoc
// @Summary List digest threads
// @Description Newest first. Free-tier callers only see the last 30 days.
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ThreadListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /threads [get]
func (h *ThreadHandler) List(c echo.Context) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return err
	}

	threads, err := h.threadService.List(c.Request().Context(), user)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ThreadListResponse{Threads: threads, Total: len(threads)})
}

// Today godoc
// @Summary Get or create today's digest
// @Description Returns the existing digest thread for today (UTC) or generates it from the day's crawled news, one summary per subscribed keyword.
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ThreadDetail
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /threads/today [get]
func (h *ThreadHandler) Today(c echo.Context) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return err
	}

	thread, err := h.summaryService.GetOrCreateDaily(c.Request().Context(), user, time.Now().UTC())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	detail, err := h.threadService.Detail(c.Request().Context(), user, thread)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, detail)
}

// Get godoc
// @Summary Get a thread with messages
// @Description A thread outside the free tier's 30-day window returns 403 UPGRADE_REQUIRED rather than 404, so clients can prompt for an upgrade.
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Thread ID"
// @Success 200 {object} service.ThreadDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /threads/{id} [get]
func (h *ThreadHandler) Get(c echo.Context) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid thread id")
	}

	detail, err := h.threadService.Get(c.Request().Context(), user, uint(id))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, detail)
}

// Delete godoc
// @Summary Delete a thread
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Thread ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /threads/{id} [delete]
func (h *ThreadHandler) Delete(c echo.Context) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid thread id")
	}

	if err := h.threadService.Delete(c.Request().Context(), user, uint(id)); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "thread deleted"})
}

// Query godoc
// @Summary Ask a follow-up question in a thread
// @Description Answers against the thread's date context. Free-tier callers are limited to 10 questions per UTC day.
// @Tags threads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Thread ID"
// @Param request body QueryRequest true "Question"
// @Success 200 {object} service.QueryResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /threads/{id}/query [post]
func (h *ThreadHandler) Query(c echo.Context) error {
	user, err := h.resolveUser(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid thread id")
	}

	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.queryService.Ask(c.Request().Context(), user, uint(id), req.Question)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		if err == apperrors.ErrQueryLimitExceeded {
			if limit, limited := subscription.Effective(user, time.Now()).DailyQueryLimit(); limited {
				httpErr.WithDetails(map[string]interface{}{"limit": limit, "remaining": 0})
			}
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}
