package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "answerme/internal/errors"
	"answerme/internal/service"
	"answerme/internal/subscription"
)

// KeywordHandler handles keyword subscription endpoints.
type KeywordHandler struct {
	keywordService service.KeywordService
	userService    service.UserService
}

// NewKeywordHandler creates a new keyword handler.
func NewKeywordHandler(keywordService service.KeywordService, userService service.UserService) *KeywordHandler {
	return &KeywordHandler{keywordService: keywordService, userService: userService}
}

// AddKeywordRequest represents a keyword creation request.
type AddKeywordRequest struct {
	Keyword string `json:"keyword" validate:"required,min=1,max=255"`
}

// List godoc
// @Summary List subscribed keywords
// @Description Returns the caller's keywords with current count and tier limit (null limit means unlimited).
// @Tags keywords
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.KeywordList
// @Failure 401 {object} errors.ErrorResponse
// @Router /keywords [get]
func (h *KeywordHandler) List(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	list, err := h.keywordService.List(c.Request().Context(), user)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, list)
}

// Add godoc
// @Summary Subscribe to a keyword
// @Tags keywords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddKeywordRequest true "Keyword"
// @Success 201 {object} model.Keyword
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /keywords [post]
func (h *KeywordHandler) Add(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req AddKeywordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	keyword, err := h.keywordService.Add(c.Request().Context(), user, req.Keyword)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		if err == apperrors.ErrKeywordLimitExceeded {
			if limit, limited := subscription.Effective(user, time.Now()).KeywordLimit(); limited {
				httpErr.WithDetails(map[string]interface{}{"limit": limit, "remaining": 0})
			}
		}
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, keyword)
}

// Remove godoc
// @Summary Remove a keyword
// @Tags keywords
// @Produce json
// @Security BearerAuth
// @Param id path int true "Keyword ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /keywords/{id} [delete]
func (h *KeywordHandler) Remove(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid keyword id")
	}

	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if err := h.keywordService.Remove(c.Request().Context(), user, uint(id)); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "keyword deleted"})
}
