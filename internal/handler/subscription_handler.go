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

// SubscriptionHandler handles plan listing and subscription mutations.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	userService         service.UserService
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService, userService service.UserService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		userService:         userService,
	}
}

// SetSubscriptionRequest is the administrative tier mutation payload.
type SetSubscriptionRequest struct {
	SubscriptionType      string     `json:"subscription_type" validate:"required,oneof=free premium"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
}

// Plans godoc
// @Summary List subscription plans
// @Tags subscription
// @Produce json
// @Success 200 {array} subscription.Plan
// @Router /subscription/plans [get]
func (h *SubscriptionHandler) Plans(c echo.Context) error {
	return c.JSON(http.StatusOK, subscription.Plans())
}

// Upgrade godoc
// @Summary Upgrade the caller to premium
// @Description Grants one 30-day premium period; upgrading while premium extends the current expiry.
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /subscription/upgrade [post]
func (h *SubscriptionHandler) Upgrade(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	updated, err := h.subscriptionService.Upgrade(c.Request().Context(), user)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, newUserResponse(updated, time.Now()))
}

// SetSubscription godoc
// @Summary Set a user's subscription (admin)
// @Tags subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body SetSubscriptionRequest true "Subscription"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/subscription [put]
func (h *SubscriptionHandler) SetSubscription(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	caller, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if caller.Role != model.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
			Error: "admin access required",
			Code:  "ADMIN_REQUIRED",
		})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req SetSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.subscriptionService.SetSubscription(
		c.Request().Context(), uint(id), req.SubscriptionType, req.SubscriptionExpiresAt)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, newUserResponse(updated, time.Now()))
}
