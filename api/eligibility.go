package api

import (
	"errors"
	"net/http"
	"time"
	
	"github.com/gin-gonic/gin"
	"github.com/katatrina/mentors-notifier/internal/eligibility"
	"github.com/katatrina/mentors-notifier/internal/store"
	"github.com/katatrina/mentors-notifier/internal/validator"
)

type getNotificationEligibilityRequest struct {
	At string `form:"at"`
}

type notificationEligibilityResponse struct {
	UserID   string    `json:"user_id"`
	At       time.Time `json:"at"`
	Decision string    `json:"decision"`
	Notify   bool      `json:"notify"`
}

//	@Summary		Get notification eligibility
//	@Description	Evaluates the user's notification settings at the given instant (defaults to now)
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Param			at	query		string	false	"RFC3339 instant"
//	@Success		200	{object}	notificationEligibilityResponse
//	@Failure		404	{object}	object
//	@Router			/v1/users/{id}/notification-eligibility [get]
func (server *Server) getNotificationEligibility(ctx *gin.Context) {
	userID := ctx.Param("id")
	if err := validator.ValidateDocumentID(userID); err != nil {
		ctx.JSON(http.StatusBadRequest, failedValidationError([]*FieldViolation{fieldViolation("id", err)}))
		return
	}
	
	var req getNotificationEligibilityRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, failedValidationError([]*FieldViolation{fieldViolation("at", err)}))
		return
	}
	
	at := time.Now()
	if req.At != "" {
		parsed, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, failedValidationError([]*FieldViolation{fieldViolation("at", err)}))
			return
		}
		at = parsed
	}
	
	decision, err := server.evaluator.Evaluate(ctx, userID, at)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse(err))
			return
		}
		
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	ctx.JSON(http.StatusOK, notificationEligibilityResponse{
		UserID:   userID,
		At:       at.In(server.config.Location()),
		Decision: decision.String(),
		Notify:   decision == eligibility.Notify,
	})
}
