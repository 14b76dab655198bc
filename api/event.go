package api

import (
	"net/http"
	
	"github.com/gin-gonic/gin"
	"github.com/katatrina/mentors-notifier/internal/event"
	"github.com/katatrina/mentors-notifier/internal/validator"
	"github.com/rs/zerolog/log"
)

type handleEventRequest struct {
	ID       string `json:"id"`
	Document string `json:"document" binding:"required"`
}

//	@Summary		Handle a document creation event
//	@Description	Receives a pushed Firestore document creation and enqueues the resulting notifications
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			request	body		handleEventRequest	true	"Event request"
//	@Success		202		{object}	map[string]string
//	@Failure		400		{object}	FailedValidationResponse
//	@Router			/v1/events [post]
func (server *Server) handleEvent(ctx *gin.Context) {
	var req handleEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	if err := validator.ValidateDocumentPath(event.RelativePath(req.Document)); err != nil {
		ctx.JSON(http.StatusBadRequest, failedValidationError([]*FieldViolation{fieldViolation("document", err)}))
		return
	}
	
	e, err := event.Parse(req.Document)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	if req.ID != "" {
		e.ID = req.ID
	}
	
	if err = server.eventHandler.HandleEvent(ctx, e); err != nil {
		log.Error().Err(err).
			Str("request_id", ctx.GetString(requestIDKey)).
			Str("document", e.Document).
			Msg("failed to handle event")
		
		if ctx.Request.Context().Err() != nil {
			ctx.JSON(http.StatusServiceUnavailable, errorResponse(err))
			return
		}
		
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	ctx.JSON(http.StatusAccepted, gin.H{
		"event_id": e.ID,
		"type":     e.Type,
		"document": e.Document,
	})
}
