package api

import (
	"errors"
	"net/http"
	"strings"
	"time"
	
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

type taskInfoResponse struct {
	ID            string     `json:"id"`
	Queue         string     `json:"queue"`
	State         string     `json:"state"`
	EventID       string     `json:"event_id,omitempty"`
	RecipientID   string     `json:"recipient_id,omitempty"`
	MaxRetry      int        `json:"max_retry"`
	Retried       int        `json:"retried"`
	LastErr       string     `json:"last_err,omitempty"`
	NextProcessAt *time.Time `json:"next_process_at,omitempty"`
}

// taskParams extracts queue and task ID. Task IDs embed document paths, so
// they are matched with a wildcard.
func taskParams(ctx *gin.Context) (queue string, taskID string, err error) {
	queue = ctx.Param("queue")
	taskID = strings.TrimPrefix(ctx.Param("taskID"), "/")
	if taskID == "" {
		return "", "", ErrMissingTaskID
	}
	
	return queue, taskID, nil
}

func taskErrorStatus(err error) int {
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return http.StatusNotFound
	}
	
	return http.StatusInternalServerError
}

//	@Summary		Get notification task
//	@Description	Returns the state of a send-notification task
//	@Tags			tasks
//	@Produce		json
//	@Param			queue	path		string	true	"Queue name"
//	@Param			taskID	path		string	true	"Task ID"
//	@Success		200		{object}	taskInfoResponse
//	@Failure		404		{object}	object
//	@Router			/v1/tasks/{queue}/{taskID} [get]
func (server *Server) getTaskInfo(ctx *gin.Context) {
	queue, taskID, err := taskParams(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	task, err := server.taskInspector.GetNotificationTask(ctx, queue, taskID)
	if err != nil {
		ctx.JSON(taskErrorStatus(err), errorResponse(err))
		return
	}
	
	resp := taskInfoResponse{
		ID:          task.ID,
		Queue:       task.Queue,
		State:       task.State,
		EventID:     task.EventID,
		RecipientID: task.RecipientID,
		MaxRetry:    task.MaxRetry,
		Retried:     task.Retried,
		LastErr:     task.LastErr,
	}
	if !task.NextProcessAt.IsZero() {
		resp.NextProcessAt = &task.NextProcessAt
	}
	
	ctx.JSON(http.StatusOK, resp)
}

//	@Summary		Delete notification task
//	@Description	Cancels a pending or retrying send-notification task
//	@Tags			tasks
//	@Param			queue	path	string	true	"Queue name"
//	@Param			taskID	path	string	true	"Task ID"
//	@Success		204
//	@Failure		404	{object}	object
//	@Router			/v1/tasks/{queue}/{taskID} [delete]
func (server *Server) deleteTask(ctx *gin.Context) {
	queue, taskID, err := taskParams(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	if err = server.taskInspector.CancelNotificationTask(ctx, queue, taskID); err != nil {
		ctx.JSON(taskErrorStatus(err), errorResponse(err))
		return
	}
	
	ctx.Status(http.StatusNoContent)
}
