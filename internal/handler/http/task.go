package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TaskHandler interface {
	ListTasks(w http.ResponseWriter, r *http.Request)
	UpdateTask(w http.ResponseWriter, r *http.Request)
	BatchUpdateTasks(w http.ResponseWriter, r *http.Request)
	GetWorkforcePlans(w http.ResponseWriter, r *http.Request)
	ApplyPlan(w http.ResponseWriter, r *http.Request)
}

type taskHandlerImpl struct {
	taskService task.TaskService
}

func NewTaskHandler(taskService task.TaskService) TaskHandler {
	return &taskHandlerImpl{taskService: taskService}
}

func (h *taskHandlerImpl) ListTasks(w http.ResponseWriter, r *http.Request) {
	result, err := h.taskService.ListTasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taskHandlerImpl) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req task.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.taskService.UpdateTask(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task updated successfully", result)
}

func (h *taskHandlerImpl) BatchUpdateTasks(w http.ResponseWriter, r *http.Request) {
	var req task.BatchUpdateTasksRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.taskService.BatchUpdateTasks(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tasks updated successfully", result)
}

func (h *taskHandlerImpl) GetWorkforcePlans(w http.ResponseWriter, r *http.Request) {
	result, err := h.taskService.GetWorkforcePlans(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taskHandlerImpl) ApplyPlan(w http.ResponseWriter, r *http.Request) {
	var req task.ApplyPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.taskService.ApplyPlan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Plan applied successfully", result)
}
