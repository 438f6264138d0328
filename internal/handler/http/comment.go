package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/comment"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CommentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type commentHandlerImpl struct {
	commentService comment.CommentService
}

func NewCommentHandler(commentService comment.CommentService) CommentHandler {
	return &commentHandlerImpl{commentService: commentService}
}

func (h *commentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.commentService.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *commentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req comment.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.commentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Comment added", result)
}

func (h *commentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.commentService.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "commentID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Comment deleted", nil)
}
