package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// WindowHandler serves the VET and VTO endpoints of a schedule.
type WindowHandler interface {
	OpenVET(w http.ResponseWriter, r *http.Request)
	GetVET(w http.ResponseWriter, r *http.Request)
	UpdateVET(w http.ResponseWriter, r *http.Request)
	ConfirmVET(w http.ResponseWriter, r *http.Request)

	OpenVTO(w http.ResponseWriter, r *http.Request)
	GetVTO(w http.ResponseWriter, r *http.Request)
	UpdateVTO(w http.ResponseWriter, r *http.Request)
	AcceptVTO(w http.ResponseWriter, r *http.Request)
}

type windowHandlerImpl struct {
	vetService window.VETService
	vtoService window.VTOService
}

func NewWindowHandler(vetService window.VETService, vtoService window.VTOService) WindowHandler {
	return &windowHandlerImpl{vetService: vetService, vtoService: vtoService}
}

func (h *windowHandlerImpl) OpenVET(w http.ResponseWriter, r *http.Request) {
	var req window.OpenVETRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.vetService.OpenVET(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "VET opened successfully", result)
}

func (h *windowHandlerImpl) GetVET(w http.ResponseWriter, r *http.Request) {
	result, err := h.vetService.GetVET(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *windowHandlerImpl) UpdateVET(w http.ResponseWriter, r *http.Request) {
	var req window.UpdateVETRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.vetService.UpdateVET(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "VET updated successfully", result)
}

func (h *windowHandlerImpl) ConfirmVET(w http.ResponseWriter, r *http.Request) {
	var req window.EmployeeActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.vetService.ConfirmVET(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "VET confirmed successfully", result)
}

func (h *windowHandlerImpl) OpenVTO(w http.ResponseWriter, r *http.Request) {
	result, err := h.vtoService.OpenVTO(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "VTO opened successfully", result)
}

func (h *windowHandlerImpl) GetVTO(w http.ResponseWriter, r *http.Request) {
	result, err := h.vtoService.GetVTO(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *windowHandlerImpl) UpdateVTO(w http.ResponseWriter, r *http.Request) {
	var req window.UpdateVTORequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.vtoService.UpdateVTO(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "VTO updated successfully", result)
}

func (h *windowHandlerImpl) AcceptVTO(w http.ResponseWriter, r *http.Request) {
	var req window.EmployeeActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.vtoService.AcceptVTO(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "VTO accepted successfully", result)
}
