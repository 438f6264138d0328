package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
)

type OrganizationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetMine(w http.ResponseWriter, r *http.Request)
	UpdateMine(w http.ResponseWriter, r *http.Request)
	AddMember(w http.ResponseWriter, r *http.Request)
}

type organizationHandlerImpl struct {
	organizationService organization.OrganizationService
}

func NewOrganizationHandler(organizationService organization.OrganizationService) OrganizationHandler {
	return &organizationHandlerImpl{organizationService: organizationService}
}

// Create implements OrganizationHandler. The response carries a token with the new organization.
func (h *organizationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req organization.UpsertOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.organizationService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Organization created successfully", result)
}

func (h *organizationHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.organizationService.GetMine(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *organizationHandlerImpl) UpdateMine(w http.ResponseWriter, r *http.Request) {
	var req organization.UpsertOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.organizationService.UpdateMine(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Organization updated successfully", result)
}

func (h *organizationHandlerImpl) AddMember(w http.ResponseWriter, r *http.Request) {
	var req organization.AddMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.organizationService.AddMember(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Member added successfully", result)
}
