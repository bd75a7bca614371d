package http

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AbsenceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Admin
	AdminList(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type AbsenceHandlerImpl struct {
	absenceService absence.AbsenceService
}

func NewAbsenceHandler(absenceService absence.AbsenceService) AbsenceHandler {
	return &AbsenceHandlerImpl{absenceService: absenceService}
}

func absenceFilter(r *http.Request) absence.AbsenceFilter {
	filter := absence.AbsenceFilter{
		UserID:    queryString(r, "user_id"),
		CompanyID: queryString(r, "company_id"),
		Status:    queryString(r, "status"),
	}
	filter.Page, filter.Limit = pagination(r)
	return filter
}

// List implements AbsenceHandler.
func (h *AbsenceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	absences, err := h.absenceService.ListMine(r.Context(), actor, absenceFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, absences)
}

// Create implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req absence.CreateAbsenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.absenceService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence submitted successfully", created)
}

// GetByID implements AbsenceHandler.
func (h *AbsenceHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	found, err := h.absenceService.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Delete implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.absenceService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence deleted successfully", nil)
}

// AdminList implements AbsenceHandler.
func (h *AbsenceHandlerImpl) AdminList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	absences, err := h.absenceService.ListAll(r.Context(), actor, absenceFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, absences)
}

// UpdateStatus implements AbsenceHandler.
func (h *AbsenceHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req absence.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reviewed, err := h.absenceService.UpdateStatus(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence "+reviewed.Status, reviewed)
}
