package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AdjustmentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Admin
	AdminList(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type AdjustmentHandlerImpl struct {
	adjustmentService adjustment.AdjustmentService
}

func NewAdjustmentHandler(adjustmentService adjustment.AdjustmentService) AdjustmentHandler {
	return &AdjustmentHandlerImpl{adjustmentService: adjustmentService}
}

func adjustmentFilter(r *http.Request) adjustment.AdjustmentFilter {
	filter := adjustment.AdjustmentFilter{
		UserID:       queryString(r, "user_id"),
		CompanyID:    queryString(r, "company_id"),
		TimeRecordID: queryString(r, "time_record_id"),
		Status:       queryString(r, "status"),
	}
	filter.Page, filter.Limit = pagination(r)
	return filter
}

// decodeReview accepts an empty body as a review without notes.
func decodeReview(w http.ResponseWriter, r *http.Request) (adjustment.ReviewRequest, bool) {
	var req adjustment.ReviewRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, true
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := jsonDecode(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}
	return req, true
}

// List implements AdjustmentHandler.
func (h *AdjustmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	adjustments, err := h.adjustmentService.ListMine(r.Context(), actor, adjustmentFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, adjustments)
}

// Create implements AdjustmentHandler.
func (h *AdjustmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req adjustment.CreateAdjustmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.adjustmentService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment request submitted successfully", created)
}

// GetByID implements AdjustmentHandler.
func (h *AdjustmentHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	found, err := h.adjustmentService.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Delete implements AdjustmentHandler.
func (h *AdjustmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.adjustmentService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment request deleted successfully", nil)
}

// AdminList implements AdjustmentHandler.
func (h *AdjustmentHandlerImpl) AdminList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	adjustments, err := h.adjustmentService.ListAll(r.Context(), actor, adjustmentFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, adjustments)
}

// Approve implements AdjustmentHandler.
func (h *AdjustmentHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req, ok := decodeReview(w, r)
	if !ok {
		return
	}

	approved, err := h.adjustmentService.Approve(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment request approved", approved)
}

// Reject implements AdjustmentHandler.
func (h *AdjustmentHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	req, ok := decodeReview(w, r)
	if !ok {
		return
	}

	rejected, err := h.adjustmentService.Reject(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment request rejected", rejected)
}
