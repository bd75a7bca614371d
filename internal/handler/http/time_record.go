package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeRecordHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Store(w http.ResponseWriter, r *http.Request)
	QuickEntry(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	HourBank(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	// Admin
	Audit(w http.ResponseWriter, r *http.Request)
	AdminList(w http.ResponseWriter, r *http.Request)
	AdminUpdate(w http.ResponseWriter, r *http.Request)
	AdminDelete(w http.ResponseWriter, r *http.Request)
	CompanyHourBank(w http.ResponseWriter, r *http.Request)
}

type TimeRecordHandlerImpl struct {
	timeRecordService timerecord.TimeRecordService
}

func NewTimeRecordHandler(timeRecordService timerecord.TimeRecordService) TimeRecordHandler {
	return &TimeRecordHandlerImpl{timeRecordService: timeRecordService}
}

func timeRecordFilter(r *http.Request) timerecord.TimeRecordFilter {
	filter := timerecord.TimeRecordFilter{
		UserID:    queryString(r, "user_id"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	}
	filter.Page, filter.Limit = pagination(r)
	return filter
}

func hourBankFilter(r *http.Request) timerecord.HourBankFilter {
	return timerecord.HourBankFilter{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	}
}

// List implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	records, err := h.timeRecordService.List(r.Context(), actor, timeRecordFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Store implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) Store(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req timerecord.StoreTimeRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.timeRecordService.Store(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time record saved successfully", record)
}

// QuickEntry implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) QuickEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	entry, err := h.timeRecordService.QuickEntry(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock event recorded", entry)
}

// GetByID implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	record, err := h.timeRecordService.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// HourBank implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) HourBank(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	bank, err := h.timeRecordService.HourBank(r.Context(), actor, hourBankFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, bank)
}

// Export implements TimeRecordHandler. The body is the raw PDF, not an envelope.
func (h *TimeRecordHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	pdf, err := h.timeRecordService.ExportTimesheet(r.Context(), actor, hourBankFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "timesheet-"+actor.UserID+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// Audit implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) Audit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	audit, err := h.timeRecordService.Audit(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, audit)
}

// AdminList implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) AdminList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	records, err := h.timeRecordService.AdminList(r.Context(), actor, timeRecordFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// AdminUpdate implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req timerecord.UpdateTimeRecordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.timeRecordService.AdminUpdate(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time record updated successfully", record)
}

// AdminDelete implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) AdminDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.timeRecordService.AdminDelete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time record deleted successfully", nil)
}

// CompanyHourBank implements TimeRecordHandler.
func (h *TimeRecordHandlerImpl) CompanyHourBank(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	report, err := h.timeRecordService.CompanyHourBank(r.Context(), actor, hourBankFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}
