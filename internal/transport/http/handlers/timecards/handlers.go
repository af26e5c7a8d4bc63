package timecardshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nursenest/internal/domain/audit"
	"nursenest/internal/domain/auth"
	"nursenest/internal/domain/contract"
	"nursenest/internal/domain/notifications"
	"nursenest/internal/domain/timecard"
	"nursenest/internal/transport/http/api"
	"nursenest/internal/transport/http/middleware"
	"nursenest/internal/transport/http/shared"
)

type Handler struct {
	Timecards *timecard.Service
	Contracts *contract.Store
	Notify    *notifications.Service
	Audit     *audit.Service
}

func NewHandler(timecards *timecard.Service, contracts *contract.Store, notify *notifications.Service, auditor *audit.Service) *Handler {
	return &Handler{Timecards: timecards, Contracts: contracts, Notify: notify, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleNurse)).Post("/timecards", h.handleSubmit)
	r.With(middleware.RequireRole(auth.RoleNurse, auth.RoleClient, auth.RoleAdmin)).Get("/timecards", h.handleList)
	r.With(middleware.RequireRole(auth.RoleNurse, auth.RoleClient, auth.RoleAdmin)).Get("/timecards/estimate", h.handleEstimate)
	r.With(middleware.RequireRole(auth.RoleNurse, auth.RoleClient, auth.RoleAdmin)).Get("/timecards/{timecardID}", h.handleGet)
	r.With(middleware.RequireRole(auth.RoleClient, auth.RoleAdmin)).Post("/timecards/{timecardID}/approve", h.handleApprove)
	r.With(middleware.RequireRole(auth.RoleClient, auth.RoleAdmin)).Post("/timecards/{timecardID}/reject", h.handleReject)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var sub timecard.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if sub.ContractID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "contract id is required", middleware.GetRequestID(r.Context()))
		return
	}

	nurse, err := h.Contracts.GetNurseByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "profile_not_found", "no nurse profile for the authenticated user", middleware.GetRequestID(r.Context()))
		return
	}

	tc, result, err := h.Timecards.Submit(r.Context(), nurse.ID, sub)
	if err != nil {
		switch {
		case errors.Is(err, contract.ErrContractNotFound):
			api.Fail(w, http.StatusNotFound, "contract_not_found", "contract not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timecard.ErrNotContractNurse):
			api.Fail(w, http.StatusForbidden, "forbidden", "contract does not belong to the submitting nurse", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timecard.ErrContractInactive):
			api.Fail(w, http.StatusConflict, "contract_inactive", "contract is not active", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "timecard_submit_failed", "failed to submit timecard", middleware.GetRequestID(r.Context()))
		}
		return
	}
	if !result.IsValid {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "timecard submission failed validation",
			map[string]any{"errors": result.Errors, "warnings": result.Warnings}, middleware.GetRequestID(r.Context()))
		return
	}

	c, err := h.Contracts.GetContract(r.Context(), tc.ContractID)
	if err == nil {
		client, err := h.Contracts.GetClient(r.Context(), c.ClientID)
		if err == nil {
			if err := h.Notify.Create(r.Context(), client.UserID, notifications.TypeTimecardSubmitted,
				"Timecard submitted", "A nurse submitted a timecard for your review."); err != nil {
				slog.Warn("submit notification failed", "err", err)
			}
		}
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "timecard.submit", "timecard", tc.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, sub); err != nil {
		slog.Warn("audit timecard.submit failed", "err", err)
	}

	api.Created(w, map[string]any{"timecard": tc, "warnings": result.Warnings}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	filter := timecard.ListFilter{
		ContractID: r.URL.Query().Get("contractId"),
		Status:     r.URL.Query().Get("status"),
	}
	switch user.Role {
	case auth.RoleNurse:
		nurse, err := h.Contracts.GetNurseByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "profile_not_found", "no nurse profile for the authenticated user", middleware.GetRequestID(r.Context()))
			return
		}
		filter.NurseID = nurse.ID
	case auth.RoleClient:
		client, err := h.Contracts.GetClientByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "profile_not_found", "no client profile for the authenticated user", middleware.GetRequestID(r.Context()))
			return
		}
		filter.ClientID = client.ID
	}

	page := shared.ParsePagination(r, 50, 200)
	items, total, err := h.Timecards.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timecard_list_failed", "failed to list timecards", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"items":  items,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	contractID := r.URL.Query().Get("contractId")
	hoursRaw := r.URL.Query().Get("hours")

	v := shared.NewValidator()
	v.Required("contractId", contractID, "contract id is required")
	hours, err := strconv.ParseFloat(hoursRaw, 64)
	if err != nil {
		v.Add("hours", "must be a number")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	fin, err := h.Timecards.Estimate(r.Context(), contractID, hours)
	if err != nil {
		if errors.Is(err, contract.ErrContractNotFound) {
			api.Fail(w, http.StatusNotFound, "contract_not_found", "contract not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "estimate_failed", "failed to estimate financials", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, fin, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	tc, err := h.Timecards.Get(r.Context(), chi.URLParam(r, "timecardID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "timecard not found", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.canSee(r, user, tc) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, tc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	timecardID := chi.URLParam(r, "timecardID")
	if user.Role == auth.RoleClient && !h.clientOwnsTimecard(r, user.UserID, timecardID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "timecard does not belong to one of your contracts", middleware.GetRequestID(r.Context()))
		return
	}

	tc, err := h.Timecards.Approve(r.Context(), timecardID, user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, timecard.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "timecard not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timecard.ErrInvalidTransition):
			api.Fail(w, http.StatusConflict, "invalid_state", "only submitted timecards can be approved", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "timecard_approve_failed", "failed to approve timecard", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.notifyNurse(r, tc.ContractID, notifications.TypeTimecardApproved, "Timecard approved", "Your timecard was approved and is queued for payment.")
	if err := h.Audit.Record(r.Context(), user.UserID, "timecard.approve", "timecard", tc.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"status": tc.Status}); err != nil {
		slog.Warn("audit timecard.approve failed", "err", err)
	}
	api.Success(w, tc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	timecardID := chi.URLParam(r, "timecardID")
	if user.Role == auth.RoleClient && !h.clientOwnsTimecard(r, user.UserID, timecardID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "timecard does not belong to one of your contracts", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	tc, err := h.Timecards.Reject(r.Context(), timecardID, payload.Reason)
	if err != nil {
		switch {
		case errors.Is(err, timecard.ErrRejectionReasonMissing):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "rejection requires a reason", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timecard.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "timecard not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, timecard.ErrInvalidTransition):
			api.Fail(w, http.StatusConflict, "invalid_state", "only submitted timecards can be rejected", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "timecard_reject_failed", "failed to reject timecard", middleware.GetRequestID(r.Context()))
		}
		return
	}

	h.notifyNurse(r, tc.ContractID, notifications.TypeTimecardRejected, "Timecard rejected", "Your timecard was rejected: "+tc.RejectionReason)
	if err := h.Audit.Record(r.Context(), user.UserID, "timecard.reject", "timecard", tc.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit timecard.reject failed", "err", err)
	}
	api.Success(w, tc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) canSee(r *http.Request, user auth.UserContext, tc timecard.Timecard) bool {
	if user.Role == auth.RoleAdmin {
		return true
	}
	c, err := h.Contracts.GetContract(r.Context(), tc.ContractID)
	if err != nil {
		return false
	}
	switch user.Role {
	case auth.RoleNurse:
		nurse, err := h.Contracts.GetNurseByUserID(r.Context(), user.UserID)
		return err == nil && nurse.ID == c.NurseID
	case auth.RoleClient:
		client, err := h.Contracts.GetClientByUserID(r.Context(), user.UserID)
		return err == nil && client.ID == c.ClientID
	}
	return false
}

func (h *Handler) clientOwnsTimecard(r *http.Request, userID, timecardID string) bool {
	tc, err := h.Timecards.Get(r.Context(), timecardID)
	if err != nil {
		return true // let the service surface not-found with the right status
	}
	c, err := h.Contracts.GetContract(r.Context(), tc.ContractID)
	if err != nil {
		return false
	}
	client, err := h.Contracts.GetClientByUserID(r.Context(), userID)
	return err == nil && client.ID == c.ClientID
}

func (h *Handler) notifyNurse(r *http.Request, contractID, ntype, title, body string) {
	c, err := h.Contracts.GetContract(r.Context(), contractID)
	if err != nil {
		slog.Warn("notify nurse contract lookup failed", "err", err)
		return
	}
	nurse, err := h.Contracts.GetNurse(r.Context(), c.NurseID)
	if err != nil {
		slog.Warn("notify nurse lookup failed", "err", err)
		return
	}
	if err := h.Notify.Create(r.Context(), nurse.UserID, ntype, title, body); err != nil {
		slog.Warn("nurse notification failed", "err", err)
	}
}
