package contractshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"nursenest/internal/domain/audit"
	"nursenest/internal/domain/auth"
	"nursenest/internal/domain/contract"
	"nursenest/internal/transport/http/api"
	"nursenest/internal/transport/http/middleware"
	"nursenest/internal/transport/http/shared"
)

type Handler struct {
	Store *contract.Store
	Audit *audit.Service
}

func NewHandler(store *contract.Store, auditor *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/contracts", h.handleCreate)
	r.With(middleware.RequireRole(auth.RoleNurse, auth.RoleClient, auth.RoleAdmin)).Get("/contracts", h.handleList)
	r.With(middleware.RequireRole(auth.RoleNurse, auth.RoleClient)).Get("/profiles/me", h.handleMyProfile)
}

type createPayload struct {
	NurseID    string  `json:"nurseId"`
	ClientID   string  `json:"clientId"`
	JobCode    string  `json:"jobCode"`
	HourlyRate float64 `json:"hourlyRate"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("nurseId", payload.NurseID, "nurse id is required")
	v.Required("clientId", payload.ClientID, "client id is required")
	v.Required("jobCode", payload.JobCode, "job code is required")
	v.Positive("hourlyRate", payload.HourlyRate, "hourly rate must be greater than 0")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateContract(r.Context(), payload.NurseID, payload.ClientID, payload.JobCode, decimal.NewFromFloat(payload.HourlyRate))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "contract_create_failed", "failed to create contract", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "contract.create", "contract", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit contract.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var contracts []contract.Contract
	var err error
	switch user.Role {
	case auth.RoleNurse:
		var nurse contract.Nurse
		nurse, err = h.Store.GetNurseByUserID(r.Context(), user.UserID)
		if err == nil {
			contracts, err = h.Store.ListContractsForNurse(r.Context(), nurse.ID)
		}
	case auth.RoleClient:
		var client contract.Client
		client, err = h.Store.GetClientByUserID(r.Context(), user.UserID)
		if err == nil {
			contracts, err = h.Store.ListContractsForClient(r.Context(), client.ID)
		}
	default:
		if nurseID := r.URL.Query().Get("nurseId"); nurseID != "" {
			contracts, err = h.Store.ListContractsForNurse(r.Context(), nurseID)
		} else if clientID := r.URL.Query().Get("clientId"); clientID != "" {
			contracts, err = h.Store.ListContractsForClient(r.Context(), clientID)
		} else {
			api.Fail(w, http.StatusBadRequest, "invalid_query", "nurseId or clientId query parameter required", middleware.GetRequestID(r.Context()))
			return
		}
	}
	if err != nil {
		if errors.Is(err, contract.ErrNurseNotFound) || errors.Is(err, contract.ErrClientNotFound) {
			api.Fail(w, http.StatusNotFound, "profile_not_found", "no profile for the authenticated user", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "contract_list_failed", "failed to list contracts", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, contracts, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	switch user.Role {
	case auth.RoleNurse:
		nurse, err := h.Store.GetNurseByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "profile_not_found", "no nurse profile for the authenticated user", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, nurse, middleware.GetRequestID(r.Context()))
	case auth.RoleClient:
		client, err := h.Store.GetClientByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "profile_not_found", "no client profile for the authenticated user", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, client, middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusForbidden, "forbidden", "admins have no profile", middleware.GetRequestID(r.Context()))
	}
}
