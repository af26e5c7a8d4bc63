package reportshandler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"nursenest/internal/domain/audit"
	"nursenest/internal/domain/auth"
	"nursenest/internal/domain/contract"
	"nursenest/internal/domain/reports"
	"nursenest/internal/platform/crypto"
	"nursenest/internal/platform/jobs"
	"nursenest/internal/platform/metrics"
	"nursenest/internal/transport/http/api"
	"nursenest/internal/transport/http/middleware"
	"nursenest/internal/transport/http/shared"
)

type Handler struct {
	Reports       *reports.Service
	Contracts     *contract.Store
	Audit         *audit.Service
	Metrics       *metrics.Collector
	Jobs          *jobs.Service
	Crypto        *crypto.Service
	StatementsDir string
}

func NewHandler(rpt *reports.Service, contracts *contract.Store, auditor *audit.Service, collector *metrics.Collector, jobsSvc *jobs.Service, cryptoSvc *crypto.Service, statementsDir string) *Handler {
	return &Handler{
		Reports:       rpt,
		Contracts:     contracts,
		Audit:         auditor,
		Metrics:       collector,
		Jobs:          jobsSvc,
		Crypto:        cryptoSvc,
		StatementsDir: statementsDir,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleNurse, auth.RoleClient)).Get("/dashboard", h.handleDashboard)
	r.With(middleware.RequireRole(auth.RoleNurse)).Get("/reports/statement", h.handleOwnStatement)
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))
		r.Get("/dashboard", h.handleAdminDashboard)
		r.Get("/export/timecards.csv", h.handleExportTimecards)
		r.Get("/metrics", h.handleMetrics)
		r.Get("/audit", h.handleAuditList)
		r.Get("/nurses/{nurseID}/statement", h.handleNurseStatement)
		r.Post("/jobs/auto-approve", h.handleRunAutoApproval)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	switch user.Role {
	case auth.RoleNurse:
		nurse, err := h.Contracts.GetNurseByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "profile_not_found", "no nurse profile for the authenticated user", middleware.GetRequestID(r.Context()))
			return
		}
		data, err := h.Reports.NurseDashboard(r.Context(), nurse.ID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build dashboard", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, data, middleware.GetRequestID(r.Context()))
	case auth.RoleClient:
		client, err := h.Contracts.GetClientByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "profile_not_found", "no client profile for the authenticated user", middleware.GetRequestID(r.Context()))
			return
		}
		data, err := h.Reports.ClientDashboard(r.Context(), client.ID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build dashboard", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, data, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.Reports.AdminDashboard(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, data, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportTimecards(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=timecards.csv")
	if err := h.Reports.ExportTimecards(r.Context(), w, r.URL.Query().Get("status")); err != nil {
		slog.Warn("timecard export failed", "err", err)
	}
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAuditList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	events, err := h.Audit.List(r.Context(), r.URL.Query().Get("action"), r.URL.Query().Get("entityType"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOwnStatement(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	nurse, err := h.Contracts.GetNurseByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "profile_not_found", "no nurse profile for the authenticated user", middleware.GetRequestID(r.Context()))
		return
	}
	h.serveStatement(w, r, nurse.ID)
}

func (h *Handler) handleNurseStatement(w http.ResponseWriter, r *http.Request) {
	h.serveStatement(w, r, chi.URLParam(r, "nurseID"))
}

func (h *Handler) serveStatement(w http.ResponseWriter, r *http.Request, nurseID string) {
	path, err := h.Reports.GenerateEarningsStatement(r.Context(), h.Crypto, h.StatementsDir, nurseID)
	if err != nil {
		slog.Warn("statement generation failed", "nurseId", nurseID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "statement_failed", "failed to generate earnings statement", middleware.GetRequestID(r.Context()))
		return
	}

	// Encrypted statements stay at rest; the caller gets the storage path.
	if strings.HasSuffix(path, ".enc") {
		api.Success(w, map[string]string{"path": path, "encrypted": "true"}, middleware.GetRequestID(r.Context()))
		return
	}
	http.ServeFile(w, r, path)
}

func (h *Handler) handleRunAutoApproval(w http.ResponseWriter, r *http.Request) {
	details, err := h.Jobs.RunNow(r.Context(), jobs.JobAutoApproval, func(ctx context.Context) (any, error) {
		approved, err := h.Jobs.Timecards.AutoApprove(ctx, h.Jobs.Cfg.AutoApprovalAfter)
		return map[string]any{"approved": approved}, err
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_failed", "auto-approval run failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, details, middleware.GetRequestID(r.Context()))
}
