package paymentshandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nursenest/internal/domain/audit"
	"nursenest/internal/domain/auth"
	"nursenest/internal/domain/contract"
	"nursenest/internal/domain/notifications"
	"nursenest/internal/domain/payment"
	"nursenest/internal/domain/timecard"
	"nursenest/internal/platform/metrics"
	"nursenest/internal/transport/http/api"
	"nursenest/internal/transport/http/middleware"
	"nursenest/internal/transport/http/shared"
)

type Handler struct {
	Payments    *payment.Service
	Contracts   *contract.Store
	Idempotency *middleware.IdempotencyStore
	Metrics     *metrics.Collector
	Notify      *notifications.Service
	Audit       *audit.Service
}

func NewHandler(payments *payment.Service, contracts *contract.Store, idem *middleware.IdempotencyStore, collector *metrics.Collector, notify *notifications.Service, auditor *audit.Service) *Handler {
	return &Handler{Payments: payments, Contracts: contracts, Idempotency: idem, Metrics: collector, Notify: notify, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleNurse)).Post("/onboarding", h.handleStartOnboarding)
		r.With(middleware.RequireRole(auth.RoleNurse)).Post("/onboarding/refresh", h.handleRefreshStatus)
		r.With(middleware.RequireRole(auth.RoleNurse)).Get("/account", h.handleAccount)
	})
	r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/timecards/{timecardID}/pay", h.handlePay)
	r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/timecards/{timecardID}/retry-payment", h.handleRetry)
}

func (h *Handler) handleStartOnboarding(w http.ResponseWriter, r *http.Request) {
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

	email, err := h.nurseEmail(r, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "onboarding_failed", "failed to resolve nurse email", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Payments.StartOnboarding(r.Context(), nurse.ID, email)
	if err != nil {
		slog.Warn("onboarding start failed", "nurseId", nurse.ID, "err", err)
		api.Fail(w, http.StatusBadGateway, "onboarding_failed", "payment processor rejected the onboarding request", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payment.onboarding.start", "nurse", nurse.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]string{"accountStatus": result.AccountStatus}); err != nil {
		slog.Warn("audit payment.onboarding.start failed", "err", err)
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRefreshStatus(w http.ResponseWriter, r *http.Request) {
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

	status, err := h.Payments.RefreshAccountStatus(r.Context(), nurse.ID)
	if err != nil {
		slog.Warn("account status refresh failed", "nurseId", nurse.ID, "err", err)
		api.Fail(w, http.StatusBadGateway, "refresh_failed", "failed to refresh account status", middleware.GetRequestID(r.Context()))
		return
	}
	if n, ok := onboardingNotice(nurse, status); ok {
		h.deliver(r, n)
	}
	api.Success(w, map[string]string{"accountStatus": status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAccount(w http.ResponseWriter, r *http.Request) {
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
	api.Success(w, map[string]string{
		"accountId":     nurse.StripeAccountID,
		"accountStatus": nurse.StripeAccountStatus,
		"onboardingUrl": nurse.StripeOnboardingURL,
	}, middleware.GetRequestID(r.Context()))
}

type payPayload struct {
	PaymentMethodID string `json:"paymentMethodId"`
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	h.executePayment(w, r, false)
}

func (h *Handler) handleRetry(w http.ResponseWriter, r *http.Request) {
	h.executePayment(w, r, true)
}

func (h *Handler) executePayment(w http.ResponseWriter, r *http.Request, retry bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	timecardID := chi.URLParam(r, "timecardID")
	var payload payPayload
	if !retry {
		// Body is optional; absent means "use the client's first saved method".
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	endpoint := "payments.pay"
	if retry {
		endpoint = "payments.retry"
	}
	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash([]byte(timecardID + "|" + payload.PaymentMethodID))
	if idempotencyKey != "" {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, endpoint, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different request", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Success(w, json.RawMessage(stored), middleware.GetRequestID(r.Context()))
			return
		}
	}

	var receipt payment.Receipt
	var err error
	if retry {
		receipt, err = h.Payments.RetryTimecardPayment(r.Context(), timecardID)
	} else {
		receipt, err = h.Payments.ProcessTimecardPayment(r.Context(), timecardID, payload.PaymentMethodID)
	}
	if err != nil {
		h.failPayment(w, r, user.UserID, timecardID, err)
		return
	}

	h.Metrics.PaymentSucceeded()
	h.notifyParticipants(r, timecardID, receipt)
	if err := h.Audit.Record(r.Context(), user.UserID, "payment.charge", "timecard", timecardID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, receipt); err != nil {
		slog.Warn("audit payment.charge failed", "err", err)
	}

	if idempotencyKey != "" {
		encoded, err := json.Marshal(receipt)
		if err != nil {
			slog.Warn("idempotency response marshal failed", "err", err)
		} else if err := h.Idempotency.Save(r.Context(), user.UserID, endpoint, idempotencyKey, requestHash, encoded); err != nil {
			slog.Warn("idempotency save failed", "err", err)
		}
	}
	api.Success(w, receipt, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failPayment(w http.ResponseWriter, r *http.Request, actorID, timecardID string, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payment.ErrTimecardNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "timecard not found", reqID)
		return
	case errors.Is(err, payment.ErrTimecardNotPayable):
		h.Metrics.PaymentRejected()
		api.Fail(w, http.StatusConflict, "not_payable", "timecard is not in a payable status", reqID)
		return
	case errors.Is(err, payment.ErrAmountBelowMinimum):
		h.Metrics.PaymentRejected()
		api.Fail(w, http.StatusUnprocessableEntity, "amount_below_minimum", "client total is below the minimum chargeable amount", reqID)
		return
	case errors.Is(err, payment.ErrNoPaymentAccount):
		h.Metrics.PaymentRejected()
		api.Fail(w, http.StatusUnprocessableEntity, "no_payment_account", "nurse has not completed payment onboarding", reqID)
		return
	case errors.Is(err, payment.ErrNoCustomer):
		h.Metrics.PaymentRejected()
		api.Fail(w, http.StatusUnprocessableEntity, "no_customer", "client has no payment customer on file", reqID)
		return
	case errors.Is(err, payment.ErrNoPaymentMethod):
		h.Metrics.PaymentRejected()
		api.Fail(w, http.StatusUnprocessableEntity, "no_payment_method", "client has no saved payment method", reqID)
		return
	case errors.Is(err, payment.ErrAccountNotReady):
		h.Metrics.PaymentRejected()
		api.Fail(w, http.StatusUnprocessableEntity, "account_not_ready", "nurse account cannot receive payouts yet", reqID)
		return
	}

	h.Metrics.PaymentFailed()
	slog.Warn("payment execution failed", "timecardId", timecardID, "err", err)
	h.notifyFailure(r, timecardID)
	if auditErr := h.Audit.Record(r.Context(), actorID, "payment.charge.failed", "timecard", timecardID, reqID, shared.ClientIP(r), nil, map[string]string{"error": err.Error()}); auditErr != nil {
		slog.Warn("audit payment.charge.failed failed", "err", auditErr)
	}
	api.Fail(w, http.StatusBadGateway, "charge_failed", "payment processor rejected the charge; the timecard remains payable", reqID)
}

// notice is one pending in-app notification; the builders below are pure so
// the message selection can be tested without a store.
type notice struct {
	UserID string
	Type   string
	Title  string
	Body   string
}

func successNotices(nurse contract.Nurse, client contract.Client, receipt payment.Receipt) []notice {
	return []notice{
		{
			UserID: nurse.UserID,
			Type:   notifications.TypePaymentCompleted,
			Title:  "Payment sent",
			Body:   "Your shift payment of $" + receipt.Amounts.NurseNetAmount.StringFixed(2) + " is on its way.",
		},
		{
			UserID: client.UserID,
			Type:   notifications.TypePaymentCompleted,
			Title:  "Payment processed",
			Body:   "Your card was charged $" + receipt.Amounts.ClientTotalAmount.StringFixed(2) + " for a completed shift.",
		},
	}
}

func failureNotices(nurse contract.Nurse, client contract.Client) []notice {
	return []notice{
		{
			UserID: nurse.UserID,
			Type:   notifications.TypePaymentFailed,
			Title:  "Payment delayed",
			Body:   "A payment for one of your shifts did not go through. The charge will be retried.",
		},
		{
			UserID: client.UserID,
			Type:   notifications.TypePaymentFailed,
			Title:  "Payment failed",
			Body:   "Your card could not be charged for a completed shift. Please check your saved payment method.",
		},
	}
}

func onboardingNotice(nurse contract.Nurse, accountStatus string) (notice, bool) {
	if accountStatus != payment.AccountStatusRequirementsDue {
		return notice{}, false
	}
	return notice{
		UserID: nurse.UserID,
		Type:   notifications.TypeOnboardingRequired,
		Title:  "Action needed on your payment account",
		Body:   "Your payment account needs more information before payouts can continue. Please finish onboarding.",
	}, true
}

func (h *Handler) deliver(r *http.Request, notices ...notice) {
	for _, n := range notices {
		if n.UserID == "" {
			continue
		}
		if err := h.Notify.Create(r.Context(), n.UserID, n.Type, n.Title, n.Body); err != nil {
			slog.Warn("notification delivery failed", "type", n.Type, "err", err)
		}
	}
}

func (h *Handler) participants(r *http.Request, timecardID string) (contract.Nurse, contract.Client, error) {
	ct, err := h.timecardContract(r, timecardID)
	if err != nil {
		return contract.Nurse{}, contract.Client{}, err
	}
	nurse, err := h.Contracts.GetNurse(r.Context(), ct.NurseID)
	if err != nil {
		return contract.Nurse{}, contract.Client{}, err
	}
	client, err := h.Contracts.GetClient(r.Context(), ct.ClientID)
	if err != nil {
		return contract.Nurse{}, contract.Client{}, err
	}
	return nurse, client, nil
}

func (h *Handler) notifyParticipants(r *http.Request, timecardID string, receipt payment.Receipt) {
	nurse, client, err := h.participants(r, timecardID)
	if err != nil {
		slog.Warn("payment notification lookup failed", "err", err)
		return
	}
	h.deliver(r, successNotices(nurse, client, receipt)...)
}

func (h *Handler) notifyFailure(r *http.Request, timecardID string) {
	nurse, client, err := h.participants(r, timecardID)
	if err != nil {
		slog.Warn("payment failure notification lookup failed", "err", err)
		return
	}
	h.deliver(r, failureNotices(nurse, client)...)
}

func (h *Handler) timecardContract(r *http.Request, timecardID string) (contract.Contract, error) {
	var contractID string
	tc, err := h.timecardByID(r, timecardID)
	if err != nil {
		return contract.Contract{}, err
	}
	contractID = tc.ContractID
	return h.Contracts.GetContract(r.Context(), contractID)
}

func (h *Handler) nurseEmail(r *http.Request, userID string) (string, error) {
	var email string
	err := h.Contracts.DB.QueryRow(r.Context(), "SELECT email FROM users WHERE id = $1", userID).Scan(&email)
	return email, err
}

func (h *Handler) timecardByID(r *http.Request, id string) (timecard.Timecard, error) {
	var tc timecard.Timecard
	err := h.Contracts.DB.QueryRow(r.Context(), "SELECT id, contract_id FROM timecards WHERE id = $1", id).Scan(&tc.ID, &tc.ContractID)
	return tc, err
}
