package contract

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetContract(ctx context.Context, id string) (Contract, error) {
	var c Contract
	err := s.DB.QueryRow(ctx, `
    SELECT id, nurse_id, client_id, job_code, hourly_rate, status, created_at
    FROM contracts
    WHERE id = $1
  `, id).Scan(&c.ID, &c.NurseID, &c.ClientID, &c.JobCode, &c.HourlyRate, &c.Status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, ErrContractNotFound
	}
	if err != nil {
		return Contract{}, err
	}
	return c, nil
}

func (s *Store) CreateContract(ctx context.Context, nurseID, clientID, jobCode string, hourlyRate decimal.Decimal) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contracts (nurse_id, client_id, job_code, hourly_rate, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, nurseID, clientID, jobCode, hourlyRate, StatusActive).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListContractsForNurse(ctx context.Context, nurseID string) ([]Contract, error) {
	return s.listContracts(ctx, "nurse_id", nurseID)
}

func (s *Store) ListContractsForClient(ctx context.Context, clientID string) ([]Contract, error) {
	return s.listContracts(ctx, "client_id", clientID)
}

func (s *Store) listContracts(ctx context.Context, column, value string) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, nurse_id, client_id, job_code, hourly_rate, status, created_at
    FROM contracts
    WHERE `+column+` = $1
    ORDER BY created_at DESC
  `, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.ID, &c.NurseID, &c.ClientID, &c.JobCode, &c.HourlyRate, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

func (s *Store) GetNurse(ctx context.Context, id string) (Nurse, error) {
	var n Nurse
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, first_name, last_name,
           COALESCE(stripe_account_id, ''), stripe_account_status, COALESCE(stripe_onboarding_url, '')
    FROM nurses
    WHERE id = $1
  `, id).Scan(&n.ID, &n.UserID, &n.FirstName, &n.LastName, &n.StripeAccountID, &n.StripeAccountStatus, &n.StripeOnboardingURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return Nurse{}, ErrNurseNotFound
	}
	if err != nil {
		return Nurse{}, err
	}
	return n, nil
}

func (s *Store) GetNurseByUserID(ctx context.Context, userID string) (Nurse, error) {
	var n Nurse
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, first_name, last_name,
           COALESCE(stripe_account_id, ''), stripe_account_status, COALESCE(stripe_onboarding_url, '')
    FROM nurses
    WHERE user_id = $1
  `, userID).Scan(&n.ID, &n.UserID, &n.FirstName, &n.LastName, &n.StripeAccountID, &n.StripeAccountStatus, &n.StripeOnboardingURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return Nurse{}, ErrNurseNotFound
	}
	if err != nil {
		return Nurse{}, err
	}
	return n, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (Client, error) {
	var c Client
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, first_name, last_name, COALESCE(stripe_customer_id, '')
    FROM clients
    WHERE id = $1
  `, id).Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.StripeCustomerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrClientNotFound
	}
	if err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Store) GetClientByUserID(ctx context.Context, userID string) (Client, error) {
	var c Client
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, first_name, last_name, COALESCE(stripe_customer_id, '')
    FROM clients
    WHERE user_id = $1
  `, userID).Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.StripeCustomerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrClientNotFound
	}
	if err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Store) UpdateNurseAccount(ctx context.Context, nurseID, accountID, status, onboardingURL string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE nurses
    SET stripe_account_id = NULLIF($2, ''),
        stripe_account_status = $3,
        stripe_onboarding_url = NULLIF($4, ''),
        updated_at = now()
    WHERE id = $1
  `, nurseID, accountID, status, onboardingURL)
	return err
}
