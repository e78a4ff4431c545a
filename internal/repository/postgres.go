package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mockbank/bank/internal/db"
	"github.com/mockbank/bank/internal/models"
)

// PostgresGateway implements Gateway on top of PostgreSQL. Owner saves run in
// a single database transaction so the owner row and its account rows never
// diverge.
type PostgresGateway struct {
	db *db.DB
}

// NewPostgresGateway creates a new PostgresGateway
func NewPostgresGateway(database *db.DB) *PostgresGateway {
	return &PostgresGateway{db: database}
}

var _ Gateway = (*PostgresGateway)(nil)

// LoadOwner retrieves an owner with its accounts and account histories.
func (g *PostgresGateway) LoadOwner(ctx context.Context, ownerID string) (*models.Owner, error) {
	query := `
		SELECT id, username, first_name, last_name, branch_id, created_at, updated_at
		FROM owners
		WHERE id = $1
	`

	var owner models.Owner
	err := g.db.QueryRowContext(ctx, query, ownerID).Scan(
		&owner.ID,
		&owner.Username,
		&owner.FirstName,
		&owner.LastName,
		&owner.BranchID,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("owner %s: %w", ownerID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}

	if err := g.loadAccounts(ctx, &owner); err != nil {
		return nil, err
	}
	if err := g.loadHistories(ctx, &owner); err != nil {
		return nil, err
	}

	return &owner, nil
}

func (g *PostgresGateway) loadAccounts(ctx context.Context, owner *models.Owner) error {
	query := `
		SELECT id, owner_id, type, balance,
		       overdraft_limit, min_balance, monthly_fee,
		       minimum_balance, interest_rate, credit_limit,
		       created_at, updated_at
		FROM accounts
		WHERE owner_id = $1
		ORDER BY id
	`

	rows, err := g.db.QueryContext(ctx, query, owner.ID)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var acct models.Account
		if err := rows.Scan(
			&acct.ID,
			&acct.OwnerID,
			&acct.Type,
			&acct.Balance,
			&acct.Terms.OverdraftLimit,
			&acct.Terms.MinBalance,
			&acct.Terms.MonthlyFee,
			&acct.Terms.MinimumBalance,
			&acct.Terms.InterestRate,
			&acct.Terms.CreditLimit,
			&acct.CreatedAt,
			&acct.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan account: %w", err)
		}
		owner.Accounts = append(owner.Accounts, &acct)
	}

	return rows.Err()
}

// loadHistories attaches every transaction touching one of the owner's
// accounts, ordered by execution sequence. A transfer between two accounts of
// the same owner appears in both histories as the same record.
func (g *PostgresGateway) loadHistories(ctx context.Context, owner *models.Owner) error {
	if len(owner.Accounts) == 0 {
		return nil
	}

	byID := make(map[string]*models.Account, len(owner.Accounts))
	ids := make([]string, 0, len(owner.Accounts))
	for _, acct := range owner.Accounts {
		byID[acct.ID] = acct
		ids = append(ids, acct.ID)
	}

	query := `
		SELECT id, seq, source_owner_id, source_account_id,
		       receiver_owner_id, receiver_account_id,
		       amount, type, status, created_at
		FROM transactions
		WHERE source_account_id = ANY($1) OR receiver_account_id = ANY($1)
		ORDER BY seq
	`

	rows, err := g.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load transaction history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.Seq,
			&txn.SourceOwnerID,
			&txn.SourceAccountID,
			&txn.ReceiverOwnerID,
			&txn.ReceiverAccountID,
			&txn.Amount,
			&txn.Type,
			&txn.Status,
			&txn.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan transaction: %w", err)
		}

		if acct, ok := byID[txn.SourceAccountID]; ok {
			acct.History = append(acct.History, &txn)
		}
		if acct, ok := byID[txn.ReceiverAccountID]; ok && txn.ReceiverAccountID != txn.SourceAccountID {
			acct.History = append(acct.History, &txn)
		}
	}

	return rows.Err()
}

// SaveOwner upserts the owner row and its account rows in one database
// transaction.
func (g *PostgresGateway) SaveOwner(ctx context.Context, owner *models.Owner) error {
	tx, err := g.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	ownerQuery := `
		INSERT INTO owners (id, username, first_name, last_name, branch_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    branch_id = EXCLUDED.branch_id,
		    updated_at = NOW()
	`
	if _, err := tx.ExecContext(ctx, ownerQuery,
		owner.ID, owner.Username, owner.FirstName, owner.LastName, owner.BranchID,
	); err != nil {
		return fmt.Errorf("failed to save owner: %w", err)
	}

	acctQuery := `
		INSERT INTO accounts (id, owner_id, type, balance,
		                      overdraft_limit, min_balance, monthly_fee,
		                      minimum_balance, interest_rate, credit_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET balance = EXCLUDED.balance,
		    overdraft_limit = EXCLUDED.overdraft_limit,
		    min_balance = EXCLUDED.min_balance,
		    monthly_fee = EXCLUDED.monthly_fee,
		    minimum_balance = EXCLUDED.minimum_balance,
		    interest_rate = EXCLUDED.interest_rate,
		    credit_limit = EXCLUDED.credit_limit,
		    updated_at = NOW()
	`
	for _, acct := range owner.Accounts {
		if _, err := tx.ExecContext(ctx, acctQuery,
			acct.ID, owner.ID, acct.Type, acct.Balance,
			acct.Terms.OverdraftLimit, acct.Terms.MinBalance, acct.Terms.MonthlyFee,
			acct.Terms.MinimumBalance, acct.Terms.InterestRate, acct.Terms.CreditLimit,
		); err != nil {
			return fmt.Errorf("failed to save account %s: %w", acct.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit owner save: %w", err)
	}

	return nil
}

// AppendTransaction inserts the transaction record, or rewrites the status of
// an existing record with the same id. The assigned sequence is written back
// to txn.
func (g *PostgresGateway) AppendTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, source_owner_id, source_account_id,
		                          receiver_owner_id, receiver_account_id,
		                          amount, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status
		RETURNING seq
	`

	err := g.db.QueryRowContext(ctx, query,
		txn.ID,
		txn.SourceOwnerID,
		txn.SourceAccountID,
		txn.ReceiverOwnerID,
		txn.ReceiverAccountID,
		txn.Amount,
		txn.Type,
		txn.Status,
		txn.CreatedAt,
	).Scan(&txn.Seq)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// LoadTransaction retrieves a transaction by id.
func (g *PostgresGateway) LoadTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	query := `
		SELECT id, seq, source_owner_id, source_account_id,
		       receiver_owner_id, receiver_account_id,
		       amount, type, status, created_at
		FROM transactions
		WHERE id = $1
	`

	var txn models.Transaction
	err := g.db.QueryRowContext(ctx, query, transactionID).Scan(
		&txn.ID,
		&txn.Seq,
		&txn.SourceOwnerID,
		&txn.SourceAccountID,
		&txn.ReceiverOwnerID,
		&txn.ReceiverAccountID,
		&txn.Amount,
		&txn.Type,
		&txn.Status,
		&txn.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	return &txn, nil
}
