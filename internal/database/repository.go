package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adscope/tiktok-bridge/pkg/models"
)

// Repository provides database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Health checks if the underlying database is healthy
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

// Users

// GetUserByEmail retrieves a dashboard user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, email, password_hash, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Connected Accounts

// SaveConnectedAccount stores a linked social account, replacing any
// previous link for the same user, platform and username
func (r *Repository) SaveConnectedAccount(ctx context.Context, account *models.ConnectedAccount) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	query := `
		INSERT INTO connected_accounts (id, user_id, platform, username, access_token, refresh_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, platform, username)
		DO UPDATE SET access_token = $5, refresh_token = $6, updated_at = NOW()
		RETURNING connected_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		account.ID, account.UserID, account.Platform, account.Username,
		account.AccessToken, account.RefreshToken,
	).Scan(&account.ConnectedAt, &account.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save connected account: %w", err)
	}

	return nil
}

// GetConnectedAccounts lists the social accounts linked to a user
func (r *Repository) GetConnectedAccounts(ctx context.Context, userID string) ([]*models.ConnectedAccount, error) {
	query := `
		SELECT id, user_id, platform, username, access_token, refresh_token, connected_at, updated_at
		FROM connected_accounts
		WHERE user_id = $1
		ORDER BY connected_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connected accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.ConnectedAccount
	for rows.Next() {
		var account models.ConnectedAccount
		if err := rows.Scan(
			&account.ID, &account.UserID, &account.Platform, &account.Username,
			&account.AccessToken, &account.RefreshToken,
			&account.ConnectedAt, &account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan connected account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}

// DeleteConnectedAccount unlinks a social account from a user
func (r *Repository) DeleteConnectedAccount(ctx context.Context, userID, accountID string) error {
	query := `
		DELETE FROM connected_accounts
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.db.Pool.Exec(ctx, query, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete connected account: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("connected account not found")
	}

	return nil
}
