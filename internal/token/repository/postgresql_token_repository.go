// Package repository implements token persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pqUniqueViolation = "23505"

// PostgreSQLTokenRepository implements token persistence for PostgreSQL.
// Uses transaction support via database.GetTx().
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new token. A unique-index violation on the value column is
// returned as ErrTokenValueExists so the lifecycle manager can regenerate and
// retry; the existing record is never overwritten.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokens
			  (id, value, owner, status, creation_message, revocation_message, created_at, revoked_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.Value,
		token.Owner,
		token.Status,
		token.CreationMessage,
		token.RevocationMessage,
		token.CreatedAt,
		token.RevokedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return tokenDomain.ErrTokenValueExists
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByValue retrieves a token by its opaque value.
// Returns ErrTokenNotFound if no such token exists.
func (p *PostgreSQLTokenRepository) GetByValue(ctx context.Context, value string) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, value, owner, status, creation_message, revocation_message, created_at, revoked_at
			  FROM tokens WHERE value = $1`

	var token tokenDomain.Token

	err := querier.QueryRowContext(ctx, query, value).Scan(
		&token.ID,
		&token.Value,
		&token.Owner,
		&token.Status,
		&token.CreationMessage,
		&token.RevocationMessage,
		&token.CreatedAt,
		&token.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}

	return &token, nil
}

// ListByOwner retrieves all tokens owned by a user, newest first.
// Revoked tokens are included: the full audit history is returned.
func (p *PostgreSQLTokenRepository) ListByOwner(ctx context.Context, owner string) ([]*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, value, owner, status, creation_message, revocation_message, created_at, revoked_at
			  FROM tokens WHERE owner = $1 ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tokens")
	}
	defer func() { _ = rows.Close() }()

	var tokens []*tokenDomain.Token
	for rows.Next() {
		var token tokenDomain.Token
		if err := rows.Scan(
			&token.ID,
			&token.Value,
			&token.Owner,
			&token.Status,
			&token.CreationMessage,
			&token.RevocationMessage,
			&token.CreatedAt,
			&token.RevokedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan token")
		}
		tokens = append(tokens, &token)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tokens")
	}

	return tokens, nil
}

// Revoke transitions a token from active to revoked. The UPDATE is restricted
// to status='active', so concurrent revokes of the same token serialize in the
// database and only one of them observes an affected row. Returns the number
// of rows updated (0 or 1).
func (p *PostgreSQLTokenRepository) Revoke(
	ctx context.Context,
	value string,
	message string,
	revokedAt time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tokens
			  SET status = $1, revocation_message = $2, revoked_at = $3
			  WHERE value = $4 AND status = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		tokenDomain.RevokedStatus,
		message,
		revokedAt,
		value,
		tokenDomain.ActiveStatus,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to revoke token")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}

	return affected, nil
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}
