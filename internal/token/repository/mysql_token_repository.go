package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate key violations.
const mysqlDuplicateEntry = 1062

// MySQLTokenRepository implements token persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new token using BINARY(16) for the UUID. A duplicate-entry
// error on the value column is returned as ErrTokenValueExists so the
// lifecycle manager can regenerate and retry.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *tokenDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens
			  (id, value, owner, status, creation_message, revocation_message, created_at, revoked_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.Value,
		token.Owner,
		token.Status,
		token.CreationMessage,
		token.RevocationMessage,
		token.CreatedAt,
		token.RevokedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return tokenDomain.ErrTokenValueExists
		}
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByValue retrieves a token by its opaque value.
// Returns ErrTokenNotFound if no such token exists.
func (m *MySQLTokenRepository) GetByValue(ctx context.Context, value string) (*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, value, owner, status, creation_message, revocation_message, created_at, revoked_at
			  FROM tokens WHERE value = ?`

	row := querier.QueryRowContext(ctx, query, value)
	token, err := scanMySQLToken(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}

	return token, nil
}

// ListByOwner retrieves all tokens owned by a user, newest first.
// Revoked tokens are included: the full audit history is returned.
func (m *MySQLTokenRepository) ListByOwner(ctx context.Context, owner string) ([]*tokenDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, value, owner, status, creation_message, revocation_message, created_at, revoked_at
			  FROM tokens WHERE owner = ? ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list tokens")
	}
	defer func() { _ = rows.Close() }()

	var tokens []*tokenDomain.Token
	for rows.Next() {
		token, err := scanMySQLToken(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan token")
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate tokens")
	}

	return tokens, nil
}

// Revoke transitions a token from active to revoked. The UPDATE is restricted
// to status='active' so concurrent revokes serialize in the database. Returns
// the number of rows updated (0 or 1).
func (m *MySQLTokenRepository) Revoke(
	ctx context.Context,
	value string,
	message string,
	revokedAt time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE tokens
			  SET status = ?, revocation_message = ?, revoked_at = ?
			  WHERE value = ? AND status = ?`

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

// scanMySQLToken scans a token row, converting the BINARY(16) id column.
func scanMySQLToken(scan func(dest ...any) error) (*tokenDomain.Token, error) {
	var token tokenDomain.Token
	var idBytes []byte

	if err := scan(
		&idBytes,
		&token.Value,
		&token.Owner,
		&token.Status,
		&token.CreationMessage,
		&token.RevocationMessage,
		&token.CreatedAt,
		&token.RevokedAt,
	); err != nil {
		return nil, err
	}

	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	token.ID = id

	return &token, nil
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
