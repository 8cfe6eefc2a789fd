package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/teigesaccord/sandy/internal/profile"
)

// Store defines the persistence operations the core calls. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetProfile retrieves a profile by user id. Returns nil, nil if not found.
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)

	// SaveProfile inserts or updates a profile as a whole document
	// (last-write-wins across concurrent writers).
	SaveProfile(ctx context.Context, p *profile.Profile) error

	// DeleteProfile removes the profile and cascades to its conversation
	// archive. Returns whether a profile existed.
	DeleteProfile(ctx context.Context, userID string) (bool, error)

	// AppendConversationMessage archives one conversation message.
	AppendConversationMessage(ctx context.Context, userID string, msg profile.ConversationMessage) error

	// GetConversationHistory retrieves archived messages in chronological
	// order, newest page first by offset.
	GetConversationHistory(ctx context.Context, userID string, limit, offset int) ([]profile.ConversationMessage, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx over SQLite.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx. It requires a connected sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var row profileRow
	query := `SELECT user_id, profile, created_at, updated_at FROM user_profiles WHERE user_id = ?`

	err := s.db.GetContext(ctx, &row, query, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "no profile found", "user_id", userID)
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "error getting profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(row.Profile), &p); err != nil {
		// Corrupt stored document: fatal to the request, not the process.
		s.logger.ErrorContext(ctx, "stored profile document is corrupt", "user_id", userID, "error", err)
		return nil, fmt.Errorf("corrupt profile document for user %s: %w", userID, err)
	}
	p.UserID = row.UserID

	return &p, nil
}

func (s *sqlxStore) SaveProfile(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return fmt.Errorf("cannot save nil profile")
	}
	if p.UserID == "" {
		return fmt.Errorf("profile must have a user id")
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile for user %s: %w", p.UserID, err)
	}

	row := profileRow{
		UserID:    p.UserID,
		Profile:   string(doc),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	query := `
        INSERT INTO user_profiles (user_id, profile, created_at, updated_at)
        VALUES (:user_id, :profile, :created_at, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET
            profile    = excluded.profile,
            updated_at = excluded.updated_at;
    `

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		s.logger.ErrorContext(ctx, "error saving profile", "user_id", p.UserID, "error", err)
		return fmt.Errorf("failed to save profile for user %s: %w", p.UserID, err)
	}

	s.logger.DebugContext(ctx, "profile saved", "user_id", p.UserID)
	return nil
}

// DeleteProfile removes the profile row and its conversation archive in one
// transaction so a partial delete cannot leave orphaned messages.
func (s *sqlxStore) DeleteProfile(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("user_id cannot be empty")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to begin transaction for profile delete", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	result, err := tx.ExecContext(ctx, `DELETE FROM user_profiles WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "error deleting profile", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to delete profile for user %s: %w", userID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "could not get affected row count for profile delete", "user_id", userID, "error", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversation_messages WHERE user_id = ?`, userID); err != nil {
		s.logger.ErrorContext(ctx, "error deleting conversation archive", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to delete conversation archive for user %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "failed to commit profile delete", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to commit profile delete: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "profile deleted", "user_id", userID, "existed", affected > 0)
	return affected > 0, nil
}

func (s *sqlxStore) AppendConversationMessage(ctx context.Context, userID string, msg profile.ConversationMessage) error {
	if userID == "" {
		return fmt.Errorf("user_id cannot be empty")
	}
	if msg.ID == "" {
		return fmt.Errorf("message must have an id")
	}
	if msg.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}

	row := messageRow{
		ID:        msg.ID,
		UserID:    userID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		CreatedAt: time.Now().UTC(),
	}
	if len(msg.Metadata) > 0 {
		meta, err := json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode message metadata: %w", err)
		}
		row.Metadata = sql.NullString{String: string(meta), Valid: true}
	}

	query := `
        INSERT INTO conversation_messages (id, user_id, role, content, metadata, timestamp, created_at)
        VALUES (:id, :user_id, :role, :content, :metadata, :timestamp, :created_at);
    `

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		s.logger.ErrorContext(ctx, "error archiving conversation message", "user_id", userID, "message_id", msg.ID, "error", err)
		return fmt.Errorf("failed to archive message for user %s: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "conversation message archived", "user_id", userID, "message_id", msg.ID, "role", row.Role)
	return nil
}

func (s *sqlxStore) GetConversationHistory(ctx context.Context, userID string, limit, offset int) ([]profile.ConversationMessage, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id cannot be empty")
	}
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var rows []messageRow
	query := `
        SELECT id, user_id, role, content, metadata, timestamp, created_at
        FROM conversation_messages
        WHERE user_id = ?
        ORDER BY timestamp DESC, id DESC
        LIMIT ? OFFSET ?;
    `

	if err := s.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		s.logger.ErrorContext(ctx, "error getting conversation history", "user_id", userID, "limit", limit, "offset", offset, "error", err)
		return nil, fmt.Errorf("failed to get conversation history for user %s: %w", userID, err)
	}

	// Rows come back newest first; return them in chronological order.
	messages := make([]profile.ConversationMessage, len(rows))
	for i, row := range rows {
		msg := profile.ConversationMessage{
			ID:        row.ID,
			Role:      profile.Role(row.Role),
			Content:   row.Content,
			Timestamp: row.Timestamp,
		}
		if row.Metadata.Valid {
			if err := json.Unmarshal([]byte(row.Metadata.String), &msg.Metadata); err != nil {
				s.logger.WarnContext(ctx, "skipping corrupt message metadata", "message_id", row.ID, "error", err)
			}
		}
		messages[len(rows)-1-i] = msg
	}

	s.logger.DebugContext(ctx, "fetched conversation history", "user_id", userID, "count", len(messages))
	return messages, nil
}

// RunMaintenance executes a VACUUM on the SQLite database. VACUUM must run
// outside a transaction.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "context done before starting maintenance", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "starting database maintenance (VACUUM)")

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "maintenance timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "database maintenance (VACUUM) completed")
	return nil
}
