package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"galaxy-maker-server/internal/shared/errors"
)

type Repository interface {
	Create(ctx context.Context, e *Export) error
	GetByID(ctx context.Context, id string) (*Export, error)
	ListBySession(ctx context.Context, sessionID string) ([]Export, error)
}

type PostgresRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresRepository(db *sql.DB, logger *slog.Logger) *PostgresRepository {
	logger.Debug("Initializing export repository")

	return &PostgresRepository{
		db:     db,
		logger: logger.With("component", "export_repository"),
	}
}

func (r *PostgresRepository) Create(ctx context.Context, e *Export) error {
	logger := r.logger.With("operation", "create_export", "export_id", e.ID, "kind", e.Kind)

	query := `
		INSERT INTO exports (id, session_id, kind, galaxy_type, star_count, planet_count, body)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		e.ID, e.SessionID, e.Kind, e.GalaxyType, e.StarCount, e.PlanetCount, e.Body,
	).Scan(&e.CreatedAt)
	if err != nil {
		logger.Error("Failed to create export", "error", err)
		return fmt.Errorf("failed to create export: %w", err)
	}

	logger.Debug("Export stored", "bytes", len(e.Body))
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Export, error) {
	query := `
		SELECT id, session_id, kind, galaxy_type, star_count, planet_count, body, created_at
		FROM exports
		WHERE id = $1
	`

	var e Export
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.SessionID,
		&e.Kind,
		&e.GalaxyType,
		&e.StarCount,
		&e.PlanetCount,
		&e.Body,
		&e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("export %s not found", id)
	}
	if err != nil {
		return nil, errors.WrapExternal("export archive unavailable", err)
	}
	return &e, nil
}

func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string) ([]Export, error) {
	query := `
		SELECT id, session_id, kind, galaxy_type, star_count, planet_count, created_at
		FROM exports
		WHERE session_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var out []Export
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &e.GalaxyType, &e.StarCount, &e.PlanetCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MemoryRepository keeps exports for the lifetime of the process.
type MemoryRepository struct {
	mu      sync.RWMutex
	exports map[string]Export
	order   []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{exports: make(map[string]Export)}
}

func (r *MemoryRepository) Create(_ context.Context, e *Export) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.exports[e.ID]; exists {
		return errors.Conflictf("export %s already exists", e.ID)
	}
	e.CreatedAt = time.Now().UTC()
	r.exports[e.ID] = *e
	r.order = append(r.order, e.ID)
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Export, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.exports[id]
	if !ok {
		return nil, errors.NotFoundf("export %s not found", id)
	}
	return &e, nil
}

func (r *MemoryRepository) ListBySession(_ context.Context, sessionID string) ([]Export, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Export
	for _, id := range r.order {
		if e := r.exports[id]; e.SessionID == sessionID {
			e.Body = ""
			out = append(out, e)
		}
	}
	return out, nil
}
