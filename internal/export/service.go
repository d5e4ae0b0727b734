package export

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"galaxy-maker-server/internal/catalog"
	"galaxy-maker-server/internal/sector"
	"galaxy-maker-server/internal/shared/errors"

	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	cache   Cache
	baseURL string
	logger  *slog.Logger
}

func NewService(repo Repository, cache Cache, baseURL string, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With("component", "export_service"),
	}
}

func (s *Service) PublishSector(ctx context.Context, sessionID string, rec *sector.Record) (*Published, error) {
	body, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, errors.WrapInternal("failed to encode sector", err)
	}
	return s.publish(ctx, &Export{
		SessionID:  sessionID,
		Kind:       KindSector,
		GalaxyType: rec.GalaxyType,
		StarCount:  rec.StarCount,
		Body:       string(body),
	})
}

func (s *Service) PublishCatalog(ctx context.Context, sessionID, galaxyType string, cat *catalog.Record) (*Published, error) {
	body, err := cat.Text()
	if err != nil {
		return nil, errors.WrapInternal("failed to encode catalog", err)
	}
	return s.publish(ctx, &Export{
		SessionID:   sessionID,
		Kind:        KindCatalog,
		GalaxyType:  galaxyType,
		StarCount:   len(cat.Stars),
		PlanetCount: len(cat.Planets),
		Body:        body,
	})
}

func (s *Service) publish(ctx context.Context, e *Export) (*Published, error) {
	logger := s.logger.With("operation", "publish", "session_id", e.SessionID, "kind", e.Kind)

	e.ID = uuid.NewString()
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, errors.WrapInternal("failed to store export", err)
	}

	if err := s.cache.Set(ctx, e.ID, e.Body); err != nil {
		logger.Warn("Export cache write failed", "export_id", e.ID, "error", err)
	}

	logger.Info("Export published", "export_id", e.ID, "stars", e.StarCount, "planets", e.PlanetCount, "bytes", len(e.Body))

	return &Published{ID: e.ID, Kind: e.Kind, URL: s.URL(e.ID)}, nil
}

// URL is where an export is served.
func (s *Service) URL(id string) string {
	return s.baseURL + "/api/exports/" + id
}

// Body returns an export's text, from the cache when it holds it.
func (s *Service) Body(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.WrapValidation("invalid export ID format", err)
	}

	body, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("Export cache read failed", "operation", "body", "export_id", id, "error", err)
	}
	if ok {
		return body, nil
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, id, e.Body); err != nil {
		s.logger.Warn("Export cache write failed", "operation", "body", "export_id", id, "error", err)
	}
	return e.Body, nil
}

func (s *Service) ListBySession(ctx context.Context, sessionID string) ([]Export, error) {
	exports, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, errors.WrapInternal("failed to list exports", err)
	}
	if exports == nil {
		exports = []Export{}
	}
	return exports, nil
}
