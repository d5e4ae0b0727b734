package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"galaxy-maker-server/internal/capture"
	"galaxy-maker-server/internal/catalog"
	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/sector"
	"galaxy-maker-server/internal/shared/errors"
	"galaxy-maker-server/internal/skeleton"
	"galaxy-maker-server/internal/transition"
	"galaxy-maker-server/internal/view"

	"github.com/google/uuid"
)

// maxBackgroundPoints bounds the decorative filler a symbolic view may add.
const maxBackgroundPoints = 2500

type Config struct {
	Viewport      view.Viewport
	Seed          uint64
	MaxSessions   int
	TTL           time.Duration
	MaxViewPoints int
}

type Service struct {
	cfg         Config
	generator   *skeleton.Generator
	engine      *transition.Engine
	discretizer *sector.Discretizer
	synthesizer *catalog.Synthesizer
	hook        capture.Hook
	logger      *slog.Logger
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewService(
	cfg Config,
	generator *skeleton.Generator,
	engine *transition.Engine,
	discretizer *sector.Discretizer,
	synthesizer *catalog.Synthesizer,
	hook capture.Hook,
	logger *slog.Logger,
) *Service {
	if hook == nil {
		hook = capture.Noop{}
	}
	return &Service{
		cfg:         cfg,
		generator:   generator,
		engine:      engine,
		discretizer: discretizer,
		synthesizer: synthesizer,
		hook:        hook,
		logger:      logger.With("component", "session_service"),
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Create generates a root galaxy and registers a new session for it. When the
// store is full the longest-idle session is dropped.
func (s *Service) Create(ctx context.Context, opts CreateOptions) (Snapshot, error) {
	logger := s.logger.With("operation", "create")

	kind := skeleton.ArchetypeKind(opts.Archetype)
	if kind != "" && !slices.Contains(skeleton.Kinds, kind) {
		return Snapshot{}, errors.Validationf("unknown archetype %q", opts.Archetype)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = s.cfg.Seed
	}
	sampler := random.New(seed)

	var root *view.ViewState
	if kind != "" {
		root = s.generator.GenerateKind(kind, sampler, s.cfg.Viewport)
	} else {
		root = s.generator.GenerateRoot(sampler, s.cfg.Viewport)
	}

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		sampler:   sampler,
		current:   root,
	}
	sess.touch(now)
	sess.images.Root = s.capture(logger, capture.CheckpointRoot, root, nil)

	s.insert(sess)

	logger.Info("Session created",
		"session_id", sess.ID,
		"galaxy_type", root.GalaxyType,
		"points", len(root.Points),
		"seeded", seed != 0,
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(s.engine), nil
}

func (s *Service) insert(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.sessions) >= s.cfg.MaxSessions {
		var oldest *Session
		for _, candidate := range s.sessions {
			if oldest == nil || candidate.lastActive.Load() < oldest.lastActive.Load() {
				oldest = candidate
			}
		}
		delete(s.sessions, oldest.ID)
		s.logger.Info("Session evicted", "operation", "evict", "session_id", oldest.ID, "max_sessions", s.cfg.MaxSessions)
	}
	s.sessions[sess.ID] = sess
}

func (s *Service) lookup(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NotFoundf("session %s not found", id)
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *Service) Get(id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(s.engine), nil
}

// Points returns the current view's point list, decorative points included.
func (s *Service) Points(id string) ([]view.Point, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.current.Points, nil
}

func (s *Service) History(id string) ([]HistoryEntry, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.historyEntries(), nil
}

// Select commits rect as the session's selection. A rect below the minimum
// size clears the selection instead.
func (s *Service) Select(id string, rect view.SelectionRect) (SelectionSummary, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SelectionSummary{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !rect.Valid() {
		sess.selection = nil
		return SelectionSummary{Selection: view.Select(sess.current, rect), Action: ActionNone}, nil
	}

	sess.selection = &rect
	sum := sess.selectionSummary(s.engine)

	s.logger.Debug("Selection committed",
		"operation", "select",
		"session_id", id,
		"points", sum.Points,
		"estimated_stars", sum.EstimatedStars,
		"action", sum.Action,
	)
	return *sum, nil
}

func (s *Service) ClearSelection(id string) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	sess.selection = nil
	sess.mu.Unlock()
	return nil
}

// Advance zooms into the selection, or finalizes it into a sector once the
// view is literal. Without a usable selection nothing changes.
func (s *Service) Advance(ctx context.Context, id string) (AdvanceResult, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return AdvanceResult{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	logger := s.logger.With("operation", "advance", "session_id", id, "zoom_level", sess.current.ZoomLevel)

	if sess.selection == nil || !sess.selection.Valid() {
		logger.Debug("Advance without a usable selection")
		return AdvanceResult{Action: ActionNone, Snapshot: sess.snapshot(s.engine)}, nil
	}
	rect := *sess.selection

	if sess.current.IsLiteral {
		return s.finalize(logger, sess, rect)
	}

	plan, ok := s.engine.Preview(sess.current, rect)
	if !ok {
		return AdvanceResult{Action: ActionNone, Snapshot: sess.snapshot(s.engine)}, nil
	}

	budget := plan.TargetPoints
	if plan.Kind == transition.KindSymbolic {
		budget += maxBackgroundPoints
	}
	if budget > s.cfg.MaxViewPoints {
		return AdvanceResult{}, errors.Validationf(
			"selection of %.0f stars needs %d points, above the limit of %d; select a smaller region",
			plan.SelectedStars, budget, s.cfg.MaxViewPoints)
	}

	child := s.engine.Apply(sess.sampler, sess.current, rect, plan)
	if err := ctx.Err(); err != nil {
		return AdvanceResult{}, err
	}

	sess.history = append(sess.history, historyItem{view: sess.current, rect: rect, leftAt: s.now()})
	sess.current = child
	sess.selection = nil

	if child.IsLiteral {
		sess.images.Final = s.capture(logger, capture.CheckpointFinal, child, nil)
	}

	logger.Info("Zoomed",
		"kind", plan.Kind,
		"next_zoom_level", child.ZoomLevel,
		"stars_per_point", child.StarsPerPoint,
		"points", len(child.Points),
	)

	return AdvanceResult{
		Changed:  true,
		Action:   ActionZoom,
		Plan:     &plan,
		Snapshot: sess.snapshot(s.engine),
	}, nil
}

func (s *Service) finalize(logger *slog.Logger, sess *Session, rect view.SelectionRect) (AdvanceResult, error) {
	rec, err := s.discretizer.Discretize(sess.sampler, sess.current, rect)
	if err != nil {
		return AdvanceResult{}, errors.WrapInternal("failed to discretize sector", err)
	}

	sess.sector = rec
	sess.sectorRect = &rect
	sess.images.Crop = s.capture(logger, capture.CheckpointCrop, sess.current, &rect)

	logger.Info("Sector finalized", "stars", rec.StarCount, "grid_depth", rec.Grid.Depth)

	return AdvanceResult{
		Changed:  true,
		Action:   ActionFinalize,
		Sector:   rec,
		Snapshot: sess.snapshot(s.engine),
	}, nil
}

// Sector returns the finalized sector.
func (s *Service) Sector(id string) (*sector.Record, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.sector == nil {
		return nil, errors.Conflictf("session %s has no sector; finalize a selection on a literal view first", id)
	}
	return sess.sector, nil
}

// Catalog synthesizes a fresh catalog for the finalized sector on every call.
func (s *Service) Catalog(id string) (*catalog.Record, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.sector == nil {
		return nil, errors.Conflictf("session %s has no sector; finalize a selection on a literal view first", id)
	}

	cat, err := s.synthesizer.Synthesize(sess.sampler, sess.sector, sess.images)
	if err != nil {
		return nil, errors.WrapInternal("failed to synthesize catalog", err)
	}
	return cat, nil
}

// CatalogFromSector synthesizes a catalog for a sector file that did not come
// from a live session.
func (s *Service) CatalogFromSector(rec *sector.Record) (*catalog.Record, error) {
	if err := rec.Validate(); err != nil {
		return nil, errors.WrapValidation("invalid sector", err)
	}
	cat, err := s.synthesizer.Synthesize(random.New(0), rec, catalog.Images{})
	if err != nil {
		return nil, errors.WrapInternal("failed to synthesize catalog", err)
	}
	return cat, nil
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return errors.NotFoundf("session %s not found", id)
	}
	delete(s.sessions, id)
	s.logger.Info("Session deleted", "operation", "delete", "session_id", id)
	return nil
}

func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Start runs the idle-session sweeper until ctx is done.
func (s *Service) Start(ctx context.Context) {
	interval := min(s.cfg.TTL/2, time.Minute)
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(s.now())
			}
		}
	}()
}

func (s *Service) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActive()) > s.cfg.TTL {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("Idle sessions expired", "operation", "sweep", "removed", removed, "remaining", len(s.sessions))
	}
	return removed
}

func (s *Service) capture(logger *slog.Logger, cp capture.Checkpoint, v *view.ViewState, rect *view.SelectionRect) string {
	ref, err := s.hook.Capture(cp, v, rect)
	if err != nil {
		logger.Warn("Capture failed", "checkpoint", cp, "error", err)
		return ""
	}
	return ref
}
