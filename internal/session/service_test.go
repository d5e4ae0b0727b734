package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViewport = view.Viewport{Width: 760, Height: 520}

type recordingHook struct {
	mu    sync.Mutex
	calls []capture.Checkpoint
}

func (h *recordingHook) Capture(cp capture.Checkpoint, _ *view.ViewState, _ *view.SelectionRect) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, cp)
	return "ref:" + string(cp), nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestService(t *testing.T, cfg Config) (*Service, *recordingHook, *fakeClock) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Viewport == (view.Viewport{}) {
		cfg.Viewport = testViewport
	}
	if cfg.MaxSessions == 0 {
		cfg.MaxSessions = 8
	}
	if cfg.TTL == 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.MaxViewPoints == 0 {
		cfg.MaxViewPoints = 2000000
	}

	hook := &recordingHook{}
	svc := NewService(cfg,
		skeleton.NewGenerator(logger),
		transition.NewEngine(logger),
		sector.NewDiscretizer(logger),
		catalog.NewSynthesizer(logger),
		hook,
		logger,
	)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc.now = clock.now
	return svc, hook, clock
}

// insertView registers a session whose current view is v.
func insertView(svc *Service, v *view.ViewState) string {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: svc.now(),
		sampler:   random.New(7),
		current:   v,
	}
	sess.touch(svc.now())
	svc.insert(sess)
	return sess.ID
}

func preFinalView(n int) *view.ViewState {
	pts := make([]view.Point, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, view.Point{
			X: 200 + float64(i%30)*4, Y: 150 + float64(i/30)*4,
			Size: 0.8, Alpha: 0.5, Color: view.RGBA(255, 255, 255, 0.5),
		})
	}
	return &view.ViewState{
		ZoomLevel:     3,
		StarsPerPoint: 1,
		GalaxyType:    "Spiral (3 arms)",
		Viewport:      testViewport,
		Points:        pts,
	}
}

func TestCreate(t *testing.T) {
	svc, hook, _ := newTestService(t, Config{Seed: 42})

	snap, err := svc.Create(context.Background(), CreateOptions{})
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, view.PhaseRoot, snap.Phase)
	assert.Equal(t, 0, snap.ZoomLevel)
	assert.Equal(t, float64(view.RootStarsPerPoint), snap.StarsPerPoint)
	assert.Greater(t, snap.Points, 0)
	assert.Equal(t, uint64(42), snap.Seed)
	assert.Equal(t, 1, svc.Count())
	assert.Equal(t, []capture.Checkpoint{capture.CheckpointRoot}, hook.calls)

	t.Run("seeded sessions share their galaxy", func(t *testing.T) {
		again, err := svc.Create(context.Background(), CreateOptions{})
		require.NoError(t, err)
		assert.Equal(t, snap.GalaxyType, again.GalaxyType)
		assert.Equal(t, snap.Points, again.Points)
	})

	t.Run("archetype", func(t *testing.T) {
		ring, err := svc.Create(context.Background(), CreateOptions{Archetype: string(skeleton.KindRing)})
		require.NoError(t, err)
		assert.Equal(t, "Ring Galaxy", ring.GalaxyType)
	})

	t.Run("unknown archetype", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateOptions{Archetype: "lenticular"})
		assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Create(ctx, CreateOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSelectAndZoom(t *testing.T) {
	svc, _, _ := newTestService(t, Config{Seed: 9})
	ctx := context.Background()

	snap, err := svc.Create(ctx, CreateOptions{Archetype: string(skeleton.KindElliptical)})
	require.NoError(t, err)
	id := snap.ID

	t.Run("advance without a selection is a no-op", func(t *testing.T) {
		res, err := svc.Advance(ctx, id)
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, ActionNone, res.Action)
		assert.Equal(t, 0, res.Snapshot.HistoryDepth)
	})

	t.Run("small rect clears the selection", func(t *testing.T) {
		sum, err := svc.Select(id, view.SelectionRect{X: 300, Y: 200, Width: 5, Height: 50})
		require.NoError(t, err)
		assert.False(t, sum.Valid)
		assert.Equal(t, ActionNone, sum.Action)

		got, err := svc.Get(id)
		require.NoError(t, err)
		assert.Nil(t, got.Selection)
	})

	rect := view.SelectionRect{X: 330, Y: 210, Width: 100, Height: 100}
	sum, err := svc.Select(id, rect)
	require.NoError(t, err)
	require.True(t, sum.Valid)
	require.Greater(t, sum.Points, 0)
	assert.Equal(t, ActionZoom, sum.Action)
	require.NotNil(t, sum.Preview)

	res, err := svc.Advance(ctx, id)
	require.NoError(t, err)
	require.True(t, res.Changed)
	assert.Equal(t, ActionZoom, res.Action)
	assert.Equal(t, 1, res.Snapshot.ZoomLevel)
	assert.Equal(t, 1, res.Snapshot.HistoryDepth)
	assert.Nil(t, res.Snapshot.Selection)
	assert.LessOrEqual(t, res.Plan.RepresentedStars(), sum.EstimatedStars+1e-6)
	assert.Equal(t, res.Plan.TargetPoints, res.Snapshot.Points)

	history, err := svc.History(id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, view.PhaseRoot, history[0].Phase)
	assert.Equal(t, rect, history[0].Selection)

	points, err := svc.Points(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(points), res.Snapshot.Points)
}

func TestAdvanceRejectsOversizedViews(t *testing.T) {
	svc, _, _ := newTestService(t, Config{Seed: 3, MaxViewPoints: 1000})
	ctx := context.Background()

	snap, err := svc.Create(ctx, CreateOptions{Archetype: string(skeleton.KindElliptical)})
	require.NoError(t, err)

	_, err = svc.Select(snap.ID, view.SelectionRect{X: 280, Y: 160, Width: 200, Height: 200})
	require.NoError(t, err)

	_, err = svc.Advance(ctx, snap.ID)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	got, err := svc.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ZoomLevel)
	assert.NotNil(t, got.Selection, "selection survives a rejected advance")
}

func TestLiteralAndFinalize(t *testing.T) {
	svc, hook, _ := newTestService(t, Config{})
	ctx := context.Background()
	id := insertView(svc, preFinalView(300))

	_, err := svc.Sector(id)
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))

	sum, err := svc.Select(id, view.SelectionRect{X: 190, Y: 140, Width: 140, Height: 60})
	require.NoError(t, err)
	require.Equal(t, ActionZoom, sum.Action)
	assert.True(t, sum.Exact)
	assert.Equal(t, transition.KindLiteral, sum.Preview.Kind)

	res, err := svc.Advance(ctx, id)
	require.NoError(t, err)
	require.True(t, res.Changed)
	assert.True(t, res.Snapshot.IsLiteral)
	assert.Equal(t, view.PhaseLiteral, res.Snapshot.Phase)
	assert.Equal(t, sum.Points, res.Snapshot.Points)
	assert.Contains(t, hook.calls, capture.CheckpointFinal)

	final := view.SelectionRect{X: 100, Y: 100, Width: 400, Height: 250}
	sum, err = svc.Select(id, final)
	require.NoError(t, err)
	assert.Equal(t, ActionFinalize, sum.Action)
	assert.Nil(t, sum.Preview)
	assert.Equal(t, float64(sum.Points), sum.EstimatedStars)

	res, err = svc.Advance(ctx, id)
	require.NoError(t, err)
	require.True(t, res.Changed)
	assert.Equal(t, ActionFinalize, res.Action)
	require.NotNil(t, res.Sector)
	assert.Equal(t, sum.Points, res.Sector.StarCount)
	assert.Equal(t, view.PhaseFinalized, res.Snapshot.Phase)
	require.NotNil(t, res.Snapshot.SectorStars)
	assert.Equal(t, sum.Points, *res.Snapshot.SectorStars)
	assert.Contains(t, hook.calls, capture.CheckpointCrop)

	rec, err := svc.Sector(id)
	require.NoError(t, err)
	assert.Same(t, res.Sector, rec)

	cat, err := svc.Catalog(id)
	require.NoError(t, err)
	assert.Len(t, cat.Stars, rec.StarCount+1)
	assert.Equal(t, "ref:final", cat.Appendix.Images.Final)
	assert.Equal(t, "ref:crop", cat.Appendix.Images.Crop)

	again, err := svc.Catalog(id)
	require.NoError(t, err)
	assert.Len(t, again.Stars, len(cat.Stars))
}

func TestCatalogFromSector(t *testing.T) {
	svc, _, _ := newTestService(t, Config{})

	_, err := svc.CatalogFromSector(&sector.Record{})
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	rec := &sector.Record{
		GalaxyType: "Elliptical",
		Grid:       sector.Grid{Width: 4, Height: 4, Depth: 4},
		StarCount:  1,
		Stars:      []sector.Star{{Name: sector.StarName(2, 2, 2), X: 2, Y: 2, Z: 2}},
	}
	cat, err := svc.CatalogFromSector(rec)
	require.NoError(t, err)
	assert.Len(t, cat.Stars, 2)
}

func TestEvictionAndExpiry(t *testing.T) {
	svc, _, clock := newTestService(t, Config{MaxSessions: 2, TTL: 10 * time.Minute})

	first := insertView(svc, preFinalView(10))
	clock.t = clock.t.Add(time.Minute)
	second := insertView(svc, preFinalView(10))
	clock.t = clock.t.Add(time.Minute)

	// touching the first makes the second the idlest
	_, err := svc.Get(first)
	require.NoError(t, err)
	clock.t = clock.t.Add(time.Minute)

	third := insertView(svc, preFinalView(10))
	assert.Equal(t, 2, svc.Count())
	_, err = svc.Get(second)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))

	clock.t = clock.t.Add(9*time.Minute + 30*time.Second)
	assert.Equal(t, 1, svc.sweep(clock.now()))
	_, err = svc.Get(third)
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService(t, Config{})
	id := insertView(svc, preFinalView(10))

	require.NoError(t, svc.Delete(id))
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(svc.Delete(id)))
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(svc.ClearSelection(id)))
}
