// Package session keeps the interactive drill-down state of each user.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"galaxy-maker-server/internal/catalog"
	"galaxy-maker-server/internal/random"
	"galaxy-maker-server/internal/sector"
	"galaxy-maker-server/internal/transition"
	"galaxy-maker-server/internal/view"
)

type historyItem struct {
	view   *view.ViewState
	rect   view.SelectionRect
	leftAt time.Time
}

// Session is one drill-down. Every field behind mu is owned by the goroutine
// holding it; views themselves are immutable once published.
type Session struct {
	ID        string
	CreatedAt time.Time

	lastActive atomic.Int64

	mu         sync.Mutex
	sampler    *random.Sampler
	current    *view.ViewState
	history    []historyItem
	selection  *view.SelectionRect
	sector     *sector.Record
	images     catalog.Images
	sectorRect *view.SelectionRect
}

func (s *Session) touch(now time.Time) {
	s.lastActive.Store(now.UnixNano())
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) phase() view.Phase {
	if s.sector != nil {
		return view.PhaseFinalized
	}
	return s.current.Phase()
}

func (s *Session) selectionSummary(engine *transition.Engine) *SelectionSummary {
	if s.selection == nil {
		return nil
	}
	sum := &SelectionSummary{
		Selection: view.Select(s.current, *s.selection),
		Action:    ActionNone,
	}
	if !sum.Valid {
		return sum
	}
	if s.current.IsLiteral {
		sum.Action = ActionFinalize
		return sum
	}
	if plan, ok := engine.Preview(s.current, *s.selection); ok {
		sum.Action = ActionZoom
		sum.Preview = &plan
	}
	return sum
}

func (s *Session) snapshot(engine *transition.Engine) Snapshot {
	snap := Snapshot{
		ID:            s.ID,
		GalaxyType:    s.current.GalaxyType,
		Seed:          s.sampler.Seed(),
		Phase:         s.phase(),
		ZoomLevel:     s.current.ZoomLevel,
		StarsPerPoint: s.current.StarsPerPoint,
		IsLiteral:     s.current.IsLiteral,
		Points:        s.current.StarPoints(),
		TotalStars:    s.current.TotalStars(),
		Viewport:      s.current.Viewport,
		Selection:     s.selectionSummary(engine),
		HistoryDepth:  len(s.history),
		CreatedAt:     s.CreatedAt,
		LastActive:    s.LastActive(),
	}
	if s.sector != nil {
		n := s.sector.StarCount
		snap.SectorStars = &n
	}
	return snap
}

func (s *Session) historyEntries() []HistoryEntry {
	out := make([]HistoryEntry, 0, len(s.history))
	for _, h := range s.history {
		out = append(out, HistoryEntry{
			ZoomLevel:     h.view.ZoomLevel,
			Phase:         h.view.Phase(),
			StarsPerPoint: h.view.StarsPerPoint,
			Points:        h.view.StarPoints(),
			TotalStars:    h.view.TotalStars(),
			Selection:     h.rect,
			LeftAt:        h.leftAt,
		})
	}
	return out
}
