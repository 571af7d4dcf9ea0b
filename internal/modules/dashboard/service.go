package dashboard

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/layout"
	"factoryfloor/internal/modules/status"
)

type Service struct {
	store    *layout.Store
	statuses StatusService
	notes    NotesRepository
	photos   PhotoRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store *layout.Store, statuses StatusService, notes NotesRepository, photos PhotoRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		statuses: statuses,
		notes:    notes,
		photos:   photos,
		log:      log,
		now:      time.Now,
	}
}

// facts is everything known about a set of projects outside the layout.
type facts struct {
	statuses map[string]status.ProjectStatus
	notes    map[string]*domain.ProjectNotes
	photos   map[string]domain.PhotoStats
	workers  map[string]string
}

// gather reads all collaborators concurrently. Each one that fails
// contributes nothing and is logged.
func (s *Service) gather(ctx context.Context, ids []string, withPhotos bool) facts {
	var f facts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.statuses.Statuses(gctx, ids)
		if err != nil {
			s.log.Warn("project statuses unavailable", zap.Error(err))
		}
		f.statuses = st
		return nil
	})
	g.Go(func() error {
		n, err := s.notes.ByProjects(gctx, ids)
		if err != nil {
			s.log.Warn("completion data unavailable", zap.Error(err))
		}
		f.notes = n
		return nil
	})
	if withPhotos {
		g.Go(func() error {
			p, err := s.photos.Stats(gctx, ids)
			if err != nil {
				s.log.Warn("photo info unavailable", zap.Error(err))
			}
			f.photos = p
			return nil
		})
	}
	g.Go(func() error {
		f.workers = s.statuses.LatestWorkers(gctx, ids)
		return nil
	})
	_ = g.Wait()
	return f
}

func (f facts) status(id string) status.ProjectStatus {
	if st, ok := f.statuses[id]; ok {
		return st
	}
	return status.ProjectStatus{}
}

// LayoutView returns the layout document with live data merged into every
// project item. The file is created when missing.
func (s *Service) LayoutView(ctx context.Context) (map[string]any, error) {
	if err := s.store.EnsureExists(ctx); err != nil {
		return nil, err
	}
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(doc.Extra)+3)
	for k, v := range doc.Extra {
		out[k] = v
	}
	out["background"] = doc.Background
	out["server_timestamp"] = s.now().Format("15:04:05")

	var f facts
	if ids := doc.ProjectNames(); len(ids) > 0 {
		f = s.gather(ctx, ids, false)
	}

	items := make([]map[string]any, 0, len(doc.Items))
	for _, it := range doc.Items {
		m, err := it.Map()
		if err != nil {
			return nil, err
		}
		if it.IsProject() {
			m["status"] = f.status(it.Name)
			if n := f.notes[it.Name]; n != nil {
				for k, v := range n.CompletionFields() {
					m[k] = v
				}
			}
			if w, ok := f.workers[it.Name]; ok {
				m["details"] = w
			}
		}
		items = append(items, m)
	}
	out["items"] = items
	return out, nil
}

// PlanningRow is one line of the planning table.
type PlanningRow struct {
	Name                  string  `json:"name"`
	Worker                string  `json:"worker"`
	Owner                 *string `json:"owner"`
	StatusPercentage      int     `json:"status_percentage"`
	Priority              string  `json:"priority"`
	PauseStatus           *string `json:"pause_status"`
	ElectrificationStatus string  `json:"electrification_status"`
	ControlStatus         string  `json:"control_status"`
	PackagingStatus       *string `json:"packaging_status"`
	HasNotes              bool    `json:"has_notes"`
	PhotoCount            int     `json:"photo_count"`
	LastUpdatedAt         *string `json:"last_updated_at"`
}

// noWorker fills the worker column when neither the time clock nor the
// layout names anyone.
const noWorker = "N/A"

// PlanningView lists every project on the layout, sorted by name. A missing
// layout yields no rows; a corrupt one is an error.
func (s *Service) PlanningView(ctx context.Context) ([]PlanningRow, error) {
	rows := []PlanningRow{}

	doc, err := s.store.Read(ctx)
	if errors.Is(err, layout.ErrMissing) {
		return rows, nil
	}
	if err != nil {
		return nil, err
	}

	placed := map[string]*layout.Item{}
	var ids []string
	for i := range doc.Items {
		it := &doc.Items[i]
		if !it.IsProject() || it.Name == "" {
			continue
		}
		if _, dup := placed[it.Name]; !dup {
			ids = append(ids, it.Name)
		}
		placed[it.Name] = it
	}
	if len(ids) == 0 {
		return rows, nil
	}
	sort.Strings(ids)

	f := s.gather(ctx, ids, true)
	for _, id := range ids {
		it := placed[id]
		n := f.notes[id]
		photo := f.photos[id]

		row := PlanningRow{
			Name:                  id,
			Worker:                it.Details,
			Owner:                 it.Owner,
			StatusPercentage:      f.status(id).Percentage,
			Priority:              string(domain.PriorityLow),
			ElectrificationStatus: TaskDisplayStatus(n, domain.TaskElectrification),
			ControlStatus:         TaskDisplayStatus(n, domain.TaskControl),
			HasNotes:              n.HasNotes(),
			PhotoCount:            photo.PhotoCount,
		}
		if w, ok := f.workers[id]; ok {
			row.Worker = w
		}
		if row.Worker == "" {
			row.Worker = noWorker
		}
		var elecAt, ctrlAt, noteAt, dniAt *string
		if n != nil {
			if n.Priority != nil && *n.Priority != "" {
				row.Priority = *n.Priority
			}
			row.PauseStatus = n.PauseStatus
			row.PackagingStatus = n.PackagingStatus
			elecAt, ctrlAt = n.ElectrificationCompletedAt, n.ControlCompletedAt
			noteAt, dniAt = n.LastNoteUpdatedAt, n.LastDniUpdatedAt
		}
		row.LastUpdatedAt = latest(elecAt, ctrlAt, noteAt, dniAt, photo.LastPhotoUpload)
		rows = append(rows, row)
	}
	return rows, nil
}
