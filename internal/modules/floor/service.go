package floor

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/layout"
)

// Policy decides what an ownership check does when the project is not on
// the layout.
type Policy int

const (
	// Strict treats a project missing from the layout as not found.
	Strict Policy = iota
	// Permissive lets the caller proceed when the project is missing or the
	// layout cannot be read; the status tables are the source of truth.
	Permissive
)

const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpMove    = "move"
	OpDetails = "details"
)

var errNotInLayout = domain.NotFoundf("Project not found in layout")

type Service struct {
	store    *layout.Store
	workers  WorkerResolver
	projects ProjectCatalog
	log      *zap.Logger
}

func NewService(store *layout.Store, workers WorkerResolver, projects ProjectCatalog, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, workers: workers, projects: projects, log: log}
}

// AddProject places a new project card owned by actor. The initial details
// are the project's most recent worker.
func (s *Service) AddProject(ctx context.Context, actor domain.Actor, name string, x, y float64) error {
	if name == "" {
		return domain.Validationf("Missing data")
	}
	// Resolved outside the lock; it only reads the databases.
	worker := s.workers.LatestWorkers(ctx, []string{name})[name]

	ev := layout.Event{Op: OpAdd, Project: name, Actor: actor.Username}
	return s.store.Mutate(ctx, layout.CreateIfMissing, ev, func(doc *layout.Document) error {
		if doc.FindProject(name) != nil {
			return domain.Conflictf("Project already exists in layout")
		}
		doc.Items = append(doc.Items, layout.NewProjectItem(name, x, y, worker, actor.Username))
		return nil
	})
}

func (s *Service) RemoveProject(ctx context.Context, actor domain.Actor, name string) error {
	ev := layout.Event{Op: OpRemove, Project: name, Actor: actor.Username}
	return s.store.Mutate(ctx, layout.RequireValid, ev, func(doc *layout.Document) error {
		if _, err := ownedItem(doc, name, actor); err != nil {
			return err
		}
		doc.RemoveProject(name)
		return nil
	})
}

func (s *Service) MoveProject(ctx context.Context, actor domain.Actor, name string, x, y float64) error {
	ev := layout.Event{Op: OpMove, Project: name, Actor: actor.Username}
	return s.store.Mutate(ctx, layout.RequireValid, ev, func(doc *layout.Document) error {
		it, err := ownedItem(doc, name, actor)
		if err != nil {
			return err
		}
		it.X, it.Y = x, y
		return nil
	})
}

func (s *Service) UpdateDetails(ctx context.Context, actor domain.Actor, name, details string) error {
	ev := layout.Event{Op: OpDetails, Project: name, Actor: actor.Username}
	return s.store.Mutate(ctx, layout.RequireValid, ev, func(doc *layout.Document) error {
		it, err := ownedItem(doc, name, actor)
		if err != nil {
			return err
		}
		it.Details = details
		return nil
	})
}

// CheckOwnership is the gate every project mutation passes first. An item
// owned by somebody else is always denied; see Policy for missing items.
func (s *Service) CheckOwnership(ctx context.Context, actor domain.Actor, name string, policy Policy) error {
	doc, err := s.store.Read(ctx)
	if err != nil {
		if errors.Is(err, layout.ErrMissing) || errors.Is(err, layout.ErrCorrupt) {
			if !errors.Is(err, layout.ErrMissing) {
				s.log.Warn("ownership check on unreadable layout", zap.String("project", name), zap.Error(err))
			}
			if policy == Permissive {
				return nil
			}
			return errNotInLayout
		}
		return err
	}

	it := doc.FindProject(name)
	if it == nil {
		if policy == Permissive {
			return nil
		}
		return errNotInLayout
	}
	if err := layout.CheckOwner(it, actor.Username); err != nil {
		s.log.Info("ownership denied",
			zap.String("project", name),
			zap.String("actor", actor.Username),
			zap.Stringp("owner", it.Owner))
		return err
	}
	return nil
}

// ProjectNames lists the projects placed on the layout.
func (s *Service) ProjectNames(ctx context.Context) ([]string, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.ProjectNames(), nil
}

// AvailableProjects lists ERP projects not yet on the layout, sorted. An
// unreadable layout counts as empty.
func (s *Service) AvailableProjects(ctx context.Context) ([]string, error) {
	all, err := s.projects.DistinctProjects(ctx)
	if err != nil {
		return nil, err
	}

	placed := map[string]struct{}{}
	if doc, err := s.store.Read(ctx); err == nil {
		for _, n := range doc.ProjectNames() {
			placed[n] = struct{}{}
		}
	} else if !errors.Is(err, layout.ErrMissing) {
		s.log.Warn("available projects: layout unreadable", zap.Error(err))
	}

	out := make([]string, 0, len(all))
	for _, p := range all {
		if _, ok := placed[p]; !ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func ownedItem(doc *layout.Document, name string, actor domain.Actor) (*layout.Item, error) {
	it := doc.FindProject(name)
	if it == nil {
		return nil, errNotInLayout
	}
	if err := layout.CheckOwner(it, actor.Username); err != nil {
		return nil, err
	}
	return it, nil
}
