package status

import (
	"context"

	"go.uber.org/zap"

	"factoryfloor/internal/domain"
)

// LatestWorkers returns the worker of the most recent time clock event
// across all work orders of each project, any work center. Projects without
// events are absent. Store failures yield an empty map.
func (s *Service) LatestWorkers(ctx context.Context, projectIDs []string) map[string]string {
	out := map[string]string{}
	if len(projectIDs) == 0 {
		return out
	}

	wos, err := s.workOrders.AllProjectWorkOrders(ctx, projectIDs)
	if err != nil {
		s.log.Warn("worker attribution: work orders unavailable", zap.Error(err))
		return out
	}
	byProject := make(map[string][]string, len(projectIDs))
	refs := make([]string, 0, len(wos))
	for _, wo := range wos {
		byProject[wo.ProjectTaskNo] = append(byProject[wo.ProjectTaskNo], wo.WorkOrderNo)
		refs = append(refs, wo.WorkOrderNo)
	}
	if len(refs) == 0 {
		return out
	}

	entries, err := s.timeClock.LatestPerRef(ctx, refs)
	if err != nil {
		s.log.Warn("worker attribution: time clock unavailable", zap.Error(err))
		return out
	}
	latest := make(map[string]domain.LatestEntry, len(entries))
	for _, e := range entries {
		latest[e.RefDocNo] = e
	}
	return pickLatest(byProject, latest)
}

// pickLatest keeps, per project, the worker of the newest entry. Timestamps
// are ISO-8601 so string order is time order; on a tie the later work
// order wins.
func pickLatest(workOrders map[string][]string, latest map[string]domain.LatestEntry) map[string]string {
	out := make(map[string]string, len(workOrders))
	for project, refs := range workOrders {
		var best *domain.LatestEntry
		for _, ref := range refs {
			e, ok := latest[ref]
			if !ok {
				continue
			}
			if best == nil || e.Timestamp >= best.Timestamp {
				e := e
				best = &e
			}
		}
		if best != nil {
			out[project] = best.WorkerName
		}
	}
	return out
}
