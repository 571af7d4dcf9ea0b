package status

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	workOrders WorkOrderRepository
	manual     ManualCompletionRepository
	timeClock  TimeClockRepository
	workCenter string
	log        *zap.Logger
}

func NewService(
	workOrders WorkOrderRepository,
	manual ManualCompletionRepository,
	timeClock TimeClockRepository,
	workCenter string,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		workOrders: workOrders,
		manual:     manual,
		timeClock:  timeClock,
		workCenter: workCenter,
		log:        log,
	}
}

// Statuses returns the completion of every requested project. Only a main
// store failure is returned; the manual and automatic channels degrade to
// empty on error.
func (s *Service) Statuses(ctx context.Context, projectIDs []string) (map[string]ProjectStatus, error) {
	wos, err := s.workOrders.ProjectWorkOrders(ctx, projectIDs, s.workCenter)
	if err != nil {
		return nil, err
	}

	snap := Snapshot{WorkOrders: make(map[string][]string, len(projectIDs))}
	refs := make([]string, 0, len(wos))
	for _, wo := range wos {
		snap.WorkOrders[wo.ProjectTaskNo] = append(snap.WorkOrders[wo.ProjectTaskNo], wo.WorkOrderNo)
		refs = append(refs, wo.WorkOrderNo)
	}
	if len(refs) == 0 {
		return Reconcile(projectIDs, snap), nil
	}

	snap.Manual, snap.Auto = s.completionSets(ctx, projectIDs, refs)
	return Reconcile(projectIDs, snap), nil
}

// completionSets fetches both completion channels concurrently.
func (s *Service) completionSets(ctx context.Context, projectIDs, refs []string) (manual, auto map[string]struct{}) {
	var manualList, autoList []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		manualList, err = s.manual.CompletedWorkOrders(gctx, projectIDs)
		if err != nil {
			s.log.Warn("manual completion unavailable", zap.Error(err))
			manualList = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		autoList, err = s.timeClock.FinalizedRefs(gctx, refs)
		if err != nil {
			s.log.Warn("time clock completion unavailable", zap.Error(err))
			autoList = nil
		}
		return nil
	})
	_ = g.Wait()
	return toSet(manualList), toSet(autoList)
}

// WorkOrderStatus is one row of the per project work order list.
type WorkOrderStatus struct {
	WorkOrderNo      string `json:"work_order_no"`
	Description      string `json:"description"`
	IsCompleted      bool   `json:"is_completed"`
	CompletionSource Source `json:"completion_source"`
}

// WorkOrders lists the center work orders of one project with their
// completion state, ordered by work order number.
func (s *Service) WorkOrders(ctx context.Context, projectID string) ([]WorkOrderStatus, error) {
	wos, err := s.workOrders.WorkOrdersForProject(ctx, projectID, s.workCenter)
	if err != nil {
		return nil, err
	}
	out := make([]WorkOrderStatus, 0, len(wos))
	if len(wos) == 0 {
		return out, nil
	}

	refs := make([]string, len(wos))
	for i, wo := range wos {
		refs[i] = wo.WorkOrderNo
	}
	manual, auto := s.completionSets(ctx, []string{projectID}, refs)

	for _, wo := range wos {
		_, m := manual[wo.WorkOrderNo]
		_, a := auto[wo.WorkOrderNo]
		out = append(out, WorkOrderStatus{
			WorkOrderNo:      wo.WorkOrderNo,
			Description:      wo.Description,
			IsCompleted:      m || a,
			CompletionSource: CompletionSource(m, a),
		})
	}
	return out, nil
}
