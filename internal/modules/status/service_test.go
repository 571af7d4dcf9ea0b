package status

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"factoryfloor/internal/domain"
)

type mockWorkOrderRepo struct {
	mock.Mock
}

func (m *mockWorkOrderRepo) ProjectWorkOrders(ctx context.Context, projectIDs []string, workCenter string) ([]domain.WorkOrder, error) {
	args := m.Called(ctx, projectIDs, workCenter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkOrder), args.Error(1)
}

func (m *mockWorkOrderRepo) AllProjectWorkOrders(ctx context.Context, projectIDs []string) ([]domain.WorkOrder, error) {
	args := m.Called(ctx, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkOrder), args.Error(1)
}

func (m *mockWorkOrderRepo) WorkOrdersForProject(ctx context.Context, projectID, workCenter string) ([]domain.WorkOrder, error) {
	args := m.Called(ctx, projectID, workCenter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkOrder), args.Error(1)
}

type mockManualRepo struct {
	mock.Mock
}

func (m *mockManualRepo) CompletedWorkOrders(ctx context.Context, projectIDs []string) ([]string, error) {
	args := m.Called(ctx, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockTimeClockRepo struct {
	mock.Mock
}

func (m *mockTimeClockRepo) FinalizedRefs(ctx context.Context, refs []string) ([]string, error) {
	args := m.Called(ctx, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockTimeClockRepo) LatestPerRef(ctx context.Context, refs []string) ([]domain.LatestEntry, error) {
	args := m.Called(ctx, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LatestEntry), args.Error(1)
}

func wo(project, no string) domain.WorkOrder {
	return domain.WorkOrder{ProjectTaskNo: project, WorkOrderNo: no, Description: "desc " + no, WorkCenter: "303"}
}

func newService() (*Service, *mockWorkOrderRepo, *mockManualRepo, *mockTimeClockRepo) {
	w, m, tc := new(mockWorkOrderRepo), new(mockManualRepo), new(mockTimeClockRepo)
	return NewService(w, m, tc, "303", zap.NewNop()), w, m, tc
}

func TestService_Statuses(t *testing.T) {
	svc, w, m, tc := newService()
	projects := []string{"P1", "P2"}

	w.On("ProjectWorkOrders", mock.Anything, projects, "303").
		Return([]domain.WorkOrder{wo("P1", "W1"), wo("P1", "W2"), wo("P2", "W3")}, nil)
	m.On("CompletedWorkOrders", mock.Anything, projects).Return([]string{"W1"}, nil)
	tc.On("FinalizedRefs", mock.Anything, []string{"W1", "W2", "W3"}).Return([]string{"W2"}, nil)

	got, err := svc.Statuses(context.Background(), projects)
	require.NoError(t, err)
	assert.Equal(t, ProjectStatus{Total: 2, Completed: 2, Percentage: 100}, got["P1"])
	assert.Equal(t, ProjectStatus{Total: 1, Completed: 0, Percentage: 0}, got["P2"])

	w.AssertExpectations(t)
	m.AssertExpectations(t)
	tc.AssertExpectations(t)
}

func TestService_Statuses_NoWorkOrdersSkipsOtherStores(t *testing.T) {
	svc, w, m, tc := newService()
	w.On("ProjectWorkOrders", mock.Anything, []string{"P1"}, "303").Return([]domain.WorkOrder{}, nil)

	got, err := svc.Statuses(context.Background(), []string{"P1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]ProjectStatus{"P1": {}}, got)

	m.AssertNotCalled(t, "CompletedWorkOrders", mock.Anything, mock.Anything)
	tc.AssertNotCalled(t, "FinalizedRefs", mock.Anything, mock.Anything)
}

func TestService_Statuses_DegradesOnSecondaryStores(t *testing.T) {
	svc, w, m, tc := newService()
	w.On("ProjectWorkOrders", mock.Anything, []string{"P1"}, "303").
		Return([]domain.WorkOrder{wo("P1", "W1"), wo("P1", "W2")}, nil)
	m.On("CompletedWorkOrders", mock.Anything, mock.Anything).Return(nil, domain.ErrStoreUnavailable)
	tc.On("FinalizedRefs", mock.Anything, mock.Anything).Return([]string{"W1"}, nil)

	got, err := svc.Statuses(context.Background(), []string{"P1"})
	require.NoError(t, err)
	assert.Equal(t, ProjectStatus{Total: 2, Completed: 1, Percentage: 50}, got["P1"])
}

func TestService_Statuses_MainStoreIsFatal(t *testing.T) {
	svc, w, _, _ := newService()
	w.On("ProjectWorkOrders", mock.Anything, mock.Anything, "303").Return(nil, domain.ErrStoreUnavailable)

	_, err := svc.Statuses(context.Background(), []string{"P1"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestService_WorkOrders(t *testing.T) {
	svc, w, m, tc := newService()
	w.On("WorkOrdersForProject", mock.Anything, "P1", "303").
		Return([]domain.WorkOrder{wo("P1", "W1"), wo("P1", "W2"), wo("P1", "W3"), wo("P1", "W4")}, nil)
	m.On("CompletedWorkOrders", mock.Anything, []string{"P1"}).Return([]string{"W1", "W3"}, nil)
	tc.On("FinalizedRefs", mock.Anything, mock.Anything).Return([]string{"W2", "W3"}, nil)

	got, err := svc.WorkOrders(context.Background(), "P1")
	require.NoError(t, err)
	require.Len(t, got, 4)

	sources := map[string]Source{}
	for _, r := range got {
		sources[r.WorkOrderNo] = r.CompletionSource
		assert.Equal(t, r.CompletionSource != SourceNone, r.IsCompleted, r.WorkOrderNo)
	}
	assert.Equal(t, map[string]Source{"W1": SourceManual, "W2": SourceAuto, "W3": SourceBoth, "W4": SourceNone}, sources)
	assert.Equal(t, "desc W1", got[0].Description)
}

func TestService_WorkOrders_Empty(t *testing.T) {
	svc, w, _, _ := newService()
	w.On("WorkOrdersForProject", mock.Anything, "P1", "303").Return([]domain.WorkOrder{}, nil)

	got, err := svc.WorkOrders(context.Background(), "P1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_LatestWorkers(t *testing.T) {
	svc, w, _, tc := newService()
	w.On("AllProjectWorkOrders", mock.Anything, []string{"P1", "P2", "P3"}).
		Return([]domain.WorkOrder{wo("P1", "W1"), wo("P1", "W2"), wo("P2", "W3"), wo("P3", "W4")}, nil)
	tc.On("LatestPerRef", mock.Anything, []string{"W1", "W2", "W3", "W4"}).Return([]domain.LatestEntry{
		{RefDocNo: "W1", WorkerName: "ana", Timestamp: "2024-05-01T08:00:00"},
		{RefDocNo: "W2", WorkerName: "bor", Timestamp: "2024-05-02T08:00:00"},
		{RefDocNo: "W3", WorkerName: "cene", Timestamp: "2024-04-01T08:00:00"},
	}, nil)

	got := svc.LatestWorkers(context.Background(), []string{"P1", "P2", "P3"})
	assert.Equal(t, map[string]string{"P1": "bor", "P2": "cene"}, got)
}

func TestService_LatestWorkers_Degrades(t *testing.T) {
	svc, w, _, tc := newService()
	w.On("AllProjectWorkOrders", mock.Anything, []string{"P1"}).Return([]domain.WorkOrder{wo("P1", "W1")}, nil)
	tc.On("LatestPerRef", mock.Anything, mock.Anything).Return(nil, errors.New("no such table: time_entries"))

	assert.Empty(t, svc.LatestWorkers(context.Background(), []string{"P1"}))

	svc2, w2, _, _ := newService()
	w2.On("AllProjectWorkOrders", mock.Anything, mock.Anything).Return(nil, domain.ErrStoreUnavailable)
	assert.Empty(t, svc2.LatestWorkers(context.Background(), []string{"P1"}))
}

func TestPickLatest_TieLastSeenWins(t *testing.T) {
	got := pickLatest(
		map[string][]string{"P1": {"W1", "W2"}},
		map[string]domain.LatestEntry{
			"W1": {RefDocNo: "W1", WorkerName: "ana", Timestamp: "2024-05-01T08:00:00"},
			"W2": {RefDocNo: "W2", WorkerName: "bor", Timestamp: "2024-05-01T08:00:00"},
		},
	)
	assert.Equal(t, map[string]string{"P1": "bor"}, got)
}
