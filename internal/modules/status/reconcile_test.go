package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func set(values ...string) map[string]struct{} { return toSet(values) }

func TestReconcile(t *testing.T) {
	tests := []struct {
		name     string
		projects []string
		snap     Snapshot
		want     map[string]ProjectStatus
	}{
		{
			name:     "manual and auto both count",
			projects: []string{"P1"},
			snap: Snapshot{
				WorkOrders: map[string][]string{"P1": {"W1", "W2"}},
				Manual:     set("W1"),
				Auto:       set("W2"),
			},
			want: map[string]ProjectStatus{"P1": {Total: 2, Completed: 2, Percentage: 100}},
		},
		{
			name:     "project without work orders",
			projects: []string{"P1", "P2"},
			snap: Snapshot{
				WorkOrders: map[string][]string{"P1": {"W1"}},
				Manual:     set("W1"),
			},
			want: map[string]ProjectStatus{
				"P1": {Total: 1, Completed: 1, Percentage: 100},
				"P2": {},
			},
		},
		{
			name:     "flags of other projects are ignored",
			projects: []string{"P1"},
			snap: Snapshot{
				WorkOrders: map[string][]string{"P1": {"W1", "W2", "W3"}},
				Manual:     set("W9"),
				Auto:       set("W1", "W8"),
			},
			want: map[string]ProjectStatus{"P1": {Total: 3, Completed: 1, Percentage: 33}},
		},
		{
			name:     "half rounds away from zero",
			projects: []string{"P1"},
			snap: Snapshot{
				WorkOrders: map[string][]string{"P1": {"W1", "W2", "W3", "W4", "W5", "W6", "W7", "W8"}},
				Auto:       set("W1"),
			},
			want: map[string]ProjectStatus{"P1": {Total: 8, Completed: 1, Percentage: 13}},
		},
		{
			name:     "two thirds",
			projects: []string{"P1"},
			snap: Snapshot{
				WorkOrders: map[string][]string{"P1": {"W1", "W2", "W3"}},
				Manual:     set("W1"),
				Auto:       set("W1", "W2"),
			},
			want: map[string]ProjectStatus{"P1": {Total: 3, Completed: 2, Percentage: 67}},
		},
		{
			name:     "nil sets",
			projects: []string{"P1"},
			snap:     Snapshot{WorkOrders: map[string][]string{"P1": {"W1"}}},
			want:     map[string]ProjectStatus{"P1": {Total: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reconcile(tt.projects, tt.snap))
		})
	}
}

func TestReconcile_CompletedNeverExceedsTotal(t *testing.T) {
	snap := Snapshot{
		WorkOrders: map[string][]string{"P1": {"W1", "W1", "W2"}},
		Manual:     set("W1", "W2"),
		Auto:       set("W1", "W2"),
	}
	got := Reconcile([]string{"P1"}, snap)["P1"]
	assert.LessOrEqual(t, got.Completed, got.Total)
	assert.Equal(t, 100, got.Percentage)
}

func TestCompletionSource(t *testing.T) {
	assert.Equal(t, SourceNone, CompletionSource(false, false))
	assert.Equal(t, SourceManual, CompletionSource(true, false))
	assert.Equal(t, SourceAuto, CompletionSource(false, true))
	assert.Equal(t, SourceBoth, CompletionSource(true, true))
}
