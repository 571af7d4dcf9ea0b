package status

import "math"

// ProjectStatus is the work order completion of one project.
type ProjectStatus struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// Snapshot is everything the reconciler needs, fetched up front from the
// three stores.
type Snapshot struct {
	// WorkOrders maps a project to its work orders in the configured center.
	WorkOrders map[string][]string
	Manual     map[string]struct{}
	Auto       map[string]struct{}
}

// Reconcile computes the completion of every requested project. A work
// order counts as completed when either channel reports it.
func Reconcile(projectIDs []string, snap Snapshot) map[string]ProjectStatus {
	out := make(map[string]ProjectStatus, len(projectIDs))
	for _, p := range projectIDs {
		seen := make(map[string]struct{}, len(snap.WorkOrders[p]))
		st := ProjectStatus{}
		for _, wo := range snap.WorkOrders[p] {
			if _, dup := seen[wo]; dup {
				continue
			}
			seen[wo] = struct{}{}
			st.Total++
			if isDone(wo, snap) {
				st.Completed++
			}
		}
		st.Percentage = percentage(st.Completed, st.Total)
		out[p] = st
	}
	return out
}

func isDone(wo string, snap Snapshot) bool {
	_, manual := snap.Manual[wo]
	_, auto := snap.Auto[wo]
	return manual || auto
}

// percentage rounds half away from zero; an empty project is at 0.
func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// Source names the channel(s) that reported a work order as completed.
type Source string

const (
	SourceNone   Source = "none"
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
	SourceBoth   Source = "both"
)

func CompletionSource(manual, auto bool) Source {
	switch {
	case manual && auto:
		return SourceBoth
	case manual:
		return SourceManual
	case auto:
		return SourceAuto
	}
	return SourceNone
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
