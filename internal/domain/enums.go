package domain

type WorkPackageStatus string

const (
	LotPending    WorkPackageStatus = "pending"
	LotInProgress WorkPackageStatus = "in_progress"
	LotCompleted  WorkPackageStatus = "completed"
	LotDelayed    WorkPackageStatus = "delayed"
	LotOnHold     WorkPackageStatus = "on_hold"
)

// LotStatuses is the canonical cycle order used by the timeline status toggle.
var LotStatuses = []WorkPackageStatus{LotPending, LotInProgress, LotCompleted, LotDelayed, LotOnHold}

// Valid reports whether s is one of the known work package statuses.
func (s WorkPackageStatus) Valid() bool {
	for _, v := range LotStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Next returns the status following s in LotStatuses, wrapping around.
func (s WorkPackageStatus) Next() WorkPackageStatus {
	for i, v := range LotStatuses {
		if v == s {
			return LotStatuses[(i+1)%len(LotStatuses)]
		}
	}
	return LotPending
}

type InterventionStatus string

const (
	InterventionPlanned    InterventionStatus = "planned"
	InterventionInProgress InterventionStatus = "in_progress"
	InterventionCompleted  InterventionStatus = "completed"
	InterventionDelayed    InterventionStatus = "delayed"
	InterventionCancelled  InterventionStatus = "cancelled"
)

// InterventionStatuses is the canonical set of sub-intervention statuses.
var InterventionStatuses = []InterventionStatus{
	InterventionPlanned, InterventionInProgress, InterventionCompleted,
	InterventionDelayed, InterventionCancelled,
}

func (s InterventionStatus) Valid() bool {
	for _, v := range InterventionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ItemKind distinguishes the two schedulable item types on the timeline.
type ItemKind string

const (
	KindWorkPackage     ItemKind = "work_package"
	KindSubIntervention ItemKind = "sub_intervention"
)
