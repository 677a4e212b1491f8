package models

type HiringStatus string

const (
	HiringStatusApplied     HiringStatus = "applied"
	HiringStatusScreening   HiringStatus = "screening"
	HiringStatusInterviewed HiringStatus = "interviewed"
	HiringStatusPassed      HiringStatus = "passed"
	HiringStatusRejected    HiringStatus = "rejected"
)

type InterviewStatus string

const (
	InterviewStatusScheduled  InterviewStatus = "scheduled"
	InterviewStatusInProgress InterviewStatus = "in_progress"
	InterviewStatusCompleted  InterviewStatus = "completed"
	InterviewStatusCancelled  InterviewStatus = "cancelled"
)

// IsTerminal reports whether no lifecycle event can move the interview further.
func (s InterviewStatus) IsTerminal() bool {
	return s == InterviewStatusCompleted || s == InterviewStatusCancelled
}

type Recommendation string

const (
	RecommendationHire   Recommendation = "hire"
	RecommendationMaybe  Recommendation = "maybe"
	RecommendationNoHire Recommendation = "no-hire"
)

// HiringStatus maps an evaluation verdict onto the application funnel.
// Anything other than hire or no-hire keeps the candidate at interviewed.
func (r Recommendation) HiringStatus() HiringStatus {
	switch r {
	case RecommendationHire:
		return HiringStatusPassed
	case RecommendationNoHire:
		return HiringStatusRejected
	default:
		return HiringStatusInterviewed
	}
}

func (r Recommendation) IsValid() bool {
	return r == RecommendationHire || r == RecommendationMaybe || r == RecommendationNoHire
}
