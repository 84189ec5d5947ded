package constants

// Project lifecycle
const (
	ProjectDraft      = "draft"
	ProjectActive     = "active"
	ProjectInProgress = "in_progress"
	ProjectCompleted  = "completed"
	ProjectCancelled  = "cancelled"
)

// Task lifecycle
const (
	TaskOpen       = "open"
	TaskAssigned   = "assigned"
	TaskInProgress = "in_progress"
	TaskSubmitted  = "submitted"
	TaskReviewed   = "reviewed"
	TaskCompleted  = "completed"
)

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

const (
	SubmissionPending       = "pending"
	SubmissionApproved      = "approved"
	SubmissionNeedsRevision = "needs_revision"
	SubmissionRejected      = "rejected"
)

// Canonical orderings used by listings and analytics.
var (
	ProjectStatuses = []string{
		ProjectDraft,
		ProjectActive,
		ProjectInProgress,
		ProjectCompleted,
		ProjectCancelled,
	}

	TaskStatuses = []string{
		TaskOpen,
		TaskAssigned,
		TaskInProgress,
		TaskSubmitted,
		TaskReviewed,
		TaskCompleted,
	}
)

func IsProjectStatus(s string) bool { return contains(ProjectStatuses, s) }
func IsTaskStatus(s string) bool    { return contains(TaskStatuses, s) }

func IsProjectTerminal(s string) bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
