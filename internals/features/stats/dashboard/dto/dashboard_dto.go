package dto

import "time"

// DashboardStats keeps the camelCase keys the admin dashboard reads.
type DashboardStats struct {
	TotalUsers         int     `json:"totalUsers"`
	TotalClients       int     `json:"totalClients"`
	TotalInterns       int     `json:"totalInterns"`
	TotalTeamLeads     int     `json:"totalTeamLeads"`
	TotalAdmins        int     `json:"totalAdmins"`
	PendingApprovals   int     `json:"pendingApprovals"`
	TotalProjects      int     `json:"totalProjects"`
	ActiveProjects     int     `json:"activeProjects"`
	CompletedProjects  int     `json:"completedProjects"`
	CancelledProjects  int     `json:"cancelledProjects"`
	CompletionRate     float64 `json:"completionRate"`
	TotalTasks         int     `json:"totalTasks"`
	OpenTasks          int     `json:"openTasks"`
	CompletedTasks     int     `json:"completedTasks"`
	TaskCompletionRate float64 `json:"taskCompletionRate"`
}

const (
	ActivityProject = "project"
	ActivityUser    = "user"
)

type ActivityItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Type        string    `json:"type"`
}

type MonthlyGrowth struct {
	Month     string `json:"month"` // YYYY-MM, UTC
	Total     int    `json:"total"`
	Clients   int    `json:"clients"`
	Interns   int    `json:"interns"`
	TeamLeads int    `json:"team_leads"`
	Admins    int    `json:"admins"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type Analytics struct {
	UserGrowth   []MonthlyGrowth `json:"userGrowth"`
	ProjectStats []StatusCount   `json:"projectStats"`
	TaskStats    []StatusCount   `json:"taskStats"`
}
