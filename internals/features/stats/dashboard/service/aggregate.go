package service

import (
	"math"
	"sort"
	"time"

	"internhub_backend/internals/constants"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	taskModel "internhub_backend/internals/features/projects/tasks/model"
	"internhub_backend/internals/features/stats/dashboard/dto"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
	"internhub_backend/internals/repository"
)

const (
	DefaultActivityLimit = 10
	activityPerSource    = 5
)

// Percent returns 100*part/total rounded to two decimals, 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*10000/float64(total)) / 100
}

// ComputeDashboardStats partitions the rows in one pass each.
func ComputeDashboardStats(profiles []profileModel.ProfileModel, projects []projectModel.ProjectModel, tasks []taskModel.TaskModel) dto.DashboardStats {
	var st dto.DashboardStats

	st.TotalUsers = len(profiles)
	for i := range profiles {
		switch profiles[i].Role {
		case constants.RoleClient:
			st.TotalClients++
		case constants.RoleIntern:
			st.TotalInterns++
		case constants.RoleTeamLead:
			st.TotalTeamLeads++
		case constants.RoleAdmin:
			st.TotalAdmins++
		}
		if !profiles[i].Approved() {
			st.PendingApprovals++
		}
	}

	st.TotalProjects = len(projects)
	for i := range projects {
		switch projects[i].Status {
		case constants.ProjectActive, constants.ProjectInProgress:
			st.ActiveProjects++
		case constants.ProjectCompleted:
			st.CompletedProjects++
		case constants.ProjectCancelled:
			st.CancelledProjects++
		}
	}
	st.CompletionRate = Percent(st.CompletedProjects, st.TotalProjects)

	st.TotalTasks = len(tasks)
	for i := range tasks {
		switch tasks[i].Status {
		case constants.TaskOpen:
			st.OpenTasks++
		case constants.TaskCompleted:
			st.CompletedTasks++
		}
	}
	st.TaskCompletionRate = Percent(st.CompletedTasks, st.TotalTasks)
	return st
}

// ProjectActivity tags recent projects; views carry the client summary.
func ProjectActivity(views []repository.ProjectView) []dto.ActivityItem {
	out := make([]dto.ActivityItem, 0, len(views))
	for _, v := range views {
		client := "unknown client"
		if v.Client != nil {
			client = v.Client.FullName
		}
		out = append(out, dto.ActivityItem{
			Title:       "New Project Created",
			Description: v.Title + " by " + client,
			CreatedAt:   v.CreatedAt,
			Type:        dto.ActivityProject,
		})
	}
	return out
}

func UserActivity(profiles []profileModel.ProfileModel) []dto.ActivityItem {
	out := make([]dto.ActivityItem, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, dto.ActivityItem{
			Title:       "New User Registration",
			Description: p.FullName + " joined as " + string(p.Role),
			CreatedAt:   p.CreatedAt,
			Type:        dto.ActivityUser,
		})
	}
	return out
}

// MergeRecentActivity concatenates the feeds, sorts newest first and keeps
// at most limit items (DefaultActivityLimit when limit <= 0).
func MergeRecentActivity(limit int, feeds ...[]dto.ActivityItem) []dto.ActivityItem {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	var all []dto.ActivityItem
	for _, f := range feeds {
		all = append(all, f...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	if all == nil {
		all = []dto.ActivityItem{}
	}
	return all
}

// BucketUserGrowth counts profile sign-ups per UTC month, oldest month first.
func BucketUserGrowth(profiles []profileModel.ProfileModel) []dto.MonthlyGrowth {
	byMonth := map[string]*dto.MonthlyGrowth{}
	for i := range profiles {
		month := monthKey(profiles[i].CreatedAt)
		g, ok := byMonth[month]
		if !ok {
			g = &dto.MonthlyGrowth{Month: month}
			byMonth[month] = g
		}
		g.Total++
		switch profiles[i].Role {
		case constants.RoleClient:
			g.Clients++
		case constants.RoleIntern:
			g.Interns++
		case constants.RoleTeamLead:
			g.TeamLeads++
		case constants.RoleAdmin:
			g.Admins++
		}
	}

	out := make([]dto.MonthlyGrowth, 0, len(byMonth))
	for _, g := range byMonth {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CountByStatus counts statuses in the canonical order given, followed by
// any unknown status in alphabetical order. Zero counts are omitted.
func CountByStatus(order []string, statuses []string) []dto.StatusCount {
	counts := map[string]int{}
	for _, s := range statuses {
		counts[s]++
	}
	out := make([]dto.StatusCount, 0, len(counts))
	for _, s := range order {
		if n := counts[s]; n > 0 {
			out = append(out, dto.StatusCount{Status: s, Count: n})
			delete(counts, s)
		}
	}
	rest := make([]string, 0, len(counts))
	for s := range counts {
		rest = append(rest, s)
	}
	sort.Strings(rest)
	for _, s := range rest {
		out = append(out, dto.StatusCount{Status: s, Count: counts[s]})
	}
	return out
}

func CountProjectsByStatus(projects []projectModel.ProjectModel) []dto.StatusCount {
	statuses := make([]string, 0, len(projects))
	for i := range projects {
		statuses = append(statuses, projects[i].Status)
	}
	return CountByStatus(constants.ProjectStatuses, statuses)
}

func CountTasksByStatus(tasks []taskModel.TaskModel) []dto.StatusCount {
	statuses := make([]string, 0, len(tasks))
	for i := range tasks {
		statuses = append(statuses, tasks[i].Status)
	}
	return CountByStatus(constants.TaskStatuses, statuses)
}

func monthKey(t time.Time) string { return t.UTC().Format("2006-01") }
