package service

import (
	"context"

	"internhub_backend/internals/features/stats/dashboard/dto"
	helperAuth "internhub_backend/internals/helpers/auth"
	"internhub_backend/internals/repository"
)

type Service struct {
	store repository.Store
}

func New(store repository.Store) *Service {
	return &Service{store: store}
}

// DashboardStats reads every profile, project and task once.
func (s *Service) DashboardStats(ctx context.Context, actor helperAuth.Actor) (*dto.DashboardStats, error) {
	if err := helperAuth.CanPerform(actor, helperAuth.ActStatsRead, helperAuth.Target{}); err != nil {
		return nil, err
	}
	profiles, _, err := s.store.ListProfiles(ctx, repository.ProfileFilter{})
	if err != nil {
		return nil, err
	}
	projects, _, err := s.store.ListProjects(ctx, repository.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	tasks, _, err := s.store.ListTasks(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	st := ComputeDashboardStats(profiles, projects, tasks)
	return &st, nil
}

// RecentActivity merges the five newest projects with the five newest
// sign-ups. Each source is bounded before the merge, so a burst in one
// source cannot push the other out entirely.
func (s *Service) RecentActivity(ctx context.Context, actor helperAuth.Actor, limit int) ([]dto.ActivityItem, error) {
	if err := helperAuth.CanPerform(actor, helperAuth.ActStatsRead, helperAuth.Target{}); err != nil {
		return nil, err
	}
	projects, _, err := s.store.ListProjects(ctx, repository.ProjectFilter{Limit: activityPerSource})
	if err != nil {
		return nil, err
	}
	views, err := repository.ProjectViews(ctx, s.store, projects)
	if err != nil {
		return nil, err
	}
	profiles, _, err := s.store.ListProfiles(ctx, repository.ProfileFilter{Limit: activityPerSource})
	if err != nil {
		return nil, err
	}
	return MergeRecentActivity(limit, ProjectActivity(views), UserActivity(profiles)), nil
}

func (s *Service) Analytics(ctx context.Context, actor helperAuth.Actor) (*dto.Analytics, error) {
	if err := helperAuth.CanPerform(actor, helperAuth.ActStatsRead, helperAuth.Target{}); err != nil {
		return nil, err
	}
	profiles, _, err := s.store.ListProfiles(ctx, repository.ProfileFilter{})
	if err != nil {
		return nil, err
	}
	projects, _, err := s.store.ListProjects(ctx, repository.ProjectFilter{})
	if err != nil {
		return nil, err
	}
	tasks, _, err := s.store.ListTasks(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	return &dto.Analytics{
		UserGrowth:   BucketUserGrowth(profiles),
		ProjectStats: CountProjectsByStatus(projects),
		TaskStats:    CountTasksByStatus(tasks),
	}, nil
}
