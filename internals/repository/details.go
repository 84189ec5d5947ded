package repository

import (
	"context"

	"github.com/google/uuid"

	notifModel "internhub_backend/internals/features/home/notifications/model"
	projectModel "internhub_backend/internals/features/projects/projects/model"
	taskModel "internhub_backend/internals/features/projects/tasks/model"
	profileModel "internhub_backend/internals/features/users/user_profiles/model"
)

// Composed read models. Each loader issues one query per relation and joins
// in memory, so the workflow packages never depend on relational shape.

type ProjectView struct {
	projectModel.ProjectModel
	Client   *profileModel.ProfileSummary `json:"client,omitempty"`
	TeamLead *profileModel.ProfileSummary `json:"team_lead,omitempty"`
}

type ProjectDetail struct {
	ProjectView
	Tasks []TaskView `json:"tasks"`
}

type ApplicationView struct {
	taskModel.ApplicationModel
	Intern *profileModel.ProfileSummary `json:"intern,omitempty"`
}

type SubmissionView struct {
	taskModel.SubmissionModel
	Intern  *profileModel.ProfileSummary `json:"intern,omitempty"`
	Reviews []taskModel.ReviewModel      `json:"reviews"`
}

type TaskView struct {
	taskModel.TaskModel
	AssignedIntern *profileModel.ProfileSummary `json:"assigned_intern,omitempty"`
	Applications   []ApplicationView            `json:"applications,omitempty"`
	Submissions    []SubmissionView             `json:"submissions,omitempty"`
}

type TaskDetail struct {
	TaskView
	Project *ProjectView `json:"project,omitempty"`
}

type MessageView struct {
	notifModel.MessageModel
	Sender    *profileModel.ProfileSummary `json:"sender,omitempty"`
	Recipient *profileModel.ProfileSummary `json:"recipient,omitempty"`
}

type idSet struct {
	seen map[uuid.UUID]struct{}
	ids  []uuid.UUID
}

func (s *idSet) add(id *uuid.UUID) {
	if id == nil || *id == uuid.Nil {
		return
	}
	if s.seen == nil {
		s.seen = map[uuid.UUID]struct{}{}
	}
	if _, ok := s.seen[*id]; ok {
		return
	}
	s.seen[*id] = struct{}{}
	s.ids = append(s.ids, *id)
}

func summaries(ctx context.Context, s Store, ids *idSet) (func(*uuid.UUID) *profileModel.ProfileSummary, error) {
	profiles, err := s.GetProfilesByIDs(ctx, ids.ids)
	if err != nil {
		return nil, err
	}
	return func(id *uuid.UUID) *profileModel.ProfileSummary {
		if id == nil {
			return nil
		}
		p, ok := profiles[*id]
		if !ok {
			return nil
		}
		sum := p.Summary()
		return &sum
	}, nil
}

func ProjectViews(ctx context.Context, s Store, projects []projectModel.ProjectModel) ([]ProjectView, error) {
	var ids idSet
	for i := range projects {
		ids.add(&projects[i].ClientID)
		ids.add(projects[i].TeamLeadID)
	}
	lookup, err := summaries(ctx, s, &ids)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectView, 0, len(projects))
	for i := range projects {
		p := projects[i]
		out = append(out, ProjectView{
			ProjectModel: p,
			Client:       lookup(&p.ClientID),
			TeamLead:     lookup(p.TeamLeadID),
		})
	}
	return out, nil
}

// TaskViews joins assignees; withChildren also loads applications,
// submissions and reviews.
func TaskViews(ctx context.Context, s Store, tasks []taskModel.TaskModel, withChildren bool) ([]TaskView, error) {
	taskIDs := make([]uuid.UUID, 0, len(tasks))
	var ids idSet
	for i := range tasks {
		taskIDs = append(taskIDs, tasks[i].ID)
		ids.add(tasks[i].AssignedInternID)
	}

	var (
		apps    []taskModel.ApplicationModel
		subs    []taskModel.SubmissionModel
		reviews []taskModel.ReviewModel
	)
	if withChildren && len(tasks) > 0 {
		var err error
		if apps, err = s.ListApplications(ctx, ApplicationFilter{TaskIDs: taskIDs}); err != nil {
			return nil, err
		}
		if subs, err = s.ListSubmissions(ctx, SubmissionFilter{TaskIDs: taskIDs}); err != nil {
			return nil, err
		}
		subIDs := make([]uuid.UUID, 0, len(subs))
		for i := range subs {
			subIDs = append(subIDs, subs[i].ID)
			ids.add(&subs[i].InternID)
		}
		if reviews, err = s.ListReviews(ctx, subIDs); err != nil {
			return nil, err
		}
		for i := range apps {
			ids.add(&apps[i].InternID)
		}
	}

	lookup, err := summaries(ctx, s, &ids)
	if err != nil {
		return nil, err
	}

	reviewsBySub := map[uuid.UUID][]taskModel.ReviewModel{}
	for _, r := range reviews {
		reviewsBySub[r.SubmissionID] = append(reviewsBySub[r.SubmissionID], r)
	}
	appsByTask := map[uuid.UUID][]ApplicationView{}
	for i := range apps {
		a := apps[i]
		appsByTask[a.TaskID] = append(appsByTask[a.TaskID], ApplicationView{ApplicationModel: a, Intern: lookup(&a.InternID)})
	}
	subsByTask := map[uuid.UUID][]SubmissionView{}
	for i := range subs {
		sub := subs[i]
		rs := reviewsBySub[sub.ID]
		if rs == nil {
			rs = []taskModel.ReviewModel{}
		}
		subsByTask[sub.TaskID] = append(subsByTask[sub.TaskID], SubmissionView{
			SubmissionModel: sub,
			Intern:          lookup(&sub.InternID),
			Reviews:         rs,
		})
	}

	out := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		t := tasks[i]
		out = append(out, TaskView{
			TaskModel:      t,
			AssignedIntern: lookup(t.AssignedInternID),
			Applications:   appsByTask[t.ID],
			Submissions:    subsByTask[t.ID],
		})
	}
	return out, nil
}

func LoadProjectDetail(ctx context.Context, s Store, p *projectModel.ProjectModel) (*ProjectDetail, error) {
	views, err := ProjectViews(ctx, s, []projectModel.ProjectModel{*p})
	if err != nil {
		return nil, err
	}
	tasks, _, err := s.ListTasks(ctx, TaskFilter{ProjectID: &p.ID})
	if err != nil {
		return nil, err
	}
	tv, err := TaskViews(ctx, s, tasks, true)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{ProjectView: views[0], Tasks: tv}, nil
}

func LoadTaskDetail(ctx context.Context, s Store, t *taskModel.TaskModel, p *projectModel.ProjectModel) (*TaskDetail, error) {
	tv, err := TaskViews(ctx, s, []taskModel.TaskModel{*t}, true)
	if err != nil {
		return nil, err
	}
	out := &TaskDetail{TaskView: tv[0]}
	if p != nil {
		pv, err := ProjectViews(ctx, s, []projectModel.ProjectModel{*p})
		if err != nil {
			return nil, err
		}
		out.Project = &pv[0]
	}
	return out, nil
}

func ApplicationViews(ctx context.Context, s Store, apps []taskModel.ApplicationModel) ([]ApplicationView, error) {
	var ids idSet
	for i := range apps {
		ids.add(&apps[i].InternID)
	}
	lookup, err := summaries(ctx, s, &ids)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		a := apps[i]
		out = append(out, ApplicationView{ApplicationModel: a, Intern: lookup(&a.InternID)})
	}
	return out, nil
}

func MessageViews(ctx context.Context, s Store, msgs []notifModel.MessageModel) ([]MessageView, error) {
	var ids idSet
	for i := range msgs {
		ids.add(&msgs[i].SenderID)
		ids.add(&msgs[i].RecipientID)
	}
	lookup, err := summaries(ctx, s, &ids)
	if err != nil {
		return nil, err
	}
	out := make([]MessageView, 0, len(msgs))
	for i := range msgs {
		m := msgs[i]
		out = append(out, MessageView{
			MessageModel: m,
			Sender:       lookup(&m.SenderID),
			Recipient:    lookup(&m.RecipientID),
		})
	}
	return out, nil
}
