// Package sync implements the reconciliation engine: the merge of a client's
// locally-mutated snapshot into the team's canonical state.
package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/repository"
	"github.com/taskflow/backend/usecase"
)

// Snapshot is a full-batch view of one team's projects and tasks.
type Snapshot struct {
	Projects []domain.Project
	Tasks    []domain.Task
}

type UseCase struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	content  usecase.ContentStore
	janitor  usecase.CleanupDeferrer
	logger   *zap.Logger
	locks    *teamLocks
}

func New(
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	content usecase.ContentStore,
	janitor usecase.CleanupDeferrer,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		projects: projects,
		tasks:    tasks,
		content:  content,
		janitor:  janitor,
		logger:   logger,
		locks:    newTeamLocks(),
	}
}

// Reconcile merges the incoming snapshot into canonical storage and returns
// the new canonical snapshot the client must adopt verbatim.
//
// A record's absence from the incoming snapshot is an intentional deletion.
// Upserts are whole-record last-writer-wins. Reconciliation is serialized per
// team; the same batch submitted twice yields an identical response with no
// net mutation.
func (uc *UseCase) Reconcile(ctx context.Context, teamID domain.ID, incoming Snapshot) (Snapshot, error) {
	if teamID == "" {
		return Snapshot{}, domain.ErrTeamScopeRequired
	}

	release := uc.locks.Acquire(string(teamID))
	defer release()

	if err := validateBatch(incoming); err != nil {
		return Snapshot{}, err
	}

	canonicalProjects, err := uc.projects.ListByTeam(ctx, teamID)
	if err != nil {
		return Snapshot{}, domain.WrapError(domain.ErrCodeInternal, "read canonical projects", err)
	}
	canonicalTasks, err := uc.tasks.ListByTeam(ctx, teamID)
	if err != nil {
		return Snapshot{}, domain.WrapError(domain.ErrCodeInternal, "read canonical tasks", err)
	}

	remaining, err := uc.deleteMissingProjects(ctx, teamID, incoming, canonicalProjects, canonicalTasks)
	if err != nil {
		return Snapshot{}, err
	}
	if err := uc.deleteMissingTasks(ctx, teamID, incoming, remaining); err != nil {
		return Snapshot{}, err
	}
	if err := uc.upsertBatch(ctx, teamID, incoming); err != nil {
		return Snapshot{}, err
	}

	return uc.canonicalSnapshot(ctx, teamID)
}

// validateBatch rejects malformed batches before any mutation. The projects
// that survive this reconciliation are exactly the ones in the batch, since a
// canonical project omitted from it is about to be deleted. A task whose
// projectId is not in the batch would therefore end up orphaned, so the
// reference is dangling even when the project is still canonical right now.
func validateBatch(incoming Snapshot) error {
	known := make(map[string]struct{}, len(incoming.Projects))
	for _, p := range incoming.Projects {
		if p.ID == "" {
			return domain.NewError(domain.ErrCodeInvalid, "project missing id")
		}
		known[p.ID.String()] = struct{}{}
	}

	for _, t := range incoming.Tasks {
		if t.ID == "" {
			return domain.NewError(domain.ErrCodeInvalid, "task missing id")
		}
		if _, ok := known[t.ProjectID.String()]; !ok {
			return domain.NewError(domain.ErrCodeInvalid,
				fmt.Sprintf("task %s references unknown project %s", t.ID, t.ProjectID))
		}
	}
	return nil
}

// deleteMissingProjects removes canonical projects absent from the incoming
// batch, cascading to their tasks and attachments. It returns the canonical
// tasks that survived the cascade so task-level deletion does not reprocess
// rows already gone.
func (uc *UseCase) deleteMissingProjects(
	ctx context.Context,
	teamID domain.ID,
	incoming Snapshot,
	canonicalProjects []domain.Project,
	canonicalTasks []domain.Task,
) ([]domain.Task, error) {
	incomingIDs := make(map[string]struct{}, len(incoming.Projects))
	for _, p := range incoming.Projects {
		incomingIDs[p.ID.String()] = struct{}{}
	}

	deletedProjects := make(map[string]struct{})
	for _, p := range canonicalProjects {
		if _, ok := incomingIDs[p.ID.String()]; ok {
			continue
		}
		for _, t := range canonicalTasks {
			if t.ProjectID.String() == p.ID.String() {
				uc.releaseAttachments(ctx, teamID, &t)
			}
		}
		if err := uc.tasks.DeleteByProject(ctx, p.ID, teamID); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "delete project tasks", err)
		}
		if err := uc.projects.Delete(ctx, p.ID, teamID); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "delete project", err)
		}
		deletedProjects[p.ID.String()] = struct{}{}
		uc.logger.Info("project deleted by omission",
			zap.String("team_id", teamID.String()),
			zap.String("project_id", p.ID.String()))
	}

	remaining := make([]domain.Task, 0, len(canonicalTasks))
	for _, t := range canonicalTasks {
		if _, gone := deletedProjects[t.ProjectID.String()]; !gone {
			remaining = append(remaining, t)
		}
	}
	return remaining, nil
}

// deleteMissingTasks removes surviving canonical tasks whose own id is absent
// from the incoming batch.
func (uc *UseCase) deleteMissingTasks(ctx context.Context, teamID domain.ID, incoming Snapshot, canonical []domain.Task) error {
	incomingIDs := make(map[string]struct{}, len(incoming.Tasks))
	for _, t := range incoming.Tasks {
		incomingIDs[t.ID.String()] = struct{}{}
	}

	for _, t := range canonical {
		if _, ok := incomingIDs[t.ID.String()]; ok {
			continue
		}
		uc.releaseAttachments(ctx, teamID, &t)
		if err := uc.tasks.Delete(ctx, t.ID, teamID); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "delete task", err)
		}
	}
	return nil
}

// upsertBatch writes the incoming records. The team scope is stamped on every
// record, which also keeps a task's team aligned with its project's. A store
// failure aborts the remaining batch: skipping a row would silently
// desynchronize client and server.
func (uc *UseCase) upsertBatch(ctx context.Context, teamID domain.ID, incoming Snapshot) error {
	for i := range incoming.Projects {
		p := incoming.Projects[i]
		p.TeamID = teamID
		if err := uc.projects.Upsert(ctx, &p); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "upsert project", err)
		}
	}
	for i := range incoming.Tasks {
		t := incoming.Tasks[i]
		t.TeamID = teamID
		t.Due = NormalizeDueDate(t.Due)
		if err := uc.tasks.Upsert(ctx, &t); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "upsert task", err)
		}
	}
	return nil
}

// canonicalSnapshot re-reads the team's full state and dedupes each task's
// comment log. This is the authoritative response.
func (uc *UseCase) canonicalSnapshot(ctx context.Context, teamID domain.ID) (Snapshot, error) {
	projects, err := uc.projects.ListByTeam(ctx, teamID)
	if err != nil {
		return Snapshot{}, domain.WrapError(domain.ErrCodeInternal, "read projects", err)
	}
	tasks, err := uc.tasks.ListByTeam(ctx, teamID)
	if err != nil {
		return Snapshot{}, domain.WrapError(domain.ErrCodeInternal, "read tasks", err)
	}

	for i := range tasks {
		tasks[i].Comments = domain.DedupeComments(tasks[i].Comments)
		if tasks[i].Files == nil {
			tasks[i].Files = []domain.Attachment{}
		}
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return Snapshot{Projects: projects, Tasks: tasks}, nil
}

// releaseAttachments deletes the task's content references best-effort. A
// failed delete never blocks record deletion; the reference is handed to the
// janitor for a later retry instead.
func (uc *UseCase) releaseAttachments(ctx context.Context, teamID domain.ID, t *domain.Task) {
	if uc.content == nil {
		return
	}
	for _, ref := range t.AttachmentRefs() {
		if err := uc.content.Delete(ctx, ref); err != nil {
			uc.logger.Warn("attachment cleanup failed",
				zap.String("team_id", teamID.String()),
				zap.String("task_id", t.ID.String()),
				zap.String("ref", ref),
				zap.Error(err))
			if uc.janitor != nil {
				if dErr := uc.janitor.Defer(ctx, teamID, ref); dErr != nil {
					uc.logger.Error("failed to defer attachment cleanup", zap.String("ref", ref), zap.Error(dErr))
				}
			}
		}
	}
}
