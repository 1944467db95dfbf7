package handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/taskflow/backend/api/transport"
	"github.com/taskflow/backend/domain"
	syncUC "github.com/taskflow/backend/usecase/sync"
)

type fakeReconciler struct {
	gotTeam     domain.ID
	gotIncoming syncUC.Snapshot
	result      syncUC.Snapshot
	err         error
}

func (f *fakeReconciler) Reconcile(_ context.Context, teamID domain.ID, incoming syncUC.Snapshot) (syncUC.Snapshot, error) {
	f.gotTeam = teamID
	f.gotIncoming = incoming
	if f.err != nil {
		return syncUC.Snapshot{}, f.err
	}
	return f.result, nil
}

func performSync(t *testing.T, h *SyncHandler, teamID string, body []byte) (*fasthttp.RequestCtx, transport.SyncResponse) {
	t.Helper()
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/api/sync")
	if teamID != "" {
		ctx.Request.Header.Set("Team-ID", teamID)
	}
	ctx.Request.SetBody(body)

	h.Sync(ctx)

	var resp transport.SyncResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	return ctx, resp
}

func TestSyncRequiresTeamScope(t *testing.T) {
	h := NewSyncHandler(&fakeReconciler{}, nil, nil)

	ctx, resp := performSync(t, h, "", []byte(`{"projects":[],"tasks":[]}`))

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Errorf("status = %d, want 200", ctx.Response.StatusCode())
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Message != "Team ID required" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestSyncRejectsMalformedBody(t *testing.T) {
	rec := &fakeReconciler{}
	h := NewSyncHandler(rec, nil, nil)

	_, resp := performSync(t, h, "team-1", []byte(`{not json`))

	if resp.Success {
		t.Error("expected success=false")
	}
	if rec.gotTeam != "" {
		t.Error("reconciler should not run on malformed payloads")
	}
}

func TestSyncNormalizesAliasFields(t *testing.T) {
	rec := &fakeReconciler{}
	h := NewSyncHandler(rec, nil, nil)

	body := []byte(`{
		"projects": [{"id": 7, "name": "Website", "desc": "redesign", "teamId": "team-1"}],
		"tasks": [{"id": "t1", "project_id": 7, "title": "Wireframes", "due": "2026-03-01"}]
	}`)
	_, resp := performSync(t, h, "team-1", body)

	if !resp.Success {
		t.Fatalf("sync failed: %s", resp.Message)
	}
	if rec.gotTeam != "team-1" {
		t.Errorf("team = %q", rec.gotTeam)
	}
	if len(rec.gotIncoming.Projects) != 1 || len(rec.gotIncoming.Tasks) != 1 {
		t.Fatalf("incoming = %+v", rec.gotIncoming)
	}
	p := rec.gotIncoming.Projects[0]
	if p.ID != "7" || p.Description != "redesign" || p.TeamID != "team-1" {
		t.Errorf("project = %+v", p)
	}
	task := rec.gotIncoming.Tasks[0]
	if task.ProjectID != "7" || task.Due == nil || *task.Due != "2026-03-01" {
		t.Errorf("task = %+v", task)
	}
}

func TestSyncReturnsCanonicalSnapshot(t *testing.T) {
	rec := &fakeReconciler{
		result: syncUC.Snapshot{
			Projects: []domain.Project{{ID: "p1", Name: "Website", TeamID: "team-1"}},
			Tasks:    []domain.Task{{ID: "t1", ProjectID: "p1", Title: "Wireframes", TeamID: "team-1"}},
		},
	}
	h := NewSyncHandler(rec, nil, nil)

	_, resp := performSync(t, h, "team-1", []byte(`{"projects":[],"tasks":[]}`))

	if !resp.Success {
		t.Fatalf("sync failed: %s", resp.Message)
	}
	if len(resp.Projects) != 1 || resp.Projects[0].ID != "p1" {
		t.Errorf("projects = %+v", resp.Projects)
	}
	if len(resp.Tasks) != 1 || resp.Tasks[0].Title != "Wireframes" {
		t.Errorf("tasks = %+v", resp.Tasks)
	}
}

func TestSyncEmptiedTeamKeepsListKeys(t *testing.T) {
	// A sync that deletes everything must still answer with both list keys;
	// clients only adopt the canonical state when both arrive as arrays.
	rec := &fakeReconciler{
		result: syncUC.Snapshot{
			Projects: []domain.Project{},
			Tasks:    []domain.Task{},
		},
	}
	h := NewSyncHandler(rec, nil, nil)

	ctx, resp := performSync(t, h, "team-1", []byte(`{"projects":[],"tasks":[]}`))

	if !resp.Success {
		t.Fatalf("sync failed: %s", resp.Message)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(ctx.Response.Body(), &raw); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if string(raw["projects"]) != "[]" {
		t.Errorf("projects key = %s, want []", raw["projects"])
	}
	if string(raw["tasks"]) != "[]" {
		t.Errorf("tasks key = %s, want []", raw["tasks"])
	}
}

func TestSyncSurfacesDomainErrors(t *testing.T) {
	rec := &fakeReconciler{err: domain.NewError(domain.ErrCodeInvalid, "task references unknown project")}
	h := NewSyncHandler(rec, nil, nil)

	ctx, resp := performSync(t, h, "team-1", []byte(`{"projects":[],"tasks":[]}`))

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Errorf("status = %d, want 200", ctx.Response.StatusCode())
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Message != "task references unknown project" {
		t.Errorf("message = %q", resp.Message)
	}
}
