package handler

import (
	"context"
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskflow/backend/api/transport"
	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/pkg/httpcontext"
	syncUC "github.com/taskflow/backend/usecase/sync"
)

// Reconciler merges a client snapshot into canonical storage.
type Reconciler interface {
	Reconcile(ctx context.Context, teamID domain.ID, incoming syncUC.Snapshot) (syncUC.Snapshot, error)
}

type SyncHandler struct {
	baseHandler
	uc Reconciler
}

func NewSyncHandler(uc Reconciler, adapter *httpcontext.Adapter, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Sync accepts a client's full snapshot and responds with the fresh canonical
// one. The team scope comes from the Team-ID header, which the auth
// middleware fills in from the token when one is present.
func (h *SyncHandler) Sync(ctx *fasthttp.RequestCtx) {
	teamID := domain.ID(ctx.Request.Header.Peek("Team-ID"))
	if teamID == "" {
		h.respondFlat(ctx, transport.SyncResponse{Success: false, Message: "Team ID required"})
		return
	}

	var req transport.SyncRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondFlat(ctx, transport.SyncResponse{Success: false, Message: "invalid payload"})
		return
	}

	incoming := syncUC.Snapshot{
		Projects: make([]domain.Project, 0, len(req.Projects)),
		Tasks:    make([]domain.Task, 0, len(req.Tasks)),
	}
	for _, record := range req.Projects {
		incoming.Projects = append(incoming.Projects, record.Normalize())
	}
	for _, record := range req.Tasks {
		incoming.Tasks = append(incoming.Tasks, record.Normalize())
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	canonical, err := h.uc.Reconcile(stdCtx, teamID, incoming)
	if err != nil {
		h.logger.Warn("sync rejected",
			zap.String("team_id", teamID.String()),
			zap.Error(err))
		h.respondFlat(ctx, transport.SyncResponse{Success: false, Message: errorMessage(err)})
		return
	}

	h.respondFlat(ctx, transport.SyncResponse{
		Success:  true,
		Projects: canonical.Projects,
		Tasks:    canonical.Tasks,
	})
}
