package handler

import (
	"mime"
	"path/filepath"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskflow/backend/api/transport"
	"github.com/taskflow/backend/domain"
	"github.com/taskflow/backend/internal/infrastructure/content"
	"github.com/taskflow/backend/pkg/httpcontext"
	"github.com/taskflow/backend/usecase"
)

type UploadHandler struct {
	baseHandler
	store usecase.ContentStore
}

func NewUploadHandler(store usecase.ContentStore, adapter *httpcontext.Adapter, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// Upload stores one multipart file and returns the reference clients embed
// in task and comment attachments.
func (h *UploadHandler) Upload(ctx *fasthttp.RequestCtx) {
	header, err := ctx.FormFile("file")
	if err != nil {
		h.respondFlat(ctx, transport.UploadResponse{Success: false, Message: "No file uploaded"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.respondFlat(ctx, transport.UploadResponse{Success: false, Message: "unreadable upload"})
		return
	}
	defer file.Close()

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	att, err := h.store.Store(stdCtx, header.Filename, file)
	if err != nil {
		h.logger.Error("upload failed", zap.String("name", header.Filename), zap.Error(err))
		h.respondFlat(ctx, transport.UploadResponse{Success: false, Message: errorMessage(err)})
		return
	}

	h.respondFlat(ctx, transport.UploadResponse{
		Success: true,
		URL:     att.URL,
		Name:    att.Name,
	})
}

// Serve streams a stored attachment back to the client.
func (h *UploadHandler) Serve(ctx *fasthttp.RequestCtx) {
	name, _ := ctx.UserValue("name").(string)
	if name == "" {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	data, err := h.store.Resolve(stdCtx, content.URLPrefix+name)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.Response.Header.SetContentType(contentType)
	ctx.SetBody(data)
}
