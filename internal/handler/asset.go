package handler

import (
	"log/slog"
	"net/http"

	"github.com/NIKHILENIGMA/pikzee-sub000/internal/httputil"

	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
	assetsSvc "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/services/assets"
)

// AssetHandler handles asset tree HTTP requests
type AssetHandler struct {
	assetService assetsSvc.AssetService
	logger       *slog.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetService assetsSvc.AssetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
		logger:       logger,
	}
}

// HealthCheck responds with a simple liveness payload
// GET /health
func (h *AssetHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateAsset creates a new file or folder
// POST /api/projects/{projectID}/assets
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetsSvc.CreateAssetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)
	req.ProjectID = r.PathValue("projectID")

	asset, err := h.assetService.Create(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, asset)
}

// GetAsset returns a single asset
// GET /api/projects/{projectID}/assets/{assetID}
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assetService.GetByID(r.Context(),
		httputil.GetUserID(r), r.PathValue("assetID"), r.PathValue("projectID"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, asset)
}

// ListAssets lists direct children of a folder (?parent_id=, absent = root)
// GET /api/projects/{projectID}/assets
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	var parentID *string
	if v := r.URL.Query().Get("parent_id"); v != "" {
		parentID = &v
	}

	assets, err := h.assetService.ListByParent(r.Context(),
		httputil.GetUserID(r), r.PathValue("projectID"), parentID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	if assets == nil {
		assets = []models.Asset{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"assets": assets})
}

// renameRequest is the PATCH body for a rename
type renameRequest struct {
	Name string `json:"name"`
}

// RenameAsset renames an asset and ripples the path change to descendants
// PATCH /api/projects/{projectID}/assets/{assetID}
func (h *AssetHandler) RenameAsset(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, err := h.assetService.Rename(r.Context(),
		httputil.GetUserID(r), r.PathValue("assetID"), r.PathValue("projectID"), req.Name)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, asset)
}

// MoveAssets moves a batch of assets under a target folder
// POST /api/projects/{projectID}/assets/move
func (h *AssetHandler) MoveAssets(w http.ResponseWriter, r *http.Request) {
	var req assetsSvc.BatchTargetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)
	req.ProjectID = r.PathValue("projectID")

	moved, err := h.assetService.Move(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"assets": moved})
}

// CopyAssets deep-copies a batch of assets under a target folder
// POST /api/projects/{projectID}/assets/copy
func (h *AssetHandler) CopyAssets(w http.ResponseWriter, r *http.Request) {
	var req assetsSvc.BatchTargetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)
	req.ProjectID = r.PathValue("projectID")

	copied, err := h.assetService.Copy(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{"assets": copied})
}

// DeleteAsset deletes an asset and its subtree
// DELETE /api/projects/{projectID}/assets/{assetID}
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	err := h.assetService.Delete(r.Context(),
		httputil.GetUserID(r), r.PathValue("assetID"), r.PathValue("projectID"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkUploaded finalizes a file asset's upload lifecycle
// POST /api/projects/{projectID}/assets/{assetID}/uploaded
func (h *AssetHandler) MarkUploaded(w http.ResponseWriter, r *http.Request) {
	var req assetsSvc.MarkUploadedRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)
	req.ProjectID = r.PathValue("projectID")
	req.AssetID = r.PathValue("assetID")

	asset, err := h.assetService.MarkUploaded(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, asset)
}
