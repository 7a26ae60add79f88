package controllers

import (
	"net/http"

	"ripweb/internal/app"
	"ripweb/internal/domain"
	"ripweb/internal/metadata"

	"github.com/labstack/echo/v5"
)

type DownloadsController struct {
	App *app.Context
}

type submitRequest struct {
	URL     string `json:"url"`
	Quality *int   `json:"quality"`

	// Only honored by the download-from-url variant
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	AlbumArt string `json:"album_art"`
	Service  string `json:"service"`
}

// HandleSubmit accepts a bare catalog URL, derives what metadata it can from
// the URL itself and enqueues the task.
func (ctrl *DownloadsController) HandleSubmit(c *echo.Context) error {
	req, reject := ctrl.parseSubmission(c)
	if reject != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: reject})
	}

	task := ctrl.enqueue(req, metadata.FromURL(req.URL))

	return c.JSON(http.StatusOK, QueuedResponse{TaskID: task.ID, Status: "queued"})
}

// HandleSubmitWithMetadata is the same enqueue contract, but the caller
// supplies title/artist/artwork directly (e.g. from a prior catalog search)
// instead of having them derived.
func (ctrl *DownloadsController) HandleSubmitWithMetadata(c *echo.Context) error {
	req, reject := ctrl.parseSubmission(c)
	if reject != "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: reject})
	}

	meta := metadata.FromURL(req.URL)
	if req.Title != "" && req.Artist != "" && req.Service != "" {
		meta = domain.Metadata{
			Title:    req.Title,
			Artist:   req.Artist,
			AlbumArt: req.AlbumArt,
			Service:  req.Service,
		}
	}

	task := ctrl.enqueue(req, meta)

	return c.JSON(http.StatusOK, QueuedResponse{
		TaskID:   task.ID,
		Status:   "queued",
		Metadata: &task.Metadata,
	})
}

// HandleStatus reports the active registry snapshot, the recent terminal
// history and the pending queue depth.
func (ctrl *DownloadsController) HandleStatus(c *echo.Context) error {
	history, err := ctrl.App.History.Recent(ctrl.App.Config.History.Limit)
	if err != nil {
		ctrl.App.Logger.Error("Failed to load history: %v", err)
		history = []*domain.HistoryEntry{}
	}

	return c.JSON(http.StatusOK, StatusResponse{
		Active:    ctrl.App.Registry.Snapshot(),
		History:   history,
		QueueSize: ctrl.App.Queue.Size(),
	})
}

// parseSubmission binds and validates the request body. A non-empty second
// return value is the rejection message for a 400 response.
func (ctrl *DownloadsController) parseSubmission(c *echo.Context) (*submitRequest, string) {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return nil, "Invalid request body"
	}

	if req.URL == "" {
		return nil, "URL is required"
	}

	if !metadata.Supported(req.URL) {
		return nil, "Unsupported service URL"
	}

	return &req, ""
}

func (ctrl *DownloadsController) enqueue(req *submitRequest, meta domain.Metadata) *domain.DownloadTask {
	quality := ctrl.App.Config.Rip.DefaultQuality
	if req.Quality != nil {
		quality = *req.Quality
	}

	task := &domain.DownloadTask{
		ID:       domain.NewTaskID(),
		URL:      req.URL,
		Quality:  quality,
		Metadata: meta,
	}

	ctrl.App.Queue.Enqueue(task)
	ctrl.App.Logger.Info("Queued task %s for %s", task.ID, task.URL)

	return task
}
