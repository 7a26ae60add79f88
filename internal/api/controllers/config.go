package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"ripweb/internal/app"

	"github.com/labstack/echo/v5"
)

// ConfigController exposes the streamrip config file for editing from the UI.
type ConfigController struct {
	App *app.Context
}

type saveConfigRequest struct {
	Config string `json:"config"`
}

func (ctrl *ConfigController) HandleGet(c *echo.Context) error {
	path := ctrl.App.Config.Rip.ConfigPath

	data, err := os.ReadFile(path)
	if err != nil {
		// Missing config is not an error; the editor starts empty.
		return c.JSON(http.StatusOK, ConfigResponse{Config: ""})
	}

	return c.JSON(http.StatusOK, ConfigResponse{Config: string(data)})
}

// HandleSave replaces the streamrip config, keeping the previous version as
// <path>.bak so a broken edit can be rolled back by hand.
func (ctrl *ConfigController) HandleSave(c *echo.Context) error {
	var req saveConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	}

	path := ctrl.App.Config.Rip.ConfigPath

	if err := ctrl.backup(path); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	if err := os.WriteFile(path, []byte(req.Config), 0644); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	ctrl.App.Logger.Info("Streamrip config updated (%d bytes)", len(req.Config))

	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (ctrl *ConfigController) backup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // nothing to back up
		}
		return fmt.Errorf("failed to read existing config: %w", err)
	}

	if err := os.WriteFile(path+".bak", data, 0644); err != nil {
		return fmt.Errorf("failed to back up config: %w", err)
	}
	return nil
}
