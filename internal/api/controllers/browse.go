package controllers

import (
	"io/fs"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"ripweb/internal/app"

	"github.com/labstack/echo/v5"
)

// browseLimit caps how many files a single browse call returns.
const browseLimit = 100

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".opus": true,
}

// BrowseController lists finished audio files under the download directory.
type BrowseController struct {
	App *app.Context
}

func (ctrl *BrowseController) Handle(c *echo.Context) error {
	root := ctrl.App.Config.Download.Dir

	files := make([]FileEntry, 0, browseLimit)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !audioExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil // file vanished mid-walk
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		files = append(files, FileEntry{
			Name:     rel,
			Size:     info.Size(),
			Modified: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	// Newest first
	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified > files[j].Modified
	})

	if len(files) > browseLimit {
		files = files[:browseLimit]
	}

	return c.JSON(http.StatusOK, files)
}
