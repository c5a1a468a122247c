package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/okian/scoreboard/pkg/logger"
)

// ImageHandler serves the most recently published frame.
type ImageHandler struct {
	path   string
	logger logger.Logger
}

// NewImageHandler creates a handler for the frame at path.
func NewImageHandler(path string, l logger.Logger) *ImageHandler {
	return &ImageHandler{path: path, logger: l}
}

// HandleImage handles GET /scoreboard.png. The file is replaced by rename,
// so a single read always sees one complete frame. Anything but a readable
// frame is a 404 with an empty body.
func (h *ImageHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.logger.Warn(r.Context(), "reading published frame failed",
				logger.String("path", h.path),
				logger.Error(err),
			)
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}
