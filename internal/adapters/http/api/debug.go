package api

import (
	"net/http"
	"os"
)

// folderNotFound replaces the logo listing when the directory is unreadable.
const folderNotFound = "FOLDER NOT FOUND"

// debugReport is the /debug payload. Field order is the wire order.
type debugReport struct {
	BaseDir        string   `json:"base_dir"`
	AllFiles       []string `json:"all_files"`
	TemplateExists bool     `json:"template_exists"`
	TemplatePath   string   `json:"template_path"`
	OutputExists   bool     `json:"output_exists"`
	OutputPath     string   `json:"output_path"`
	FontExists     bool     `json:"font_exists"`
	FontBoldExists bool     `json:"font_bold_exists"`
	LogosFolder    []string `json:"logos_folder"`
	LastError      *string  `json:"last_error"`
}

// DebugHandler reports filesystem state and the last refresh error.
type DebugHandler struct {
	deps  Dependencies
	paths Paths
}

// NewDebugHandler creates a new debug handler.
func NewDebugHandler(deps Dependencies, paths Paths) *DebugHandler {
	return &DebugHandler{deps: deps, paths: paths}
}

// HandleDebug handles GET /debug requests.
func (h *DebugHandler) HandleDebug(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.report())
}

func (h *DebugHandler) report() debugReport {
	files, err := listDir(h.paths.BaseDir)
	if err != nil {
		files = []string{}
	}
	logos, err := listDir(h.paths.LogoDir)
	if err != nil {
		logos = []string{folderNotFound}
	}
	return debugReport{
		BaseDir:        h.paths.BaseDir,
		AllFiles:       files,
		TemplateExists: exists(h.paths.TemplatePath),
		TemplatePath:   h.paths.TemplatePath,
		OutputExists:   exists(h.paths.OutputPath),
		OutputPath:     h.paths.OutputPath,
		FontExists:     exists(h.paths.FontPath),
		FontBoldExists: exists(h.paths.FontBoldPath),
		LogosFolder:    logos,
		LastError:      h.deps.LastError(),
	}
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
