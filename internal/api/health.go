package api

import (
	"net/http"
	"os"
)

type HealthHandler struct {
	dataDir string
	env     string
	version string
}

func NewHealthHandler(dataDir, env, version string) *HealthHandler {
	return &HealthHandler{
		dataDir: dataDir,
		env:     env,
		version: version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	}
	writeJSON(w, http.StatusOK, resp)
}

// Readiness checks that the data directory backing the text store is
// reachable.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)
	status := "ok"

	info, err := os.Stat(h.dataDir)
	if err != nil || !info.IsDir() {
		deps["datadir"] = "down"
		status = "error"
	} else {
		deps["datadir"] = "ok"
	}

	resp := ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, resp)
}
