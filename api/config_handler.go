package api

import (
	"net/http"

	"github.com/seenimoa/pronviz/internal/config"
)

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config       *config.Config       `json:"config"`
	ConfigFile   string               `json:"config_file"` // path to the active config file
	Fingerprint  string               `json:"fingerprint"`
	EnvOverrides []config.EnvOverride `json:"env_overrides"`
}

// handleGetConfig returns the running configuration. It is read-only:
// changes go through the config file, which the server watches.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, _ := s.state()
	overrides := config.EnvOverrides()
	if overrides == nil {
		overrides = []config.EnvOverride{}
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:       cfg,
			ConfigFile:   s.configFile,
			Fingerprint:  cfg.Fingerprint(),
			EnvOverrides: overrides,
		},
	})
}
