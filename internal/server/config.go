package server

import (
	"github.com/seolens/seolens/internal/app"
	"github.com/seolens/seolens/internal/interfaces"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

type Config struct {
	// ListenAddr is the HTTP listen address for the API server (the CLI
	// uses the orchestrator in-process and does not require the network).
	ListenAddr string

	// AppConfig configures the orchestrator the server constructs.
	AppConfig *app.Config

	// Logger is optional; a stdout logger is created when nil.
	Logger interfaces.Logger
}

func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
	}
}
