package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"slot-picker-service/internal/config"
)

// App wires the HTTP handlers to storage, configuration, logging and the
// in-memory picker sessions.
type App struct {
	DB       *pgxpool.Pool
	Cfg      *config.Config
	Log      zerolog.Logger
	Sessions *SessionStore
}
