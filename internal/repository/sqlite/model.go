package sqlite

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// DatabaseName is the fixed logical name of the local store.
const DatabaseName = "github_pr_finder.db"

type Config struct {
	Dir         string        `env:"SQLITE_DIR" env-default:"."`
	Timeout     time.Duration `env:"SQLITE_TIMEOUT" env-default:"5s"`
	BusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" env-default:"5s"`
}

type Client struct {
	db      *sql.DB
	path    string
	logger  *zap.Logger
	timeout time.Duration
}
