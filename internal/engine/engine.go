package engine

import (
	"github.com/HackerOS-Linux-System/hpm-backend/internal/hpmlog"
	"github.com/HackerOS-Linux-System/hpm-backend/internal/store"
)

// DefaultStorePath is where installed packages live when no override is given.
const DefaultStorePath = "/usr/lib/HackerOS/hpm/store/"

// Engine orchestrates one transaction against the store and state registry.
// Every exported method performs exactly one subcommand's worth of work and
// returns an *Error carrying the ErrorCode that command dispatch should
// exit with on failure.
type Engine struct {
	StorePath string
	Store     *store.Store
	Log       *hpmlog.Logger
	Sandbox   SandboxBuilder
}

// New returns an Engine. An empty storePath uses DefaultStorePath. log may
// be nil (equivalent to hpmlog.New(nil)): all diagnostics become no-ops.
func New(storePath string, st *store.Store, log *hpmlog.Logger) *Engine {
	if storePath == "" {
		storePath = DefaultStorePath
	}

	if log == nil {
		log = hpmlog.New(nil)
	}

	return &Engine{StorePath: storePath, Store: st, Log: log, Sandbox: realSandboxBuilder{}}
}
