package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"go.uber.org/automaxprocs/maxprocs"
)

// Runtime profiles keyed by CPU count.
const (
	SmallServerGOGC     = 200
	SmallServerMemLimit = 1 << 30 // 1GB

	LargeServerGOGC     = 400
	LargeServerMemLimit = 4 << 30 // 4GB
)

func detectServerProfile() (gogc int, memLimit int64) {
	if runtime.NumCPU() <= 2 {
		return SmallServerGOGC, SmallServerMemLimit
	}
	return LargeServerGOGC, LargeServerMemLimit
}

// TuneRuntime matches GOMAXPROCS to the container CPU quota, raises GOGC for
// the long-running server and caps memory with GOMEMLIMIT. Explicit GOGC or
// GOMEMLIMIT environment variables win.
func TuneRuntime() {
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug().Msgf("[runtime] "+format, args...)
	})); err != nil {
		log.Warn().Err(err).Msg("[runtime] failed to set GOMAXPROCS")
	}

	gogc, memLimit := detectServerProfile()

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(gogc)
	}
	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(memLimit)
	}

	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Int("gogc", gogc).
		Int64("mem_limit_bytes", memLimit).
		Str("go_version", runtime.Version()).
		Msg("[runtime] tuned for server mode")
}
