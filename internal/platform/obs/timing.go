package obs

import (
	"time"

	"github.com/rs/zerolog"
)

// Time logs the duration and outcome of an operation. Use as:
//
//	defer obs.Time(log, "ors.optimize")(&err)
func Time(log zerolog.Logger, op string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		ev := log.Debug()
		if errp != nil && *errp != nil {
			ev = log.Warn().Err(*errp)
		}
		ev.Str("op", op).Dur("dur", time.Since(start)).Msg("operation finished")
	}
}
