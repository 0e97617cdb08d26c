// Package utils provides small helpers shared across packages.
package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// SlowQueryThreshold is the duration above which a query is logged as slow
const SlowQueryThreshold = 500 * time.Millisecond

// MeasureDBQuery measures database query performance
//
// Usage:
//
//	done := utils.MeasureDBQuery("list_sales", log)
//	defer func() { done(int64(len(entries))) }()
func MeasureDBQuery(queryName string, log zerolog.Logger) func(rowsAffected int64) {
	start := time.Now()

	return func(rowsAffected int64) {
		duration := time.Since(start)

		log.Debug().
			Str("query", queryName).
			Dur("duration_ms", duration).
			Int64("rows_affected", rowsAffected).
			Msg("Database query completed")

		if duration > SlowQueryThreshold {
			log.Warn().
				Str("query", queryName).
				Dur("duration", duration).
				Int64("rows_affected", rowsAffected).
				Msg("Slow database query detected")
		}
	}
}
