//go:build !linux && !darwin

package query

import (
	"os"
	"time"
)

// statTimes falls back to the modification time on platforms where
// creation and access times are not read portably.
func statTimes(info os.FileInfo) (created, accessed time.Time) {
	return info.ModTime(), info.ModTime()
}
