//go:build darwin

package query

import (
	"os"
	"syscall"
	"time"
)

func statTimes(info os.FileInfo) (created, accessed time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	created = time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	accessed = time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
	return created, accessed
}
