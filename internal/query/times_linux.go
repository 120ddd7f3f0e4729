//go:build linux

package query

import (
	"os"
	"syscall"
	"time"
)

// statTimes extracts access time and the closest thing linux offers to a
// creation time (inode change time) from stat metadata.
func statTimes(info os.FileInfo) (created, accessed time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	created = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	accessed = time.Unix(st.Atim.Sec, st.Atim.Nsec)
	return created, accessed
}
