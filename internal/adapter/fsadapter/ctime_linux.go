//go:build linux

package fsadapter

import (
	"os"
	"syscall"
	"time"
)

// createdAt uses the inode change time, the closest thing to a creation time Linux exposes.
func createdAt(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}

	return info.ModTime()
}
