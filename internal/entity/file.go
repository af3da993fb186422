package entity

import "time"

// FileEntry represents a single downloadable file in the output directory.
type FileEntry struct {
	ID          string    // sha1 of FullName, used as the counter key
	FullName    string    // The name of the file on disk, also the download name
	DisplayName string    // Truncated, human-readable name derived from FullName
	Size        int64     // The size of the file in bytes
	CreatedAt   time.Time // Creation (inode change) time, ModTime when unavailable
	Downloads   int64
}
