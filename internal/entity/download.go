package entity

import "time"

// DownloadRequest is the body of an EPUB generation request.
type DownloadRequest struct {
	URL      string  `json:"jnovel_club_url"`
	ByVolume *bool   `json:"byvolume,omitempty"`
	Parts    *string `json:"parts,omitempty"`
}

// SplitByVolume reports whether --byvolume should be passed. Defaults to true.
func (r *DownloadRequest) SplitByVolume() bool {
	if r.ByVolume == nil {
		return true
	}

	return *r.ByVolume
}

// CommandResult is the captured outcome of one external tool invocation.
type CommandResult struct {
	RunID    string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

func (r *CommandResult) OK() bool {
	return r.ExitCode == 0
}
