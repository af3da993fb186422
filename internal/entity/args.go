package entity

const (
	CmdEpub   = "epub"
	CmdTrack  = "track"
	CmdUpdate = "update"

	SubCmdList = "list"
	SubCmdSync = "sync"

	FlagEmail    = "--email"
	FlagPassword = "--password"
	FlagOutput   = "--output"
	FlagByVolume = "--byvolume"
	FlagParts    = "--parts"
)

// Credentials are passed to the external tool on every epub invocation.
type Credentials struct {
	Email    string
	Password string
}

// EpubArgs builds: epub --email E --password P --output O <url> [--byvolume] [--parts P]
func EpubArgs(creds Credentials, outputDir string, req *DownloadRequest) []string {
	args := []string{
		CmdEpub,
		FlagEmail, creds.Email,
		FlagPassword, creds.Password,
		FlagOutput, outputDir,
		req.URL,
	}

	if req.SplitByVolume() {
		args = append(args, FlagByVolume)
	}

	if req.Parts != nil {
		args = append(args, FlagParts, *req.Parts)
	}

	return args
}

func TrackListArgs() []string {
	return []string{CmdTrack, SubCmdList}
}

func TrackSyncArgs() []string {
	return []string{CmdTrack, SubCmdSync}
}

func UpdateArgs() []string {
	return []string{CmdUpdate, FlagByVolume}
}
