package common

import "fmt"

var (
	ErrConfigurationMissing = fmt.Errorf("configuration missing")
	ErrExternalTool         = fmt.Errorf("external tool failure")
	ErrFilesystem           = fmt.Errorf("filesystem error")
	ErrFileNotFoundError    = fmt.Errorf("file not found")
	ErrInvalidFileName      = fmt.Errorf("invalid file name")
	ErrInvalidRequest       = fmt.Errorf("invalid request")
)
