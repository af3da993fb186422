package entity

// Description is the optional markdown header shown above the file list.
type Description struct {
	Title       string `yaml:"title"`
	ContentHTML string `yaml:"-"`
}

// FileList is everything the file browser page shows.
type FileList struct {
	Query       string
	Description *Description
	Files       []*FileEntry
}
