package models

// Entry types reported by the contents API
const (
	EntryFile = "file"
	EntryDir  = "dir"
)

// EntryLinks holds the hypermedia links of a contents entry
type EntryLinks struct {
	Self string `json:"self"`
	Git  string `json:"git"`
	HTML string `json:"html"`
}

// Entry is one file or directory in a contents listing
type Entry struct {
	Name string `json:"name"`
	// Path is relative to the repository root (e.g., "cmd/gitweb/main.go")
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
	// Type is "file", "dir" or "symlink"
	Type string `json:"type"`
	// URL is the API URL of this entry; directories are navigated through it
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
	GitURL  string `json:"git_url"`
	// DownloadURL is the raw content URL (empty for directories)
	DownloadURL string     `json:"download_url"`
	Links       EntryLinks `json:"_links"`
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Type == EntryDir
}

// IsFile reports whether the entry is a regular file
func (e Entry) IsFile() bool {
	return e.Type == EntryFile
}

// Listing pairs an entry with the most recent commit that touched it.
// LastCommit is nil when the commits query returned nothing.
type Listing struct {
	Entry      Entry
	LastCommit *Commit
}

// NewListing creates a Listing from the first commit of a per-entry history (if any)
func NewListing(entry Entry, history []Commit) Listing {
	l := Listing{Entry: entry}
	if len(history) > 0 {
		c := history[0]
		l.LastCommit = &c
	}
	return l
}
