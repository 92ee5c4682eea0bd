package github

import "regexp"

var remotePattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/.]+)`)

// Remote identifies a GitHub repository
type Remote struct {
	Owner string
	Repo  string
}

// ParseRemote extracts owner and repo from a GitHub remote URL
// (e.g., git@github.com:acme/widgets.git or https://github.com/acme/widgets).
// Returns false for any other host.
func ParseRemote(remoteURL string) (Remote, bool) {
	m := remotePattern.FindStringSubmatch(remoteURL)
	if m == nil {
		return Remote{}, false
	}
	return Remote{Owner: m[1], Repo: m[2]}, true
}

// FullName returns "owner/repo"
func (r Remote) FullName() string {
	return r.Owner + "/" + r.Repo
}

func (r Remote) String() string {
	return r.FullName()
}
