package models

// Account is the public profile of a GitHub user or organization
type Account struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
	Type      string `json:"type"`
}

// Repo is a snapshot of repository metadata from GET /repos/{owner}/{repo}
type Repo struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	FullName        string  `json:"full_name"`
	Description     string  `json:"description"`
	Private         bool    `json:"private"`
	Fork            bool    `json:"fork"`
	Archived        bool    `json:"archived"`
	HTMLURL         string  `json:"html_url"`
	URL             string  `json:"url"`
	DefaultBranch   string  `json:"default_branch"`
	Language        string  `json:"language"`
	StargazersCount int     `json:"stargazers_count"`
	WatchersCount   int     `json:"watchers_count"`
	ForksCount      int     `json:"forks_count"`
	OpenIssuesCount int     `json:"open_issues_count"`
	Owner           Account `json:"owner"`
}

// DisplayDescription returns the description or a placeholder when empty
func (r Repo) DisplayDescription() string {
	if r.Description == "" {
		return "No description available"
	}
	return r.Description
}
