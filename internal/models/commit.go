package models

import (
	"strings"
	"time"
)

// Signature is the git-level author or committer of a commit
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// ParentRef points at a parent commit
type ParentRef struct {
	SHA     string `json:"sha"`
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
}

// CommitDetail is the git object part of a commit record
type CommitDetail struct {
	Author       Signature `json:"author"`
	Committer    Signature `json:"committer"`
	Message      string    `json:"message"`
	CommentCount int       `json:"comment_count"`
	Tree         ParentRef `json:"tree"`
}

// Commit is one entry of GET /repos/{owner}/{repo}/commits
type Commit struct {
	SHA     string       `json:"sha"`
	NodeID  string       `json:"node_id"`
	URL     string       `json:"url"`
	HTMLURL string       `json:"html_url"`
	Commit  CommitDetail `json:"commit"`
	// Author and Committer are nil when the email is not linked to an account
	Author    *Account    `json:"author"`
	Committer *Account    `json:"committer"`
	Parents   []ParentRef `json:"parents"`
}

// Summary returns the first line of the commit message
func (c Commit) Summary() string {
	return strings.Split(c.Commit.Message, "\n")[0]
}

// CommittedAt returns the committer date
func (c Commit) CommittedAt() time.Time {
	return c.Commit.Committer.Date
}

// ShortSHA returns the 7 character abbreviated hash
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}
