package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wahlandcase/gitweb/internal/models"
)

const overviewQuery = `query($owner: String!, $repo: String!) {
	repository(owner: $owner, name: $repo) {
		name
		nameWithOwner
		description
		url
		isPrivate
		isFork
		isArchived
		stargazerCount
		forkCount
		watchers { totalCount }
		issues(states: OPEN) { totalCount }
		defaultBranchRef { name }
		primaryLanguage { name }
		owner { login url avatarUrl }
	}
}`

type graphQLError struct {
	Message string `json:"message"`
}

type overviewResponse struct {
	Data struct {
		Repository *struct {
			Name           string `json:"name"`
			NameWithOwner  string `json:"nameWithOwner"`
			Description    string `json:"description"`
			URL            string `json:"url"`
			IsPrivate      bool   `json:"isPrivate"`
			IsFork         bool   `json:"isFork"`
			IsArchived     bool   `json:"isArchived"`
			StargazerCount int    `json:"stargazerCount"`
			ForkCount      int    `json:"forkCount"`
			Watchers       struct {
				TotalCount int `json:"totalCount"`
			} `json:"watchers"`
			Issues struct {
				TotalCount int `json:"totalCount"`
			} `json:"issues"`
			DefaultBranchRef *struct {
				Name string `json:"name"`
			} `json:"defaultBranchRef"`
			PrimaryLanguage *struct {
				Name string `json:"name"`
			} `json:"primaryLanguage"`
			Owner struct {
				Login     string `json:"login"`
				URL       string `json:"url"`
				AvatarURL string `json:"avatarUrl"`
			} `json:"owner"`
		} `json:"repository"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// ErrRepositoryNotFound is returned when GraphQL resolves no repository
var ErrRepositoryNotFound = errors.New("repository not found")

// RepositoryOverview fetches the header metadata of a repository in one GraphQL request
func RepositoryOverview(ctx context.Context, gql *Fetcher, owner, repo string) (models.Repo, error) {
	var resp overviewResponse
	err := gql.FetchGraphQL(ctx, &resp, overviewQuery, map[string]any{
		"owner": owner,
		"repo":  repo,
	})
	if err != nil {
		return models.Repo{}, err
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return models.Repo{}, fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}

	r := resp.Data.Repository
	if r == nil {
		return models.Repo{}, fmt.Errorf("%s/%s: %w", owner, repo, ErrRepositoryNotFound)
	}

	out := models.Repo{
		Name:            r.Name,
		FullName:        r.NameWithOwner,
		Description:     r.Description,
		Private:         r.IsPrivate,
		Fork:            r.IsFork,
		Archived:        r.IsArchived,
		HTMLURL:         r.URL,
		StargazersCount: r.StargazerCount,
		WatchersCount:   r.Watchers.TotalCount,
		ForksCount:      r.ForkCount,
		OpenIssuesCount: r.Issues.TotalCount,
		Owner: models.Account{
			Login:     r.Owner.Login,
			HTMLURL:   r.Owner.URL,
			AvatarURL: r.Owner.AvatarURL,
		},
	}
	if r.DefaultBranchRef != nil {
		out.DefaultBranch = r.DefaultBranchRef.Name
	}
	if r.PrimaryLanguage != nil {
		out.Language = r.PrimaryLanguage.Name
	}
	return out, nil
}
