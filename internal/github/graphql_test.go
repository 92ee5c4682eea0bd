package github

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryOverview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"repository":{
			"name":"widgets","nameWithOwner":"acme/widgets","description":"Widgets!",
			"url":"https://github.com/acme/widgets","stargazerCount":12,"forkCount":3,
			"watchers":{"totalCount":4},"issues":{"totalCount":1},
			"defaultBranchRef":{"name":"trunk"},"primaryLanguage":null,
			"owner":{"login":"acme","url":"https://github.com/acme","avatarUrl":""}}}}`)
	}))
	defer srv.Close()

	repo, err := RepositoryOverview(context.Background(), NewFetcher(srv.Client(), nil, srv.URL), "acme", "widgets")
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", repo.FullName)
	assert.Equal(t, 12, repo.StargazersCount)
	assert.Equal(t, 4, repo.WatchersCount)
	assert.Equal(t, 3, repo.ForksCount)
	assert.Equal(t, "trunk", repo.DefaultBranch)
	assert.Empty(t, repo.Language)
}

func TestRepositoryOverviewErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"repository":null},"errors":[{"message":"Could not resolve to a Repository"}]}`)
	}))
	defer srv.Close()

	_, err := RepositoryOverview(context.Background(), NewFetcher(srv.Client(), nil, srv.URL), "acme", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not resolve")
}

func TestRepositoryOverviewMissingRepository(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"repository":null}}`)
	}))
	defer srv.Close()

	_, err := RepositoryOverview(context.Background(), NewFetcher(srv.Client(), nil, srv.URL), "acme", "nope")
	assert.ErrorIs(t, err, ErrRepositoryNotFound)
}
