package update

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahlandcase/gitweb/internal/github"
)

type staticReleases struct {
	release Release
	err     error
}

func (s staticReleases) Latest(context.Context) (Release, error) {
	return s.release, s.err
}

func TestCheckForUpdate(t *testing.T) {
	tests := []struct {
		current string
		latest  string
		newer   bool
	}{
		{"v1.2.0", "v1.3.0", true},
		{"v0.9.3", "v0.10.0", true},
		{"v1.3.0", "v1.3.0", false},
		{"v1.4.0", "v1.3.9", false},
		{"dev", "v0.1.0", true},
		{"1.3.0", "gitweb/v1.3.1", true},
		{"v1.3.0-rc.1", "v1.3.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.latest, func(t *testing.T) {
			got, err := CheckForUpdate(context.Background(), staticReleases{release: Release{TagName: tt.latest}}, tt.current)
			require.NoError(t, err)
			if tt.newer {
				require.NotNil(t, got)
				assert.Equal(t, tt.latest, got.TagName)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestCheckForUpdateNoReleases(t *testing.T) {
	got, err := CheckForUpdate(context.Background(), staticReleases{}, "v1.0.0")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckForUpdateError(t *testing.T) {
	_, err := CheckForUpdate(context.Background(), staticReleases{err: errors.New("offline")}, "v1.0.0")
	assert.EqualError(t, err, "offline")
}

func TestAPIReleases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/wahlandcase/gitweb/releases/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name":"v2.0.0","name":"Two","html_url":"https://github.com/wahlandcase/gitweb/releases/v2.0.0"}`))
	}))
	defer srv.Close()

	api := github.NewFetcher(srv.Client(), github.DefaultHeaders("", "test"), srv.URL)
	repo := github.NewRepository(api, github.Remote{Owner: "wahlandcase", Repo: "gitweb"})

	rel, err := APIReleases{Repo: repo}.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", rel.TagName)
	assert.Equal(t, "2.0.0", VersionDisplay(rel.TagName))
}
