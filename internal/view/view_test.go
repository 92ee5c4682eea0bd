package view

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahlandcase/gitweb/internal/github"
	"github.com/wahlandcase/gitweb/internal/models"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// fakeGitHub serves a tiny repository: a root with three files and one
// directory, and Z_dir holding inner.go. With notes set the root also holds
// "C# notes", whose name needs escaping in URL paths.
type fakeGitHub struct {
	srv *httptest.Server

	mu         sync.Mutex
	hits       map[string]int
	failCommit string
	notes      bool
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	gh := &fakeGitHub{hits: map[string]int{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		gh.hit("meta")
		writeJSON(w, models.Repo{
			Name:            "widgets",
			FullName:        "acme/widgets",
			Description:     "Widgets for everyone",
			HTMLURL:         "https://github.com/acme/widgets",
			DefaultBranch:   "main",
			StargazersCount: 42,
			ForksCount:      7,
			WatchersCount:   42,
			OpenIssuesCount: 3,
		})
	})
	mux.HandleFunc("/repos/acme/widgets/contents/", func(w http.ResponseWriter, r *http.Request) {
		dir := strings.TrimPrefix(r.URL.Path, "/repos/acme/widgets/contents/")
		gh.hit("contents:" + dir)
		base := "http://" + r.Host
		switch dir {
		case "":
			entries := []models.Entry{
				gh.entry(base, "", "b.txt", models.EntryFile, 2048),
				gh.entry(base, "", "Z_dir", models.EntryDir, 0),
				gh.entry(base, "", "a.txt", models.EntryFile, 12),
				gh.entry(base, "", "README.md", models.EntryFile, 100),
			}
			gh.mu.Lock()
			notes := gh.notes
			gh.mu.Unlock()
			if notes {
				entries = append(entries, gh.entry(base, "", "C# notes", models.EntryDir, 0))
			}
			writeJSON(w, entries)
		case "C# notes":
			writeJSON(w, []models.Entry{
				gh.entry(base, "C# notes", "todo?.md", models.EntryFile, 5),
			})
		case "Z_dir":
			writeJSON(w, []models.Entry{
				gh.entry(base, "Z_dir", "inner.go", models.EntryFile, 1),
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]string{"message": "Not Found"})
		}
	})
	mux.HandleFunc("/repos/acme/widgets/commits", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		gh.hit("commits:" + path + ":" + r.URL.Query().Get("per_page"))

		gh.mu.Lock()
		fail := gh.failCommit != "" && gh.failCommit == path
		gh.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("upstream exploded"))
			return
		}

		var c models.Commit
		c.SHA = "0123456789abcdef"
		c.HTMLURL = "https://github.com/acme/widgets/commit/0123456789abcdef"
		c.Commit.Message = "update " + path + "\n\nlonger body"
		c.Commit.Committer.Date = testNow.Add(-8 * 24 * time.Hour)
		writeJSON(w, []models.Commit{c})
	})

	gh.srv = httptest.NewServer(mux)
	t.Cleanup(gh.srv.Close)
	return gh
}

func (gh *fakeGitHub) entry(base, dir, name, typ string, size int64) models.Entry {
	path := entryPath(dir, name)
	e := models.Entry{
		Name: name,
		Path: path,
		Type: typ,
		Size: size,
		URL:  base + "/repos/acme/widgets/contents/" + escapePath(path) + "?ref=main",
	}
	if typ == models.EntryFile {
		e.DownloadURL = base + "/raw/main/" + path
	}
	return e
}

// escapePath escapes each segment the way GitHub does in API URLs
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func (gh *fakeGitHub) hit(key string) {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	gh.hits[key]++
}

func (gh *fakeGitHub) count(key string) int {
	gh.mu.Lock()
	defer gh.mu.Unlock()
	return gh.hits[key]
}

func (gh *fakeGitHub) repository() *github.Repository {
	api := github.NewFetcher(gh.srv.Client(), github.DefaultHeaders("t0ken", "gitweb-test"), gh.srv.URL)
	return github.NewRepository(api, github.Remote{Owner: "acme", Repo: "widgets"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type fakePanel struct {
	updates chan string
}

func newFakePanel() *fakePanel {
	return &fakePanel{updates: make(chan string, 32)}
}

func (p *fakePanel) SetHTML(html string)         { p.updates <- html }
func (p *fakePanel) AssetURI(name string) string { return "http://panel.test/assets/" + name }
func (p *fakePanel) CSPSource() string           { return "http://panel.test" }
func (p *fakePanel) SessionToken() string        { return "session-token" }

func (p *fakePanel) next(t *testing.T) string {
	t.Helper()
	select {
	case html := <-p.updates:
		return html
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for panel update")
		return ""
	}
}

func (p *fakePanel) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case html := <-p.updates:
		t.Fatalf("unexpected panel update: %.80s", html)
	case <-time.After(50 * time.Millisecond):
	}
}

type fakeHost struct {
	mu     sync.Mutex
	errors []string
	opened []string
}

func (h *fakeHost) ShowError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *fakeHost) OpenDocument(_ context.Context, uri string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opened = append(h.opened, uri)
	return nil
}

type fakeContent struct {
	text string
	ok   bool
	uris []string
}

func (c *fakeContent) Provide(_ context.Context, uri string) (string, bool, error) {
	c.uris = append(c.uris, uri)
	return c.text, c.ok, nil
}

type countingObserver struct {
	mu       sync.Mutex
	started  []string
	finished []error
}

func (o *countingObserver) RenderStarted(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, path)
}

func (o *countingObserver) RenderFinished(_ string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, err)
}

// startView creates a View and returns it with the HTML of its first render
func startView(t *testing.T, gh *fakeGitHub, tweak func(*Options)) (*View, *fakePanel, *fakeHost, string) {
	t.Helper()
	panel := newFakePanel()
	host := &fakeHost{}
	opts := Options{
		Repo:  gh.repository(),
		Panel: panel,
		Host:  host,
		Now:   func() time.Time { return testNow },
	}
	if tweak != nil {
		tweak(&opts)
	}

	v := New(context.Background(), opts)

	loading := panel.next(t)
	assert.Contains(t, loading, "Loading repository...")
	return v, panel, host, panel.next(t)
}

func TestRenderRootListing(t *testing.T) {
	gh := newFakeGitHub(t)
	_, _, _, html := startView(t, gh, nil)

	assert.Contains(t, html, "Widgets for everyone")
	assert.Contains(t, html, `href="https://github.com/acme/widgets"`)
	assert.Contains(t, html, `data-path="">acme/widgets</span>`)
	assert.Contains(t, html, `href="https://github.com/acme/widgets/commit/0123456789abcdef" target="_blank">0123456</a>`)
	assert.Contains(t, html, "update a.txt")
	assert.Contains(t, html, "1 week ago")
	assert.Contains(t, html, "12 B")
	assert.Contains(t, html, "2.0 kB")
	assert.Contains(t, html, `content="session-token"`)
	assert.Contains(t, html, "http://panel.test/assets/static/github.js")

	// Directories first, then files by name
	order := []string{">Z_dir<", ">a.txt<", ">b.txt<", ">README.md<"}
	last := -1
	for _, name := range order {
		idx := strings.Index(html, name)
		require.NotEqual(t, -1, idx, name)
		assert.Greater(t, idx, last, name)
		last = idx
	}

	// The commits panel shows whole messages
	assert.Contains(t, html, "update \n\nlonger body")
	// No content source: no README section
	assert.NotContains(t, html, `class="readme"`)
}

func TestRenderIssuesPerEntryCommitQueries(t *testing.T) {
	gh := newFakeGitHub(t)
	startView(t, gh, nil)

	assert.Equal(t, 1, gh.count("commits::"), "directory commits without per_page")
	for _, name := range []string{"a.txt", "b.txt", "Z_dir", "README.md"} {
		assert.Equal(t, 1, gh.count("commits:"+name+":1"), name)
	}
}

func TestCommitsPerPageIsSent(t *testing.T) {
	gh := newFakeGitHub(t)
	startView(t, gh, func(o *Options) { o.CommitsPerPage = 20 })

	assert.Equal(t, 1, gh.count("commits::20"))
}

func TestRenderTwiceRefetchesListingButNotMetadata(t *testing.T) {
	gh := newFakeGitHub(t)
	v, panel, _, _ := startView(t, gh, nil)

	v.Render(context.Background(), "")
	panel.next(t)

	assert.Equal(t, 1, gh.count("meta"))
	assert.Equal(t, 2, gh.count("contents:"))
	assert.Equal(t, 2, gh.count("commits::"))
	assert.Equal(t, 2, gh.count("commits:a.txt:1"))
}

func TestSelectMissingEntryShowsError(t *testing.T) {
	gh := newFakeGitHub(t)
	v, panel, host, _ := startView(t, gh, nil)

	v.HandleMessage(context.Background(), Message{Command: CommandSelect, Text: "nope"})

	assert.Equal(t, []string{"Entry nope not found"}, host.errors)
	assert.Empty(t, host.opened)
	panel.assertIdle(t)
}

func TestSelectFileOpensPreviewDocument(t *testing.T) {
	gh := newFakeGitHub(t)
	v, panel, host, _ := startView(t, gh, nil)

	v.HandleMessage(context.Background(), Message{Command: CommandSelect, Text: "a.txt"})

	host.mu.Lock()
	opened := host.opened
	host.mu.Unlock()
	require.Len(t, opened, 1)
	assert.Equal(t, "github-preview://"+strings.TrimPrefix(gh.srv.URL, "http://")+"/raw/main/a.txt", opened[0])
	assert.Empty(t, host.errors)
	panel.assertIdle(t)
}

func TestSelectDirectoryNavigates(t *testing.T) {
	gh := newFakeGitHub(t)
	v, panel, _, _ := startView(t, gh, nil)

	v.HandleMessage(context.Background(), Message{Command: CommandSelect, Text: "Z_dir"})
	html := panel.next(t)

	assert.Equal(t, 1, gh.count("contents:Z_dir"))
	assert.Equal(t, 1, gh.count("commits:Z_dir/inner.go:1"))
	assert.Contains(t, html, ">inner.go<")
	assert.Contains(t, html, `data-path="Z_dir"`)

	// The lookup table now holds the new directory only
	_, ok := v.Entry("a.txt")
	assert.False(t, ok)
	_, ok = v.Entry("inner.go")
	assert.True(t, ok)
}

func TestSelectDirectoryWithEscapedName(t *testing.T) {
	gh := newFakeGitHub(t)
	gh.notes = true
	v, panel, host, _ := startView(t, gh, nil)

	v.HandleMessage(context.Background(), Message{Command: CommandSelect, Text: "C# notes"})
	html := panel.next(t)

	assert.Equal(t, 1, gh.count("contents:C# notes"))
	assert.Equal(t, 0, gh.count("contents:C"))
	assert.Equal(t, 1, gh.count("commits:C# notes/todo?.md:1"))
	assert.Contains(t, html, ">todo?.md<")
	assert.Contains(t, html, `data-path="C# notes"`)
	assert.Empty(t, host.errors)

	// Breadcrumb navigation back into the same directory takes the unescaped path
	path := "C# notes"
	v.HandleMessage(context.Background(), Message{Command: CommandSelect, Path: &path})
	assert.Contains(t, panel.next(t), ">todo?.md<")
	assert.Equal(t, 2, gh.count("contents:C# notes"))
}

func TestSelectWithPathRendersPath(t *testing.T) {
	gh := newFakeGitHub(t)
	v, panel, _, _ := startView(t, gh, nil)

	path := "Z_dir"
	v.HandleMessage(context.Background(), Message{Command: CommandSelect, Path: &path, Text: "ignored"})

	assert.Contains(t, panel.next(t), ">inner.go<")

	root := ""
	v.HandleMessage(context.Background(), Message{Command: CommandSelect, Path: &root})
	assert.Contains(t, panel.next(t), ">a.txt<")
	assert.Equal(t, 2, gh.count("contents:"))
}

func TestPerEntryFailureRendersErrorPage(t *testing.T) {
	gh := newFakeGitHub(t)
	gh.failCommit = "b.txt"
	obs := &countingObserver{}
	_, _, _, html := startView(t, gh, func(o *Options) { o.Observer = obs })

	assert.Contains(t, html, "Error loading repository data")
	assert.Contains(t, html, "500")
	assert.NotContains(t, html, ">a.txt<")

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, []string{""}, obs.started)
	require.Len(t, obs.finished, 1)
	assert.Error(t, obs.finished[0])
}

func TestMissingDirectoryRendersErrorPage(t *testing.T) {
	gh := newFakeGitHub(t)
	v, panel, _, _ := startView(t, gh, nil)

	v.Render(context.Background(), "does/not/exist")
	assert.Contains(t, panel.next(t), "Error loading repository data")
}

func TestMetadataOverride(t *testing.T) {
	gh := newFakeGitHub(t)
	_, _, _, html := startView(t, gh, func(o *Options) {
		o.Metadata = func(context.Context) (models.Repo, error) {
			return models.Repo{Name: "widgets", FullName: "acme/widgets", Description: "via graphql"}, nil
		}
	})

	assert.Contains(t, html, "via graphql")
	assert.Equal(t, 0, gh.count("meta"))
}

func TestMetadataFailureIsRemembered(t *testing.T) {
	gh := newFakeGitHub(t)
	calls := 0
	v, panel, _, html := startView(t, gh, func(o *Options) {
		o.Metadata = func(context.Context) (models.Repo, error) {
			calls++
			return models.Repo{}, fmt.Errorf("bad credentials")
		}
	})
	assert.Contains(t, html, "bad credentials")

	v.Render(context.Background(), "")
	assert.Contains(t, panel.next(t), "bad credentials")
	assert.Equal(t, 1, calls)
}

func TestReadmeIsRenderedWithoutRawHTML(t *testing.T) {
	gh := newFakeGitHub(t)
	content := &fakeContent{text: "# Hello\n\n<script>alert(1)</script>\n\nSome *text*.", ok: true}
	_, _, _, html := startView(t, gh, func(o *Options) { o.Content = content })

	assert.Contains(t, html, `class="readme"`)
	assert.Contains(t, html, "<h1>Hello</h1>")
	assert.Contains(t, html, "<em>text</em>")
	assert.NotContains(t, html, "alert(1)")
	require.Len(t, content.uris, 1)
	assert.True(t, strings.HasPrefix(content.uris[0], "github-preview://"))
	assert.True(t, strings.HasSuffix(content.uris[0], "/raw/main/README.md"))
}

func TestReadmeOmittedWhenNotAvailable(t *testing.T) {
	gh := newFakeGitHub(t)
	content := &fakeContent{ok: false}
	_, _, _, html := startView(t, gh, func(o *Options) { o.Content = content })

	assert.NotContains(t, html, `class="readme"`)
	assert.Contains(t, html, ">a.txt<")
}

func TestIconsAreApplied(t *testing.T) {
	gh := newFakeGitHub(t)
	_, _, _, html := startView(t, gh, func(o *Options) { o.AssetDir = t.TempDir() })

	assert.Contains(t, html, "<style>")
	assert.Contains(t, html, "icon icon-")
}

func TestBadIconThemeStillRenders(t *testing.T) {
	gh := newFakeGitHub(t)
	_, _, _, html := startView(t, gh, func(o *Options) { o.IconTheme = "/nonexistent/theme.json" })

	assert.Contains(t, html, ">a.txt<")
	assert.NotContains(t, html, "icon icon-")
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	gh := newFakeGitHub(t)
	v, panel, host, _ := startView(t, gh, nil)

	v.HandleMessage(context.Background(), Message{Command: "refresh", Text: "a.txt"})

	assert.Empty(t, host.errors)
	assert.Empty(t, host.opened)
	panel.assertIdle(t)
}

func TestSubPath(t *testing.T) {
	v := &View{apiDepth: apiDepth("https://api.github.com/repos/octo/hello")}
	assert.Equal(t, 5, v.apiDepth)

	sub, err := v.subPath("https://api.github.com/repos/octo/hello/contents/src/lib?ref=main")
	require.NoError(t, err)
	assert.Equal(t, "src/lib", sub)

	sub, err = v.subPath("https://api.github.com/repos/octo/hello/contents")
	require.NoError(t, err)
	assert.Equal(t, "", sub)
}

func TestSubPathEnterprisePrefix(t *testing.T) {
	v := &View{apiDepth: apiDepth("https://ghe.example.com/api/v3/repos/octo/hello")}

	sub, err := v.subPath("https://ghe.example.com/api/v3/repos/octo/hello/contents/docs?ref=main")
	require.NoError(t, err)
	assert.Equal(t, "docs", sub)
}
