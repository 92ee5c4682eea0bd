// Package view renders one GitHub repository into a panel and reacts to
// clicks coming back from it.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/wahlandcase/gitweb/internal/document"
	"github.com/wahlandcase/gitweb/internal/github"
	"github.com/wahlandcase/gitweb/internal/icons"
	"github.com/wahlandcase/gitweb/internal/logging"
	"github.com/wahlandcase/gitweb/internal/models"
)

// CommandSelect is sent when an entry or breadcrumb is clicked
const CommandSelect = "select"

// Panel displays the HTML produced by a View
type Panel interface {
	SetHTML(html string)
	// AssetURI resolves a static asset name to a URL the page can load
	AssetURI(name string) string
	// CSPSource is the origin allowed by the page's content security policy
	CSPSource() string
	// SessionToken must accompany every message posted back from the page
	SessionToken() string
}

// Host shows notifications and opens documents outside the panel
type Host interface {
	ShowError(msg string)
	OpenDocument(ctx context.Context, uri string) error
}

// ContentSource returns the text behind a preview URI; ok is false when
// the remote has nothing to show.
type ContentSource interface {
	Provide(ctx context.Context, uri string) (text string, ok bool, err error)
}

// Observer is told when renders start and finish
type Observer interface {
	RenderStarted(path string)
	RenderFinished(path string, d time.Duration, err error)
}

// Message is posted by the page when something is clicked
type Message struct {
	Command string  `json:"command"`
	Path    *string `json:"path,omitempty"`
	Text    string  `json:"text,omitempty"`
}

// MetadataFunc fetches repository metadata
type MetadataFunc func(ctx context.Context) (models.Repo, error)

type Options struct {
	Repo *github.Repository
	// Metadata overrides Repo.Metadata (e.g., the GraphQL transport)
	Metadata MetadataFunc
	// IconTheme is a theme file path; empty uses the builtin theme
	IconTheme string
	// AssetDir receives the theme's image icons
	AssetDir       string
	CommitsPerPage int
	// Content enables README rendering when set
	Content  ContentSource
	Panel    Panel
	Host     Host
	Observer Observer
	Log      *slog.Logger
	Now      func() time.Time
}

type View struct {
	repo     *github.Repository
	panel    Panel
	host     Host
	content  ContentSource
	observer Observer
	log      *slog.Logger
	now      func() time.Time
	perPage  int

	meta  *future[models.Repo]
	icons *future[*icons.Theme]

	// apiDepth is the number of path segments of a contents URL before the
	// repository-relative path
	apiDepth int

	mu       sync.Mutex
	contents map[string]models.Entry
}

// New shows the loading placeholder and starts fetching metadata, loading
// the icon theme and rendering the repository root, all in the background.
func New(ctx context.Context, opts Options) *View {
	v := &View{
		repo:     opts.Repo,
		panel:    opts.Panel,
		host:     opts.Host,
		content:  opts.Content,
		observer: opts.Observer,
		log:      opts.Log,
		now:      opts.Now,
		perPage:  opts.CommitsPerPage,
		apiDepth: apiDepth(opts.Repo.Base()),
		contents: map[string]models.Entry{},
	}
	if v.log == nil {
		v.log = logging.Nop()
	}
	if v.now == nil {
		v.now = time.Now
	}
	v.log = v.log.With(logging.Repository(opts.Repo.Remote.FullName()))

	v.panel.SetHTML(v.loadingHTML())

	metadata := opts.Metadata
	if metadata == nil {
		metadata = opts.Repo.Metadata
	}
	v.meta = goFuture(func() (models.Repo, error) {
		return metadata(ctx)
	})
	v.icons = goFuture(func() (*icons.Theme, error) {
		return v.loadIcons(opts.IconTheme, opts.AssetDir), nil
	})

	go v.Render(ctx, "")
	return v
}

// loadIcons returns nil when the theme cannot be used; listings then render
// without icons
func (v *View) loadIcons(path, assetDir string) *icons.Theme {
	theme, err := icons.Load(path)
	if err != nil {
		v.log.Warn("Icon theme unavailable", logging.Path(path), logging.Error(err))
		return nil
	}
	if assetDir != "" {
		if err := theme.CopyAssets(assetDir, true); err != nil {
			v.log.Warn("Failed to stage icon assets", logging.Path(assetDir), logging.Error(err))
			return nil
		}
	}
	return theme
}

// Render fetches path and replaces the panel content with it, or with an
// error page if anything fails. Renders are not cancelled by later ones.
func (v *View) Render(ctx context.Context, path string) {
	start := time.Now()
	if v.observer != nil {
		v.observer.RenderStarted(path)
	}

	html, err := v.build(ctx, path)
	if err != nil {
		v.log.Error("Render failed", logging.Path(path), logging.Error(err))
		html = v.errorHTML(err)
	} else {
		v.log.Debug("Rendered", logging.Path(path), logging.DurationMS(time.Since(start).Milliseconds()))
	}

	if v.observer != nil {
		v.observer.RenderFinished(path, time.Since(start), err)
	}
	v.panel.SetHTML(html)
}

func (v *View) build(ctx context.Context, path string) (string, error) {
	repo, err := v.meta.await(ctx)
	if err != nil {
		return "", err
	}
	theme, err := v.icons.await(ctx)
	if err != nil {
		return "", err
	}

	entries, err := v.repo.Contents(ctx, path)
	if err != nil {
		return "", err
	}
	commits, err := v.repo.Commits(ctx, path, v.perPage)
	if err != nil {
		return "", err
	}

	listings, err := v.lastCommits(ctx, path, entries)
	if err != nil {
		return "", err
	}
	sortListings(listings)

	byName := make(map[string]models.Entry, len(listings))
	for _, l := range listings {
		byName[l.Entry.Name] = l.Entry
	}
	v.mu.Lock()
	v.contents = byName
	v.mu.Unlock()

	return v.repoHTML(ctx, repo, theme, path, listings, commits)
}

// lastCommits fetches the latest commit of every entry concurrently. The
// first failure in listing order is returned.
func (v *View) lastCommits(ctx context.Context, dir string, entries []models.Entry) ([]models.Listing, error) {
	listings := make([]models.Listing, len(entries))
	errs := make([]error, len(entries))

	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			history, err := v.repo.Commits(ctx, entryPath(dir, entry.Name), 1)
			if err != nil {
				errs[i] = err
				return
			}
			listings[i] = models.NewListing(entry, history)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return listings, nil
}

// HandleMessage reacts to a message posted by the page
func (v *View) HandleMessage(ctx context.Context, msg Message) {
	if msg.Command != CommandSelect {
		v.log.Warn("Ignoring unknown command", logging.Command(msg.Command))
		return
	}
	if msg.Path != nil {
		v.Render(ctx, *msg.Path)
		return
	}

	v.mu.Lock()
	entry, ok := v.contents[msg.Text]
	v.mu.Unlock()
	if !ok {
		v.host.ShowError(fmt.Sprintf("Entry %s not found", msg.Text))
		return
	}

	switch {
	case entry.IsDir():
		sub, err := v.subPath(entry.URL)
		if err != nil {
			v.host.ShowError(err.Error())
			return
		}
		v.Render(ctx, sub)
	default:
		v.open(ctx, entry)
	}
}

func (v *View) open(ctx context.Context, entry models.Entry) {
	if entry.DownloadURL == "" {
		v.host.ShowError(fmt.Sprintf("Entry %s cannot be previewed", entry.Name))
		return
	}
	uri, err := document.PreviewURI(entry.DownloadURL)
	if err != nil {
		v.host.ShowError(err.Error())
		return
	}
	if err := v.host.OpenDocument(ctx, uri); err != nil {
		v.log.Error("Failed to open document", logging.URL(uri), logging.Error(err))
		v.host.ShowError(err.Error())
	}
}

// subPath turns a contents API URL into a repository-relative path. The
// result is unescaped; Contents escapes it again.
func (v *View) subPath(entryURL string) (string, error) {
	u, err := url.Parse(entryURL)
	if err != nil {
		return "", fmt.Errorf("parse entry url: %w", err)
	}
	segments := strings.Split(u.Path, "/")
	if len(segments) <= v.apiDepth {
		return "", nil
	}
	return strings.Join(segments[v.apiDepth:], "/"), nil
}

// apiDepth counts the segments of base's path plus the trailing "contents"
// segment. For https://api.github.com/repos/o/r that is 5 ("", repos, o, r, contents).
func apiDepth(base string) int {
	u, err := url.Parse(base)
	if err != nil {
		return 0
	}
	return len(strings.Split(strings.TrimSuffix(u.Path, "/"), "/")) + 1
}

// Entry looks up an entry of the currently displayed directory
func (v *View) Entry(name string) (models.Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	entry, ok := v.contents[name]
	return entry, ok
}
