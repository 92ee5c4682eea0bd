package view

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/wahlandcase/gitweb/internal/document"
	"github.com/wahlandcase/gitweb/internal/icons"
	"github.com/wahlandcase/gitweb/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Static assets every page links, relative to Panel.AssetURI
const (
	assetSharedCSS = "static/shared.css"
	assetGitHubCSS = "static/github.css"
	assetScript    = "static/github.js"
	assetIcons     = "icons"
)

// page carries what every template needs
type page struct {
	CSPSource string
	Token     string
	SharedCSS string
	GitHubCSS string
	Script    string
}

type errorPage struct {
	page
	Error string
}

type repoPage struct {
	page
	Repo    models.Repo
	IconCSS template.CSS
	Crumbs  []crumb
	Entries []entryRow
	Commits []commitRow
	Readme  template.HTML
}

type commitRow struct {
	SHA     string
	URL     string
	Message string
}

type entryRow struct {
	Name      string
	Type      string
	IconClass string
	Size      string
	Message   string
	Since     string
}

func (v *View) basePage() page {
	return page{
		CSPSource: v.panel.CSPSource(),
		Token:     v.panel.SessionToken(),
		SharedCSS: v.panel.AssetURI(assetSharedCSS),
		GitHubCSS: v.panel.AssetURI(assetGitHubCSS),
		Script:    v.panel.AssetURI(assetScript),
	}
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (v *View) loadingHTML() string {
	html, err := execute("loading", v.basePage())
	if err != nil {
		return "Loading repository..."
	}
	return html
}

func (v *View) errorHTML(cause error) string {
	html, err := execute("error", errorPage{page: v.basePage(), Error: cause.Error()})
	if err != nil {
		// Nothing left to render with
		return template.HTMLEscapeString("Error loading repository data: " + cause.Error())
	}
	return html
}

func (v *View) repoHTML(ctx context.Context, repo models.Repo, theme *icons.Theme, path string, listings []models.Listing, commits []models.Commit) (string, error) {
	data := repoPage{
		page:   v.basePage(),
		Repo:   repo,
		Crumbs: breadcrumbs(repo.FullName, path),
	}
	if theme != nil {
		data.IconCSS = template.CSS(theme.Style(v.panel.AssetURI(assetIcons)))
	}

	now := v.now()
	for _, l := range listings {
		row := entryRow{
			Name: l.Entry.Name,
			Type: l.Entry.Type,
		}
		if theme != nil {
			if l.Entry.IsDir() {
				row.IconClass = theme.Class(theme.FolderIcon(l.Entry.Name))
			} else {
				row.IconClass = theme.Class(theme.FileIcon(l.Entry.Name))
			}
		}
		if l.Entry.IsFile() {
			row.Size = humanize.Bytes(uint64(max(l.Entry.Size, 0)))
		}
		if l.LastCommit != nil {
			row.Message = l.LastCommit.Summary()
			row.Since = TimeSince(now, l.LastCommit.CommittedAt()) + " ago"
		}
		data.Entries = append(data.Entries, row)
	}

	for _, c := range commits {
		data.Commits = append(data.Commits, commitRow{SHA: c.ShortSHA(), URL: c.HTMLURL, Message: c.Commit.Message})
	}

	readme, err := v.readmeHTML(ctx, listings)
	if err != nil {
		return "", err
	}
	data.Readme = readme

	return execute("repo", data)
}

// readmeHTML renders the README of the listed directory, if there is one
// and a content source is configured
func (v *View) readmeHTML(ctx context.Context, listings []models.Listing) (template.HTML, error) {
	if v.content == nil {
		return "", nil
	}
	for _, l := range listings {
		if !l.Entry.IsFile() || !strings.EqualFold(l.Entry.Name, "readme.md") || l.Entry.DownloadURL == "" {
			continue
		}
		uri, err := document.PreviewURI(l.Entry.DownloadURL)
		if err != nil {
			return "", err
		}
		text, ok, err := v.content.Provide(ctx, uri)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", nil
		}
		var buf bytes.Buffer
		// goldmark drops raw HTML unless WithUnsafe is set
		if err := markdown.Convert([]byte(text), &buf); err != nil {
			return "", err
		}
		return template.HTML(buf.String()), nil
	}
	return "", nil
}
