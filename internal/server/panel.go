package server

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Panel is the page served at "/". Each SetHTML bumps the version and wakes
// long-polling browsers so they reload.
type Panel struct {
	base  string
	token string

	mu      sync.Mutex
	html    string
	version uint64
	changed chan struct{}
}

// NewPanel creates a panel for a server reachable at base (e.g., "http://127.0.0.1:8080")
func NewPanel(base string) *Panel {
	return &Panel{
		base:    strings.TrimSuffix(base, "/"),
		token:   uuid.NewString(),
		changed: make(chan struct{}),
	}
}

func (p *Panel) SetHTML(html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.html = html
	p.version++
	close(p.changed)
	p.changed = make(chan struct{})
}

func (p *Panel) AssetURI(name string) string {
	return p.base + "/assets/" + strings.TrimPrefix(name, "/")
}

func (p *Panel) CSPSource() string {
	return p.base
}

func (p *Panel) SessionToken() string {
	return p.token
}

// Snapshot returns the current content, its version and a channel closed
// on the next change
func (p *Panel) Snapshot() (html string, version uint64, changed <-chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.html, p.version, p.changed
}

// withVersion stamps the version into the page head for the poller
func withVersion(html string, version uint64) string {
	tag := `<meta name="gitweb-version" content="` + strconv.FormatUint(version, 10) + `">`
	if i := strings.Index(html, "</head>"); i >= 0 {
		return html[:i] + tag + "\n" + html[i:]
	}
	return tag + html
}
