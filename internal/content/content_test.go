// ABOUTME: Tests for the directory and HTTP content repositories.
// ABOUTME: Covers optional-file fallbacks, the posts failure, and wire field names.
package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/takubon0202/if-instagram-auto/internal/logging"
	"github.com/takubon0202/if-instagram-auto/internal/models"
)

const postsJSON = `{"posts":[
  {"id":"p1","datetime":"2025-01-15T10:00:00+09:00","type":"carousel","track":"juku",
   "title":"Open day","caption":"Come by\n\n#ai #juku","cta_url":"https://example.com/cta",
   "media":[{"src":"a.png","alt":"A"},{"src":"b.png","alt":"B"}],
   "hashtags":["#ai"],"highlight":"AI","category":"Events"},
  {"id":"p2","datetime":"2025-01-16","type":"image","track":"business","title":"Talk",
   "caption":"x","cta_url":"","media":[{"src":"c.png","alt":"C"}],"hashtags":[]}
]}`

const storiesJSON = `{"stories":[
  {"id":"s1","datetime":"2025-01-15T10:00:00","type":"image","src":"s1.png","alt":"S1",
   "duration":2,"highlight":"AI","text_overlay":"Hello","link":{"url":"https://example.com","label":"More"}},
  {"id":"s2","datetime":"2025-01-15T11:00:00","type":"image","src":"s2.png","alt":"S2"}
]}`

const highlightsJSON = `{"highlights":[{"id":"h1","name":"AI","icon":"ai.png","description":"AI stories"}]}`

const configJSON = `{"site":{"name":"IF Juku","url":"https://if-juku.example","cta_primary":"Join"}}`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func allFiles() map[string]string {
	return map[string]string{
		PostsFile:      postsJSON,
		StoriesFile:    storiesJSON,
		HighlightsFile: highlightsJSON,
		ConfigFile:     configJSON,
	}
}

func TestDirRepositoryLoad(t *testing.T) {
	repo := NewDirRepository(writeFiles(t, allFiles()), logging.Discard())
	b, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(b.Posts) != 2 || len(b.Stories) != 2 || len(b.Highlights) != 1 {
		t.Fatalf("got %d posts, %d stories, %d highlights", len(b.Posts), len(b.Stories), len(b.Highlights))
	}
	p := b.Posts[0]
	if p.CTAURL != "https://example.com/cta" || p.Type != models.PostCarousel || len(p.Media) != 2 {
		t.Errorf("post decoded wrong: %+v", p)
	}
	if p.Highlight != "AI" || p.Category != "Events" {
		t.Errorf("labels = %q/%q", p.Highlight, p.Category)
	}
	s := b.Stories[0]
	if s.TextOverlay != "Hello" || s.Link == nil || s.Link.Label != "More" || s.Duration != 2 {
		t.Errorf("story decoded wrong: %+v", s)
	}
	if b.Stories[1].Link != nil {
		t.Error("story without link should have nil Link")
	}

	site := SiteFromConfig(b.Config)
	if site.Name != "IF Juku" || site.CTAPrimary != "Join" {
		t.Errorf("site = %+v", site)
	}
}

func TestDirRepositoryOptionalFilesMissing(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		PostsFile:   postsJSON,
		StoriesFile: "{not json",
	})
	b, err := NewDirRepository(dir, logging.Discard()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b.Stories == nil || len(b.Stories) != 0 {
		t.Errorf("stories = %v, want empty", b.Stories)
	}
	if b.Highlights == nil || b.Config == nil {
		t.Error("missing optional collections should be empty, not nil")
	}
	if SiteFromConfig(b.Config).Name != "" {
		t.Error("empty config should yield empty site")
	}
}

func TestDirRepositoryPostsMissing(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"absent", map[string]string{StoriesFile: storiesJSON}},
		{"malformed", map[string]string{PostsFile: `{"posts": [`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDirRepository(writeFiles(t, tt.files), logging.Discard()).Load(context.Background())
			if !errors.Is(err, ErrPostsUnavailable) {
				t.Errorf("err = %v, want ErrPostsUnavailable", err)
			}
		})
	}
}

func TestBundleIntent(t *testing.T) {
	b := &Bundle{Posts: []models.Post{{ID: "p"}}, Config: map[string]any{"k": "v"}}
	in := b.Intent()
	if len(in.Posts) != 1 || in.Config["k"] != "v" {
		t.Errorf("intent = %+v", in)
	}
}

func TestRemoteRepositoryLoad(t *testing.T) {
	files := allFiles()
	var accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path == "/data/"+PostsFile {
			accept = r.Header.Get("Accept")
		}
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/data/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	repo := NewRemoteRepository(server.URL+"/data/", logging.Discard())
	b, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(b.Posts) != 2 || len(b.Stories) != 2 {
		t.Errorf("got %d posts, %d stories", len(b.Posts), len(b.Stories))
	}
	if accept != "application/json" {
		t.Errorf("Accept = %q", accept)
	}
}

func TestRemoteRepositoryPostsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer server.Close()

	_, err := NewRemoteRepository(server.URL, logging.Discard()).Load(context.Background())
	if !errors.Is(err, ErrPostsUnavailable) {
		t.Fatalf("err = %v, want ErrPostsUnavailable", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestRemoteRepositoryRejectsNonOK(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"no content", http.StatusNoContent},
		{"unfollowed redirect", http.StatusNotModified},
		{"not found", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewRemoteRepository(server.URL, logging.Discard()).Load(context.Background())
			if !errors.Is(err, ErrPostsUnavailable) {
				t.Fatalf("err = %v, want ErrPostsUnavailable", err)
			}
		})
	}
}

func TestRemoteRepositoryHasNoClientTimeout(t *testing.T) {
	repo := NewRemoteRepository("https://example.com/data", nil)
	if repo.client.Timeout != 0 {
		t.Errorf("client timeout = %v, want none", repo.client.Timeout)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRemoteRepository(server.URL, logging.Discard()).Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOpenPicksRepository(t *testing.T) {
	if _, ok := Open("https://example.com/data", nil).(*RemoteRepository); !ok {
		t.Error("https source should open a remote repository")
	}
	if _, ok := Open("http://localhost:8080", nil).(*RemoteRepository); !ok {
		t.Error("http source should open a remote repository")
	}
	repo, ok := Open("./data", nil).(*DirRepository)
	if !ok || repo.Dir() != "./data" {
		t.Error("path source should open a directory repository")
	}
}
