// ABOUTME: Content repository loading posts, stories, highlights, and site config.
// ABOUTME: Posts are mandatory; the other collections degrade to empty values.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/takubon0202/if-instagram-auto/internal/engine"
	"github.com/takubon0202/if-instagram-auto/internal/models"
)

// File names read from a content source.
const (
	ConfigFile     = "config.json"
	PostsFile      = "posts.json"
	StoriesFile    = "stories.json"
	HighlightsFile = "highlights.json"
)

// ErrPostsUnavailable means the mandatory posts collection could not be read.
var ErrPostsUnavailable = errors.New("posts unavailable")

// Repository loads one complete set of content.
type Repository interface {
	Load(ctx context.Context) (*Bundle, error)
}

// Bundle is the loaded content.
type Bundle struct {
	Config     map[string]any
	Posts      []models.Post
	Stories    []models.Story
	Highlights []models.Highlight
}

// Intent converts the bundle into the engine's load intent.
func (b *Bundle) Intent() engine.ContentLoaded {
	return engine.ContentLoaded{
		Config:     b.Config,
		Posts:      b.Posts,
		Stories:    b.Stories,
		Highlights: b.Highlights,
	}
}

// Site is the subset of config.json the UI reads.
type Site struct {
	Name       string
	URL        string
	CTAPrimary string
}

// SiteFromConfig extracts site.name, site.url, and site.cta_primary when present.
func SiteFromConfig(cfg map[string]any) Site {
	site, _ := cfg["site"].(map[string]any)
	str := func(key string) string {
		v, _ := site[key].(string)
		return v
	}
	return Site{Name: str("name"), URL: str("url"), CTAPrimary: str("cta_primary")}
}

// Open returns a repository for source: an http(s) base URL or a directory.
func Open(source string, logger *slog.Logger) Repository {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewRemoteRepository(source, logger)
	}
	return NewDirRepository(source, logger)
}

type postsFile struct {
	Posts []models.Post `json:"posts"`
}

type storiesFile struct {
	Stories []models.Story `json:"stories"`
}

type highlightsFile struct {
	Highlights []models.Highlight `json:"highlights"`
}

// fetchFunc returns the raw bytes of one named file.
type fetchFunc func(ctx context.Context, name string) ([]byte, error)

// loadBundle fetches the four files concurrently. Only a posts failure fails
// the load.
func loadBundle(ctx context.Context, fetch fetchFunc, logger *slog.Logger) (*Bundle, error) {
	var (
		posts      postsFile
		stories    storiesFile
		highlights highlightsFile
		config     map[string]any
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := fetchJSON(gctx, fetch, PostsFile, &posts); err != nil {
			return fmt.Errorf("%w: %w", ErrPostsUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		optional(gctx, fetch, StoriesFile, &stories, logger)
		return nil
	})
	g.Go(func() error {
		optional(gctx, fetch, HighlightsFile, &highlights, logger)
		return nil
	})
	g.Go(func() error {
		optional(gctx, fetch, ConfigFile, &config, logger)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &Bundle{
		Config:     config,
		Posts:      posts.Posts,
		Stories:    stories.Stories,
		Highlights: highlights.Highlights,
	}
	if b.Config == nil {
		b.Config = map[string]any{}
	}
	if b.Posts == nil {
		b.Posts = []models.Post{}
	}
	if b.Stories == nil {
		b.Stories = []models.Story{}
	}
	if b.Highlights == nil {
		b.Highlights = []models.Highlight{}
	}
	logger.Info("content loaded",
		"posts", len(b.Posts), "stories", len(b.Stories), "highlights", len(b.Highlights))
	return b, nil
}

func optional(ctx context.Context, fetch fetchFunc, name string, v any, logger *slog.Logger) {
	if err := fetchJSON(ctx, fetch, name, v); err != nil {
		logger.Warn("optional content unavailable", "file", name, "error", err)
	}
}

func fetchJSON(ctx context.Context, fetch fetchFunc, name string, v any) error {
	data, err := fetch(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
