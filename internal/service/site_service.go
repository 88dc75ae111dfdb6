package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/cityguide-blog-api/internal/config"
	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/rs/zerolog"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// siteService is the concrete implementation of SiteService
type siteService struct {
	articles repository.ArticleRepository
	cfg      config.SiteConfig
	log      zerolog.Logger
}

// newSiteService creates a new SiteService
func newSiteService(articles repository.ArticleRepository, cfg config.SiteConfig, log zerolog.Logger) *siteService {
	return &siteService{
		articles: articles,
		cfg:      cfg,
		log:      log.With().Str("service", "site").Logger(),
	}
}

// Sitemap lists static pages, category pages and every published article
func (s *siteService) Sitemap(ctx context.Context) ([]byte, error) {
	refs, err := s.articles.ListPublishedRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}

	set := urlSet{Xmlns: sitemapNamespace}

	for _, page := range s.cfg.StaticPages {
		priority := "0.5"
		if page == "/" {
			priority = "1.0"
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.absolute(page),
			ChangeFreq: "monthly",
			Priority:   priority,
		})
	}

	for _, category := range s.categories(refs) {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.absolute("/category/" + category),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	for _, ref := range refs {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        s.absolute("/" + ref.Slug),
			LastMod:    ref.UpdatedAt.UTC().Format(models.PublishDateLayout),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}

	s.log.Debug().Int("urls", len(set.URLs)).Msg("Sitemap generated")
	return append([]byte(xml.Header), body...), nil
}

// RobotsTxt allows the public site and points crawlers at the sitemap
func (s *siteService) RobotsTxt() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, page := range s.cfg.StaticPages {
		if page == "/" {
			continue
		}
		b.WriteString("Allow: " + page + "\n")
	}
	b.WriteString("Allow: /category/\n")
	b.WriteString("\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + s.absolute("/api/sitemap.xml") + "\n")
	return b.String()
}

// categories merges configured categories with those of published articles,
// keeping first-seen order.
func (s *siteService) categories(refs []models.ArticleRef) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(label string) {
		slug := categorySlug(label)
		if slug == "" || seen[slug] {
			return
		}
		seen[slug] = true
		out = append(out, slug)
	}

	for _, c := range s.cfg.Categories {
		add(c)
	}
	for _, ref := range refs {
		add(ref.Category)
	}
	return out
}

func (s *siteService) absolute(path string) string {
	if path == "/" {
		return s.cfg.BaseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.cfg.BaseURL + path
}

// categorySlug turns "Food & Dining" into "food-dining"
func categorySlug(label string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(label), "-"), "-")
}
