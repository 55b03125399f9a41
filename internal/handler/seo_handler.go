package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	postService service.PostServicer
	baseURL     string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin of the site.
func NewSeoHandler(ps service.PostServicer, baseURL string) *SeoHandler {
	return &SeoHandler{postService: ps, baseURL: strings.TrimRight(baseURL, "/")}
}

// robotsHandler serves robots.txt, keeping crawlers away from the admin API.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /admin/")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler lists every published post.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	posts, err := h.postService.ListPublic(r.Context())
	if err != nil {
		return middleware.FromServiceError(err)
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(posts)),
	}
	for i, post := range posts {
		sitemap.URLs[i] = sitemapURL{
			Loc:     h.baseURL + "/posts/" + post.ID,
			LastMod: post.CreatedAt.Format(sitemapDateFormat),
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		return &middleware.AppError{Error: err, Message: "failed to generate sitemap", Code: http.StatusInternalServerError}
	}
	return nil
}
