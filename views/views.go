// Package views holds the site's HTML templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"barklounge/loader"
	"barklounge/models"
	"barklounge/posts"
)

//go:embed templates/*.html
var files embed.FS

var months = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// FormatDate renders t the Turkish way, e.g. "2 Ocak 2025".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

func FuncMap(siteURL string) template.FuncMap {
	return template.FuncMap{
		"now":        time.Now,
		"siteURL":    func() string { return siteURL },
		"formatDate": FormatDate,
		"isoDate":    func(t time.Time) string { return t.Format(time.RFC3339) },
		"readTime":   posts.ReadTime,
		"join":       strings.Join,
		"lines":      func(s string) []string { return strings.Split(s, "\n") },
		"tagURL": func(tag string) string {
			return "/blog?tag=" + url.QueryEscape(tag)
		},
		"telHref": func(phone string) string {
			return "tel:" + strings.NewReplacer(" ", "", "(", "", ")", "", "-", "").Replace(phone)
		},
		"stars": func(rating int) []bool {
			out := make([]bool, 5)
			for i := range out {
				out[i] = i < rating
			}
			return out
		},
		"rating": func(r float64) string { return fmt.Sprintf("%.1f", r) },
		"serviceIcon": func(t models.ServiceType) string {
			switch t {
			case models.ServiceHotel:
				return "🏨"
			case models.ServiceGrooming:
				return "✂️"
			case models.ServiceDaycare:
				return "🎾"
			}
			return "🐾"
		},
		"truncate": func(n int, s string) string {
			r := []rune(s)
			if len(r) <= n {
				return s
			}
			return strings.TrimSpace(string(r[:n])) + "…"
		},
	}
}

func Parse(siteURL string) (*template.Template, error) {
	return template.New("").Funcs(FuncMap(siteURL)).ParseFS(files, "templates/*.html")
}

func MustParse(siteURL string) *template.Template {
	return template.Must(Parse(siteURL))
}

// Page returns the data the shared layout reads. Handlers add their own keys.
func Page(path, section string, meta loader.Metadata, settings *models.AppSettings) gin.H {
	return gin.H{
		"path":       path,
		"section":    section,
		"meta":       meta,
		"settings":   settings,
		"formErrors": map[string]string{},
	}
}
