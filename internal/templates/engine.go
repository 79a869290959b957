// Package templates holds the visual resume templates and renders structured
// resumes to HTML for preview and PDF export.
package templates

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/cache"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/types"
)

//go:embed layouts/*.html.tmpl
var layoutFiles embed.FS

// TemplateDefinition describes one visual template offered in the gallery.
type TemplateDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`

	file string
}

var definitions = []TemplateDefinition{
	{
		ID:          "professional",
		Name:        "Professional",
		Description: "Traditional single-column layout with serif headings. Safe for conservative industries.",
		Category:    "classic",
		file:        "layouts/professional.html.tmpl",
	},
	{
		ID:          "modern",
		Name:        "Modern",
		Description: "Clean sans-serif layout with an accent color. Suited to tech and startup roles.",
		Category:    "contemporary",
		file:        "layouts/modern.html.tmpl",
	},
	{
		ID:          "minimal",
		Name:        "Minimal",
		Description: "Sparse type-led layout that maximizes content density.",
		Category:    "contemporary",
		file:        "layouts/minimal.html.tmpl",
	},
	{
		ID:          "executive",
		Name:        "Executive",
		Description: "Formal layout emphasizing the summary and leadership experience.",
		Category:    "classic",
		file:        "layouts/executive.html.tmpl",
	},
}

// GetAllTemplates returns every available template in display order.
func GetAllTemplates() []TemplateDefinition {
	out := make([]TemplateDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// GetTemplate looks a template up by ID.
func GetTemplate(id string) (TemplateDefinition, bool) {
	for _, def := range definitions {
		if def.ID == id {
			return def, true
		}
	}
	return TemplateDefinition{}, false
}

// Engine parses embedded layouts on demand and caches rendered HTML.
type Engine struct {
	mu       sync.Mutex
	parsed   map[string]*template.Template
	rendered *cache.LRU
}

// NewEngine creates a rendering engine with a small render cache.
func NewEngine() *Engine {
	return &Engine{
		parsed:   make(map[string]*template.Template),
		rendered: cache.NewLRU(32, 0),
	}
}

// Render executes the template against the resume and returns standalone HTML
// sized for US Letter.
func (e *Engine) Render(templateID string, resume *types.Resume) (string, error) {
	def, ok := GetTemplate(templateID)
	if !ok {
		return "", &TemplateError{Message: fmt.Sprintf("unknown template: %s", templateID)}
	}

	// The cache key must cover every field a layout can print, so key on a
	// digest of the full serialized resume.
	cacheKey, keyed := renderCacheKey(def.ID, resume)
	if keyed {
		if html, hit := e.rendered.Get(cacheKey); hit {
			return html.(string), nil
		}
	}

	tmpl, err := e.load(def)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, resume); err != nil {
		return "", &RenderError{Message: fmt.Sprintf("failed to render template %s", def.ID), Cause: err}
	}

	html := sb.String()
	if keyed {
		e.rendered.Set(cacheKey, html)
	}
	return html, nil
}

func renderCacheKey(templateID string, resume *types.Resume) (string, bool) {
	data, err := json.Marshal(resume)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return templateID + "|" + hex.EncodeToString(sum[:]), true
}

func (e *Engine) load(def TemplateDefinition) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.parsed[def.ID]; ok {
		return tmpl, nil
	}

	content, err := layoutFiles.ReadFile(def.file)
	if err != nil {
		return nil, &TemplateError{Message: fmt.Sprintf("failed to read layout %s", def.file), Cause: err}
	}

	tmpl, err := template.New(def.ID).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Message: fmt.Sprintf("failed to parse layout %s", def.file), Cause: err}
	}

	e.parsed[def.ID] = tmpl
	return tmpl, nil
}
