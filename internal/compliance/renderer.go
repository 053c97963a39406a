package compliance

import (
	"bytes"
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"text/template"

	"agritrace/internal/domain"
	"agritrace/pkg/config"
	pkgerrors "agritrace/pkg/errors"
	"agritrace/pkg/logger"
)

// TemplateStore is the persistence boundary for compliance templates.
type TemplateStore interface {
	GetActiveTemplate(ctx context.Context, regulationType domain.RegulationType) (*domain.ComplianceTemplate, error)
	CreateTemplate(ctx context.Context, regulationType domain.RegulationType, content string) (*domain.ComplianceTemplate, error)
}

// Renderer resolves a document template for a regulation type and renders
// sanitized report data into a serialized document. Parsed templates are
// kept in a bounded process-wide cache, safe for concurrent use.
type Renderer struct {
	store     TemplateStore
	sanitizer *Sanitizer
	cache     *templateCache
	cfg       config.ComplianceConfig
	logger    logger.Logger
}

func NewRenderer(store TemplateStore, sanitizer *Sanitizer, cfg config.ComplianceConfig, log logger.Logger) *Renderer {
	return &Renderer{
		store:     store,
		sanitizer: sanitizer,
		cache:     newTemplateCache(cfg.TemplateCacheSize),
		cfg:       cfg,
		logger:    log,
	}
}

// Render produces the serialized document for one report data model.
func (r *Renderer) Render(ctx context.Context, regulationType domain.RegulationType, data interface{}) ([]byte, error) {
	tmpl, err := r.resolve(ctx, regulationType)
	if err != nil {
		return nil, err
	}

	renderable, err := toRenderable(data)
	if err != nil {
		return nil, wrapData(err, "prepare template data")
	}
	renderable = r.sanitizer.Sanitize(renderable)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, renderable); err != nil {
		return nil, wrapData(err, fmt.Sprintf("render %s document", regulationType))
	}

	out := buf.Bytes()
	if len(out) > r.cfg.MaxReportSize {
		// Soft limit: warn and return the bytes anyway rather than lose data.
		r.logger.Warn("report exceeds maximum size", map[string]interface{}{
			"regulation_type": string(regulationType),
			"size":            len(out),
			"max_size":        r.cfg.MaxReportSize,
		})
	}

	return out, nil
}

// ClearCache drops every cached parsed template. Call after activating a
// new template version.
func (r *Renderer) ClearCache() {
	r.cache.clear()
}

// DefaultTemplateContent returns the built-in template source for a
// regulation type, if one exists.
func (r *Renderer) DefaultTemplateContent(regulationType domain.RegulationType) (string, bool) {
	content, ok := defaultTemplates[regulationType]
	return content, ok
}

func (r *Renderer) resolve(ctx context.Context, regulationType domain.RegulationType) (*template.Template, error) {
	if tmpl, ok := r.cache.get(regulationType); ok {
		return tmpl, nil
	}

	content, err := r.templateContent(ctx, regulationType)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(string(regulationType)).Parse(content)
	if err != nil {
		return nil, wrapData(err, fmt.Sprintf("parse %s template", regulationType))
	}

	r.cache.add(regulationType, tmpl)
	return tmpl, nil
}

func (r *Renderer) templateContent(ctx context.Context, regulationType domain.RegulationType) (string, error) {
	stored, err := r.store.GetActiveTemplate(ctx, regulationType)
	if err == nil {
		return stored.TemplateContent, nil
	}
	if !pkgerrors.Is(err, pkgerrors.ErrTemplateNotFound) {
		return "", wrapData(err, "fetch active template")
	}

	content, ok := defaultTemplates[regulationType]
	if !ok {
		return "", newError(KindTemplateNotFound,
			fmt.Sprintf("no template for regulation type %q", regulationType))
	}
	return content, nil
}

// toRenderable converts the typed data model into nested maps via a JSON
// round trip, so the sanitizer can walk it and templates address fields by
// their wire names.
func toRenderable(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// templateCache is a bounded LRU over parsed templates, guarded by a mutex.
// Read-mostly: one miss per regulation type per process barring eviction or
// explicit invalidation.
type templateCache struct {
	mu      sync.Mutex
	cap     int
	entries map[domain.RegulationType]*list.Element
	order   *list.List
}

type cacheEntry struct {
	key  domain.RegulationType
	tmpl *template.Template
}

func newTemplateCache(capacity int) *templateCache {
	return &templateCache{
		cap:     capacity,
		entries: make(map[domain.RegulationType]*list.Element),
		order:   list.New(),
	}
}

func (c *templateCache) get(key domain.RegulationType) (*template.Template, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).tmpl, true
}

func (c *templateCache) add(key domain.RegulationType, tmpl *template.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).tmpl = tmpl
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, tmpl: tmpl})

	if c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *templateCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[domain.RegulationType]*list.Element)
	c.order.Init()
}

func (c *templateCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
