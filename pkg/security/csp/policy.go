// Package csp builds Content-Security-Policy header values.
//
//	policy := csp.New().DefaultSrc("'none'").FrameAncestors("'none'")
//	w.Header().Set(policy.HeaderName(), policy.Build())
package csp

import "strings"

// directiveOrder fixes the output order so headers are stable across requests.
var directiveOrder = []string{
	"default-src",
	"img-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"report-uri",
}

// Builder accumulates directives. It is not safe for concurrent use; build the
// header value once and share the string.
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

func (b *Builder) set(name string, sources []string) *Builder {
	b.directives[name] = sources
	return b
}

// DefaultSrc is the fallback for every fetch directive not set explicitly.
func (b *Builder) DefaultSrc(sources ...string) *Builder { return b.set("default-src", sources) }

func (b *Builder) ImgSrc(sources ...string) *Builder { return b.set("img-src", sources) }

func (b *Builder) ConnectSrc(sources ...string) *Builder { return b.set("connect-src", sources) }

// FrameAncestors controls who may embed the response; "'none'" forbids framing.
func (b *Builder) FrameAncestors(sources ...string) *Builder {
	return b.set("frame-ancestors", sources)
}

func (b *Builder) FormAction(sources ...string) *Builder { return b.set("form-action", sources) }

func (b *Builder) BaseURI(sources ...string) *Builder { return b.set("base-uri", sources) }

func (b *Builder) ReportURI(uri string) *Builder { return b.set("report-uri", []string{uri}) }

// ReportOnly switches the header to Content-Security-Policy-Report-Only.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Build renders the policy, e.g. "default-src 'none'; frame-ancestors 'none'".
// Directives with no sources are omitted.
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, name := range directiveOrder {
		if sources := b.directives[name]; len(sources) > 0 {
			parts = append(parts, name+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy should be sent in.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// APIPolicy is the policy for JSON responses: nothing may load, frame, or be
// submitted from a document served by the API.
func APIPolicy() *Builder {
	return New().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}
