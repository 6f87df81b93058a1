// Package transcode rewrites parsed Claude Code definitions into a target
// dialect: tool and model names are remapped, inline references in the body
// are rewritten, and the result is rendered by the dialect's serializer.
package transcode

import (
	"github.com/pkg/errors"

	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
)

// Document is a definition after mapping, ready to serialize
type Document struct {
	Kind     frontmatter.Kind
	Name     string            // source name: agent file stem or skill directory
	Metadata map[string]string // source header fields, unchanged
	Model    string            // resolved target model, empty when the source has none
	Grants   Grants
	Body     string // body with dialect rewrites applied
}

// Field returns a source header field, treating empty values as absent
func (d *Document) Field(key string) (string, bool) {
	v, ok := d.Metadata[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Result is one rendered definition
type Result struct {
	Path         string // output path relative to the output directory
	Content      []byte
	UnknownTools []string // source tools the dialect has no mapping for
}

// Transcoder converts definitions into a single dialect. It holds no mutable
// state and may be reused for any number of definitions.
type Transcoder struct {
	dialect *Dialect
}

// New creates a transcoder for the given dialect
func New(dialect *Dialect) *Transcoder {
	return &Transcoder{dialect: dialect}
}

// Dialect returns the target dialect
func (t *Transcoder) Dialect() *Dialect {
	return t.dialect
}

// Transform maps a definition's tools, model and body without rendering it
func (t *Transcoder) Transform(def *frontmatter.Definition) (*Document, []string) {
	d := t.dialect
	doc := &Document{
		Kind:     def.Kind,
		Name:     def.Name,
		Metadata: def.Metadata,
		Body:     d.Rules.Apply(def.Body, d.Tools),
	}

	if model, ok := def.Get("model"); ok {
		doc.Model = d.Models.Resolve(model)
	}

	var unknown []string
	if def.Kind == frontmatter.KindSkill {
		doc.Grants = AllTools(d.Tools)
	} else {
		field, _ := def.Get("tools")
		doc.Grants, unknown = MapTools(field, d.Tools, d.AgentShape)
	}

	return doc, unknown
}

// Convert transforms and serializes a definition
func (t *Transcoder) Convert(def *frontmatter.Definition) (*Result, error) {
	doc, unknown := t.Transform(def)

	content, err := t.dialect.Serializer.Serialize(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render %s for %s", def.Name, t.dialect.Title)
	}

	return &Result{
		Path:         t.dialect.Layout(def.Kind, def.Name),
		Content:      content,
		UnknownTools: unknown,
	}, nil
}
