package transcode

import "strings"

// HeaderField is one entry of a rendered markdown header: either a scalar
// "key: value" line or a key followed by indented lines
type HeaderField struct {
	Key   string
	Value string
	Lines []string
}

// Scalar builds a "key: value" field
func Scalar(key, value string) HeaderField {
	return HeaderField{Key: key, Value: value}
}

// Nested builds a "key:" field followed by lines indented two spaces
func Nested(key string, lines ...string) HeaderField {
	return HeaderField{Key: key, Lines: lines}
}

// RenderMarkdown writes fields between `---` delimiters, a blank line, then
// body. Values are written verbatim.
func RenderMarkdown(fields []HeaderField, body string) []byte {
	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range fields {
		if f.Lines == nil {
			b.WriteString(f.Key + ": " + f.Value + "\n")
			continue
		}
		b.WriteString(f.Key + ":\n")
		for _, line := range f.Lines {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("---\n\n")
	b.WriteString(body)
	return []byte(b.String())
}
