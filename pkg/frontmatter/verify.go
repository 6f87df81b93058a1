package frontmatter

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Verify checks that a rendered markdown definition carries a header that a
// YAML frontmatter reader accepts. Values such as "a: b" inside an unquoted
// description pass Parse but break strict readers.
func Verify(content []byte) error {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return errors.Wrap(err, "failed to parse markdown")
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return errors.Wrap(err, "frontmatter is not valid YAML")
	}
	if len(metaData) == 0 {
		return errors.New("missing frontmatter")
	}

	return nil
}
