package converter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/theTyster/context-focused-claude/pkg/frontmatter"
)

// ErrMissingInputDirectory is returned when an input directory does not exist
var ErrMissingInputDirectory = errors.New("input directory not found")

// Source is one definition found on disk
type Source struct {
	Kind frontmatter.Kind
	Name string // agent file stem or skill directory name
	Path string // markdown file to read
}

// Discover lists the definitions of the given kind in dir, in directory
// order. Agents are the *.md files directly in dir; skills are the
// subdirectories of dir holding a SKILL.md. Symlinked entries are followed.
// Entries matching any exclude pattern are skipped.
func Discover(dir string, kind frontmatter.Kind, exclude []string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrMissingInputDirectory, "%s", dir)
		}
		return nil, errors.Wrapf(err, "failed to read %s", dir)
	}

	var sources []Source
	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())
		if excluded(exclude, entry.Name(), entryPath) {
			continue
		}

		info, err := os.Stat(entryPath)
		if err != nil {
			continue
		}

		switch kind {
		case frontmatter.KindAgent:
			if info.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			sources = append(sources, Source{
				Kind: kind,
				Name: strings.TrimSuffix(entry.Name(), ".md"),
				Path: entryPath,
			})
		case frontmatter.KindSkill:
			if !info.IsDir() {
				continue
			}
			skillPath := filepath.Join(entryPath, frontmatter.SkillFileName)
			if _, err := os.Stat(skillPath); err != nil {
				continue
			}
			sources = append(sources, Source{Kind: kind, Name: entry.Name(), Path: skillPath})
		}
	}

	return sources, nil
}

// entry returns the directory entry a source was discovered from: the agent
// file, or the skill directory
func (s Source) entry() (name, path string) {
	if s.Kind == frontmatter.KindSkill {
		dir := filepath.Dir(s.Path)
		return filepath.Base(dir), dir
	}
	return filepath.Base(s.Path), s.Path
}

// Excluded reports whether src matches any of patterns, as Discover decides
func Excluded(patterns []string, src Source) bool {
	name, path := src.entry()
	return excluded(patterns, name, path)
}

// SourceFor resolves a changed file path back to the definition it belongs
// to. ok is false for paths that are not agent files or skill SKILL.md files.
func SourceFor(dir string, kind frontmatter.Kind, path string) (Source, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Source{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	switch kind {
	case frontmatter.KindAgent:
		if len(parts) == 1 && strings.HasSuffix(parts[0], ".md") {
			return Source{Kind: kind, Name: strings.TrimSuffix(parts[0], ".md"), Path: path}, true
		}
	case frontmatter.KindSkill:
		if len(parts) == 2 && parts[1] == frontmatter.SkillFileName {
			return Source{Kind: kind, Name: parts[0], Path: path}, true
		}
	}
	return Source{}, false
}

// ValidatePatterns reports the first malformed exclude pattern
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// excluded matches patterns against both the entry name and its slash path,
// so "draft-*" and "skills/legacy-*" both work
func excluded(patterns []string, name, path string) bool {
	slashPath := filepath.ToSlash(path)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, slashPath); ok {
			return true
		}
	}
	return false
}
