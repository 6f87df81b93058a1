package transcode

import "strings"

// ToolShape selects how an agent's tool list is represented in a dialect
type ToolShape int

const (
	// ShapeAllowList lists every known tool with an explicit grant flag
	ShapeAllowList ToolShape = iota
	// ShapeSet lists only the granted tools, without duplicates
	ShapeSet
)

func (s ToolShape) String() string {
	switch s {
	case ShapeAllowList:
		return "allow-list"
	case ShapeSet:
		return "set"
	default:
		return "unknown"
	}
}

// Grants is the tool access resulting from a conversion. It is one of
// NoGrants, AllowList, ToolSet or FullAccess.
type Grants interface {
	isGrants()
}

// NoGrants means the source declared no tool restriction
type NoGrants struct{}

// Grant is one allow-list field
type Grant struct {
	Tool    string
	Allowed bool
}

// AllowList holds every known target tool, denied unless the source listed it
type AllowList struct {
	Grants []Grant
}

// ToolSet holds the granted target tools in discovery order
type ToolSet struct {
	Tools []string
}

// FullAccess grants every known target tool. Skills always convert to it.
type FullAccess struct {
	Tools []string
}

func (NoGrants) isGrants()   {}
func (AllowList) isGrants()  {}
func (ToolSet) isGrants()    {}
func (FullAccess) isGrants() {}

// Allowed returns the names of the granted tools
func (a AllowList) Allowed() []string {
	var names []string
	for _, g := range a.Grants {
		if g.Allowed {
			names = append(names, g.Tool)
		}
	}
	return names
}

// SplitTools splits a comma-separated tool field into trimmed, non-empty names
func SplitTools(field string) []string {
	var tools []string
	for _, t := range strings.Split(field, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tools = append(tools, t)
		}
	}
	return tools
}

// MapTools converts a comma-separated source tool list into the given shape.
// Tools missing from the mapping are returned in unknown; tools that are known
// but have no target equivalent are dropped silently.
func MapTools(field string, mapping ToolMapping, shape ToolShape) (grants Grants, unknown []string) {
	if strings.TrimSpace(field) == "" {
		return NoGrants{}, nil
	}

	var granted []string
	seen := make(map[string]bool)
	for _, tool := range SplitTools(field) {
		target, ok := mapping.Lookup(tool)
		if !ok {
			if !mapping.Known(tool) {
				unknown = append(unknown, tool)
			}
			continue
		}
		if seen[target] {
			continue
		}
		seen[target] = true
		granted = append(granted, target)
	}

	if shape == ShapeSet {
		return ToolSet{Tools: granted}, unknown
	}

	all := mapping.Targets()
	list := AllowList{Grants: make([]Grant, 0, len(all))}
	for _, tool := range all {
		list.Grants = append(list.Grants, Grant{Tool: tool, Allowed: seen[tool]})
	}
	return list, unknown
}

// AllTools grants every target tool in the mapping
func AllTools(mapping ToolMapping) FullAccess {
	return FullAccess{Tools: mapping.Targets()}
}
