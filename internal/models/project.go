package models

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ProjectRecord is the flat view of a GitLab project shared by both instances.
// Every field is always present, though any may be empty.
type ProjectRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Group      string `json:"group"`
	Path       string `json:"path"`
	WebURL     string `json:"web_url"`
	Visibility string `json:"visibility"`
}

// MatchedPair holds the projects from each instance that share a path.
type MatchedPair struct {
	Path  string
	Left  ProjectRecord
	Right ProjectRecord
}

// RawProject is a project as returned by the API, read without a fixed schema.
type RawProject struct {
	r gjson.Result
}

func NewRawProject(json string) RawProject {
	return RawProject{r: gjson.Parse(json)}
}

func rawProjectFromResult(r gjson.Result) RawProject {
	return RawProject{r: r}
}

// ParseRawProjects parses a JSON array of projects.
// It returns false if body is not a JSON array.
func ParseRawProjects(body []byte) ([]RawProject, bool) {
	if !gjson.ValidBytes(body) {
		return nil, false
	}

	r := gjson.ParseBytes(body)
	if !r.IsArray() {
		return nil, false
	}

	items := r.Array()
	projects := make([]RawProject, len(items))
	for i, item := range items {
		projects[i] = rawProjectFromResult(item)
	}

	return projects, true
}

// String returns the value at key rendered as text.
// Absent, null, empty, and non-scalar values are reported as missing.
func (p RawProject) String(key string) (string, bool) {
	v := p.r.Get(key)
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
	default:
		return "", false
	}

	s := v.String()
	if v.Type == gjson.Number {
		// Keep integers exactly as sent instead of reformatting through float64.
		s = v.Raw
	}

	return s, s != ""
}

// StringOr returns the value at key, or def if it is missing.
func (p RawProject) StringOr(key, def string) string {
	if s, ok := p.String(key); ok {
		return s
	}
	return def
}

// Object returns the nested object at key.
func (p RawProject) Object(key string) (RawProject, bool) {
	v := p.r.Get(key)
	if !v.IsObject() {
		return RawProject{}, false
	}
	return rawProjectFromResult(v), true
}

// Normalize maps a raw project onto a ProjectRecord.
// Missing or malformed fields become empty strings.
func Normalize(p RawProject) ProjectRecord {
	path := p.StringOr("path_with_namespace", p.StringOr("path", ""))

	name, ok := p.String("name")
	if !ok && path != "" {
		name = path[strings.LastIndex(path, "/")+1:]
	}

	return ProjectRecord{
		ID:         p.StringOr("id", ""),
		Name:       name,
		Group:      namespace(p),
		Path:       path,
		WebURL:     p.StringOr("web_url", ""),
		Visibility: p.StringOr("visibility", ""),
	}
}

func namespace(p RawProject) string {
	ns, ok := p.Object("namespace")
	if !ok {
		return ""
	}

	for _, key := range []string{"full_path", "name", "path"} {
		if s, ok := ns.String(key); ok {
			return s
		}
	}

	return ""
}
