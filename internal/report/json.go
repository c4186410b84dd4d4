package report

import (
	"encoding/json"
	"io"

	"github.com/heaths/gitlab-compare/internal/models"
)

type commonJSON struct {
	Path    string               `json:"path"`
	GitLab1 models.ProjectRecord `json:"gitlab1"`
	GitLab2 models.ProjectRecord `json:"gitlab2"`
}

type summaryJSON struct {
	CountList1        int `json:"count_list1"`
	CountList2        int `json:"count_list2"`
	CountCommonByPath int `json:"count_common_by_path"`
}

type combinedJSON struct {
	List1        []models.ProjectRecord `json:"list1"`
	List2        []models.ProjectRecord `json:"list2"`
	CommonByPath []commonJSON           `json:"common_by_path"`
	Summary      summaryJSON            `json:"summary"`
}

func (r *Report) writeCombinedJSON(w io.Writer) error {
	return writeJSON(w, combinedJSON{
		List1:        records(r.List1),
		List2:        records(r.List2),
		CommonByPath: commonsJSON(r.Commons),
		Summary: summaryJSON{
			CountList1:        len(r.List1),
			CountList2:        len(r.List2),
			CountCommonByPath: len(r.Commons),
		},
	})
}

func commonsJSON(pairs []models.MatchedPair) []commonJSON {
	commons := make([]commonJSON, len(pairs))
	for i, pair := range pairs {
		commons[i] = commonJSON{
			Path:    pair.Path,
			GitLab1: pair.Left,
			GitLab2: pair.Right,
		}
	}
	return commons
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
