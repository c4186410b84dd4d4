package compare

import "github.com/heaths/gitlab-compare/internal/models"

// ByPath pairs projects from list1 with the project in list2 that has the same path.
// Pairs follow list1's order. Projects with an empty path never match, and if
// list2 repeats a path the last occurrence is used.
func ByPath(list1, list2 []models.ProjectRecord) []models.MatchedPair {
	index := make(map[string]models.ProjectRecord, len(list2))
	for _, p := range list2 {
		if p.Path != "" {
			index[p.Path] = p
		}
	}

	pairs := []models.MatchedPair{}
	for _, p := range list1 {
		if p.Path == "" {
			continue
		}
		if match, ok := index[p.Path]; ok {
			pairs = append(pairs, models.MatchedPair{
				Path:  p.Path,
				Left:  p,
				Right: match,
			})
		}
	}

	return pairs
}
