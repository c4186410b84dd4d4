package report

import (
	"encoding/csv"
	"io"

	"github.com/heaths/gitlab-compare/internal/models"
)

const (
	sectionList   = "LIST"
	sectionCommon = "COMMON_BY_PATH"
)

var recordHeader = []string{"id", "name", "group", "path", "web_url", "visibility"}

func fields(p models.ProjectRecord) []string {
	return []string{p.ID, p.Name, p.Group, p.Path, p.WebURL, p.Visibility}
}

func (r *Report) writeCombinedCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		append(append([]string{"SECTION"}, recordHeader...), "origin"),
	}
	for _, p := range r.List1 {
		rows = append(rows, append(append([]string{sectionList}, fields(p)...), "1"))
	}
	for _, p := range r.List2 {
		rows = append(rows, append(append([]string{sectionList}, fields(p)...), "2"))
	}

	rows = append(rows, []string{})
	rows = append(rows, []string{
		sectionCommon,
		"id_1", "name_1", "group_1", "path", "web_url_1", "visibility_1",
		"id_2", "name_2", "group_2", "web_url_2", "visibility_2",
	})
	for _, pair := range r.Commons {
		a, b := pair.Left, pair.Right
		rows = append(rows, []string{
			sectionCommon,
			a.ID, a.Name, a.Group, a.Path, a.WebURL, a.Visibility,
			b.ID, b.Name, b.Group, b.WebURL, b.Visibility,
		})
	}

	return cw.WriteAll(rows)
}

func writeRecordsCSV(w io.Writer, list []models.ProjectRecord) error {
	cw := csv.NewWriter(w)

	rows := [][]string{recordHeader}
	for _, p := range list {
		rows = append(rows, fields(p))
	}

	return cw.WriteAll(rows)
}

func writeCommonsCSV(w io.Writer, pairs []models.MatchedPair) error {
	cw := csv.NewWriter(w)

	header := []string{"path"}
	for _, side := range []string{"1", "2"} {
		for _, name := range recordHeader {
			header = append(header, side+"_"+name)
		}
	}

	rows := [][]string{header}
	for _, pair := range pairs {
		row := append([]string{pair.Path}, fields(pair.Left)...)
		rows = append(rows, append(row, fields(pair.Right)...))
	}

	return cw.WriteAll(rows)
}
