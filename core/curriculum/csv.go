package curriculum

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/schooldash/core"
)

// CSV headers of the chapter/topic upload file; topics are joined with TopicSeparator.
const (
	HeaderChapterName = "chapter_name"
	HeaderDescription = "description"
	HeaderTopics      = "topics"

	TopicSeparator = ";"
)

var ErrMissingColumn = errors.New("missing CSV column")

// ReadChaptersCSV decodes the upload file; chapter_name is required, description and topics are optional columns.
func ReadChaptersCSV(r io.Reader) ([]ChapterRow, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrMissingColumn, HeaderChapterName)
		}
		return nil, errors.Wrap(err, "reading CSV header")
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[core.CleanString(strings.TrimPrefix(h, "\ufeff"), true /* lower */)] = i
	}
	if _, ok := idx[HeaderChapterName]; !ok {
		return nil, errors.Wrap(ErrMissingColumn, HeaderChapterName)
	}

	var rows []ChapterRow
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading CSV row")
		}
		cell := func(h string) string {
			i, ok := idx[h]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		rows = append(rows, ChapterRow{
			Name:        cell(HeaderChapterName),
			Description: cell(HeaderDescription),
			Topics:      core.SplitList(cell(HeaderTopics), TopicSeparator),
		})
	}
	return rows, nil
}
