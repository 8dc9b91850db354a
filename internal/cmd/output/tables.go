package output

import (
	"strconv"

	"github.com/agentstation/textkgc/internal/pipeline"
	"github.com/agentstation/textkgc/pkg/reconcile"
)

// DatasetRow is one line of the dataset listing.
type DatasetRow struct {
	Name          string `json:"name" yaml:"name"`
	EntityLimit   int    `json:"entity_limit" yaml:"entity_limit"`
	RelationLimit int    `json:"relation_limit" yaml:"relation_limit"`
	Loader        bool   `json:"loader" yaml:"loader"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DatasetsTable converts dataset rows to a table.
func DatasetsTable(rows []DatasetRow) Data {
	data := Data{
		Headers:         []string{"Dataset", "Entity Words", "Relation Words", "Loader", "Description"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignCenter, AlignLeft},
	}
	for _, r := range rows {
		loader := "-"
		if r.Loader {
			loader = "yes"
		}
		data.Rows = append(data.Rows, []string{
			r.Name,
			strconv.Itoa(r.EntityLimit),
			strconv.Itoa(r.RelationLimit),
			loader,
			r.Description,
		})
	}
	return data
}

// ReportTable lists the counts of a validation report.
func ReportTable(r reconcile.Report) Data {
	return Data{
		Headers:         []string{"Check", "Count"},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
		Rows: [][]string{
			{"Names", strconv.Itoa(r.Names)},
			{"Descriptions", strconv.Itoa(r.Descriptions)},
			{"Empty names", strconv.Itoa(r.EmptyNames)},
			{"Empty descriptions", strconv.Itoa(r.EmptyDescriptions)},
			{"Descriptions without names", strconv.Itoa(r.MissingNames)},
			{"Names without descriptions", strconv.Itoa(r.MissingDescriptions)},
		},
	}
}

// ManifestTable summarizes a pipeline run, one row per split after the totals.
func ManifestTable(m *pipeline.Manifest) Data {
	data := Data{
		Headers:         []string{"Item", "Value"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
		Rows: [][]string{
			{"Run", m.RunID},
			{"Dataset", m.Dataset},
			{"Output", m.OutDir},
			{"Fill", m.Fill},
			{"Truncation", m.Truncation},
			{"Entities", strconv.Itoa(m.Entities)},
			{"Relations", strconv.Itoa(m.Relations)},
			{"Issues", strconv.Itoa(len(m.Issues))},
		},
	}
	for _, s := range m.Splits {
		data.Rows = append(data.Rows, []string{
			s.Split,
			strconv.Itoa(s.Rows) + " rows, " + strconv.Itoa(s.Skipped) + " skipped",
		})
	}
	return data
}
