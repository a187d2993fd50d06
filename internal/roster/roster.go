// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package roster loads the student roster from a spreadsheet source and
// validates it into records the pipeline can process. A source that cannot
// be reached degrades to a built-in sample roster; the degrade is loud in
// the logs but never surfaces as an error.
package roster

import (
	"context"
	"strconv"
	"strings"

	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/pkg/types"
)

// Row is one roster row. A missing key is a null cell.
type Row map[string]string

// Table is a rectangular roster: a column schema plus rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// hasColumn reports whether the schema contains name.
func (t *Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// clone returns a deep copy of the table. Validate works on a copy so the
// table handed in is never mutated.
func (t *Table) clone() *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}

// dropCriticalColumns are the columns a row must have a value in to survive
// validation. LangPref is also critical to the schema but a missing value
// defaults to "en" instead of dropping the row.
var dropCriticalColumns = []string{"StudentID", "Math_C", "Science_C"}

// criticalColumns is the full set synthesized into the schema when absent.
var criticalColumns = []string{"StudentID", "Math_C", "Science_C", "LangPref"}

// varkColumns are the learning-style survey answer columns.
var varkColumns = []string{"VARK_Q1", "VARK_Q2", "VARK_Q3", "VARK_Q4"}

// Provider fetches a roster table from one source.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	Fetch(ctx context.Context) (*Table, error)
}

// Loader resolves the roster through an ordered provider chain: the first
// provider to return a table wins, and the built-in sample roster is the
// always-succeeding tail.
type Loader struct {
	log       *logging.Logger
	providers []Provider
}

// NewLoader builds the provider chain for cfg. When no spreadsheet is
// configured only the sample provider is present.
func NewLoader(cfg types.RosterConfig, log *logging.Logger) *Loader {
	var providers []Provider
	if cfg.SpreadsheetID != "" {
		providers = append(providers, newSheetsProvider(cfg, log))
	}
	providers = append(providers, sampleProvider{})
	return &Loader{log: log.With("component", "roster"), providers: providers}
}

// Load returns the first table the provider chain produces. It never fails:
// every provider error is logged and the chain falls through to the sample
// roster, so a misconfigured source runs in demo mode rather than aborting.
func (l *Loader) Load(ctx context.Context) *Table {
	for _, p := range l.providers {
		t, err := p.Fetch(ctx)
		if err != nil {
			l.log.Error("roster source unavailable, falling through", "provider", p.Name(), "error", err)
			continue
		}
		l.log.Info("roster loaded", "provider", p.Name(), "rows", len(t.Rows))
		if p.Name() == sampleProviderName {
			l.log.Warn("running against the built-in sample roster; no live data source was usable")
		}
		return t
	}
	// Unreachable: the sample provider cannot fail.
	return sampleTable()
}

// Validate cleans a roster table: missing critical columns are synthesized
// as all-null, rows missing a critical value are dropped whole, and the
// documented defaults are applied afterwards. The input table is not
// modified.
func (l *Loader) Validate(t *Table) *Table {
	out := t.clone()

	for _, col := range criticalColumns {
		if !out.hasColumn(col) {
			l.log.Warn("missing critical column, synthesizing as null", "column", col)
			out.Columns = append(out.Columns, col)
		}
	}

	kept := out.Rows[:0]
	for _, row := range out.Rows {
		if missing := missingCritical(row); missing != "" {
			l.log.Warn("dropping row missing critical value",
				"column", missing, "student_id", row["StudentID"])
			continue
		}
		applyDefaults(row)
		kept = append(kept, row)
	}
	out.Rows = kept

	for _, col := range varkColumns {
		if !out.hasColumn(col) {
			out.Columns = append(out.Columns, col)
		}
	}

	return out
}

// missingCritical returns the first critical column the row has no value
// for, or "" when the row is complete.
func missingCritical(row Row) string {
	for _, col := range dropCriticalColumns {
		if strings.TrimSpace(row[col]) == "" {
			return col
		}
	}
	return ""
}

// applyDefaults fills the optional fields of a surviving row.
func applyDefaults(row Row) {
	if strings.TrimSpace(row["AccPref"]) == "" {
		row["AccPref"] = "standard"
	}
	if _, ok := row["ContactEmail"]; !ok {
		row["ContactEmail"] = ""
	}
	if strings.TrimSpace(row["LangPref"]) == "" {
		row["LangPref"] = "en"
	}
	for _, col := range varkColumns {
		if strings.TrimSpace(row[col]) == "" {
			row[col] = "A"
		}
	}
}

// Records converts a validated table into immutable student records.
// Score cells that do not parse as numbers are treated as null.
func Records(t *Table) []types.StudentRecord {
	recs := make([]types.StudentRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := types.StudentRecord{
			ID:           row["StudentID"],
			Name:         row["StudentName"],
			ContactEmail: row["ContactEmail"],
			LangPref:     row["LangPref"],
			AccPref:      row["AccPref"],
			Scores:       map[string]float64{},
		}
		for col, cell := range row {
			if !isScoreColumn(col) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				continue
			}
			rec.Scores[col] = v
		}
		for _, col := range varkColumns {
			if v := strings.TrimSpace(row[col]); v != "" {
				rec.VARK = append(rec.VARK, v)
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

// isScoreColumn reports whether col names a Subject_Period score field.
func isScoreColumn(col string) bool {
	return strings.HasSuffix(col, "_C") ||
		strings.HasSuffix(col, "_P1") ||
		strings.HasSuffix(col, "_P2")
}
