// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package roster

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/scoreazy/report-engine/internal/logging"
	"github.com/scoreazy/report-engine/pkg/types"
)

// sheetsProvider reads the roster from a Google Sheets spreadsheet.
//
// Credentials resolve in priority order: inline JSON payload, key file
// path, then ambient application-default credentials. Whichever is present
// first is used; resolution failures surface from Fetch and the loader
// falls through to the sample roster.
type sheetsProvider struct {
	cfg types.RosterConfig
	log *logging.Logger

	// newService is swapped in tests to avoid a live API client.
	newService func(ctx context.Context, opts ...option.ClientOption) (*sheets.Service, error)
}

func newSheetsProvider(cfg types.RosterConfig, log *logging.Logger) *sheetsProvider {
	return &sheetsProvider{cfg: cfg, log: log.With("provider", "sheets"), newService: sheets.NewService}
}

func (p *sheetsProvider) Name() string { return "sheets" }

func (p *sheetsProvider) Fetch(ctx context.Context) (*Table, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}

	switch {
	case p.cfg.CredentialsJSON != "":
		p.log.Info("using inline service-account credentials")
		opts = append(opts, option.WithCredentialsJSON([]byte(p.cfg.CredentialsJSON)))
	case p.cfg.CredentialsFile != "":
		// Paths pasted from Windows env files tend to keep their quotes.
		path := strings.Trim(p.cfg.CredentialsFile, `"`)
		p.log.Info("using service-account credentials file", "path", path)
		opts = append(opts, option.WithCredentialsFile(path))
	default:
		p.log.Info("using application default credentials")
	}

	svc, err := p.newService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("building sheets client: %w", err)
	}

	resp, err := svc.Spreadsheets.Values.Get(p.cfg.SpreadsheetID, p.cfg.ReadRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading spreadsheet %s: %w", p.cfg.SpreadsheetID, err)
	}
	if len(resp.Values) < 2 {
		return nil, fmt.Errorf("spreadsheet %s has no data rows", p.cfg.SpreadsheetID)
	}

	return tableFromValues(resp.Values), nil
}

// tableFromValues builds a Table from a sheets values payload. The first
// row is the header; short rows leave their trailing cells null.
func tableFromValues(values [][]interface{}) *Table {
	header := make([]string, 0, len(values[0]))
	for _, c := range values[0] {
		header = append(header, strings.TrimSpace(fmt.Sprint(c)))
	}

	t := &Table{Columns: header}
	for _, raw := range values[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i >= len(raw) {
				break
			}
			cell := strings.TrimSpace(fmt.Sprint(raw[i]))
			if cell != "" {
				row[col] = cell
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
