package sheet

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client implements RowStore on the Google Sheets API using service-account
// credentials.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string

	speakerCol   int
	primaryCol   int
	secondaryCol int
	targetCol    int
	headerRows   int
}

// NewClient builds a Sheets-backed row store. credentialsFile is a
// service-account JSON key; column mapping errors are reported here rather
// than on first use.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID string, cols Columns) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}

	speaker, err := ColIndex(cols.Speaker)
	if err != nil {
		return nil, fmt.Errorf("speaker column: %w", err)
	}
	primary, err := ColIndex(cols.SourcePrimary)
	if err != nil {
		return nil, fmt.Errorf("source column: %w", err)
	}
	secondary, err := ColIndex(cols.SourceSecondary)
	if err != nil {
		return nil, fmt.Errorf("gloss column: %w", err)
	}
	target, err := ColIndex(cols.Target)
	if err != nil {
		return nil, fmt.Errorf("target column: %w", err)
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &AccessError{Op: "connect", Err: err}
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		speakerCol:    speaker,
		primaryCol:    primary,
		secondaryCol:  secondary,
		targetCol:     target,
		headerRows:    cols.HeaderRows,
	}, nil
}

func (c *Client) ListSheets(ctx context.Context) ([]string, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, &AccessError{Op: "list tabs", Err: err}
	}

	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

func (c *Client) ListRows(ctx context.Context, sheetName string) ([]Row, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheetName(sheetName)).Context(ctx).Do()
	if err != nil {
		return nil, &AccessError{Op: "read rows", Sheet: sheetName, Err: err}
	}
	return c.rowsFromValues(resp.Values), nil
}

// rowsFromValues maps raw sheet values onto Rows, skipping header rows.
// Indices stay 1-based sheet positions so writes land on the right cell.
func (c *Client) rowsFromValues(values [][]interface{}) []Row {
	var rows []Row
	for i, raw := range values {
		index := i + 1
		if index <= c.headerRows {
			continue
		}
		rows = append(rows, Row{
			Index:           index,
			Speaker:         cellAt(raw, c.speakerCol),
			SourcePrimary:   cellAt(raw, c.primaryCol),
			SourceSecondary: cellAt(raw, c.secondaryCol),
			Target:          cellAt(raw, c.targetCol),
		})
	}
	return rows
}

// cellAt returns the trimmed string value of the 1-based column idx, or ""
// when the row is ragged and the cell does not exist.
func cellAt(raw []interface{}, idx int) string {
	if idx-1 >= len(raw) {
		return ""
	}
	s, ok := raw[idx-1].(string)
	if !ok {
		s = fmt.Sprint(raw[idx-1])
	}
	return strings.TrimSpace(s)
}

func (c *Client) WriteTarget(ctx context.Context, sheetName string, rowIndex int, text string) error {
	rng := fmt.Sprintf("%s!%s%d", quoteSheetName(sheetName), colLetter(c.targetCol), rowIndex)
	body := &sheets.ValueRange{Values: [][]interface{}{{text}}}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return &WriteError{Row: rowIndex, Err: err}
	}
	return nil
}
