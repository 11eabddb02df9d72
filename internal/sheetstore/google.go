package sheetstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Config carries the service-account credentials for the spreadsheet.
type Config struct {
	SpreadsheetID string
	ClientEmail   string
	PrivateKey    string
}

// Client talks to the Google Sheets API. It is safe for concurrent use and
// meant to be constructed once and injected wherever a Store is needed.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	log           *logrus.Logger
}

var _ Store = (*Client)(nil)

func New(ctx context.Context, cfg Config, log *logrus.Logger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheetstore: missing spreadsheet id")
	}

	jwtCfg := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	httpClient := oauth2.NewClient(ctx, jwtCfg.TokenSource(ctx))
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("sheetstore: create service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, log: log}, nil
}

func (c *Client) GetRows(ctx context.Context, sheet, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet+"!"+rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", sheet, rng, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cols := make([]string, len(row))
		for i, v := range row {
			cols[i] = fmt.Sprint(v)
		}
		rows = append(rows, cols)
	}
	return rows, nil
}

func (c *Client) AppendRows(ctx context.Context, sheet string, rows [][]interface{}) error {
	vr := &sheets.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:Z", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

func (c *Client) UpdateRange(ctx context.Context, sheet, rng string, rows [][]interface{}) error {
	vr := &sheets.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, sheet+"!"+rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s!%s: %w", sheet, rng, err)
	}
	return nil
}

func (c *Client) DeleteRows(ctx context.Context, sheet string, rowIndices []int) error {
	if len(rowIndices) == 0 {
		return nil
	}

	ids, err := c.SheetIDs(ctx)
	if err != nil {
		return err
	}
	sheetID, ok := ids[sheet]
	if !ok {
		return fmt.Errorf("delete rows: no sheet named %q", sheet)
	}

	// Deleting top-down would shift every later index; issue the requests
	// highest index first instead.
	sorted := append([]int(nil), rowIndices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	reqs := make([]*sheets.Request, 0, len(sorted))
	for _, idx := range sorted {
		reqs = append(reqs, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(idx),
					EndIndex:   int64(idx + 1),
				},
			},
		})
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete rows from %s: %w", sheet, err)
	}
	return nil
}

func (c *Client) SheetIDs(ctx context.Context) (map[string]int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}

	ids := make(map[string]int64, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			ids[s.Properties.Title] = s.Properties.SheetId
		}
	}
	return ids, nil
}

func (c *Client) EnsureSheets(ctx context.Context, headers map[string][]string) error {
	existing, err := c.SheetIDs(ctx)
	if err != nil {
		return err
	}

	titles := make([]string, 0, len(headers))
	for title := range headers {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	for _, title := range titles {
		if _, ok := existing[title]; !ok {
			_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
				Requests: []*sheets.Request{{
					AddSheet: &sheets.AddSheetRequest{
						Properties: &sheets.SheetProperties{Title: title},
					},
				}},
			}).Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("add sheet %s: %w", title, err)
			}
			c.log.WithField("sheet", title).Info("created missing sheet")
		} else {
			rows, err := c.GetRows(ctx, title, "A1:A1")
			if err != nil {
				return err
			}
			if len(rows) > 0 {
				continue // header already present
			}
		}

		header := make([]interface{}, len(headers[title]))
		for i, h := range headers[title] {
			header[i] = h
		}
		if err := c.UpdateRange(ctx, title, "A1", [][]interface{}{header}); err != nil {
			return err
		}
	}
	return nil
}
