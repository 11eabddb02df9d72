package audit

import (
	"context"
	"time"

	"dailybook-backend/internal/models"
	"dailybook-backend/internal/sheetstore"

	"github.com/sirupsen/logrus"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionInit   Action = "init"
)

type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	User        string    `json:"user"`
	Action      Action    `json:"action"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
}

// Logger appends audit rows to the AuditLog sheet. Audit failures are for
// the caller to log and swallow; losing a trail row must not fail the
// operation it describes.
type Logger struct {
	store sheetstore.Store
	log   *logrus.Logger
	now   func() time.Time
}

func NewLogger(store sheetstore.Store, log *logrus.Logger) *Logger {
	return &Logger{store: store, log: log, now: time.Now}
}

func (l *Logger) Write(ctx context.Context, e Entry) error {
	ts := l.now().UTC().Format(time.RFC3339)
	return l.store.AppendRows(ctx, models.SheetAuditLog, [][]interface{}{{
		ts, e.User, string(e.Action), e.Date, e.Description,
	}})
}

// List returns the trail newest first.
func (l *Logger) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.store.GetRows(ctx, models.SheetAuditLog, "A:E")
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		e := Entry{}
		if len(row) > 0 {
			if ts, err := time.Parse(time.RFC3339, row[0]); err == nil {
				e.Timestamp = ts
			}
		}
		if len(row) > 1 {
			e.User = row[1]
		}
		if len(row) > 2 {
			e.Action = Action(row[2])
		}
		if len(row) > 3 {
			e.Date = row[3]
		}
		if len(row) > 4 {
			e.Description = row[4]
		}
		entries = append(entries, e)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
