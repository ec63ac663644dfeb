package tracker

import (
	"context"
	"time"

	"github.com/pbaille/jobtrack/internal/domain"
)

// Export is the one-way download of applications and offers. It is not a
// backup format and cannot be imported back.
type Export struct {
	Applications []domain.Application `json:"applications"`
	Offers       []domain.Offer       `json:"offers"`
	ExportDate   time.Time            `json:"exportDate"`
}

// Export snapshots applications and offers
func (t *Tracker) Export(ctx context.Context) Export {
	doc := t.Snapshot(ctx)
	return Export{
		Applications: doc.Applications,
		Offers:       doc.Offers,
		ExportDate:   t.Now(),
	}
}

// FileName is the suggested download name, e.g. job-hunt-backup-2024-06-15.json
func (e Export) FileName() string {
	return "job-hunt-backup-" + e.ExportDate.Format(domain.DateLayout) + ".json"
}
