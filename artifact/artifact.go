// Package artifact reads and writes the files exchanged between the audit
// and report stages: the JSON audit record and the Markdown report.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/use-agent/seoaudit/models"
)

// WriteRecord writes rec to path as indented JSON.
func WriteRecord(path string, rec *models.AuditRecord) error {
	if rec == nil {
		return fmt.Errorf("write record %s: nil record", path)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// ReadRecord loads a record written by WriteRecord or any producer using the
// same field names. A null broken_links list is normalised to empty.
func ReadRecord(path string) (*models.AuditRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	var rec models.AuditRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", path, err)
	}
	if rec.BrokenLinks == nil {
		rec.BrokenLinks = []string{}
	}
	return &rec, nil
}

// WriteReport writes the rendered Markdown report to path.
func WriteReport(path, report string) error {
	return writeFile(path, []byte(report))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
