package categorizer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
)

// ReadSamplesCSV reads "description,category" rows. A first row whose
// category column is not a known category is treated as a header.
func ReadSamplesCSV(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var samples []Sample
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read training data: %w", err)
		}
		category, ok := domain.ParseCategory(record[1])
		if !ok {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: unknown category %q", line, record[1])
		}
		samples = append(samples, Sample{
			Description: strings.TrimSpace(record[0]),
			Category:    category,
		})
	}
	return samples, nil
}
