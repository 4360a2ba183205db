package csvstore

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// commentPrefix marks an optional leading line that is not part of the CSV
const commentPrefix = "//"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRecords parses a headed CSV stream into raw records keyed by column name.
// A leading "//" comment line is skipped, cells are trimmed, blank lines are
// ignored, and short rows simply lack the trailing columns.
func ReadRecords(r io.Reader) ([]string, []models.RawRecord, error) {
	br := bufio.NewReader(r)

	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	if head, err := br.Peek(len(commentPrefix)); err == nil && string(head) == commentPrefix {
		if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("skipping comment line: %w", err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, []models.RawRecord{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []models.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading row: %w", err)
		}
		if blank(row) {
			continue
		}

		rec := make(models.RawRecord, len(header))
		for i, col := range header {
			if col == "" || i >= len(row) {
				continue
			}
			rec[col] = strings.TrimSpace(row[i])
		}
		records = append(records, rec)
	}

	if records == nil {
		records = []models.RawRecord{}
	}
	return header, records, nil
}

// ReadFile opens and parses a CSV file
func ReadFile(path string) ([]string, []models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return ReadRecords(f)
}

// WriteFile writes records under header to path atomically (temp file + rename)
func WriteFile(path string, header []string, records []models.RawRecord) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, col := range header {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
