package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"photo-culler/internal/catalog"
	"photo-culler/internal/filesystem"
	"photo-culler/internal/logging"
	"photo-culler/internal/metrics"
)

// DefaultFilename is the CSV file name inside the catalog root.
const DefaultFilename = "image_selections.csv"

// Header is the column layout of the CSV.
var Header = []string{"filename", "path", "liked", "rejected", "score"}

// ErrBadHeader is returned when a CSV does not start with Header.
var ErrBadHeader = errors.New("unexpected CSV header")

// Row is one parsed CSV line.
type Row struct {
	Filename string
	Path     string
	Liked    bool
	Rejected bool
	Score    int
}

// DefaultPath returns the CSV location for a catalog root.
func DefaultPath(root string) string {
	return filepath.Join(root, DefaultFilename)
}

// Encode writes the header and one row per record in catalog order.
func Encode(w io.Writer, records []*catalog.ImageRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Filename,
			r.Path,
			flag(r.Liked),
			flag(r.Rejected),
			strconv.Itoa(r.Score),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSV atomically writes the catalog's ratings to path.
func WriteCSV(path string, c *catalog.Catalog) (err error) {
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.CSVExportsTotal.WithLabelValues(status).Inc()
	}()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()

	if err := Encode(tmp, c.Records()); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close CSV: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move CSV into place: %w", err)
	}

	logging.Info("Saved %d ratings to %s", c.Len(), path)
	return nil
}

// Decode parses CSV rows. Rows with a malformed flag or score are skipped.
func Decode(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) < len(Header) || !strings.EqualFold(strings.TrimSpace(header[0]), Header[0]) {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, header)
	}

	var rows []Row
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, err
		}
		row, ok := parseRow(fields)
		if !ok {
			logging.Debug("Skipping malformed CSV line %d: %v", line, fields)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadCSV parses the CSV at path. A missing file yields no rows and no error.
func ReadCSV(path string) ([]Row, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Apply copies row ratings onto the catalog and returns how many records
// were updated. Rows match by exact path, then by a relative path under the
// catalog root, then by file name.
func Apply(c *catalog.Catalog, rows []Row) int {
	byName := make(map[string]*catalog.ImageRecord, c.Len())
	for _, rec := range c.Records() {
		if _, dup := byName[rec.Filename]; !dup {
			byName[rec.Filename] = rec
		}
	}

	applied := 0
	for _, row := range rows {
		rec := match(c, byName, row)
		if rec == nil {
			continue
		}
		rec.SetLiked(row.Liked)
		rec.SetRejected(row.Rejected)
		if err := rec.SetScore(row.Score); err != nil {
			rec.Score = catalog.DefaultScore
		}
		applied++
	}
	return applied
}

// Restore reads the catalog's default CSV and applies it.
func Restore(c *catalog.Catalog) (int, error) {
	rows, err := ReadCSV(DefaultPath(c.Root()))
	if err != nil {
		return 0, err
	}
	return Apply(c, rows), nil
}

func match(c *catalog.Catalog, byName map[string]*catalog.ImageRecord, row Row) *catalog.ImageRecord {
	if row.Path != "" {
		if rec, ok := c.Lookup(row.Path); ok {
			return rec
		}
		if !filepath.IsAbs(row.Path) {
			if rec, ok := c.Lookup(filepath.Join(c.Root(), row.Path)); ok {
				return rec
			}
		}
	}

	name := row.Filename
	if row.Path != "" {
		name = filepath.Base(row.Path)
	}
	return byName[name]
}

func parseRow(fields []string) (Row, bool) {
	if len(fields) < len(Header) {
		return Row{}, false
	}
	liked, ok := parseFlag(fields[2])
	if !ok {
		return Row{}, false
	}
	rejected, ok := parseFlag(fields[3])
	if !ok {
		return Row{}, false
	}
	score, err := strconv.Atoi(strings.TrimSpace(fields[4]))
	if err != nil {
		return Row{}, false
	}
	return Row{
		Filename: strings.TrimSpace(fields[0]),
		Path:     strings.TrimSpace(fields[1]),
		Liked:    liked,
		Rejected: rejected,
		Score:    score,
	}, true
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseFlag(s string) (bool, bool) {
	switch strings.TrimSpace(s) {
	case "1":
		return true, true
	case "0", "":
		return false, true
	default:
		return false, false
	}
}
