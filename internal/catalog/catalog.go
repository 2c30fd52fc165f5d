package catalog

import (
	"errors"

	"photo-culler/internal/mediatypes"
)

// ErrEmptyCatalog is returned by cursor operations on an empty catalog.
var ErrEmptyCatalog = errors.New("catalog is empty")

// ErrIndexOutOfRange is returned when a record index does not exist.
var ErrIndexOutOfRange = errors.New("record index out of range")

// Catalog is the ordered list of records plus the viewer cursor.
type Catalog struct {
	root    string
	records []*ImageRecord
	byPath  map[string]int
	current int
	skipped int
}

// New builds a catalog over paths in the given order.
func New(root string, paths []string, skipped int) *Catalog {
	c := &Catalog{
		root:    root,
		records: make([]*ImageRecord, 0, len(paths)),
		byPath:  make(map[string]int, len(paths)),
		skipped: skipped,
	}
	for _, p := range paths {
		if _, dup := c.byPath[p]; dup {
			continue
		}
		c.byPath[p] = len(c.records)
		c.records = append(c.records, NewImageRecord(p))
	}
	return c
}

// Load discovers root and builds a catalog from the result. Relative roots
// are resolved against the working directory.
func Load(root string) (*Catalog, error) {
	root, err := absRoot(root)
	if err != nil {
		return nil, err
	}
	paths, skipped, err := Discover(root)
	if err != nil {
		return nil, err
	}
	return New(root, paths, skipped), nil
}

// Root returns the directory the catalog was loaded from.
func (c *Catalog) Root() string { return c.root }

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// Skipped returns how many entries discovery skipped.
func (c *Catalog) Skipped() int { return c.skipped }

// Records returns the records in catalog order. The slice is shared.
func (c *Catalog) Records() []*ImageRecord { return c.records }

// Paths returns the record paths in catalog order.
func (c *Catalog) Paths() []string {
	paths := make([]string, len(c.records))
	for i, r := range c.records {
		paths[i] = r.Path
	}
	return paths
}

// At returns the record at index i.
func (c *Catalog) At(i int) (*ImageRecord, error) {
	if i < 0 || i >= len(c.records) {
		return nil, ErrIndexOutOfRange
	}
	return c.records[i], nil
}

// Lookup returns the record for path.
func (c *Catalog) Lookup(path string) (*ImageRecord, bool) {
	i, ok := c.byPath[path]
	if !ok {
		return nil, false
	}
	return c.records[i], true
}

// CurrentIndex returns the cursor position, 0 for an empty catalog.
func (c *Catalog) CurrentIndex() int { return c.current }

// Current returns the record under the cursor.
func (c *Catalog) Current() (*ImageRecord, error) {
	if len(c.records) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c.records[c.current], nil
}

// SetCurrent moves the cursor to i, clamped to the catalog bounds.
func (c *Catalog) SetCurrent(i int) {
	switch {
	case len(c.records) == 0 || i < 0:
		c.current = 0
	case i >= len(c.records):
		c.current = len(c.records) - 1
	default:
		c.current = i
	}
}

// Next advances the cursor, wrapping to the first record.
func (c *Catalog) Next() (int, error) {
	return c.step(1)
}

// Prev moves the cursor back, wrapping to the last record.
func (c *Catalog) Prev() (int, error) {
	return c.step(-1)
}

func (c *Catalog) step(delta int) (int, error) {
	n := len(c.records)
	if n == 0 {
		return 0, ErrEmptyCatalog
	}
	c.current = ((c.current+delta)%n + n) % n
	return c.current, nil
}

// Counts summarises ratings and categories.
type Counts struct {
	Total    int
	Raster   int
	Raw      int
	Liked    int
	Rejected int
}

// Counts tallies the catalog.
func (c *Catalog) Counts() Counts {
	counts := Counts{Total: len(c.records)}
	for _, r := range c.records {
		if mediatypes.IsRaw(r.Path) {
			counts.Raw++
		} else {
			counts.Raster++
		}
		if r.Liked {
			counts.Liked++
		}
		if r.Rejected {
			counts.Rejected++
		}
	}
	return counts
}
