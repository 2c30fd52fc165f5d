package catalog

import (
	"errors"
	"reflect"
	"testing"
)

func TestCatalogCursor(t *testing.T) {
	c := New("/photos", []string{"/photos/a.jpg", "/photos/b.nef", "/photos/c.png"}, 2)

	if c.Len() != 3 || c.Skipped() != 2 || c.Root() != "/photos" {
		t.Fatalf("catalog = len %d skipped %d root %q", c.Len(), c.Skipped(), c.Root())
	}

	steps := []struct {
		name string
		move func() (int, error)
		want int
	}{
		{"next", c.Next, 1},
		{"next", c.Next, 2},
		{"next wraps", c.Next, 0},
		{"prev wraps", c.Prev, 2},
		{"prev", c.Prev, 1},
	}
	for _, s := range steps {
		got, err := s.move()
		if err != nil {
			t.Fatalf("%s: error = %v", s.name, err)
		}
		if got != s.want || c.CurrentIndex() != s.want {
			t.Errorf("%s: index = %d (cursor %d), want %d", s.name, got, c.CurrentIndex(), s.want)
		}
	}

	c.SetCurrent(10)
	if c.CurrentIndex() != 2 {
		t.Errorf("SetCurrent(10) -> %d, want 2", c.CurrentIndex())
	}
	c.SetCurrent(-3)
	if c.CurrentIndex() != 0 {
		t.Errorf("SetCurrent(-3) -> %d, want 0", c.CurrentIndex())
	}

	r, err := c.Current()
	if err != nil || r.Filename != "a.jpg" {
		t.Errorf("Current() = %v, %v", r, err)
	}
}

func TestEmptyCatalog(t *testing.T) {
	c := New("/photos", nil, 0)

	if _, err := c.Next(); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Next() error = %v, want ErrEmptyCatalog", err)
	}
	if _, err := c.Prev(); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Prev() error = %v, want ErrEmptyCatalog", err)
	}
	if _, err := c.Current(); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Current() error = %v, want ErrEmptyCatalog", err)
	}
	c.SetCurrent(4)
	if c.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", c.CurrentIndex())
	}
	if len(c.Paths()) != 0 {
		t.Errorf("Paths() = %v, want empty", c.Paths())
	}
}

func TestCatalogLookupAndPaths(t *testing.T) {
	paths := []string{"/p/b.jpg", "/p/a.jpg", "/p/b.jpg", "/p/c.cr2"}
	c := New("/p", paths, 0)

	want := []string{"/p/b.jpg", "/p/a.jpg", "/p/c.cr2"}
	if got := c.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v (order kept, duplicates dropped)", got, want)
	}

	r, ok := c.Lookup("/p/c.cr2")
	if !ok || r.Filename != "c.cr2" {
		t.Errorf("Lookup(c.cr2) = %v, %v", r, ok)
	}
	if _, ok := c.Lookup("/p/zzz.jpg"); ok {
		t.Error("Lookup() found a path not in the catalog")
	}

	if _, err := c.At(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("At(3) error = %v, want ErrIndexOutOfRange", err)
	}
	if r, err := c.At(1); err != nil || r.Path != "/p/a.jpg" {
		t.Errorf("At(1) = %v, %v", r, err)
	}
}

func TestCatalogCounts(t *testing.T) {
	c := New("/p", []string{"/p/a.jpg", "/p/b.nef", "/p/c.CR2", "/p/d.png"}, 0)
	c.Records()[0].SetLiked(true)
	c.Records()[1].SetRejected(true)
	c.Records()[2].SetLiked(true)

	got := c.Counts()
	want := Counts{Total: 4, Raster: 2, Raw: 2, Liked: 2, Rejected: 1}
	if got != want {
		t.Errorf("Counts() = %+v, want %+v", got, want)
	}
}
