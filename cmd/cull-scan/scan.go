package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"photo-culler/internal/catalog"
	"photo-culler/internal/export"
	"photo-culler/internal/filesystem"
	"photo-culler/internal/thumbnails"
)

type scanOptions struct {
	ChunkSize int
	WriteCSV  bool
	Verbose   bool
}

type scanReport struct {
	Root     string
	Images   int
	Raw      int
	Skipped  int
	Bytes    uint64
	Failed   []thumbnails.Result
	CSVPath  string
	Restored int
	Elapsed  time.Duration
}

type progressSink interface {
	Update(p thumbnails.Progress)
	Done(p thumbnails.Progress)
}

// scan discovers root and generates every thumbnail once.
func scan(ctx context.Context, root string, loader thumbnails.ThumbnailLoader, opts scanOptions, progress progressSink) (*scanReport, error) {
	start := time.Now()

	cat, err := catalog.Load(root)
	if err != nil {
		return nil, err
	}

	counts := cat.Counts()
	report := &scanReport{
		Root:    cat.Root(),
		Images:  counts.Total,
		Raw:     counts.Raw,
		Skipped: cat.Skipped(),
	}
	retry := filesystem.DefaultRetryConfig()
	for _, path := range cat.Paths() {
		if info, err := filesystem.StatWithRetry(path, retry); err == nil {
			report.Bytes += uint64(info.Size())
		}
	}

	if cat.Len() > 0 {
		sched := thumbnails.NewScheduler(loader, thumbnails.Options{ChunkSize: opts.ChunkSize})
		id := sched.Start(cat.Paths())

		err := thumbnails.Drive(ctx, sched, id, func(p thumbnails.Progress) error {
			progress.Update(p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan interrupted: %w", err)
		}
		progress.Done(sched.Progress())

		for _, r := range sched.Results() {
			if r.Failed {
				report.Failed = append(report.Failed, r)
			}
		}
	}

	if opts.WriteCSV {
		restored, err := export.Restore(cat)
		if err != nil {
			return nil, err
		}
		path := export.DefaultPath(cat.Root())
		if err := export.WriteCSV(path, cat); err != nil {
			return nil, err
		}
		report.CSVPath = path
		report.Restored = restored
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

func printReport(w io.Writer, r *scanReport) {
	fmt.Fprintf(w, "Scanned %s images (%s RAW, %s) in %s, skipped %s entries\n",
		humanize.Comma(int64(r.Images)),
		humanize.Comma(int64(r.Raw)),
		humanize.IBytes(r.Bytes),
		r.Elapsed.Round(time.Millisecond),
		humanize.Comma(int64(r.Skipped)))

	if len(r.Failed) == 0 {
		fmt.Fprintln(w, "All thumbnails generated")
	} else {
		fmt.Fprintf(w, "%s failed:\n", humanize.Comma(int64(len(r.Failed))))
		for _, f := range r.Failed {
			name := f.Path
			if rel, err := filepath.Rel(r.Root, f.Path); err == nil {
				name = rel
			}
			fmt.Fprintf(w, "  %s: %v\n", name, f.Err)
		}
	}

	if r.CSVPath != "" {
		fmt.Fprintf(w, "Wrote %s (%d ratings carried over)\n", r.CSVPath, r.Restored)
	}
}

func formatProgress(p thumbnails.Progress) string {
	pct := 0
	if p.Total > 0 {
		pct = p.Processed * 100 / p.Total
	}
	return fmt.Sprintf("Thumbnails %s/%s (%d%%)",
		humanize.Comma(int64(p.Processed)), humanize.Comma(int64(p.Total)), pct)
}

// progressPrinter redraws a single line on a terminal and prints
// a line per chunk otherwise, but only when verbose.
type progressPrinter struct {
	w       io.Writer
	tty     bool
	width   int
	verbose bool
}

func newProgressPrinter(w io.Writer, f *os.File, verbose bool) *progressPrinter {
	p := &progressPrinter{w: w, verbose: verbose}
	if f != nil && term.IsTerminal(int(f.Fd())) {
		p.tty = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			p.width = width
		}
	}
	return p
}

func (p *progressPrinter) Update(pr thumbnails.Progress) {
	line := formatProgress(pr)
	switch {
	case p.tty:
		if p.width > 1 && len(line) >= p.width {
			line = line[:p.width-1]
		}
		fmt.Fprintf(p.w, "\r%s\033[K", line)
	case p.verbose:
		fmt.Fprintln(p.w, line)
	}
}

func (p *progressPrinter) Done(pr thumbnails.Progress) {
	if p.tty {
		fmt.Fprintf(p.w, "\r%s\033[K\n", formatProgress(pr))
	}
}
