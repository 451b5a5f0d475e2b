package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docscout"
)

// Files written next to the per-host page directories.
const (
	ContextFile = "context.md"
	IndexFile   = "index.md"
)

// IndexOutlineDepth is the deepest heading level listed in the index.
const IndexOutlineDepth = 2

// Exporter writes a report to baseDir/name with atomic update semantics.
// Files are written to baseDir/name.tmp and moved into place once every
// page has been written.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates a new Exporter.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		name:    name,
	}
}

// Dir returns the final output directory.
func (e *Exporter) Dir() string {
	return filepath.Join(e.baseDir, e.name)
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

// Export writes one file per successful result under a directory named
// after its host, the combined documentation context, and an index
// linking every page with its outline. A previous export to the same
// directory is replaced.
func (e *Exporter) Export(ctx context.Context, report *docscout.Report) (err error) {
	if report == nil {
		return docscout.Errorf(docscout.EINVALID, "report required")
	}
	if err := os.RemoveAll(e.tempDir()); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = e.abort()
		}
	}()

	var index strings.Builder
	index.WriteString("# Documentation\n\n")
	if report.Message != "" {
		index.WriteString(report.Message + "\n\n")
	}
	for _, res := range report.Successful() {
		if err := ctx.Err(); err != nil {
			return err
		}
		relPath, err := e.save(res.Page, report)
		if err != nil {
			return err
		}
		writeIndexEntry(&index, res.Page, relPath)
	}

	if err := e.write(IndexFile, index.String()); err != nil {
		return err
	}
	if err := e.write(ContextFile, report.DocumentationContext); err != nil {
		return err
	}
	return e.commit()
}

func (e *Exporter) save(page *docscout.Page, report *docscout.Report) (string, error) {
	relPath, err := URLToPath(page.URL)
	if err != nil {
		return "", err
	}
	relPath = filepath.Join(page.Host(), relPath)
	return relPath, e.write(relPath, FormatPage(page, report.CreatedAt))
}

func writeIndexEntry(b *strings.Builder, page *docscout.Page, relPath string) {
	link := filepath.ToSlash(relPath)
	fmt.Fprintf(b, "- [%s](%s) (%s, %d words)\n", page.Title, link, page.AcquiredVia, page.WordCount)
	for _, h := range docscout.ExtractOutline(page.Content, IndexOutlineDepth) {
		fmt.Fprintf(b, "%s- [%s](%s#%s)\n", strings.Repeat("  ", h.Level), h.Title, link, h.Anchor)
	}
}

func (e *Exporter) write(relPath, content string) error {
	root := e.tempDir()
	fullPath := filepath.Join(root, relPath)
	if rel, err := filepath.Rel(root, fullPath); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return docscout.Errorf(docscout.EINVALID, "path traversal in %q", relPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

func (e *Exporter) commit() error {
	if err := os.RemoveAll(e.Dir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.Dir())
}

func (e *Exporter) abort() error {
	return os.RemoveAll(e.tempDir())
}
