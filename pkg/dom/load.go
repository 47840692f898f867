package dom

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/curvearrow/pkg/errors"
)

// LoadPage reads a page description from a .toml or .json file.
func LoadPage(path string) (*Page, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "page file %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidPage, err, "read %s", path)
	}
	return ParsePage(data, strings.ToLower(filepath.Ext(path)))
}

// ParsePage decodes a page from data. ext selects the format: ".json" for
// JSON, anything else for TOML.
func ParsePage(data []byte, ext string) (*Page, error) {
	var p Page
	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPage, err, "decode JSON page")
		}
	default:
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPage, err, "decode TOML page")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidPage, "unknown page keys: %v", undecoded)
		}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Page) validate() error {
	seen := make(map[string]bool)
	for i, e := range p.Elements {
		if e.Width < 0 || e.Height < 0 {
			return errs.New(errs.ErrCodeInvalidPage, "element %d (%s) has negative size", i, e.ID)
		}
		if e.ID == "" {
			continue
		}
		if seen[e.ID] {
			return errs.New(errs.ErrCodeInvalidPage, "duplicate element id %q", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// FileDocument is a [Document] backed by a page file. It reloads the file
// whenever its modification time changes, so repeated queries observe edits
// made between render passes. Use [FileDocument.Snapshot] to resolve several
// queries against one version of the file.
//
// A file that is missing or fails to parse yields an empty page: selectors
// resolve to nothing until the file becomes valid again.
type FileDocument struct {
	path string
	stat func(string) (fs.FileInfo, error)

	mu      sync.Mutex
	page    *Page
	modTime time.Time
	lastErr error
}

var (
	_ Document    = (*FileDocument)(nil)
	_ Snapshotter = (*FileDocument)(nil)
)

// NewFileDocument returns a document reading path lazily.
func NewFileDocument(path string) *FileDocument {
	return &FileDocument{path: path, stat: os.Stat}
}

// Query implements [Document].
func (d *FileDocument) Query(selector string) (Element, bool) {
	return d.current().Query(selector)
}

// ScrollY implements [Document].
func (d *FileDocument) ScrollY() float64 {
	return d.current().ScrollY()
}

// Snapshot implements [Snapshotter]: it reloads the file if it changed and
// returns the resulting page. Later edits do not affect the returned page.
func (d *FileDocument) Snapshot() Document {
	return d.current()
}

// Page returns the most recently loaded page.
func (d *FileDocument) Page() *Page {
	return d.current()
}

// Err returns the error from the last reload attempt, if any.
func (d *FileDocument) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

func (d *FileDocument) current() *Page {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := d.stat(d.path)
	if err != nil {
		code := errs.ErrCodeInvalidPage
		if os.IsNotExist(err) {
			code = errs.ErrCodeFileNotFound
		}
		d.page, d.modTime, d.lastErr = &Page{}, time.Time{}, errs.Wrap(code, err, "page file %s", d.path)
		return d.page
	}
	if d.page != nil && info.ModTime().Equal(d.modTime) {
		return d.page
	}

	p, err := LoadPage(d.path)
	if err != nil {
		d.page, d.lastErr = &Page{}, err
	} else {
		d.page, d.lastErr = p, nil
	}
	d.modTime = info.ModTime()
	return d.page
}
