package dom

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/matzehuels/curvearrow/pkg/errors"
)

const tomlPage = `
scroll_y = 120

[[element]]
id = "start"
tag = "div"
class = ["box"]
left = 40
top = 60
width = 120
height = 48

[[element]]
id = "end"
left = 500
top = 260
width = 80
height = 80
`

const jsonPage = `{
  "scroll_y": 10,
  "elements": [
    {"id": "a", "class": ["x"], "left": 1, "top": 2, "width": 3, "height": 4}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadPageTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.toml", tomlPage)

	p, err := LoadPage(path)
	if err != nil {
		t.Fatalf("LoadPage() error = %v", err)
	}
	if p.ScrollY() != 120 {
		t.Errorf("ScrollY() = %g, want 120", p.ScrollY())
	}
	if len(p.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(p.Elements))
	}
	e, ok := p.Query(".box")
	if !ok || e.ID != "start" || e.Width != 120 {
		t.Errorf("Query(.box) = %+v, %v", e, ok)
	}
}

func TestLoadPageJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.json", jsonPage)

	p, err := LoadPage(path)
	if err != nil {
		t.Fatalf("LoadPage() error = %v", err)
	}
	if _, ok := p.Query("#a.x"); !ok {
		t.Error("Query(#a.x) should match")
	}
}

func TestLoadPageErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		wantCode errs.Code
	}{
		{"missing file", filepath.Join(dir, "nope.toml"), errs.ErrCodeFileNotFound},
		{"bad toml", writeFile(t, dir, "bad.toml", "[[element]\nid="), errs.ErrCodeInvalidPage},
		{"unknown key", writeFile(t, dir, "unknown.toml", "zoom = 2\n"), errs.ErrCodeInvalidPage},
		{"duplicate id", writeFile(t, dir, "dup.toml", "[[element]]\nid=\"a\"\n[[element]]\nid=\"a\"\n"), errs.ErrCodeInvalidPage},
		{"negative size", writeFile(t, dir, "neg.json", `{"elements":[{"id":"a","width":-1}]}`), errs.ErrCodeInvalidPage},
		{"empty path", "", errs.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPage(tt.path)
			if !errs.Is(err, tt.wantCode) {
				t.Errorf("LoadPage() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestFileDocumentReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.toml")

	doc := NewFileDocument(path)
	if _, ok := doc.Query("#start"); ok {
		t.Fatal("Query on a missing file should match nothing")
	}
	if !errs.Is(doc.Err(), errs.ErrCodeFileNotFound) {
		t.Errorf("Err() = %v, want FILE_NOT_FOUND for the missing file", doc.Err())
	}

	writeFile(t, dir, "page.toml", "[[element]]\nid = \"start\"\nleft = 1\n")
	e, ok := doc.Query("#start")
	if !ok || e.Left != 1 {
		t.Fatalf("Query after create = %+v, %v", e, ok)
	}

	writeFile(t, dir, "page.toml", "[[element]]\nid = \"start\"\nleft = 99\n")
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	e, ok = doc.Query("#start")
	if !ok || e.Left != 99 {
		t.Errorf("Query after edit = %+v, %v, want left 99", e, ok)
	}
	if doc.Err() != nil {
		t.Errorf("Err() = %v, want nil", doc.Err())
	}
}

func TestFileDocumentSnapshotIsFrozen(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.toml", "scroll_y = 0\n[[element]]\nid = \"a\"\ntop = 1000\n")
	doc := NewFileDocument(path)

	snap := doc.Snapshot()
	first, ok := snap.Query("#a")
	if !ok {
		t.Fatal("snapshot lost #a")
	}

	// Same document-space position, expressed with a different scroll.
	writeFile(t, dir, "page.toml", "scroll_y = 1000\n[[element]]\nid = \"a\"\ntop = 0\n")
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if e, _ := snap.Query("#a"); e.Top != first.Top || snap.ScrollY() != 0 {
		t.Errorf("snapshot changed after edit: top=%g scroll=%g", e.Top, snap.ScrollY())
	}
	if e, _ := doc.Query("#a"); e.Top != 0 || doc.ScrollY() != 1000 {
		t.Errorf("live document did not reload: top=%g scroll=%g", e.Top, doc.ScrollY())
	}
	if s := doc.Snapshot(); s.ScrollY() != 1000 {
		t.Errorf("new snapshot scroll = %g, want 1000", s.ScrollY())
	}
}

func TestSnapshotPassThrough(t *testing.T) {
	p := &Page{Scroll: 3}
	if Snapshot(p) != Document(p) {
		t.Error("Snapshot(*Page) should return the page itself")
	}
	var plain Document = plainDoc{}
	if Snapshot(plain) != plain {
		t.Error("Snapshot should return documents without Snapshot unchanged")
	}
}

type plainDoc struct{}

func (plainDoc) Query(string) (Element, bool) { return Element{}, false }
func (plainDoc) ScrollY() float64              { return 0 }

func TestFileDocumentInvalidContentIsEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.toml", "not = [valid")
	doc := NewFileDocument(path)

	if _, ok := doc.Query("*"); ok {
		t.Error("invalid page should resolve nothing")
	}
	if !errs.Is(doc.Err(), errs.ErrCodeInvalidPage) {
		t.Errorf("Err() = %v, want INVALID_PAGE", doc.Err())
	}
}
