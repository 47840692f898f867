package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/curvearrow/pkg/arrow"
	"github.com/matzehuels/curvearrow/pkg/dom"
	errs "github.com/matzehuels/curvearrow/pkg/errors"
	"github.com/matzehuels/curvearrow/pkg/surface"
)

// Output formats.
const (
	formatSVG  = "svg"
	formatPNG  = "png"
	formatJSON = "json"
)

// contentTypes maps output formats to their MIME types.
var contentTypes = map[string]string{
	formatSVG:  "image/svg+xml",
	formatPNG:  "image/png",
	formatJSON: "application/json",
}

// artifact is one arrow rendered into one output format.
type artifact struct {
	Index    int
	Format   string
	Outcome  arrow.Outcome
	Geometry arrow.Geometry
	Data     []byte

	raster *surface.Raster // png only; drawn onto composites
}

// drawn reports whether the artifact has visible output.
func (a artifact) drawn() bool { return a.Outcome == arrow.Drawn }

// jsonArtifact is the document written for the json format.
type jsonArtifact struct {
	Outcome  arrow.Outcome     `json:"outcome"`
	Config   arrow.Config      `json:"config"`
	Geometry *arrow.Geometry   `json:"geometry,omitempty"`
	Surface  *surface.Recorder `json:"surface"`
}

// renderArtifact runs one render pass of cfg over doc onto a fresh surface
// of the given format. Non-drawn outcomes are not errors: the artifact
// carries the outcome and, except for json, no data.
func renderArtifact(cfg arrow.Config, doc dom.Document, format string) (artifact, error) {
	a := artifact{Format: format}
	var r arrow.Renderer

	switch format {
	case formatSVG:
		s := surface.NewSVG()
		a.Geometry, a.Outcome = r.Render(cfg, doc, s)
		a.Data = s.Bytes()

	case formatPNG:
		s := surface.NewRaster()
		a.Geometry, a.Outcome = r.Render(cfg, doc, s)
		if !a.drawn() {
			return a, nil
		}
		var buf bytes.Buffer
		if err := s.EncodePNG(&buf); err != nil {
			return a, err
		}
		a.Data, a.raster = buf.Bytes(), s

	case formatJSON:
		rec := surface.NewRecorder()
		a.Geometry, a.Outcome = r.Render(cfg, doc, rec)
		out := jsonArtifact{Outcome: a.Outcome, Config: cfg.WithDefaults(), Surface: rec}
		if a.drawn() {
			out.Geometry = &a.Geometry
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return a, errs.Wrap(errs.ErrCodeInternal, err, "encode json")
		}
		a.Data = append(data, '\n')

	default:
		return a, errs.New(errs.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
	return a, nil
}

// formatFromPath returns the output format implied by a file extension.
func formatFromPath(path string) (string, error) {
	if err := errs.ValidateOutputPath(path); err != nil {
		return "", err
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."), nil
}

// basePath strips a known format extension from output, or derives a base
// from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, ok := contentTypes[strings.TrimPrefix(strings.ToLower(ext), ".")]; ok {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// indexedPath returns output unchanged for a single arrow, and
// base_N.format for arrow N of several.
func indexedPath(output, format string, index, total int) string {
	if total <= 1 {
		return output
	}
	return fmt.Sprintf("%s_%d.%s", basePath(output, ""), index+1, format)
}
