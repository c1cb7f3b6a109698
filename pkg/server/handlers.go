package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bridgegad/bridgegad/pkg/archive"
	"github.com/bridgegad/bridgegad/pkg/buildinfo"
	"github.com/bridgegad/bridgegad/pkg/errors"
	pkgio "github.com/bridgegad/bridgegad/pkg/io"
	"github.com/bridgegad/bridgegad/pkg/params"
	"github.com/bridgegad/bridgegad/pkg/pipeline"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxListLimit    = 100
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Current(),
	})
}

// schemaEntry is the JSON form of a parameter rule.
type schemaEntry struct {
	Key         string  `json:"key"`
	Kind        string  `json:"kind"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Default     float64 `json:"default"`
	Unit        string  `json:"unit,omitempty"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	rules := params.Schema()
	out := make([]schemaEntry, len(rules))
	for i, rule := range rules {
		out[i] = schemaEntry{
			Key:         rule.Key,
			Kind:        string(rule.Kind),
			Min:         rule.Min,
			Max:         rule.Max,
			Default:     rule.Default,
			Unit:        rule.Unit,
			Category:    string(rule.Category),
			Description: rule.Description,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"parameters": out})
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := pkgio.Template(&buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="bridge_parameters.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// =============================================================================
// Parameters
// =============================================================================

type warningBody struct {
	Parameter string `json:"parameter"`
	Message   string `json:"message"`
}

// parametersBody answers a successful validation or import.
type parametersBody struct {
	Valid      bool               `json:"valid"`
	Parameters map[string]float64 `json:"parameters"`
	Warnings   []warningBody      `json:"warnings"`
}

func newParametersBody(set *params.Set) parametersBody {
	ws := set.Warnings()
	out := parametersBody{
		Valid:      true,
		Parameters: set.Map(),
		Warnings:   make([]warningBody, len(ws)),
	}
	for i, w := range ws {
		out.Warnings[i] = warningBody{Parameter: w.Name.String(), Message: w.Message}
	}
	return out
}

func validationOptions(r *http.Request) params.Options {
	if strict, _ := strconv.ParseBool(r.URL.Query().Get("strict")); strict {
		return params.Options{Unknown: params.UnknownReport}
	}
	return params.Options{Unknown: params.UnknownIgnore}
}

// handleValidate checks a JSON object of raw parameters, flat or nested
// under "parameters".
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	raw, err := pkgio.Read(r.Body, pkgio.FormatJSON)
	if err != nil {
		writeError(w, r, err)
		return
	}
	set, err := params.Validate(raw, validationOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newParametersBody(set))
}

// handleImport reads an uploaded parameter file. The decoder is chosen
// from the file name, so TOML, YAML and JSON uploads work next to xlsx.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, `missing form field "file"`))
		return
	}
	defer file.Close()

	if err := errors.ValidateFilename(header.Filename, pkgio.Extensions()...); err != nil {
		writeError(w, r, err)
		return
	}
	format, err := pkgio.FormatFromPath(header.Filename)
	if err != nil {
		writeError(w, r, err)
		return
	}
	raw, err := pkgio.Read(file, format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	set, err := params.Validate(raw, validationOptions(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	loggerFrom(r.Context()).Info("imported parameters", "file", header.Filename, "format", format)
	writeJSON(w, http.StatusOK, newParametersBody(set))
}

// =============================================================================
// Drawings
// =============================================================================

// handleDrawing generates one drawing and returns it as an attachment.
// The body is a pipeline request: {"params": {...}, "options": {...},
// "strict": bool, "schedule": bool}; configured defaults fill the rest.
func (s *Server) handleDrawing(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}

	opts := s.defaults
	opts.Params = nil
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	opts.Formats = []string{format}
	opts.Logger = loggerFrom(r.Context())
	opts.Layout.Logger = nil
	opts.Layout.ID = ""

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", pipeline.ContentType(format))
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachmentName(res, format)))
	h.Set("X-Drawing-ID", res.Document.ID)
	h.Set("X-Cache", cacheStatus(res.CacheInfo))
	for _, warn := range res.Warnings {
		h.Add("X-Warning", warn.String())
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func cacheStatus(ci pipeline.CacheInfo) string {
	switch {
	case ci.RenderHit:
		return "hit"
	case ci.LayoutHit:
		return "partial"
	default:
		return "miss"
	}
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// attachmentName builds "<project>-<short id>.<format>".
func attachmentName(res *pipeline.Result, format string) string {
	base := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(res.Document.Meta.Project), "-"), "-")
	if base == "" {
		base = "gad"
	}
	id := res.Document.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s-%s.%s", base, id, format)
}

func (s *Server) handleListDrawings(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, r, errors.New(errors.ErrCodeUnsupported, "drawing archive is not configured"))
		return
	}
	limit := archive.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer, got %q", v))
			return
		}
		limit = min(n, maxListLimit)
	}
	recs, err := s.archive.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []archive.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"drawings": recs})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, r, errors.New(errors.ErrCodeUnsupported, "drawing archive is not configured"))
		return
	}
	rec, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
