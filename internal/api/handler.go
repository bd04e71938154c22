// Package api exposes the path engine over HTTP. Documents are sent as
// SVG request bodies; results are SVG, PNG or JSON.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/benoitkugler/pathedit/merge"
	"github.com/benoitkugler/pathedit/simplify"
	"github.com/benoitkugler/pathedit/svgicon"
	"github.com/benoitkugler/pathedit/svgraster"
	"github.com/benoitkugler/pathedit/viewbox"
	"go.uber.org/zap"
)

// Options holds the server wide settings.
type Options struct {
	Simplify       simplify.Options // defaults for /v1/simplify
	ErrorMode      svgicon.ErrorMode
	MaxUploadBytes int64
}

type Handler struct {
	opts   Options
	logger *zap.Logger
}

func NewHandler(opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Simplify.Logger = logger
	return &Handler{opts: opts, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) writeDocument(w http.ResponseWriter, doc *svgicon.Document, compact bool) {
	var buf bytes.Buffer
	if err := doc.Encode(&buf, svgicon.WriteOptions{Compact: compact}); err != nil {
		h.logger.Error("encode document", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// readDocument parses the request body, writing the error response
// on failure.
func (h *Handler) readDocument(w http.ResponseWriter, r *http.Request) (*svgicon.Document, bool) {
	if h.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	}
	doc, err := svgicon.Read(r.Body, svgicon.ParseOptions{ErrorMode: h.opts.ErrorMode, Logger: h.logger})
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "document too large")
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return nil, false
	}
	return doc, true
}

type queryReader struct {
	r   *http.Request
	err error
}

func (q *queryReader) float(name string, def float64) float64 {
	s := q.r.URL.Query().Get(name)
	if s == "" || q.err != nil {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		q.err = fmt.Errorf("invalid %s parameter %q", name, s)
		return def
	}
	return f
}

func (q *queryReader) bool(name string) bool {
	s := q.r.URL.Query().Get(name)
	if s == "" || q.err != nil {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		q.err = fmt.Errorf("invalid %s parameter %q", name, s)
	}
	return b
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Simplify runs the simplification on every path of the document.
// The segment counts are returned in the X-Segments-Before and
// X-Segments-After headers.
func (h *Handler) Simplify(w http.ResponseWriter, r *http.Request) {
	q := queryReader{r: r}
	opts := h.opts.Simplify
	opts.TolerancePercent = q.float("tolerance", opts.TolerancePercent)
	opts.CornerAngle = q.float("corner", opts.CornerAngle)
	compact := q.bool("compact")
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error())
		return
	}
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	out, reports, err := simplify.Document(r.Context(), doc, opts)
	if err != nil {
		h.logger.Info("simplification interrupted", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "simplification interrupted")
		return
	}
	fallbacks := 0
	for _, rep := range reports {
		if rep.Fallback {
			fallbacks++
		}
	}
	w.Header().Set("X-Segments-Before", strconv.Itoa(doc.SegmentCount()))
	w.Header().Set("X-Segments-After", strconv.Itoa(out.SegmentCount()))
	w.Header().Set("X-Paths-Kept", strconv.Itoa(fallbacks))
	h.writeDocument(w, out, compact)
}

// Merge merges the paths listed by the ids parameter (comma separated),
// or every path when it is empty.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	q := queryReader{r: r}
	opts := merge.Options{
		CloseOpenPaths:    q.bool("close"),
		SimplifyTolerance: q.float("tolerance", 0),
		ID:                r.URL.Query().Get("id"),
		Logger:            h.logger,
	}
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error())
		return
	}
	if r.URL.Query().Has("fill") {
		fill := r.URL.Query().Get("fill")
		opts.Fill = &fill
	}
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	var indices []int
	if ids := r.URL.Query().Get("ids"); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			i := doc.PathByID(strings.TrimSpace(id))
			if i == -1 {
				writeError(w, http.StatusNotFound, fmt.Sprintf("unknown path %q", id))
				return
			}
			indices = append(indices, i)
		}
	} else {
		for i := range doc.Paths {
			indices = append(indices, i)
		}
	}

	out, err := merge.MergeDocument(doc, indices, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeDocument(w, out, false)
}

// Normalize scales the content into a size x size square.
func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	q := queryReader{r: r}
	size := q.float("size", 24)
	padding := q.float("padding", 0)
	dx, dy := q.float("dx", 0), q.float("dy", 0)
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error())
		return
	}
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}
	out, err := viewbox.SquareNormalize(doc, size, padding, dx, dy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeDocument(w, out, false)
}

// Fit sets the view box to the bounding box of the content.
func (h *Handler) Fit(w http.ResponseWriter, r *http.Request) {
	q := queryReader{r: r}
	padding := q.float("padding", 0)
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error())
		return
	}
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}
	h.writeDocument(w, viewbox.FitToContent(doc, padding), false)
}

type groupsResponse struct {
	Groups [][]string `json:"groups"`
}

// Groups returns the ids of the paths which could be merged together,
// by color or by proximity.
func (h *Handler) Groups(w http.ResponseWriter, r *http.Request) {
	q := queryReader{r: r}
	by := r.URL.Query().Get("by")
	var group func([]svgicon.SvgPath, float64) [][]int
	switch by {
	case "", "color":
		group = merge.GroupByColor
	case "proximity":
		group = merge.GroupByProximity
	default:
		writeError(w, http.StatusBadRequest, "invalid by parameter: must be color or proximity")
		return
	}
	threshold := q.float("threshold", 0.1)
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error())
		return
	}
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}

	resp := groupsResponse{Groups: [][]string{}}
	for _, indices := range group(doc.Paths, threshold) {
		ids := make([]string, len(indices))
		for i, index := range indices {
			ids[i] = doc.Paths[index].ID
		}
		resp.Groups = append(resp.Groups, ids)
	}
	writeJSON(w, http.StatusOK, resp)
}

const maxRenderSize = 4096

// Render rasterizes the document to PNG.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	q := queryReader{r: r}
	width, height := q.float("width", 0), q.float("height", 0)
	if q.err != nil {
		writeError(w, http.StatusBadRequest, q.err.Error())
		return
	}
	doc, ok := h.readDocument(w, r)
	if !ok {
		return
	}
	if width == 0 {
		width = doc.Width
	}
	if height == 0 {
		height = doc.Height
	}
	if !(width >= 1 && height >= 1 && width <= maxRenderSize && height <= maxRenderSize) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid image size %gx%g", width, height))
		return
	}

	img := svgraster.Rasterize(doc, int(width), int(height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		h.logger.Error("encode png", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}
