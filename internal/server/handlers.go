package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/treeml/pkg/buildinfo"
	"github.com/matzehuels/treeml/pkg/errors"
	"github.com/matzehuels/treeml/pkg/pipeline"
)

// Response headers describing a conversion.
const (
	HeaderSentences = "X-Treeml-Sentences"
	HeaderSkipped   = "X-Treeml-Skipped"
	HeaderCache     = "X-Treeml-Cache"
)

var contentTypes = map[string]string{
	pipeline.FormatGraphML: "application/graphml+xml; charset=utf-8",
	pipeline.FormatSVG:     "image/svg+xml",
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) convert(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := parseOptions(kind, r.URL.Query())
		if err != nil {
			s.respondError(w, err)
			return
		}

		body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		var (
			out []byte
			st  pipeline.Stats
		)
		if kind == pipeline.KindDependency {
			out, st, err = s.runner.Dependency(r.Context(), body, opts)
		} else {
			out, st, err = s.runner.Constituency(r.Context(), body, opts)
		}
		if err != nil {
			s.respondError(w, err)
			return
		}

		cacheState := "miss"
		if st.CacheHit {
			cacheState = "hit"
		}
		h := w.Header()
		h.Set("Content-Type", contentTypes[opts.Format])
		h.Set(HeaderSentences, strconv.Itoa(st.Sentences))
		h.Set(HeaderSkipped, strconv.Itoa(st.Skipped))
		h.Set(HeaderCache, cacheState)
		w.WriteHeader(http.StatusOK)
		w.Write(out)
	}
}

// parseOptions maps query parameters onto pipeline options. Absent
// parameters keep the defaults.
func parseOptions(kind string, q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		Kind:   kind,
		Format: q.Get("format"),
	}
	if opts.Format == "" {
		opts.Format = pipeline.DefaultFormat
	}

	floats := map[string]**float64{
		"h_gap": &opts.HGap,
		"v_gap": &opts.VGap,
	}
	for name, dst := range floats {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errors.ConfigError("%s: %q is not a number", name, v)
			}
			*dst = pipeline.Float(f)
		}
	}

	bools := map[string]**bool{
		"tags":           &opts.Tags,
		"smooth":         &opts.Smooth,
		"indices":        &opts.Indices,
		"keep_indices":   &opts.KeepIndices,
		"level_siblings": &opts.LevelSiblings,
	}
	for name, dst := range bools {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.ConfigError("%s: %q is not a boolean", name, v)
			}
			*dst = pipeline.Bool(b)
		}
	}

	for name, dst := range map[string]*bool{
		"skip_invalid": &opts.SkipInvalid,
		"detailed":     &opts.Detailed,
		"refresh":      &opts.Refresh,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.ConfigError("%s: %q is not a boolean", name, v)
			}
			*dst = b
		}
	}

	if v := q.Get("sentence"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, errors.ConfigError("sentence: %q is not a positive integer", v)
		}
		opts.Sentence = n
	}
	return opts, nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidFormat, errors.ErrCodeUnbalancedBrackets:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
		if status == http.StatusRequestEntityTooLarge {
			code = errors.ErrCodeInvalidInput
		}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("conversion failed", "error", err)
	}
	s.respondJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
