package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cyzmcl/Lunarian/pkg/ad"
	"github.com/cyzmcl/Lunarian/pkg/buildinfo"
	lerrors "github.com/cyzmcl/Lunarian/pkg/errors"
	"github.com/cyzmcl/Lunarian/pkg/hero"
	lio "github.com/cyzmcl/Lunarian/pkg/io"
	"github.com/cyzmcl/Lunarian/pkg/pipeline"
)

// =============================================================================
// Wire types
// =============================================================================

type healthResponse struct {
	Status  string         `json:"status"`
	Version string         `json:"version"`
	Build   buildinfo.Info `json:"build"`
}

// GenerateResponse is the /generate response body.
type GenerateResponse struct {
	Results   map[string]string `json:"results"`
	Errors    map[string]string `json:"errors,omitempty"`
	RequestID string            `json:"requestId"`
}

// HeroRequest is the /debug/hero request body.
type HeroRequest struct {
	SourceImage string      `json:"sourceImage"`
	HeroSeed    *ad.SeedBox `json:"userInputHeroBbox,omitempty"`
}

// ImageSize is a width/height pair.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// HeroResponse is the /debug/hero response body.
type HeroResponse struct {
	Image     string     `json:"image"`
	BBox      *hero.BBox `json:"bbox"`
	ImageSize ImageSize  `json:"imageSize"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: info.Version, Build: info})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req ad.Request
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Request:   req,
		RequestID: RequestID(r.Context()),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{
		Results:   res.DataURLs(),
		Errors:    res.Errors(),
		RequestID: res.RequestID,
	})
}

func (s *Server) handleDebugHero(w http.ResponseWriter, r *http.Request) {
	var req HeroRequest
	if !s.decode(w, r, &req) {
		return
	}
	src, err := lio.DecodeImage(req.SourceImage)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	box := s.runner.LocateHero(r.Context(), src, req.HeroSeed)
	url, err := lio.DataURL(hero.Visualize(src, box))
	if err != nil {
		s.fail(w, r, lerrors.Wrap(lerrors.ErrCodeRender, err, "encode debug image"))
		return
	}

	b := src.Bounds()
	writeJSON(w, http.StatusOK, HeroResponse{
		Image:     url,
		BBox:      box,
		ImageSize: ImageSize{Width: b.Dx(), Height: b.Dy()},
	})
}

// handleLocate speaks the detection-service protocol, so one deployment
// can act as the remote locator of another.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	var req hero.LocateRequest
	if !s.decode(w, r, &req) {
		return
	}
	src, err := lio.DecodeImage(req.Image)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var seed *ad.SeedBox
	if req.Seed.Usable() {
		seed = &ad.SeedBox{X: req.Seed.X1, Y: req.Seed.Y1, Width: req.Seed.Width(), Height: req.Seed.Height()}
	}
	writeJSON(w, http.StatusOK, hero.LocateResponse{BBox: s.runner.LocateHero(r.Context(), src, seed)})
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body into v and writes the error response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeError(w, http.StatusRequestEntityTooLarge, string(lerrors.ErrCodeInvalidInput),
			"request body exceeds the size limit")
		return false
	}
	s.fail(w, r, lerrors.Wrap(lerrors.ErrCodeInvalidInput, err, "invalid JSON body"))
	return false
}

// fail maps err to a status and writes the error envelope.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := lerrors.GetCode(err)
	if code == "" {
		code = lerrors.ErrCodeInternal
	}
	status := lerrors.HTTPStatus(code)

	msg := lerrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request", RequestID(r.Context()), "err", err)
		if code == lerrors.ErrCodeInternal {
			msg = "internal server error"
		}
	}
	writeError(w, status, string(code), msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}
