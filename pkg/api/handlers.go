package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/Carve/pkg/carve"
	"github.com/dixieflatline76/Carve/pkg/resize"
	"github.com/dixieflatline76/Carve/util/log"
	"github.com/google/uuid"
)

// Response headers of /carve.
const (
	headerJob     = "X-Carve-Job"
	headerRemoved = "X-Carve-Removed"
	headerResult  = "X-Carve-Result"
)

// Event is pushed to WebSocket clients while a carve job runs.
type Event struct {
	Type    string `json:"type"` // "progress", "done" or "error"
	Job     string `json:"job"`
	Done    int    `json:"done,omitempty"`
	Total   int    `json:"total,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Removed int    `json:"removed,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":      "running",
		"version":     s.opts.Version,
		"active_jobs": s.ActiveJobs(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleWebSocket upgrades the connection to WebSocket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	for {
		// Clients only send keepalives; the read loop detects disconnects.
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// handleCarve removes seams from an uploaded image and returns the result.
func (s *Server) handleCarve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	img, inFormat, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	req, err := parseCarveRequest(r, s.opts.Operator)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format, err := outputFormat(r.FormValue("format"), inFormat)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobID := uuid.NewString()
	s.activeJobs.Increment()
	defer s.activeJobs.Decrement()

	log.Debugf("Job %s: %v %v %v%v", jobID, req.Operator, req.Direction, req.Amount, req.Unit)
	out, err := s.resizer.Carve(r.Context(), img, req, s.progressReporter(jobID))
	if err != nil {
		s.Broadcast(Event{Type: "error", Job: jobID, Error: err.Error()})
		if errors.Is(err, context.Canceled) {
			log.Printf("Job %s cancelled by client after %d seams", jobID, out.Removed)
			return
		}
		log.Printf("Job %s failed: %v", jobID, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	result := image.Image(out.Image)
	if req.Energy {
		result, format = out.Energy, imaging.PNG
	}

	b := result.Bounds()
	s.Broadcast(Event{Type: "done", Job: jobID, Width: b.Dx(), Height: b.Dy(), Removed: out.Removed})

	w.Header().Set(headerJob, jobID)
	w.Header().Set(headerRemoved, strconv.Itoa(out.Removed))
	if s.opts.ResultsDir != "" {
		name, err := s.saveResult(jobID, result, format)
		if err != nil {
			log.Printf("Job %s: %v", jobID, err)
		} else {
			w.Header().Set(headerResult, "/results/"+name)
		}
	}
	s.writeImage(w, result, format)
}

// handleEnergy returns the energy visualization of an uploaded image.
func (s *Server) handleEnergy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	img, _, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	op := s.opts.Operator
	if name := r.FormValue("op"); name != "" {
		var err error
		if op, err = carve.ParseOperator(name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	energy, err := carve.EnergyImage(img, op)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.writeImage(w, energy, imaging.PNG)
}

// readUpload parses the multipart form and decodes its "image" file.
// On failure it writes the error response and returns false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (image.Image, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
			return nil, "", false
		}
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return nil, "", false
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	img, format, err := resize.DecodeImage(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return nil, "", false
	}
	return img, format, true
}

func parseCarveRequest(r *http.Request, defaultOp carve.Operator) (resize.Request, error) {
	req := resize.Request{Operator: defaultOp, Direction: carve.Vertical}

	if name := r.FormValue("op"); name != "" {
		op, err := carve.ParseOperator(name)
		if err != nil {
			return req, err
		}
		req.Operator = op
	}
	if name := r.FormValue("dir"); name != "" {
		dir, err := carve.ParseDirection(name)
		if err != nil {
			return req, err
		}
		req.Direction = dir
	}

	amount := r.FormValue("amount")
	if amount == "" {
		return req, fmt.Errorf("%w: amount is required", resize.ErrInvalidAmount)
	}
	n, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return req, fmt.Errorf("%w: %q", resize.ErrInvalidAmount, amount)
	}
	req.Amount = n

	if req.Unit, err = resize.ParseUnit(r.FormValue("unit")); err != nil {
		return req, err
	}
	req.Energy = isTrue(r.FormValue("energy"))

	return req, req.Validate()
}

func outputFormat(requested, input string) (imaging.Format, error) {
	if requested != "" {
		return resize.ParseFormat(requested)
	}
	if f, err := resize.ParseFormat(input); err == nil {
		return f, nil
	}
	// WebP and other decode-only inputs come back as PNG.
	return imaging.PNG, nil
}

func isTrue(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// progressReporter broadcasts at most one event per percent of progress.
func (s *Server) progressReporter(jobID string) resize.ProgressFunc {
	lastPct := -1
	return func(done, total int) {
		pct := done * 100 / total
		if pct == lastPct && done != total {
			return
		}
		lastPct = pct
		s.Broadcast(Event{Type: "progress", Job: jobID, Done: done, Total: total})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, carve.ErrInvalidDimensions), errors.Is(err, resize.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, carve.ErrUnsupportedOperator), errors.Is(err, carve.ErrUnsupportedDirection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeImage(w http.ResponseWriter, img image.Image, format imaging.Format) {
	w.Header().Set("Content-Type", resize.ContentType(format))
	if err := resize.EncodeImage(w, img, format, s.opts.Quality); err != nil {
		log.Printf("Failed to write response image: %v", err)
	}
}

func (s *Server) saveResult(jobID string, img image.Image, format imaging.Format) (string, error) {
	ext := "." + strings.ToLower(format.String())
	if format == imaging.JPEG {
		ext = ".jpg"
	}
	name := jobID + ext
	if err := resize.Save(img, filepath.Join(s.opts.ResultsDir, name), s.opts.Quality); err != nil {
		return "", err
	}
	return name, nil
}
