package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dixieflatline76/Carve/pkg/resize"
)

// ResultImage describes a saved carve result.
type ResultImage struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// resolveResultPath joins filename to the results directory and enforces that
// the resulting absolute path stays inside it.
func (s *Server) resolveResultPath(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("invalid filename")
	}

	absRoot, err := filepath.Abs(s.opts.ResultsDir)
	if err != nil {
		return "", fmt.Errorf("invalid results directory: %w", err)
	}
	absRoot = filepath.Clean(absRoot)

	absFull := filepath.Clean(filepath.Join(absRoot, filename))
	if !strings.HasPrefix(absFull, absRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("path traversal detected")
	}
	return absFull, nil
}

// handleResultsListing lists saved results sorted by file name.
// Query: ?page=1&per_page=24
func (s *Server) handleResultsListing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, perPage := 1, 24
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if pp, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && pp > 0 {
		perPage = pp
	}

	entries, err := os.ReadDir(s.opts.ResultsDir)
	if err != nil && !os.IsNotExist(err) {
		http.Error(w, "Failed to read results", http.StatusInternalServerError)
		return
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if resize.IsWritable(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	start := min((page-1)*perPage, len(names))
	end := min(start+perPage, len(names))

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	result := []ResultImage{}
	for _, name := range names[start:end] {
		var size int64
		if info, err := os.Stat(filepath.Join(s.opts.ResultsDir, name)); err == nil {
			size = info.Size()
		}
		result = append(result, ResultImage{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			URL:  fmt.Sprintf("%s://%s/results/%s", scheme, r.Host, name),
			Size: size,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// handleResultAsset serves one saved result: /results/{filename}
func (s *Server) handleResultAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/results/")
	if filename == "" {
		s.handleResultsListing(w, r)
		return
	}

	path, err := s.resolveResultPath(filename)
	if err != nil {
		http.Error(w, "Invalid result path", http.StatusBadRequest)
		return
	}
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "Result not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}
