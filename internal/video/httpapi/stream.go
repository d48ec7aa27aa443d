package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/diwarasiga/moviehub/internal/video/models"
)

const streamBufSize = 64 * 1024

// Stream serves a stored file honoring single-range requests. The endpoint
// is deliberately unauthenticated: videos are public once listed. The file
// size comes from a stat at request time, not the registry, so externally
// changed files still stream correctly. Each request is independent; seeking
// is just a new request with a different start offset.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request, filename string) {
	// The registry and the filesystem may disagree when files are deleted
	// externally; both must agree for a stream to start.
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	id, err := uuid.Parse(base)
	if err != nil {
		writeErrorJSON(w, http.StatusNotFound, "video not found")
		return
	}
	if _, err := h.svc.Get(r.Context(), id); err != nil {
		writeErrorJSON(w, http.StatusNotFound, "video not found")
		return
	}

	f, err := h.store.Open(filename)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidArgument) {
			writeErrorJSON(w, http.StatusNotFound, "video not found")
		} else {
			writeErrorJSON(w, http.StatusInternalServerError, "error streaming video")
		}
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "error streaming video")
		return
	}
	size := fi.Size()

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", "video/mp4")

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		// A dropped client surfaces as a write error and stops the copy;
		// after headers are sent there is no JSON error to return.
		buf := make([]byte, streamBufSize)
		_, _ = io.CopyBuffer(w, f, buf)
		return
	}

	start, end, err := parseRange(rangeHeader, size)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		writeErrorJSON(w, http.StatusRequestedRangeNotSatisfiable, "range not satisfiable")
		return
	}

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "error streaming video")
		return
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Content-Length", strconv.FormatInt(end-start+1, 10))
	w.WriteHeader(http.StatusPartialContent)

	buf := make([]byte, streamBufSize)
	_, _ = io.CopyBuffer(w, &io.LimitedReader{R: f, N: end - start + 1}, buf)
}

// parseRange parses a single "bytes=start-end" range against size. end is
// optional and defaults to the last byte. Multi-range and suffix-only
// requests are rejected; the invariant on success is 0 <= start <= end < size.
func parseRange(header string, size int64) (start, end int64, err error) {
	rangeSpec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("%w: unsupported unit", models.ErrUnsatisfiableRange)
	}
	if strings.Contains(rangeSpec, ",") {
		return 0, 0, fmt.Errorf("%w: multiple ranges not supported", models.ErrUnsatisfiableRange)
	}

	startStr, endStr, ok := strings.Cut(rangeSpec, "-")
	if !ok || startStr == "" {
		return 0, 0, fmt.Errorf("%w: malformed range %q", models.ErrUnsatisfiableRange, header)
	}

	start, err = strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return 0, 0, fmt.Errorf("%w: malformed range %q", models.ErrUnsatisfiableRange, header)
	}

	if endStr == "" {
		end = size - 1
	} else {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: malformed range %q", models.ErrUnsatisfiableRange, header)
		}
	}

	if start > end || end >= size {
		return 0, 0, fmt.Errorf("%w: %d-%d outside 0-%d", models.ErrUnsatisfiableRange, start, end, size-1)
	}
	return start, end, nil
}
