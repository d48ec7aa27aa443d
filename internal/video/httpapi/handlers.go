package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diwarasiga/moviehub/internal/auth"
	"github.com/diwarasiga/moviehub/internal/video/models"
	"github.com/diwarasiga/moviehub/internal/video/service"
	"github.com/diwarasiga/moviehub/internal/video/storage"
)

type Handler struct {
	svc    *service.Service
	store  *storage.Store
	tokens *auth.TokenManager
	logger zerolog.Logger
}

func New(svc *service.Service, store *storage.Store, tokens *auth.TokenManager, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		store:  store,
		tokens: tokens,
		logger: logger.With().Str("component", "video_api").Logger(),
	}
}

// Register mounts the video routes. Upload and delete require a bearer
// token; listing and streaming are public once a video is listed.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.Health)
	mux.HandleFunc("/api/upload", h.tokens.Require(h.Upload))
	mux.HandleFunc("/api/videos", h.Videos)
	mux.HandleFunc("/api/videos/", h.VideoDetail)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
}

func (h *Handler) Videos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	videos, err := h.svc.List(r.Context())
	if err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, toVideoResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// VideoDetail dispatches /api/videos/{x} on the last path element: a dot
// means a stored filename (stream), anything else is treated as an id.
func (h *Handler) VideoDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/videos/")
	if rest == "" || strings.Contains(rest, "/") {
		writeErrorJSON(w, http.StatusNotFound, "video not found")
		return
	}

	switch {
	case r.Method == http.MethodGet && strings.Contains(rest, "."):
		h.Stream(w, r, rest)
	case r.Method == http.MethodGet:
		h.getByID(w, r, rest)
	case r.Method == http.MethodDelete:
		h.tokens.Require(func(w http.ResponseWriter, r *http.Request) {
			h.delete(w, r, rest)
		})(w, r)
	default:
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeErrorJSON(w, http.StatusNotFound, "video not found")
		return
	}

	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrInvalidArgument):
			writeErrorJSON(w, http.StatusNotFound, "video not found")
		default:
			writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponse(v))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeErrorJSON(w, http.StatusNotFound, "video not found")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			writeErrorJSON(w, http.StatusNotFound, "video not found")
		default:
			writeErrorJSON(w, http.StatusInternalServerError, "error deleting video")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Video deleted"})
}

// Upload accepts a multipart form with a required "video" file field and
// optional "title" and "duration" text fields. The body is consumed part by
// part so the file streams straight to disk; text fields may arrive on
// either side of the file part.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeErrorJSON(w, http.StatusUnauthorized, "no token provided")
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	var (
		blob     service.Blob
		haveBlob bool
		origName string
		fields   = make(map[string]string)
	)
	discard := func() {
		if haveBlob {
			h.svc.Discard(blob)
		}
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			discard()
			writeErrorJSON(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		if part.FormName() == "video" && part.FileName() != "" {
			if haveBlob {
				// only the first file counts
				_ = part.Close()
				continue
			}
			origName = part.FileName()
			blob, err = h.svc.SaveBlob(origName, part)
			_ = part.Close()
			if err != nil {
				h.writeUploadError(w, err)
				return
			}
			haveBlob = true
			continue
		}

		fields[part.FormName()] = formValue(part)
		_ = part.Close()
	}

	if !haveBlob {
		writeErrorJSON(w, http.StatusBadRequest, "no file uploaded")
		return
	}

	duration, _ := strconv.ParseFloat(fields["duration"], 64)
	meta := service.Metadata{
		OriginalName:    origName,
		Title:           fields["title"],
		DurationSeconds: duration,
		Thumbnail:       fields["thumbnail"],
	}

	v, err := h.svc.Register(r.Context(), blob, meta, identity)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	h.logger.Info().
		Stringer("video_id", v.ID).
		Int64("size_bytes", v.SizeBytes).
		Str("owner", v.OwnerName).
		Msg("video uploaded")

	writeJSON(w, http.StatusOK, UploadResponse{Success: true, Video: toVideoResponse(v)})
}

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoFile):
		writeErrorJSON(w, http.StatusBadRequest, "no file uploaded")
	case errors.Is(err, models.ErrTooLarge):
		writeErrorJSON(w, http.StatusRequestEntityTooLarge, "file too large")
	case errors.Is(err, models.ErrInvalidArgument):
		writeErrorJSON(w, http.StatusBadRequest, "invalid argument")
	default:
		h.logger.Error().Err(err).Msg("upload failed")
		writeErrorJSON(w, http.StatusInternalServerError, "error saving video")
	}
}

// formValue reads a small text part. Field values are capped well below any
// sane title length; the cap only guards against a text field abused as a
// second payload.
func formValue(p *multipart.Part) string {
	var b strings.Builder
	_, _ = io.Copy(&b, io.LimitReader(p, 64<<10))
	return b.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
