package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwarasiga/moviehub/internal/auth"
	"github.com/diwarasiga/moviehub/internal/video/models"
	"github.com/diwarasiga/moviehub/internal/video/repository"
	"github.com/diwarasiga/moviehub/internal/video/service"
	"github.com/diwarasiga/moviehub/internal/video/storage"
)

type fixture struct {
	mux    *http.ServeMux
	svc    *service.Service
	store  *storage.Store
	tokens *auth.TokenManager
	owner  auth.Identity
	token  string
}

func newFixture(t *testing.T, maxUpload int64) *fixture {
	t.Helper()

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	svc := service.New(repository.NewMemoryRepository(), store, maxUpload, zerolog.Nop())
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	owner := auth.Identity{ID: uuid.New(), Username: "diwarasiga", Email: "owner@moviehub.com"}
	token, err := tokens.Sign(owner)
	require.NoError(t, err)

	mux := http.NewServeMux()
	New(svc, store, tokens, zerolog.Nop()).Register(mux)

	return &fixture{mux: mux, svc: svc, store: store, tokens: tokens, owner: owner, token: token}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("video", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// seed registers a video with known content straight through the service.
func (f *fixture) seed(t *testing.T, title string, content []byte) *models.Video {
	t.Helper()
	blob, err := f.svc.SaveBlob("seed.mp4", bytes.NewReader(content))
	require.NoError(t, err)
	v, err := f.svc.Register(context.Background(), blob, service.Metadata{OriginalName: "seed.mp4", Title: title}, f.owner)
	require.NoError(t, err)
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t, 1<<20)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestUpload_RequiresToken(t *testing.T) {
	f := newFixture(t, 1<<20)

	req := uploadRequest(t, nil, "clip.mp4", []byte("data"))
	rec := f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = uploadRequest(t, nil, "clip.mp4", []byte("data"))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = f.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpload_Success(t *testing.T) {
	f := newFixture(t, 1<<20)

	content := bytes.Repeat([]byte("m"), 10*1024)
	req := uploadRequest(t, map[string]string{"title": "Test"}, "movie.mp4", content)
	req.Header.Set("Authorization", "Bearer "+f.token)

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Test", resp.Video.Title)
	assert.Equal(t, int64(len(content)), resp.Video.Size)
	assert.Equal(t, float64(0), resp.Video.Duration)
	assert.Equal(t, f.owner.ID, resp.Video.OwnerID)
	assert.Equal(t, "diwarasiga", resp.Video.OwnerName)
	assert.Equal(t, "/api/videos/"+resp.Video.Filename, resp.Video.Filepath)

	// Listed afterwards with the same title.
	listRec := f.do(httptest.NewRequest(http.MethodGet, "/api/videos", nil))
	require.Equal(t, http.StatusOK, listRec.Code)

	var listed []VideoResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Test", listed[0].Title)
}

func TestUpload_TitleAfterFilePart(t *testing.T) {
	f := newFixture(t, 1<<20)

	// Build the form with the file part first; the title must still apply.
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("video", "clip.mp4")
	require.NoError(t, err)
	_, err = fw.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("title", "Late Title"))
	require.NoError(t, mw.WriteField("duration", "42"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.token)

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Late Title", resp.Video.Title)
	assert.Equal(t, float64(42), resp.Video.Duration)
}

func TestUpload_NoFile(t *testing.T) {
	f := newFixture(t, 1<<20)

	req := uploadRequest(t, map[string]string{"title": "Empty"}, "", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)

	rec := f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no file uploaded", body["error"])
}

func TestUpload_TooLarge(t *testing.T) {
	f := newFixture(t, 128)

	req := uploadRequest(t, nil, "big.mp4", bytes.Repeat([]byte("x"), 256))
	req.Header.Set("Authorization", "Bearer "+f.token)

	rec := f.do(req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	// Nothing registered, nothing on disk.
	videos, err := f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestUpload_Concurrent(t *testing.T) {
	f := newFixture(t, 1<<20)

	const uploads = 2
	var wg sync.WaitGroup
	codes := make([]int, uploads)

	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := bytes.Repeat([]byte{byte('a' + i)}, 2048)
			req := uploadRequest(t, map[string]string{"title": fmt.Sprintf("v%d", i)}, fmt.Sprintf("v%d.mp4", i), content)
			req.Header.Set("Authorization", "Bearer "+f.token)
			codes[i] = f.do(req).Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		require.Equal(t, http.StatusOK, code)
	}

	videos, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, uploads)
	assert.NotEqual(t, videos[0].ID, videos[1].ID)
}

func TestGetByID(t *testing.T) {
	f := newFixture(t, 1<<20)
	v := f.seed(t, "Lookup", []byte("data"))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/videos/"+v.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got VideoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, "Lookup", got.Title)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/videos/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(httptest.NewRequest(http.MethodGet, "/api/videos/not-a-uuid", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, 1<<20)
	v := f.seed(t, "Doomed", []byte("data"))

	// Unauthenticated delete is rejected.
	rec := f.do(httptest.NewRequest(http.MethodDelete, "/api/videos/"+v.ID.String(), nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/videos/"+v.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Gone from the listing and the stream endpoint.
	listRec := f.do(httptest.NewRequest(http.MethodGet, "/api/videos", nil))
	var listed []VideoResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listed))
	assert.Empty(t, listed)

	streamRec := f.do(httptest.NewRequest(http.MethodGet, "/api/videos/"+v.Filename, nil))
	require.Equal(t, http.StatusNotFound, streamRec.Code)

	// Deleting again is a 404.
	req = httptest.NewRequest(http.MethodDelete, "/api/videos/"+v.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec = f.do(req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete_CookieToken(t *testing.T) {
	f := newFixture(t, 1<<20)
	v := f.seed(t, "Cookie", []byte("data"))

	req := httptest.NewRequest(http.MethodDelete, "/api/videos/"+v.ID.String(), nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: f.token})
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestVideos_MethodNotAllowed(t *testing.T) {
	f := newFixture(t, 1<<20)

	rec := f.do(httptest.NewRequest(http.MethodPost, "/api/videos", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return b
}
