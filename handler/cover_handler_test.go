package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/hdfs"
	"github.com/gin-gonic/gin"
)

type memCovers struct {
	blobs map[string][]byte
	types map[string]string
}

func newMemCovers() *memCovers {
	return &memCovers{blobs: map[string][]byte{}, types: map[string]string{}}
}

func (m *memCovers) UploadCover(coverID, contentType string, reader io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.blobs[coverID] = data
	m.types[coverID] = contentType
	return "/covers/" + coverID, nil
}

func (m *memCovers) OpenCover(coverID string) (io.ReadCloser, *hdfs.CoverInfo, error) {
	data, ok := m.blobs[coverID]
	if !ok {
		return nil, nil, hdfs.ErrCoverNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), &hdfs.CoverInfo{
		CoverID:     coverID,
		Size:        int64(len(data)),
		ModTime:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		ContentType: m.types[coverID],
	}, nil
}

func (m *memCovers) DeleteCover(coverID string) error {
	if _, ok := m.blobs[coverID]; !ok {
		return hdfs.ErrCoverNotFound
	}
	delete(m.blobs, coverID)
	return nil
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func coverRouter(store CoverStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewCoverHandler(store, "http://localhost:8080/").
		RegisterRoutes(r.Group("/api/v1"), fakeAuth(callerID, domain.RoleArtist))
	return r
}

func uploadRequest(t *testing.T, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cover.bin")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/covers", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCoverUploadAndDownload(t *testing.T) {
	store := newMemCovers()
	r := coverRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, pngBytes))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var env envelope
	decode(t, w, &env)
	var cover dto.CoverResponse
	if err := json.Unmarshal(env.Data, &cover); err != nil {
		t.Fatalf("decode cover: %v", err)
	}
	if cover.CoverURL != "http://localhost:8080/api/v1/covers/"+cover.ID {
		t.Fatalf("unexpected cover url %q", cover.CoverURL)
	}
	if !bytes.Equal(store.blobs[cover.ID], pngBytes) {
		t.Fatalf("stored bytes differ from upload, sniffed prefix lost")
	}
	if store.types[cover.ID] != "image/png" {
		t.Fatalf("expected image/png, got %s", store.types[cover.ID])
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/covers/"+cover.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), pngBytes) {
		t.Fatalf("downloaded bytes differ from upload")
	}
}

func TestCoverUploadRejectsNonImages(t *testing.T) {
	store := newMemCovers()
	w := httptest.NewRecorder()
	coverRouter(store).ServeHTTP(w, uploadRequest(t, []byte("just some plain text, not an image")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(store.blobs) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestCoverNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	coverRouter(newMemCovers()).ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/v1/covers/"+singleID, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var resp dto.ErrorResponse
	decode(t, w, &resp)
	if resp.Errors[0].Code != "COVER_NOT_FOUND" {
		t.Fatalf("unexpected code %s", resp.Errors[0].Code)
	}
}

func TestCoverDeleteRequiresAdmin(t *testing.T) {
	store := newMemCovers()
	store.blobs[singleID] = pngBytes

	w := httptest.NewRecorder()
	coverRouter(store).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/covers/"+singleID, nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for an artist, got %d", w.Code)
	}
	if _, ok := store.blobs[singleID]; !ok {
		t.Fatalf("cover must survive a forbidden delete")
	}
}
