package asset

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/inamate/canvas-editor/backend-go/internal/document"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
	"github.com/inamate/canvas-editor/backend-go/internal/typeid"
)

const (
	maxUploadSize = 10 << 20 // 10MB

	// Uploaded images are fitted inside the page with this margin, in points.
	pageMargin = 36.0
)

// UploadResponse is returned from the upload endpoint. Element is an image element
// ready to be sent as an element.upsert.
type UploadResponse struct {
	ID      string        `json:"id"`
	URL     string        `json:"url"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Name    string        `json:"name"`
	Element scene.Element `json:"element"`
}

// Handler serves image upload and retrieval endpoints.
type Handler struct {
	dir string // directory to store asset files
}

// NewHandler creates an asset handler that stores files in dir, creating it if needed.
func NewHandler(dir string) (*Handler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", dir, err)
	}
	return &Handler{dir: dir}, nil
}

// Upload handles POST /api/assets (multipart form with a "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large (max 10MB)")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/png") && !strings.HasPrefix(contentType, "image/jpeg") {
		writeError(w, http.StatusBadRequest, "only PNG and JPEG images are supported")
		return
	}

	// Decode to get dimensions; everything is stored as PNG
	img, _, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image: "+err.Error())
		return
	}

	bounds := img.Bounds()
	assetID := typeid.NewAssetID()
	filename := assetID + ".png"
	filePath := filepath.Join(h.dir, filename)

	if err := writePNG(filePath, img); err != nil {
		slog.Error("store asset", "error", err, "asset", assetID)
		writeError(w, http.StatusInternalServerError, "failed to save file")
		return
	}

	url := "/assets/" + filename
	resp := UploadResponse{
		ID:      assetID,
		URL:     url,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Name:    header.Filename,
		Element: PlaceImage(assetID, url, bounds.Dx(), bounds.Dy()),
	}

	slog.Info("asset uploaded", "asset", assetID, "width", resp.Width, "height", resp.Height)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// PlaceImage builds an image element for a width x height pixel asset. Images larger
// than the page margins are scaled down keeping their aspect ratio, tiny ones are
// raised to the minimum element size, and the element is centered on the page.
func PlaceImage(assetID, url string, width, height int) scene.Element {
	w, h := float64(width), float64(height)
	maxW := document.PageWidth - 2*pageMargin
	maxH := document.PageHeight - 2*pageMargin
	if w > 0 && h > 0 {
		if f := math.Min(maxW/w, maxH/h); f < 1 {
			w, h = w*f, h*f
		}
	}

	data, _ := json.Marshal(map[string]string{"src": url, "assetId": assetID})
	el := scene.Normalize(scene.Element{
		ID:      typeid.NewElementID(),
		Kind:    scene.KindImage,
		Width:   w,
		Height:  h,
		Visible: true,
		Data:    data,
	})
	el = el.WithRect(scene.FloorSize(el.Rect()))
	el.X = (document.PageWidth - el.Width) / 2
	el.Y = (document.PageHeight - el.Height) / 2
	return el
}

func writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode png: %w", err)
	}
	return out.Close()
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
