package routes

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helperOSS "internhub_backend/internals/helpers/oss"
)

func avatarPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		img.Set(x, x, color.RGBA{200, 40, uint8(x), 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestMemoryBlobURLsAreServed(t *testing.T) {
	blobs := helperOSS.NewMemoryBlobService("http://localhost:3000" + BlobPath)
	app := fiber.New()
	BlobRoutes(app, blobs)

	url, err := blobs.UploadAvatar(context.Background(), uuid.New(), "me.png", avatarPNG(t))
	if err != nil {
		t.Fatal(err)
	}
	path := strings.TrimPrefix(url, "http://localhost:3000")
	if !strings.HasPrefix(path, BlobPath+"/") {
		t.Fatalf("avatar url %s not under %s", url, BlobPath)
	}

	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	want, _ := blobs.Object(url)
	if resp.StatusCode != fiber.StatusOK || resp.Header.Get("Content-Type") != "image/webp" || !bytes.Equal(body, want) {
		t.Fatalf("GET %s: status %d, type %q, %d bytes", path, resp.StatusCode, resp.Header.Get("Content-Type"), len(body))
	}

	resp, err = app.Test(httptest.NewRequest("GET", BlobPath+"/avatars/missing.webp", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("missing blob: status %d", resp.StatusCode)
	}
}
