// internals/helpers/oss/webp.go
package helper

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"internhub_backend/internals/helpers/apperror"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func envInt(key string, def int) int {
	if v := getEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float32) float32 {
	if v := getEnv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f >= 0 {
			return float32(f)
		}
	}
	return def
}

// MaxAvatarSize is checked before decoding.
const MaxAvatarSize = int64(5 * 1024 * 1024)

/* =======================================================================
   WebP options (env driven)
======================================================================= */

type WebPOptions struct {
	MaxW      int     // resize bound, keeps aspect
	MaxH      int
	TargetKB  int     // 0 = encode once with Quality
	Quality   float32
	MinQ      float32 // quality search range when TargetKB > 0
	MaxQ      float32
	Tolerance int // KB allowed above TargetKB
}

// AvatarWebPOptions reads IMAGE_WEBP_*; avatars are square-ish so the bound is small.
func AvatarWebPOptions() WebPOptions {
	return WebPOptions{
		MaxW:      envInt("IMAGE_WEBP_MAX_W", 512),
		MaxH:      envInt("IMAGE_WEBP_MAX_H", 512),
		TargetKB:  envInt("IMAGE_WEBP_TARGET_KB", 0),
		Quality:   envFloat("IMAGE_WEBP_QUALITY", 80),
		MinQ:      envFloat("IMAGE_WEBP_MIN_Q", 45),
		MaxQ:      envFloat("IMAGE_WEBP_MAX_Q", 85),
		Tolerance: envInt("IMAGE_WEBP_TOLERANCE_KB", 8),
	}
}

/* =======================================================================
   Decode (jpeg/png/webp) by sniffing, then by extension
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, apperror.ValidationField("avatar", "file is empty")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	kind := ""
	switch {
	case strings.Contains(ct, "jpeg"):
		kind = "jpeg"
	case strings.Contains(ct, "png"):
		kind = "png"
	case strings.Contains(ct, "webp"):
		kind = "webp"
	default:
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			kind = "jpeg"
		case ".png":
			kind = "png"
		case ".webp":
			kind = "webp"
		}
	}

	var (
		img image.Image
		err error
	)
	r := bytes.NewReader(all)
	switch kind {
	case "jpeg":
		img, err = jpeg.Decode(r)
	case "png":
		img, err = png.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	default:
		return nil, apperror.ValidationField("avatar", fmt.Sprintf("unsupported image type %s", ct))
	}
	if err != nil {
		return nil, apperror.ValidationField("avatar", "image could not be decoded")
	}
	return img, nil
}

// downscale keeps the aspect ratio; CatmullRom for quality.
func downscale(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func encodeQ(img image.Image, q float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeWebP encodes once with Quality, or binary-searches quality until the
// output fits TargetKB+Tolerance.
func encodeWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	if opt.TargetKB <= 0 {
		q := opt.Quality
		if q <= 0 {
			q = 80
		}
		return encodeQ(img, q)
	}

	limit := (opt.TargetKB + opt.Tolerance) * 1024
	low, high := opt.MinQ, opt.MaxQ
	if low <= 0 {
		low = 45
	}
	if high <= 0 {
		high = 85
	}
	if low > high {
		low, high = high, low
	}

	var best []byte
	for i := 0; i < 7; i++ {
		q := (low + high) / 2
		data, err := encodeQ(img, q)
		if err != nil {
			return nil, err
		}
		if len(data) <= limit {
			best = data
			low = q // fits, try better quality
		} else {
			high = q
		}
	}
	if best != nil {
		return best, nil
	}
	return encodeQ(img, low)
}

// ConvertToWebP decodes, downsizes and re-encodes an uploaded image.
func ConvertToWebP(all []byte, filename string, opt WebPOptions) ([]byte, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	return encodeWebP(downscale(img, opt.MaxW, opt.MaxH), opt)
}
