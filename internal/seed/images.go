package seed

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// ImageStore fetches random product photos and keeps them, with resized copies, in one folder.
type ImageStore struct {
	client     *http.Client
	sourceURL  string
	folder     string
	mediumSize int
	smallSize  int
}

func NewImageStore(sourceURL, folder string, mediumSize, smallSize int) *ImageStore {
	return &ImageStore{
		client:     &http.Client{Timeout: 30 * time.Second},
		sourceURL:  sourceURL,
		folder:     folder,
		mediumSize: mediumSize,
		smallSize:  smallSize,
	}
}

// ProductImages are file names relative to the image folder.
type ProductImages struct {
	Large  string
	Medium string
	Small  string
}

// Fetch resolves a random image, downloads it and writes the medium and small copies.
func (s *ImageStore) Fetch(ctx context.Context) (ProductImages, error) {
	location, err := s.resolve(ctx)
	if err != nil {
		return ProductImages{}, err
	}
	large, err := s.download(ctx, location)
	if err != nil {
		return ProductImages{}, err
	}
	medium, err := s.resize(large, s.mediumSize)
	if err != nil {
		return ProductImages{}, err
	}
	small, err := s.resize(large, s.smallSize)
	if err != nil {
		return ProductImages{}, err
	}
	return ProductImages{Large: large, Medium: medium, Small: small}, nil
}

// resolve returns the redirect target of the source URL, or the source itself when it does not redirect.
func (s *ImageStore) resolve(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}

	client := *s.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve image url: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	location := strings.TrimSpace(resp.Header.Get("Location"))
	if location == "" {
		return s.sourceURL, nil
	}
	u, err := req.URL.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse image location: %w", err)
	}
	return u.String(), nil
}

func (s *ImageStore) download(ctx context.Context, location string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("download image: unexpected status %d from %s", resp.StatusCode, location)
	}

	if err := os.MkdirAll(s.folder, 0o755); err != nil {
		return "", fmt.Errorf("create image folder: %w", err)
	}
	for {
		name := fmt.Sprintf("%s_%d.jpg", uuid.NewString()[:12], time.Now().Unix())
		f, err := os.OpenFile(filepath.Join(s.folder, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create image file: %w", err)
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			return "", fmt.Errorf("write image file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close image file: %w", err)
		}
		return name, nil
	}
}

// resize writes a copy of name scaled to fit within size x size as <base>_<size>.jpg.
func (s *ImageStore) resize(name string, size int) (string, error) {
	in, err := os.Open(filepath.Join(s.folder, name))
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer in.Close()

	src, _, err := image.Decode(in)
	if err != nil {
		return "", fmt.Errorf("decode image %s: %w", name, err)
	}

	dst := image.NewRGBA(fitWithin(src.Bounds(), size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := strings.TrimSuffix(name, filepath.Ext(name)) + "_" + strconv.Itoa(size) + ".jpg"
	f, err := os.Create(filepath.Join(s.folder, out))
	if err != nil {
		return "", fmt.Errorf("create resized image: %w", err)
	}
	if err := jpeg.Encode(f, dst, &jpeg.Options{Quality: 85}); err != nil {
		f.Close()
		return "", fmt.Errorf("encode resized image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close resized image: %w", err)
	}
	return out, nil
}

// fitWithin keeps the aspect ratio; the longer side becomes size.
func fitWithin(b image.Rectangle, size int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w >= h {
		return image.Rect(0, 0, size, max(1, h*size/w))
	}
	return image.Rect(0, 0, max(1, w*size/h), size)
}

// Purge removes everything inside folder and leaves the folder itself in place.
func Purge(folder string) (int, error) {
	entries, err := os.ReadDir(folder)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read image folder: %w", err)
	}
	for i, e := range entries {
		if err := os.RemoveAll(filepath.Join(folder, e.Name())); err != nil {
			return i, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return len(entries), nil
}
