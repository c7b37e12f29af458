package handlers

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding for uploads
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/nfnt/resize"
)

// Uploader stores resized JPEG copies of uploaded images.
type Uploader struct {
	Dir       string
	URLPrefix string
	MaxWidth  uint
}

func NewUploader(dir string) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploader{Dir: dir, URLPrefix: "/uploads", MaxWidth: 1200}, nil
}

// Save stores the image sent in field and returns its public URL. It
// returns "" when no file was sent.
func (u *Uploader) Save(r *http.Request, field string) (string, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return "", models.NewValidationError(field, "must be a PNG or JPEG image")
	}

	if u.MaxWidth > 0 && uint(img.Bounds().Dx()) > u.MaxWidth {
		img = resize.Resize(u.MaxWidth, 0, img, resize.Lanczos3)
	}

	filename := uuid.NewString() + ".jpg"
	out, err := os.Create(filepath.Join(u.Dir, filename))
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	slog.Info("Image uploaded", "file", filename, "source_format", format)
	return u.URLPrefix + "/" + filename, nil
}

// imageField returns the uploaded image for field if one was sent, else
// the URL typed into the field of the same name.
func (u *Uploader) imageField(r *http.Request, field string) (string, error) {
	uploaded, err := u.Save(r, field+"_file")
	if err != nil || uploaded != "" {
		return uploaded, err
	}
	return formString(r, field), nil
}
