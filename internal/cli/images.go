package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/watchfire-io/cursoragents/internal/models"
)

// encodeImages reads and base64-encodes prompt images. Dimensions are
// attached when the format is decodable (PNG, JPEG, GIF); other formats
// are sent without them.
func encodeImages(paths []string) ([]models.Image, error) {
	if len(paths) > models.MaxPromptImages {
		return nil, validationError("--image", "at most %d images are allowed (got %d)", models.MaxPromptImages, len(paths))
	}

	images := make([]models.Image, 0, len(paths))
	for _, path := range paths {
		img, err := encodeImage(path)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func encodeImage(path string) (models.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to encode image: %w", err)
	}

	img := models.Image{Data: base64.StdEncoding.EncodeToString(data)}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Dimension = &models.Dimension{Width: cfg.Width, Height: cfg.Height}
	}
	return img, nil
}
