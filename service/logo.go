package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"

	"github.com/disintegration/imaging"
)

// maxLogoSize is the bounding box of the logo on the quote document
const maxLogoSize = 240

// PrepareLogo decodes a PNG or JPEG, fits it into a maxDim square keeping the aspect ratio
// and returns it as a PNG data URI ready for an <img> tag
func PrepareLogo(imageData []byte, maxDim int) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode logo: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		log.Printf("🔄 PrepareLogo: resizing %s %dx%d to fit %d", format, bounds.Dx(), bounds.Dy(), maxDim)
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode logo: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// LoadLogo reads and prepares the logo at path. An empty path yields no logo.
func LoadLogo(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	return PrepareLogo(data, maxLogoSize)
}
