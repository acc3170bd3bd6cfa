package logo

import (
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
)

// CloudinaryConfig identifies a logo stored as a Cloudinary image asset.
// APIKey and APISecret are not needed for public delivery URLs.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	PublicID  string // e.g. "qclo5v2qhzra7sxmda05.png"
}

// IsSet reports whether enough is configured to build a delivery URL
func (c CloudinaryConfig) IsSet() bool {
	return c.CloudName != "" && c.PublicID != ""
}

// CloudinaryURL builds the secure delivery URL of the configured asset
func CloudinaryURL(cfg CloudinaryConfig) (string, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return "", fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	img, err := cld.Image(cfg.PublicID)
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary asset %q: %w", cfg.PublicID, err)
	}
	u, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary URL: %w", err)
	}
	return u, nil
}

// ResolveURL returns the Cloudinary delivery URL when one is configured,
// otherwise the plain URL.
func ResolveURL(plainURL string, cfg CloudinaryConfig) (string, error) {
	if cfg.IsSet() {
		return CloudinaryURL(cfg)
	}
	if plainURL == "" {
		return "", fmt.Errorf("no logo URL configured")
	}
	return plainURL, nil
}
