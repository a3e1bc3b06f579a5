package images

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Upload categories. Branding holds logos, hero/slider images, and
// leadership portraits; products holds catalog photos; profiles holds
// customer profile pictures.
const (
	CategoryBranding = "branding"
	CategoryProducts = "products"
	CategoryProfiles = "profiles"
)

// servedPrefix is the URL prefix under which stored images are exposed.
const servedPrefix = "/uploads/"

// UploadResult describes a stored image.
type UploadResult struct {
	Path     string // Served path, e.g. /uploads/products/3f2a9c.jpg
	BlurHash string // Placeholder hash, product images only
}

// Processor validates incoming image uploads and writes them to
// category storage under random filenames.
type Processor struct {
	branding *Storage
	products *Storage
	profiles *Storage
	logger   *slog.Logger
}

// NewProcessor creates a Processor rooted at the uploads directory.
func NewProcessor(basePath string, logger *slog.Logger) (*Processor, error) {
	branding, err := NewStorage(basePath, CategoryBranding)
	if err != nil {
		return nil, err
	}
	products, err := NewStorage(basePath, CategoryProducts)
	if err != nil {
		return nil, err
	}
	profiles, err := NewStorage(basePath, CategoryProfiles)
	if err != nil {
		return nil, err
	}

	return &Processor{
		branding: branding,
		products: products,
		profiles: profiles,
		logger:   logger,
	}, nil
}

// SaveBranding stores a branding image (logo, favicon, hero, slider,
// leadership portrait) and returns its served path.
func (p *Processor) SaveBranding(data []byte) (string, error) {
	filename, err := p.save(p.branding, data)
	if err != nil {
		return "", err
	}
	return servedPrefix + CategoryBranding + "/" + filename, nil
}

// SaveProfile stores a customer's profile picture and returns its
// served path.
func (p *Processor) SaveProfile(data []byte) (string, error) {
	filename, err := p.save(p.profiles, data)
	if err != nil {
		return "", err
	}
	return servedPrefix + CategoryProfiles + "/" + filename, nil
}

// SaveProduct stores a product photo and computes its BlurHash
// placeholder for listing cards.
func (p *Processor) SaveProduct(data []byte) (*UploadResult, error) {
	filename, err := p.save(p.products, data)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{
		Path: servedPrefix + CategoryProducts + "/" + filename,
	}

	// A missing placeholder degrades to a plain loading state, so
	// hash failures are logged rather than surfaced.
	hash, err := ComputeBlurHash(data)
	if err != nil {
		p.logger.Warn("failed to compute blurhash", "file", filename, "error", err)
	} else {
		result.BlurHash = hash
	}

	return result, nil
}

// Remove deletes a stored image by its served path. Unknown paths and
// already-deleted files are not errors.
func (p *Processor) Remove(servedPath string) error {
	storage, filename, err := p.resolve(servedPath)
	if err != nil {
		return nil
	}
	return storage.Delete(filename)
}

// FilePath translates a served path back to the filesystem path,
// rejecting anything outside the upload directories.
func (p *Processor) FilePath(servedPath string) (string, error) {
	storage, filename, err := p.resolve(servedPath)
	if err != nil {
		return "", err
	}
	if !storage.Exists(filename) {
		return "", fmt.Errorf("image not found: %s", servedPath)
	}
	return storage.Path(filename), nil
}

func (p *Processor) save(storage *Storage, data []byte) (string, error) {
	ext, err := sniffImageExt(data)
	if err != nil {
		return "", err
	}

	filename := uuid.NewString() + ext
	if err := storage.Save(filename, data); err != nil {
		return "", err
	}

	p.logger.Debug("stored image", "file", filename, "size", len(data))
	return filename, nil
}

func (p *Processor) resolve(servedPath string) (*Storage, string, error) {
	cleaned := path.Clean(servedPath)
	rest, ok := strings.CutPrefix(cleaned, servedPrefix)
	if !ok {
		return nil, "", fmt.Errorf("not an upload path: %s", servedPath)
	}

	category, filename, ok := strings.Cut(rest, "/")
	if !ok || strings.Contains(filename, "/") {
		return nil, "", fmt.Errorf("not an upload path: %s", servedPath)
	}

	switch category {
	case CategoryBranding:
		return p.branding, filename, nil
	case CategoryProducts:
		return p.products, filename, nil
	case CategoryProfiles:
		return p.profiles, filename, nil
	}
	return nil, "", fmt.Errorf("unknown upload category: %s", category)
}

// sniffImageExt determines the file extension from the image bytes.
// The client-supplied filename and content type are untrusted.
func sniffImageExt(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("image data cannot be empty")
	}

	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "image/gif":
		return ".gif", nil
	case "image/x-icon", "image/vnd.microsoft.icon":
		return ".ico", nil
	}
	return "", fmt.Errorf("unsupported image type")
}
