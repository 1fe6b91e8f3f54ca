package intake

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for previews
	_ "image/png"  // register decoder for previews
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yildizm/PalmScan/internal/diagnosis"
)

// DefaultMaxSize is the upload size cap (10 MiB)
const DefaultMaxSize int64 = 10 * 1024 * 1024

// DefaultAllowedTypes lists the accepted media types
var DefaultAllowedTypes = []string{"image/jpeg", "image/jpg", "image/png"}

// SelectedFile is an in-memory image chosen by the user
type SelectedFile struct {
	Name      string
	Path      string
	MediaType string
	Size      int64
	Content   []byte
}

// Preview holds what the preview surface shows for a file
type Preview struct {
	Name   string
	Width  int
	Height int
	Format string
}

// Dimensions returns "WxH" or an empty string when unknown
func (p Preview) Dimensions() string {
	if p.Width == 0 || p.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// Validator checks media type and size
type Validator struct {
	AllowedTypes []string
	MaxSize      int64
}

// NewValidator creates a validator with the default constraints
func NewValidator() *Validator {
	return &Validator{
		AllowedTypes: DefaultAllowedTypes,
		MaxSize:      DefaultMaxSize,
	}
}

// Validate checks the media type first, then the size
func (v *Validator) Validate(mediaType string, size int64) error {
	if !v.allowed(mediaType) {
		return diagnosis.NewInvalidFormat(mediaType)
	}
	if size > v.maxSize() {
		return diagnosis.NewFileTooLarge(size, v.maxSize())
	}
	return nil
}

func (v *Validator) allowed(mediaType string) bool {
	types := v.AllowedTypes
	if len(types) == 0 {
		types = DefaultAllowedTypes
	}
	mediaType = normalizeMediaType(mediaType)
	for _, t := range types {
		if strings.EqualFold(t, mediaType) {
			return true
		}
	}
	return false
}

func (v *Validator) maxSize() int64 {
	if v.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return v.MaxSize
}

// Open reads and validates the image at path. Oversized files are rejected
// before their content is read.
func (v *Validator) Open(path string) (*SelectedFile, error) {
	cleanPath := filepath.Clean(strings.TrimSpace(path))
	if cleanPath == "" || cleanPath == "." {
		return nil, fmt.Errorf("empty file path")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not an image", cleanPath)
	}

	// #nosec G304 - path is chosen by the local user
	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to detect media type: %w", err)
	}

	if err := v.Validate(mtype.String(), info.Size()); err != nil {
		return nil, err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}
	content, err := io.ReadAll(io.LimitReader(file, v.maxSize()+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	// the file may have grown between stat and read
	if int64(len(content)) > v.maxSize() {
		return nil, diagnosis.NewFileTooLarge(int64(len(content)), v.maxSize())
	}

	return &SelectedFile{
		Name:      filepath.Base(cleanPath),
		Path:      cleanPath,
		MediaType: normalizeMediaType(mtype.String()),
		Size:      int64(len(content)),
		Content:   content,
	}, nil
}

// FromBytes validates content handed over directly. An empty declaredType
// is sniffed from the content.
func (v *Validator) FromBytes(name, declaredType string, content []byte) (*SelectedFile, error) {
	mediaType := declaredType
	if mediaType == "" {
		mediaType = mimetype.Detect(content).String()
	}
	if err := v.Validate(mediaType, int64(len(content))); err != nil {
		return nil, err
	}
	return &SelectedFile{
		Name:      name,
		MediaType: normalizeMediaType(mediaType),
		Size:      int64(len(content)),
		Content:   content,
	}, nil
}

// DecodePreview decodes the image header into preview information
func DecodePreview(file *SelectedFile) (Preview, error) {
	preview := Preview{Name: file.Name}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(file.Content))
	if err != nil {
		return preview, fmt.Errorf("failed to decode preview: %w", err)
	}
	preview.Width = cfg.Width
	preview.Height = cfg.Height
	preview.Format = format
	return preview, nil
}

// HumanSize formats a byte count for display
func HumanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// normalizeMediaType drops parameters such as "; charset=binary"
func normalizeMediaType(mediaType string) string {
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
