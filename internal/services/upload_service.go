package services

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/pocketbase/pocketbase/tools/filesystem"

	"ticket-marketplace/config"
	"ticket-marketplace/internal/status"
)

type UploadKind int

const (
	UploadEventBanner UploadKind = iota
	UploadTicketBanner
	UploadLogo
	UploadTicketTemplate
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadService validates incoming files against the per-context size
// ceiling and type allow-list before handing them to the record store's
// file system.
type UploadService struct {
	cfg *config.Config
}

func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// Prepare validates a multipart upload and converts it into a storable
// file value.
func (s *UploadService) Prepare(fh *multipart.FileHeader, kind UploadKind) (*filesystem.File, error) {
	if fh == nil {
		return nil, status.Validation("file", "is required")
	}
	if fh.Size > s.maxSize(kind) {
		return nil, status.Validation("file", "exceeds the maximum allowed size")
	}
	if err := s.checkType(fh.Filename, kind); err != nil {
		return nil, err
	}

	file, err := filesystem.NewFileFromMultipart(fh)
	if err != nil {
		return nil, status.Internal(err)
	}
	return file, nil
}

func (s *UploadService) maxSize(kind UploadKind) int64 {
	switch kind {
	case UploadEventBanner:
		return s.cfg.MaxEventBannerSize
	case UploadTicketBanner:
		return s.cfg.MaxTicketBannerSize
	case UploadTicketTemplate:
		return s.cfg.MaxTicketBannerSize
	default:
		return s.cfg.MaxLogoSize
	}
}

func (s *UploadService) checkType(filename string, kind UploadKind) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if kind == UploadTicketTemplate {
		if ext != ".pdf" {
			return status.Validation("file", "must be a PDF document")
		}
		return nil
	}
	if !imageExtensions[ext] {
		return status.Validation("file", "must be a jpeg, png, gif or webp image")
	}
	return nil
}
