package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	config "github.com/cuneytcagriyilmaz/postdesk/configs"
	"github.com/cuneytcagriyilmaz/postdesk/internal/models"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var mediaSubfolders = []string{"logos", "photos", "videos", "documents"}

type CustomerFolderService interface {
	EnsureFolders(ctx context.Context, customerID int64) error
	SoftDelete(ctx context.Context, customerID int64) error
	Restore(ctx context.Context, customerID int64) error
	HardDeleteFolder(ctx context.Context, customerID int64) error
	SaveMediaFile(ctx context.Context, customerID int64, category string, file []byte) (string, error)
}

type customerFolderService struct {
	cfg       config.Config
	directory CustomerDirectory

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewCustomerFolderService(cfg config.Config, directory CustomerDirectory) CustomerFolderService {
	return &customerFolderService{
		cfg:       cfg,
		directory: directory,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// lockCustomer serializes folder moves per customer so a restore cannot race a
// soft delete mid-move.
func (s *customerFolderService) lockCustomer(customerID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[customerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[customerID] = lock
	}
	return lock
}

func (s *customerFolderService) activePath(slug string) string {
	return filepath.Join(s.cfg.Media.RootPath, slug)
}

func (s *customerFolderService) quarantinePath(slug string) string {
	return filepath.Join(s.cfg.Media.RootPath, s.cfg.Media.QuarantineDir, slug)
}

func (s *customerFolderService) EnsureFolders(ctx context.Context, customerID int64) error {
	slug, err := s.customerSlug(ctx, customerID)
	if err != nil {
		return err
	}

	for _, sub := range mediaSubfolders {
		if err := os.MkdirAll(filepath.Join(s.activePath(slug), sub), 0755); err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}

// SoftDelete flips the customer's deleted flag and relocates its media folder
// into the quarantine root. If the move fails the flag is rolled back, so the
// caller sees an all-or-nothing outcome.
func (s *customerFolderService) SoftDelete(ctx context.Context, customerID int64) error {
	lock := s.lockCustomer(customerID)
	lock.Lock()
	defer lock.Unlock()

	slug, err := s.customerSlug(ctx, customerID)
	if err != nil {
		return err
	}

	if err := s.directory.SetDeleted(ctx, customerID, true); err != nil {
		return err
	}

	if err := moveFolder(s.activePath(slug), s.quarantinePath(slug)); err != nil {
		slog.Info("folder move failed, rolling back soft delete", "customer_id", customerID, "error", err.Error())
		if rbErr := s.directory.SetDeleted(ctx, customerID, false); rbErr != nil {
			slog.Error("rollback of soft delete failed", "customer_id", customerID, "error", rbErr.Error())
		}
		return fmt.Errorf("error moving folder to quarantine: %w", err)
	}

	return nil
}

func (s *customerFolderService) Restore(ctx context.Context, customerID int64) error {
	lock := s.lockCustomer(customerID)
	lock.Lock()
	defer lock.Unlock()

	slug, err := s.customerSlug(ctx, customerID)
	if err != nil {
		return err
	}

	if err := s.directory.SetDeleted(ctx, customerID, false); err != nil {
		return err
	}

	if err := moveFolder(s.quarantinePath(slug), s.activePath(slug)); err != nil {
		slog.Info("folder move failed, rolling back restore", "customer_id", customerID, "error", err.Error())
		if rbErr := s.directory.SetDeleted(ctx, customerID, true); rbErr != nil {
			slog.Error("rollback of restore failed", "customer_id", customerID, "error", rbErr.Error())
		}
		return fmt.Errorf("error moving folder out of quarantine: %w", err)
	}

	return nil
}

// HardDeleteFolder removes the folder from whichever root currently holds it,
// so a tree stuck in quarantine can still be cleaned up.
func (s *customerFolderService) HardDeleteFolder(ctx context.Context, customerID int64) error {
	lock := s.lockCustomer(customerID)
	lock.Lock()
	defer lock.Unlock()

	slug, err := s.customerSlug(ctx, customerID)
	if err != nil {
		return err
	}

	removed := false
	for _, path := range []string{s.activePath(slug), s.quarantinePath(slug)} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			slog.Info(err.Error())
			return err
		}
		removed = true
	}
	if !removed {
		return ErrFolderNotFound
	}
	return nil
}

func (s *customerFolderService) SaveMediaFile(ctx context.Context, customerID int64, category string, file []byte) (string, error) {
	valid := false
	for _, sub := range mediaSubfolders {
		if category == sub {
			valid = true
			break
		}
	}
	if !valid {
		return "", fmt.Errorf("%w: unknown media category %q", ErrValidation, category)
	}

	fileType, err := filetype.Match(file)
	if err != nil || fileType == types.Unknown {
		return "", fmt.Errorf("%w: unsupported file type", ErrValidation)
	}

	slug, err := s.customerSlug(ctx, customerID)
	if err != nil {
		return "", err
	}

	lock := s.lockCustomer(customerID)
	lock.Lock()
	defer lock.Unlock()

	suffix, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	dir := filepath.Join(s.activePath(slug), category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	// File names reuse the folder slug so upload paths and folder paths never
	// diverge.
	name := fmt.Sprintf("%s-%s.%s", slug, suffix, fileType.Extension)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, file, 0644); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return path, nil
}

func (s *customerFolderService) customerSlug(ctx context.Context, customerID int64) (string, error) {
	customer, err := s.directory.GetCustomer(ctx, customerID)
	if err != nil {
		return "", err
	}
	if customer.Status == models.CustomerStatusUnknown {
		return "", fmt.Errorf("%w: cannot derive folder name", ErrServiceUnavailable)
	}

	slug := Slugify(customer.CompanyName)
	if slug == "" {
		return "", fmt.Errorf("%w: company name %q yields empty slug", ErrValidation, customer.CompanyName)
	}
	return slug, nil
}

func moveFolder(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return ErrFolderNotFound
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

var turkishReplacer = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

// Slugify derives the filesystem-safe folder token from a company name:
// lowercase, Turkish characters transliterated, everything else non-alphanumeric
// collapsed into single hyphens.
func Slugify(name string) string {
	name = turkishReplacer.Replace(name)
	name = strings.ToLower(name)

	var b strings.Builder
	lastHyphen := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
