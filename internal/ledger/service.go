package ledger

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/expense-tracker/internal/scanning"
)

// IDGenerator generates unique IDs for transactions
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now().UTC()
}

// Service handles transaction operations
type Service struct {
	db          DB
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUID IDs and the system clock
func NewService(db DB, storage Storage) *Service {
	return NewServiceWithDeps(db, storage, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename strips special characters and truncates phone-generated names
func sanitizeFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(repeatedSpaces.ReplaceAllString(base, " "))
	base = strings.ReplaceAll(base, " ", "_")

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + unsafeFilenameChars.ReplaceAllString(ext, "")
}

func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD or RFC 3339", ErrInvalidTransaction, s)
	}
	return d.UTC(), nil
}

// validate checks input and fills in defaults
func validate(in Input) (Input, error) {
	if in.Type != TypeIncome && in.Type != TypeExpense {
		return in, fmt.Errorf("%w: type must be %q or %q", ErrInvalidTransaction, TypeIncome, TypeExpense)
	}
	if !in.Amount.IsPositive() {
		return in, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidTransaction)
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return in, fmt.Errorf("%w: description is required", ErrInvalidTransaction)
	}
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = DefaultCategory
	}
	if !validCategory(in.Type, in.Category) {
		return in, fmt.Errorf("%w: unknown %s category %q", ErrInvalidTransaction, in.Type, in.Category)
	}
	return in, nil
}

// CreateTransaction validates and records a transaction for userID, storing the
// receipt image when one is attached.
func (s *Service) CreateTransaction(userID string, in Input) (*Transaction, error) {
	in, err := validate(in)
	if err != nil {
		return nil, err
	}

	now := s.timeSource.Now()
	date, err := parseDate(in.Date, now)
	if err != nil {
		return nil, err
	}

	t := &Transaction{
		ID:          s.idGenerator.Generate(),
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount.Round(2),
		Description: in.Description,
		Category:    in.Category,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if in.ReceiptImage != "" {
		img, err := scanning.DecodeImage(in.ReceiptImage)
		if err != nil {
			return nil, fmt.Errorf("%w: receipt image: %w", ErrInvalidTransaction, err)
		}
		name := in.ReceiptFilename
		if name == "" {
			name = "receipt" + scanning.Extension(img.ContentType)
		}
		saved, err := s.storage.Save(fmt.Sprintf("%s_%s", t.ID, sanitizeFilename(name)), img.Data)
		if err != nil {
			return nil, fmt.Errorf("saving receipt file: %w", err)
		}
		t.ReceiptFile = saved
		t.ReceiptContentType = img.ContentType
	}

	if err := s.db.SaveTransaction(t); err != nil {
		if t.ReceiptFile != "" {
			if delErr := s.storage.Delete(t.ReceiptFile); delErr != nil {
				slog.Warn("Failed to clean up receipt file", "filename", t.ReceiptFile, "error", delErr)
			}
		}
		return nil, fmt.Errorf("saving transaction to database: %w", err)
	}

	slog.Info("Transaction recorded",
		"user", userID,
		"id", t.ID,
		"type", t.Type,
		"amount", t.Amount.StringFixed(2),
	)
	return t, nil
}

// GetTransaction retrieves one of the user's transactions
func (s *Service) GetTransaction(userID, id string) (*Transaction, error) {
	t, err := s.db.GetTransaction(userID, id)
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns the user's transactions, newest first
func (s *Service) ListTransactions(userID string) ([]*Transaction, error) {
	transactions, err := s.db.ListTransactions(userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return transactions, nil
}

// DeleteTransaction removes a transaction and its receipt file
func (s *Service) DeleteTransaction(userID, id string) error {
	t, err := s.db.GetTransaction(userID, id)
	if err != nil {
		return fmt.Errorf("getting transaction for deletion: %w", err)
	}

	if t.ReceiptFile != "" {
		if err := s.storage.Delete(t.ReceiptFile); err != nil {
			// Log error but continue with database deletion
			slog.Warn("Failed to delete receipt file", "filename", t.ReceiptFile, "error", err)
		}
	}

	if err := s.db.DeleteTransaction(userID, id); err != nil {
		return fmt.Errorf("deleting transaction from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the receipt image attached to a transaction
func (s *Service) GetReceiptFile(userID, id string) ([]byte, string, error) {
	t, err := s.db.GetTransaction(userID, id)
	if err != nil {
		return nil, "", fmt.Errorf("getting transaction: %w", err)
	}
	if t.ReceiptFile == "" {
		return nil, "", fmt.Errorf("%w: no receipt attached to %s", ErrNotFound, id)
	}

	data, err := s.storage.Get(t.ReceiptFile)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}
	return data, t.ReceiptContentType, nil
}

// Summarize totals the user's transactions
func (s *Service) Summarize(userID string) (*Summary, error) {
	transactions, err := s.db.ListTransactions(userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	summary := Summarize(transactions)
	return &summary, nil
}
