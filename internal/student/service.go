package student

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrDuplicateStudent = errors.New("student already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidImage     = errors.New("invalid image payload")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// MaxImageBytes caps the decoded size of an inline image payload.
const MaxImageBytes = 5 << 20

type Service interface {
	ListStudents(ctx context.Context) ([]Student, error)
	CreateStudent(ctx context.Context, req CreateStudentRequest) (*Student, error)
	DeleteStudent(ctx context.Context, rollNo int, class string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) ListStudents(ctx context.Context) ([]Student, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) CreateStudent(ctx context.Context, req CreateStudentRequest) (*Student, error) {
	if req.RollNo == nil || *req.RollNo <= 0 || req.Name == "" || req.Class == "" {
		return nil, ErrInvalidInput
	}
	if req.Image != nil {
		if err := validateImage(*req.Image); err != nil {
			return nil, err
		}
	}

	// Pre-check keeps the common duplicate case off the insert path; the
	// unique index catches the race where two creates pass this check.
	existing, err := s.repo.GetByNaturalKey(ctx, *req.RollNo, req.Class)
	if err != nil && !errors.Is(err, ErrStudentNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateStudent
	}

	return s.repo.Create(ctx, &Student{
		RollNo: *req.RollNo,
		Name:   req.Name,
		Class:  req.Class,
		PhNo:   req.PhNo,
		Image:  req.Image,
	})
}

func (s *service) DeleteStudent(ctx context.Context, rollNo int, class string) error {
	if rollNo <= 0 || class == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteByNaturalKey(ctx, rollNo, class)
}

// validateImage accepts only data URIs carrying an image content type, with
// a decoded payload no larger than MaxImageBytes.
func validateImage(image string) error {
	if image == "" {
		return nil
	}
	if !strings.HasPrefix(image, "data:image/") {
		return ErrInvalidImage
	}
	idx := strings.Index(image, ";base64,")
	if idx < 0 {
		return ErrInvalidImage
	}
	payload := image[idx+len(";base64,"):]
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ErrInvalidImage
	}
	if len(decoded) > MaxImageBytes {
		return ErrInvalidImage
	}
	return nil
}
