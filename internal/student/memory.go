package student

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository. It enforces the same
// natural-key uniqueness the store-level index does, so service behavior
// can be exercised without a running database.
type MemoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	students []Student
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) GetAll(ctx context.Context) ([]Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Student, len(r.students))
	copy(out, r.students)
	return out, nil
}

func (r *MemoryRepository) GetByNaturalKey(ctx context.Context, rollNo int, class string) (*Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.RollNo == rollNo && s.Class == class {
			found := s
			return &found, nil
		}
	}
	return nil, ErrStudentNotFound
}

func (r *MemoryRepository) Create(ctx context.Context, student *Student) (*Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.students {
		if s.RollNo == student.RollNo && s.Class == student.Class {
			return nil, ErrDuplicateStudent
		}
	}
	student.ID = r.nextID
	r.nextID++
	r.students = append(r.students, *student)
	return student, nil
}

func (r *MemoryRepository) DeleteByNaturalKey(ctx context.Context, rollNo int, class string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.students {
		if s.RollNo == rollNo && s.Class == class {
			r.students = append(r.students[:i], r.students[i+1:]...)
			return nil
		}
	}
	return ErrStudentNotFound
}
