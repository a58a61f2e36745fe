package student_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"student-directory/internal/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func createReq(rollNo int, name, class string) student.CreateStudentRequest {
	return student.CreateStudentRequest{
		RollNo: intPtr(rollNo),
		Name:   name,
		Class:  class,
	}
}

func TestCreateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateThenListIncludesRecordOnce", func(t *testing.T) {
		svc := student.NewService(student.NewMemoryRepository())

		created, err := svc.CreateStudent(ctx, createReq(101, "Asha", "10A"))
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		students, err := svc.ListStudents(ctx)
		require.NoError(t, err)

		matches := 0
		for _, s := range students {
			if s.RollNo == 101 && s.Name == "Asha" && s.Class == "10A" {
				matches++
			}
		}
		assert.Equal(t, 1, matches)
	})

	t.Run("DuplicateNaturalKeyRejected", func(t *testing.T) {
		svc := student.NewService(student.NewMemoryRepository())

		_, err := svc.CreateStudent(ctx, createReq(101, "Asha", "10A"))
		require.NoError(t, err)

		_, err = svc.CreateStudent(ctx, createReq(101, "Binod", "10A"))
		assert.ErrorIs(t, err, student.ErrDuplicateStudent)

		students, err := svc.ListStudents(ctx)
		require.NoError(t, err)
		assert.Len(t, students, 1)
	})

	t.Run("SameRollDifferentClassAllowed", func(t *testing.T) {
		svc := student.NewService(student.NewMemoryRepository())

		_, err := svc.CreateStudent(ctx, createReq(101, "Asha", "10A"))
		require.NoError(t, err)
		_, err = svc.CreateStudent(ctx, createReq(101, "Binod", "10B"))
		require.NoError(t, err)

		students, err := svc.ListStudents(ctx)
		require.NoError(t, err)
		assert.Len(t, students, 2)
	})

	t.Run("InvalidInputRejected", func(t *testing.T) {
		svc := student.NewService(student.NewMemoryRepository())

		_, err := svc.CreateStudent(ctx, student.CreateStudentRequest{Name: "Asha", Class: "10A"})
		assert.ErrorIs(t, err, student.ErrInvalidInput)

		_, err = svc.CreateStudent(ctx, createReq(101, "", "10A"))
		assert.ErrorIs(t, err, student.ErrInvalidInput)

		_, err = svc.CreateStudent(ctx, createReq(101, "Asha", ""))
		assert.ErrorIs(t, err, student.ErrInvalidInput)
	})
}

func TestCreateStudentImageValidation(t *testing.T) {
	ctx := context.Background()
	svc := student.NewService(student.NewMemoryRepository())

	t.Run("ValidDataURIAccepted", func(t *testing.T) {
		image := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("tiny png"))
		req := createReq(1, "Asha", "10A")
		req.Image = &image

		_, err := svc.CreateStudent(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("NonImagePayloadRejected", func(t *testing.T) {
		image := "data:text/html;base64,PGh0bWw+"
		req := createReq(2, "Binod", "10A")
		req.Image = &image

		_, err := svc.CreateStudent(ctx, req)
		assert.ErrorIs(t, err, student.ErrInvalidImage)
	})

	t.Run("InvalidBase64Rejected", func(t *testing.T) {
		image := "data:image/png;base64,%%%not-base64%%%"
		req := createReq(4, "Divya", "10A")
		req.Image = &image

		_, err := svc.CreateStudent(ctx, req)
		assert.ErrorIs(t, err, student.ErrInvalidImage)
	})

	t.Run("OversizedPayloadRejected", func(t *testing.T) {
		// Base64 payload whose decoded size exceeds the cap; no need to
		// build real image bytes.
		payload := strings.Repeat("A", (student.MaxImageBytes/3+2)*4)
		image := "data:image/png;base64," + payload
		req := createReq(3, "Chitra", "10A")
		req.Image = &image

		_, err := svc.CreateStudent(ctx, req)
		assert.ErrorIs(t, err, student.ErrInvalidImage)
	})
}

func TestDeleteStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("DeleteNonexistentReturnsNotFound", func(t *testing.T) {
		svc := student.NewService(student.NewMemoryRepository())

		err := svc.DeleteStudent(ctx, 404, "10A")
		assert.ErrorIs(t, err, student.ErrStudentNotFound)
	})

	t.Run("DeleteRemovesOnlyMatchingNaturalKey", func(t *testing.T) {
		svc := student.NewService(student.NewMemoryRepository())

		_, err := svc.CreateStudent(ctx, createReq(101, "Asha", "10A"))
		require.NoError(t, err)
		_, err = svc.CreateStudent(ctx, createReq(101, "Binod", "10B"))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteStudent(ctx, 101, "10A"))

		students, err := svc.ListStudents(ctx)
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "10B", students[0].Class)
		assert.Equal(t, "Binod", students[0].Name)
	})

	t.Run("CreateDeleteRoundTrip", func(t *testing.T) {
		svc := student.NewService(student.NewMemoryRepository())

		_, err := svc.CreateStudent(ctx, createReq(101, "Asha", "10A"))
		require.NoError(t, err)

		students, err := svc.ListStudents(ctx)
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "Asha", students[0].Name)

		require.NoError(t, svc.DeleteStudent(ctx, 101, "10A"))

		students, err = svc.ListStudents(ctx)
		require.NoError(t, err)
		assert.Empty(t, students)
	})
}
