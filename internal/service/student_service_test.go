package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-service/internal/dto"
	"github.com/noah-isme/student-service/internal/models"
	appErrors "github.com/noah-isme/student-service/pkg/errors"
)

type studentFixture struct {
	students *mockStudentRepo
	groups   *mockGroupRepo
	programs *mockProgramLookup
	tx       *recordingTx
	svc      *StudentService
}

func newStudentFixture(students ...models.Student) *studentFixture {
	f := &studentFixture{
		students: newMockStudentRepo(students...),
		groups: newMockGroupRepo(
			models.Group{ID: 1, Name: "1A", ProgramID: 5, Active: true},
			models.Group{ID: 2, Name: "1B", ProgramID: 5, Active: false},
		),
		programs: &mockProgramLookup{programs: map[int64]models.Program{
			5: {ID: 5, Name: "Software Engineering", Active: true},
			6: {ID: 6, Name: "Mechatronics", Active: false},
		}},
		tx: &recordingTx{},
	}
	f.svc = NewStudentService(f.students, f.groups, f.programs, nil, f.tx, nil, nil)
	return f
}

func assertCode(t *testing.T, err error, kind *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "expected %s, got %v", kind.Code, err)
}

func validCreate() dto.CreateStudentRequest {
	return dto.CreateStudentRequest{Name: "Ana", Surname: "López", EnrollmentCode: "A001", ProgramID: 5}
}

func TestStudentServiceCreateWithoutGroup(t *testing.T) {
	f := newStudentFixture()

	student, err := f.svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.NotZero(t, student.ID)
	assert.True(t, student.Active)
	assert.Nil(t, student.GroupID)
	assert.Equal(t, 1, f.tx.calls)
}

func TestStudentServiceCreateDuplicateEnrollmentCode(t *testing.T) {
	f := newStudentFixture(models.Student{ID: 1, Name: "Luis", Surname: "Mora", EnrollmentCode: "A001", ProgramID: 5, Active: true})

	_, err := f.svc.Create(context.Background(), validCreate())
	assertCode(t, err, appErrors.ErrConflict)
	assert.Zero(t, f.programs.calls, "program must not be looked up after a conflict")
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	f := newStudentFixture(models.Student{ID: 1, EnrollmentCode: "B001", Email: strPtr("ana@school.edu"), ProgramID: 5, Active: false})

	req := validCreate()
	req.Email = strPtr("ana@school.edu")
	_, err := f.svc.Create(context.Background(), req)
	assertCode(t, err, appErrors.ErrConflict)
}

func TestStudentServiceCreateBlankEmailIsAbsent(t *testing.T) {
	f := newStudentFixture(models.Student{ID: 1, EnrollmentCode: "B001", ProgramID: 5, Active: true})

	req := validCreate()
	req.Email = strPtr("   ")
	student, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, student.Email)
}

func TestStudentServiceCreateGroupRules(t *testing.T) {
	tests := []struct {
		name    string
		groupID int64
		kind    *appErrors.Error
	}{
		{name: "missing group", groupID: 99, kind: appErrors.ErrNotFound},
		{name: "inactive group", groupID: 2, kind: appErrors.ErrBusinessRule},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newStudentFixture()
			req := validCreate()
			req.GroupID = idPtr(tc.groupID)
			_, err := f.svc.Create(context.Background(), req)
			assertCode(t, err, tc.kind)
		})
	}
}

func TestStudentServiceCreateProgramRules(t *testing.T) {
	t.Run("unknown program", func(t *testing.T) {
		f := newStudentFixture()
		req := validCreate()
		req.ProgramID = 404
		_, err := f.svc.Create(context.Background(), req)
		assertCode(t, err, appErrors.ErrNotFound)
	})

	t.Run("inactive program", func(t *testing.T) {
		f := newStudentFixture()
		req := validCreate()
		req.ProgramID = 6
		_, err := f.svc.Create(context.Background(), req)
		assertCode(t, err, appErrors.ErrBusinessRule)
	})

	t.Run("peer down", func(t *testing.T) {
		f := newStudentFixture()
		f.programs.err = errors.New("connection refused")
		_, err := f.svc.Create(context.Background(), validCreate())
		assertCode(t, err, appErrors.ErrServiceUnavailable)
		assert.Empty(t, f.students.students)
	})
}

func TestStudentServiceCreateValidation(t *testing.T) {
	f := newStudentFixture()

	_, err := f.svc.Create(context.Background(), dto.CreateStudentRequest{Email: strPtr("not-an-email")})
	assertCode(t, err, appErrors.ErrValidation)

	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "enrollmentCode")
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "programId")
	assert.Zero(t, f.tx.calls)

	t.Run("whitespace-only name and code", func(t *testing.T) {
		req := validCreate()
		req.Name = "   "
		req.EnrollmentCode = "\t"
		_, err := f.svc.Create(context.Background(), req)
		assertCode(t, err, appErrors.ErrValidation)

		appErr := appErrors.FromError(err)
		assert.Contains(t, appErr.Fields, "name")
		assert.Contains(t, appErr.Fields, "enrollmentCode")
		assert.Empty(t, f.students.students)
		assert.Zero(t, f.tx.calls)
	})

	t.Run("padded fields are stored trimmed", func(t *testing.T) {
		req := validCreate()
		req.Name = "  Ana "
		req.EnrollmentCode = " A001 "
		student, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Ana", student.Name)
		assert.Equal(t, "A001", student.EnrollmentCode)
	})
}

func TestStudentServiceUpdateEmail(t *testing.T) {
	existing := []models.Student{
		{ID: 1, Name: "Ana", Surname: "López", EnrollmentCode: "A001", Email: strPtr("ana@school.edu"), ProgramID: 5, Active: true},
		{ID: 2, Name: "Luis", Surname: "Mora", EnrollmentCode: "A002", Email: strPtr("luis@school.edu"), ProgramID: 5, Active: false},
	}

	t.Run("same email on same student", func(t *testing.T) {
		f := newStudentFixture(existing...)
		updated, err := f.svc.Update(context.Background(), 1, dto.UpdateStudentRequest{Name: "Ana María", Surname: "López", Email: strPtr("ana@school.edu")})
		require.NoError(t, err)
		assert.Equal(t, "Ana María", updated.Name)
		assert.Equal(t, "A001", updated.EnrollmentCode)
		assert.Equal(t, int64(5), updated.ProgramID)
	})

	t.Run("email owned by another student", func(t *testing.T) {
		f := newStudentFixture(existing...)
		_, err := f.svc.Update(context.Background(), 1, dto.UpdateStudentRequest{Name: "Ana", Surname: "López", Email: strPtr("luis@school.edu")})
		assertCode(t, err, appErrors.ErrConflict)
		assert.Equal(t, "ana@school.edu", *f.students.students[1].Email)
	})

	t.Run("whitespace-only surname", func(t *testing.T) {
		f := newStudentFixture(existing...)
		_, err := f.svc.Update(context.Background(), 1, dto.UpdateStudentRequest{Name: "Ana", Surname: " \t "})
		assertCode(t, err, appErrors.ErrValidation)
		assert.Contains(t, appErrors.FromError(err).Fields, "surname")
		assert.Equal(t, "López", f.students.students[1].Surname)
	})

	t.Run("missing student", func(t *testing.T) {
		f := newStudentFixture(existing...)
		_, err := f.svc.Update(context.Background(), 42, dto.UpdateStudentRequest{Name: "X", Surname: "Y"})
		assertCode(t, err, appErrors.ErrNotFound)
	})
}

func TestStudentServiceUpdateRevalidatesChangedGroup(t *testing.T) {
	f := newStudentFixture(models.Student{ID: 1, Name: "Ana", Surname: "López", EnrollmentCode: "A001", ProgramID: 5, GroupID: idPtr(1), Active: true})

	_, err := f.svc.Update(context.Background(), 1, dto.UpdateStudentRequest{Name: "Ana", Surname: "López", GroupID: idPtr(2)})
	assertCode(t, err, appErrors.ErrBusinessRule)

	f.groups.groups[1] = models.Group{ID: 1, Name: "1A", ProgramID: 5, Active: false}
	_, err = f.svc.Update(context.Background(), 1, dto.UpdateStudentRequest{Name: "Ana", Surname: "López", GroupID: idPtr(1)})
	require.NoError(t, err, "unchanged group is not re-validated")
}

func TestStudentServiceChangeGroup(t *testing.T) {
	f := newStudentFixture(models.Student{ID: 1, EnrollmentCode: "A001", ProgramID: 5, Active: true})

	updated, err := f.svc.ChangeGroup(context.Background(), 1, dto.ChangeGroupRequest{NewGroupID: 1})
	require.NoError(t, err)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, int64(1), *updated.GroupID)

	_, err = f.svc.ChangeGroup(context.Background(), 1, dto.ChangeGroupRequest{NewGroupID: 2})
	assertCode(t, err, appErrors.ErrBusinessRule)

	_, err = f.svc.ChangeGroup(context.Background(), 1, dto.ChangeGroupRequest{NewGroupID: 77})
	assertCode(t, err, appErrors.ErrNotFound)

	_, err = f.svc.ChangeGroup(context.Background(), 9, dto.ChangeGroupRequest{NewGroupID: 1})
	assertCode(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceToggleActiveIsSelfInverse(t *testing.T) {
	f := newStudentFixture(models.Student{ID: 1, EnrollmentCode: "A001", ProgramID: 5, Active: true})

	first, err := f.svc.ToggleActive(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, first.Active)

	second, err := f.svc.ToggleActive(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, second.Active)

	_, err = f.svc.ToggleActive(context.Background(), 2)
	assertCode(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceCreateDeleteLifecycle(t *testing.T) {
	f := newStudentFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, validCreate())
	require.NoError(t, err)

	require.NoError(t, f.svc.SoftDelete(ctx, created.ID))

	fetched, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Active)

	active, err := f.svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assertCode(t, f.svc.SoftDelete(ctx, 999), appErrors.ErrNotFound)
}

func TestStudentServiceSearch(t *testing.T) {
	f := newStudentFixture(
		models.Student{ID: 1, Name: "Ana", Surname: "López", EnrollmentCode: "A001", ProgramID: 5, Active: true},
		models.Student{ID: 2, Name: "Mariana", Surname: "Pérez", EnrollmentCode: "A002", ProgramID: 5, Active: true},
		models.Student{ID: 3, Name: "Luis", Surname: "Santana", EnrollmentCode: "A003", ProgramID: 5, Active: true},
		models.Student{ID: 4, Name: "Pedro", Surname: "Ruiz", EnrollmentCode: "A004", ProgramID: 5, Active: true},
	)

	found, err := f.svc.Search(context.Background(), "ANA")
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{found[0].ID, found[1].ID, found[2].ID})

	_, err = f.svc.Search(context.Background(), "  ")
	assertCode(t, err, appErrors.ErrValidation)
}

func TestStudentServiceLookups(t *testing.T) {
	f := newStudentFixture(
		models.Student{ID: 1, EnrollmentCode: "A001", ProgramID: 5, GroupID: idPtr(1), Active: true},
		models.Student{ID: 2, EnrollmentCode: "A002", ProgramID: 5, GroupID: idPtr(1), Active: false},
		models.Student{ID: 3, EnrollmentCode: "A003", ProgramID: 6, Active: true},
	)
	ctx := context.Background()

	byCode, err := f.svc.GetByEnrollmentCode(ctx, "A003")
	require.NoError(t, err)
	assert.Equal(t, int64(3), byCode.ID)

	_, err = f.svc.GetByEnrollmentCode(ctx, "Z999")
	assertCode(t, err, appErrors.ErrNotFound)

	inGroup, err := f.svc.ListByGroup(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, inGroup, 1)

	inProgram, err := f.svc.ListByProgram(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, inProgram, 2)
}

func TestStudentServiceGetWithDetailsDegradesOnPeerFailure(t *testing.T) {
	f := newStudentFixture(models.Student{ID: 1, Name: "Ana", Surname: "López", EnrollmentCode: "A001", ProgramID: 5, GroupID: idPtr(1), Active: true})
	f.programs.err = errors.New("timeout")

	view, err := f.svc.GetWithDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Program 5", view.Program)
	assert.Equal(t, "1A", view.Group)

	_, err = f.svc.GetWithDetails(context.Background(), 2)
	assertCode(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceStoreFailureIsInternal(t *testing.T) {
	f := newStudentFixture()
	f.students.err = errors.New("db down")

	_, err := f.svc.ListAll(context.Background())
	assertCode(t, err, appErrors.ErrInternal)
}
