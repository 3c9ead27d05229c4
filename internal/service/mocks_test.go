package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/noah-isme/student-service/internal/client"
	"github.com/noah-isme/student-service/internal/models"
)

type mockStudentRepo struct {
	students map[int64]models.Student
	nextID   int64
	err      error
}

func newMockStudentRepo(students ...models.Student) *mockStudentRepo {
	m := &mockStudentRepo{students: make(map[int64]models.Student)}
	for _, s := range students {
		m.students[s.ID] = s
		if s.ID > m.nextID {
			m.nextID = s.ID
		}
	}
	return m
}

func (m *mockStudentRepo) filter(keep func(models.Student) bool) ([]models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStudentRepo) ListAll(ctx context.Context) ([]models.Student, error) {
	return m.filter(func(models.Student) bool { return true })
}

func (m *mockStudentRepo) ListActive(ctx context.Context) ([]models.Student, error) {
	return m.filter(func(s models.Student) bool { return s.Active })
}

func (m *mockStudentRepo) ListActiveByGroup(ctx context.Context, groupID int64) ([]models.Student, error) {
	return m.filter(func(s models.Student) bool {
		return s.Active && s.GroupID != nil && *s.GroupID == groupID
	})
}

func (m *mockStudentRepo) ListByProgram(ctx context.Context, programID int64) ([]models.Student, error) {
	return m.filter(func(s models.Student) bool { return s.ProgramID == programID })
}

func (m *mockStudentRepo) SearchByNameOrSurname(ctx context.Context, term string) ([]models.Student, error) {
	term = strings.ToLower(term)
	return m.filter(func(s models.Student) bool {
		return strings.Contains(strings.ToLower(s.Name), term) || strings.Contains(strings.ToLower(s.Surname), term)
	})
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockStudentRepo) FindByEnrollmentCode(ctx context.Context, code string) (*models.Student, error) {
	for _, s := range m.students {
		if s.EnrollmentCode == code {
			found := s
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEnrollmentCode(ctx context.Context, code string) (bool, error) {
	_, err := m.FindByEnrollmentCode(ctx, code)
	return err == nil, nil
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, s := range m.students {
		if s.Email != nil && *s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) CountActiveByGroup(ctx context.Context, groupID int64) (int, error) {
	active, err := m.ListActiveByGroup(ctx, groupID)
	return len(active), err
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	student.ID = m.nextID
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if m.err != nil {
		return m.err
	}
	m.students[student.ID] = *student
	return nil
}

type mockGroupRepo struct {
	groups  map[int64]models.Group
	nextID  int64
	findErr error
}

func newMockGroupRepo(groups ...models.Group) *mockGroupRepo {
	m := &mockGroupRepo{groups: make(map[int64]models.Group)}
	for _, g := range groups {
		m.groups[g.ID] = g
		if g.ID > m.nextID {
			m.nextID = g.ID
		}
	}
	return m
}

func (m *mockGroupRepo) filter(keep func(models.Group) bool) ([]models.Group, error) {
	out := make([]models.Group, 0, len(m.groups))
	for _, g := range m.groups {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockGroupRepo) ListAll(ctx context.Context) ([]models.Group, error) {
	return m.filter(func(models.Group) bool { return true })
}

func (m *mockGroupRepo) ListActive(ctx context.Context) ([]models.Group, error) {
	return m.filter(func(g models.Group) bool { return g.Active })
}

func (m *mockGroupRepo) ListActiveByProgram(ctx context.Context, programID int64) ([]models.Group, error) {
	return m.filter(func(g models.Group) bool { return g.Active && g.ProgramID == programID })
}

func (m *mockGroupRepo) ListByProfessor(ctx context.Context, professorID int64) ([]models.Group, error) {
	return m.filter(func(g models.Group) bool { return g.ProfessorID != nil && *g.ProfessorID == professorID })
}

func (m *mockGroupRepo) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	g, ok := m.groups[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &g, nil
}

func (m *mockGroupRepo) ExistsByNameAndProgram(ctx context.Context, name string, programID int64) (bool, error) {
	for _, g := range m.groups {
		if g.Name == name && g.ProgramID == programID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGroupRepo) Create(ctx context.Context, group *models.Group) error {
	m.nextID++
	group.ID = m.nextID
	m.groups[group.ID] = *group
	return nil
}

func (m *mockGroupRepo) Update(ctx context.Context, group *models.Group) error {
	m.groups[group.ID] = *group
	return nil
}

type mockProgramLookup struct {
	programs map[int64]models.Program
	err      error
	calls    int
}

func (m *mockProgramLookup) GetProgram(ctx context.Context, id int64) (*models.Program, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.programs[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return &p, nil
}

type mockProfessorLookup struct {
	professors map[int64]models.Professor
	err        error
}

func (m *mockProfessorLookup) GetProfessor(ctx context.Context, id int64) (*models.Professor, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.professors[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return &p, nil
}

type recordingTx struct {
	calls int
}

func (r *recordingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

type mockFallbacks struct {
	fields []string
}

func (m *mockFallbacks) RecordEnrichmentFallback(field string) {
	m.fields = append(m.fields, field)
}

func strPtr(v string) *string { return &v }

func idPtr(v int64) *int64 { return &v }
