package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-service/internal/client"
	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/internal/service"
	"github.com/noah-isme/student-service/pkg/config"
)

type memoryStudents struct {
	rows   map[int64]models.Student
	nextID int64
}

func (m *memoryStudents) where(keep func(models.Student) bool) ([]models.Student, error) {
	out := []models.Student{}
	for _, s := range m.rows {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStudents) ListAll(ctx context.Context) ([]models.Student, error) {
	return m.where(func(models.Student) bool { return true })
}

func (m *memoryStudents) ListActive(ctx context.Context) ([]models.Student, error) {
	return m.where(func(s models.Student) bool { return s.Active })
}

func (m *memoryStudents) ListActiveByGroup(ctx context.Context, groupID int64) ([]models.Student, error) {
	return m.where(func(s models.Student) bool { return s.Active && s.GroupID != nil && *s.GroupID == groupID })
}

func (m *memoryStudents) ListByProgram(ctx context.Context, programID int64) ([]models.Student, error) {
	return m.where(func(s models.Student) bool { return s.ProgramID == programID })
}

func (m *memoryStudents) SearchByNameOrSurname(ctx context.Context, term string) ([]models.Student, error) {
	term = strings.ToLower(term)
	return m.where(func(s models.Student) bool {
		return strings.Contains(strings.ToLower(s.Name), term) || strings.Contains(strings.ToLower(s.Surname), term)
	})
}

func (m *memoryStudents) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *memoryStudents) FindByEnrollmentCode(ctx context.Context, code string) (*models.Student, error) {
	for _, s := range m.rows {
		if s.EnrollmentCode == code {
			found := s
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryStudents) ExistsByEnrollmentCode(ctx context.Context, code string) (bool, error) {
	_, err := m.FindByEnrollmentCode(ctx, code)
	return err == nil, nil
}

func (m *memoryStudents) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for _, s := range m.rows {
		if s.Email != nil && *s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStudents) CountActiveByGroup(ctx context.Context, groupID int64) (int, error) {
	rows, _ := m.ListActiveByGroup(ctx, groupID)
	return len(rows), nil
}

func (m *memoryStudents) Create(ctx context.Context, s *models.Student) error {
	m.nextID++
	s.ID = m.nextID
	m.rows[s.ID] = *s
	return nil
}

func (m *memoryStudents) Update(ctx context.Context, s *models.Student) error {
	m.rows[s.ID] = *s
	return nil
}

type memoryGroups struct {
	rows   map[int64]models.Group
	nextID int64
}

func (m *memoryGroups) where(keep func(models.Group) bool) ([]models.Group, error) {
	out := []models.Group{}
	for _, g := range m.rows {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryGroups) ListAll(ctx context.Context) ([]models.Group, error) {
	return m.where(func(models.Group) bool { return true })
}

func (m *memoryGroups) ListActive(ctx context.Context) ([]models.Group, error) {
	return m.where(func(g models.Group) bool { return g.Active })
}

func (m *memoryGroups) ListActiveByProgram(ctx context.Context, programID int64) ([]models.Group, error) {
	return m.where(func(g models.Group) bool { return g.Active && g.ProgramID == programID })
}

func (m *memoryGroups) ListByProfessor(ctx context.Context, professorID int64) ([]models.Group, error) {
	return m.where(func(g models.Group) bool { return g.ProfessorID != nil && *g.ProfessorID == professorID })
}

func (m *memoryGroups) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	g, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &g, nil
}

func (m *memoryGroups) ExistsByNameAndProgram(ctx context.Context, name string, programID int64) (bool, error) {
	for _, g := range m.rows {
		if g.Name == name && g.ProgramID == programID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryGroups) Create(ctx context.Context, g *models.Group) error {
	m.nextID++
	g.ID = m.nextID
	m.rows[g.ID] = *g
	return nil
}

func (m *memoryGroups) Update(ctx context.Context, g *models.Group) error {
	m.rows[g.ID] = *g
	return nil
}

type testServer struct {
	router   *gin.Engine
	students *memoryStudents
	groups   *memoryGroups
}

// newTestServer wires the real services and peer clients. The program peer knows
// program 5 (active) and 6 (inactive); the professor peer always fails with 500.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	programs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/programs/5":
			_, _ = w.Write([]byte(`{"id":5,"name":"Software Engineering","active":true}`))
		case "/programs/6":
			_, _ = w.Write([]byte(`{"id":6,"name":"Mechatronics","active":false}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(programs.Close)

	professors := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(professors.Close)

	peers := config.PeersConfig{ProgramServiceURL: programs.URL, ProfessorServiceURL: professors.URL}
	programClient := client.NewProgramClient(peers, nil, nil)
	professorClient := client.NewProfessorClient(peers, nil, nil)

	students := &memoryStudents{rows: map[int64]models.Student{}}
	groups := &memoryGroups{rows: map[int64]models.Group{
		1: {ID: 1, Name: "1A", ProgramID: 5, Active: true},
		2: {ID: 2, Name: "1B", ProgramID: 5, Active: false},
	}, nextID: 2}

	views := service.NewViewAssembler(groups, programClient, professorClient, nil, nil)
	studentSvc := service.NewStudentService(students, groups, programClient, views, nil, nil, nil)
	groupSvc := service.NewGroupService(groups, students, programClient, professorClient, views, nil, nil, nil)

	router := gin.New()
	RegisterRoutes(router, NewStudentHandler(studentSvc), NewGroupHandler(groupSvc, studentSvc))
	return &testServer{router: router, students: students, groups: groups}
}

func performRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
