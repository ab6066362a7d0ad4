package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eduadmin/internal/app/models/dto"
	"github.com/yigit/eduadmin/internal/bootstrap"
	"github.com/yigit/eduadmin/internal/config"
	"github.com/yigit/eduadmin/internal/pkg/logger"
	"github.com/yigit/eduadmin/internal/seed"
)

const (
	adminEmail    = "admin@school.test"
	adminPassword = "adminpass123"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Inner   string          `json:"inner"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Server.StoragePath = t.TempDir()
	cfg.Server.PublicURL = "http://localhost:8080"
	cfg.Server.MaxUploadBytes = 5 << 20
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "2h"
	cfg.JWT.Issuer = "eduadmin"
	cfg.Auth.ResetTokenTTL = "1h"
	cfg.Auth.ResetTokenStore = config.TokenStoreDatabase
	cfg.Storage.Driver = config.StorageLocal
	return cfg
}

func newAPI(t *testing.T, cfg *config.Config) *api {
	t.Helper()
	lgr := logger.Nop()

	stores, release, err := bootstrap.SetupStores(context.Background(), cfg, lgr)
	require.NoError(t, err)
	t.Cleanup(release)

	_, err = seed.CreateAdmin(context.Background(), stores.Users, adminEmail, adminPassword, "Root", "Admin")
	require.NoError(t, err)

	storage, err := bootstrap.SetupFileStorage(cfg)
	require.NoError(t, err)

	deps := bootstrap.BuildDependencies(cfg, stores, storage, lgr)
	return &api{t: t, router: bootstrap.SetupRouter(cfg, deps, lgr)}
}

func (a *api) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *api) serve(req *http.Request) (int, envelope) {
	a.t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (a *api) login(email, password string) dto.AuthResponse {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(a.t, http.StatusOK, status, env.Message)
	return decode[dto.AuthResponse](a.t, env)
}

func (a *api) registerStudent(email string) dto.AuthResponse {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email": email, "password": "studentpass", "firstName": "Stu", "lastName": "Dent", "role": "STUDENT",
	})
	require.Equal(a.t, http.StatusCreated, status, env.Message)
	return decode[dto.AuthResponse](a.t, env)
}

func (a *api) createDepartment(token, name string) dto.DepartmentResponse {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/v1/departments", token, map[string]interface{}{
		"name": name, "budget": 1000, "startDate": time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(a.t, http.StatusCreated, status, env.Message)
	return decode[dto.DepartmentResponse](a.t, env)
}

func TestHealth(t *testing.T) {
	a := newAPI(t, testConfig(t))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestAuthenticationRequired(t *testing.T) {
	a := newAPI(t, testConfig(t))

	status, env := a.do(http.MethodGet, "/api/v1/departments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = a.do(http.MethodGet, "/api/v1/departments", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterLoginAndProfile(t *testing.T) {
	a := newAPI(t, testConfig(t))

	registered := a.registerStudent("Jane@School.test")
	assert.Equal(t, "Bearer", registered.Token.TokenType)
	assert.Equal(t, 7200, registered.Token.ExpiresIn)
	assert.Equal(t, "jane@school.test", registered.User.Email)
	assert.Equal(t, "STUDENT", registered.User.Role)

	status, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email": "JANE@school.test", "password": "studentpass", "firstName": "J", "lastName": "D", "role": "STUDENT",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "RES_004", env.Code)

	status, env = a.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "jane@school.test", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", env.Message)

	session := a.login("jane@school.test", "studentpass")
	status, env = a.do(http.MethodGet, "/api/v1/auth/me", session.Token.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "jane@school.test", decode[dto.UserResponse](t, env).Email)

	status, env = a.do(http.MethodPut, "/api/v1/auth/me", session.Token.AccessToken, map[string]interface{}{"bio": "hello"})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "hello", decode[dto.UserResponse](t, env).Bio)
}

func TestRegisterValidation(t *testing.T) {
	a := newAPI(t, testConfig(t))

	status, env := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email": "not-an-email", "password": "short", "firstName": "A", "lastName": "B", "role": "ADMIN",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VAL_001", env.Code)
	assert.NotEmpty(t, env.Inner)

	status, _ = a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email": "inst@school.test", "password": "instructorpass", "firstName": "A", "lastName": "B", "role": "INSTRUCTOR",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

const pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"

func photoForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("photo", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte(pngHeader))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

// fetch requests a public file URL through the router and returns the status code
func (a *api) fetch(fileURL string) int {
	a.t.Helper()
	require.True(a.t, strings.HasPrefix(fileURL, "http://localhost:8080/"), fileURL)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, strings.TrimPrefix(fileURL, "http://localhost:8080"), nil))
	return w.Code
}

func TestRegisterWithPhoto(t *testing.T) {
	a := newAPI(t, testConfig(t))

	body, contentType := photoForm(t, map[string]string{
		"email": "pic@school.test", "password": "studentpass", "firstName": "Pic", "lastName": "Ture", "role": "STUDENT",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	status, env := a.serve(req)
	require.Equal(t, http.StatusCreated, status, env.Message)

	session := decode[dto.AuthResponse](t, env)
	_, env = a.do(http.MethodGet, "/api/v1/auth/me", session.Token.AccessToken, nil)
	first := decode[dto.UserResponse](t, env).PhotoURL
	assert.True(t, strings.HasPrefix(first, "http://localhost:8080/uploads/profile-photos/"), first)
	assert.Equal(t, http.StatusOK, a.fetch(first))

	body, contentType = photoForm(t, nil)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/me/photo", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+session.Token.AccessToken)
	status, env = a.serve(req)
	require.Equal(t, http.StatusOK, status, env.Message)

	second := decode[dto.UserResponse](t, env).PhotoURL
	assert.NotEqual(t, first, second)
	assert.Equal(t, http.StatusOK, a.fetch(second))
	assert.Equal(t, http.StatusNotFound, a.fetch(first), "replaced photo is removed from disk")
}

func TestRoleMatrix(t *testing.T) {
	a := newAPI(t, testConfig(t))
	admin := a.login(adminEmail, adminPassword).Token.AccessToken
	student := a.registerStudent("s@school.test").Token.AccessToken

	status, _ := a.do(http.MethodPost, "/api/v1/departments", student, map[string]interface{}{
		"name": "Nope", "budget": 1, "startDate": time.Now(),
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodGet, "/api/v1/students", student, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodGet, "/api/v1/analysis", student, nil)
	assert.Equal(t, http.StatusForbidden, status)

	dept := a.createDepartment(admin, "Physics")
	status, _ = a.do(http.MethodGet, "/api/v1/departments/"+strconv.FormatInt(dept.ID, 10), student, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := a.do(http.MethodGet, "/api/v1/analysis", admin, nil)
	require.Equal(t, http.StatusOK, status)
	report := decode[dto.AnalysisResponse](t, env)
	assert.Equal(t, int64(1), report.Totals.Departments)
	assert.Equal(t, int64(1), report.Totals.Students)
}

func TestInstructorHeadAndEnrollmentFlow(t *testing.T) {
	a := newAPI(t, testConfig(t))
	admin := a.login(adminEmail, adminPassword).Token.AccessToken
	dept := a.createDepartment(admin, "Mathematics")

	status, env := a.do(http.MethodPost, "/api/v1/instructors", admin, map[string]interface{}{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@school.test",
		"hireDate": time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC), "departmentId": dept.ID, "password": "instructorpass",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	instructor := decode[dto.InstructorResponse](t, env)

	_, env = a.do(http.MethodGet, "/api/v1/departments/"+strconv.FormatInt(dept.ID, 10), admin, nil)
	head := decode[dto.DepartmentResponse](t, env).HeadInstructorID
	require.NotNil(t, head)
	assert.Equal(t, instructor.ID, *head)

	teacher := a.login("ada@school.test", "instructorpass").Token.AccessToken

	status, env = a.do(http.MethodPost, "/api/v1/courses", teacher, dto.CourseRequest{Title: "Calculus", Credits: 4, DepartmentID: dept.ID})
	require.Equal(t, http.StatusCreated, status, env.Message)
	course := decode[dto.CourseResponse](t, env)

	status, _ = a.do(http.MethodPost, "/api/v1/instructors/courses/assign", teacher, dto.AssignCourseRequest{InstructorID: instructor.ID, CourseID: course.ID})
	assert.Equal(t, http.StatusCreated, status)
	status, _ = a.do(http.MethodPost, "/api/v1/instructors/courses/assign", teacher, dto.AssignCourseRequest{InstructorID: instructor.ID, CourseID: course.ID})
	assert.Equal(t, http.StatusConflict, status)

	student := a.registerStudent("learner@school.test")
	other := a.registerStudent("other@school.test")

	enroll := dto.EnrollmentRequest{CourseID: course.ID, StudentID: student.User.ID}
	status, env = a.do(http.MethodPost, "/api/v1/enrollments", teacher, enroll)
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.Equal(t, "Calculus", decode[dto.EnrollmentResponse](t, env).CourseTitle)

	status, env = a.do(http.MethodPost, "/api/v1/enrollments", teacher, enroll)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Student is already enrolled in this course", env.Message)

	status, env = a.do(http.MethodPost, "/api/v1/enrollments", teacher, dto.EnrollmentRequest{CourseID: course.ID, StudentID: instructor.ID + 1000})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "RES_001", env.Code)

	own := "/api/v1/enrollments/student/" + strconv.FormatInt(student.User.ID, 10)
	status, env = a.do(http.MethodGet, own, student.Token.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.EnrollmentResponse](t, env), 1)

	status, _ = a.do(http.MethodGet, own, other.Token.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = a.do(http.MethodGet, "/api/v1/students/search?courseId="+strconv.FormatInt(course.ID, 10), teacher, nil)
	require.Equal(t, http.StatusOK, status)
	found := decode[[]dto.UserResponse](t, env)
	require.Len(t, found, 1)
	assert.Equal(t, student.User.ID, found[0].ID)

	status, _ = a.do(http.MethodDelete, "/api/v1/departments/"+strconv.FormatInt(dept.ID, 10), admin, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = a.do(http.MethodDelete, "/api/v1/instructors/"+strconv.FormatInt(instructor.ID, 10), admin, nil)
	assert.Equal(t, http.StatusOK, status)
	_, env = a.do(http.MethodGet, "/api/v1/departments/"+strconv.FormatInt(dept.ID, 10), admin, nil)
	assert.Nil(t, decode[dto.DepartmentResponse](t, env).HeadInstructorID)
}

func TestStudentPagination(t *testing.T) {
	a := newAPI(t, testConfig(t))
	admin := a.login(adminEmail, adminPassword).Token.AccessToken
	for i := 0; i < 3; i++ {
		a.registerStudent("p" + strconv.Itoa(i) + "@school.test")
	}

	status, env := a.do(http.MethodGet, "/api/v1/students?page=2&pageSize=2", admin, nil)
	require.Equal(t, http.StatusOK, status)
	page := decode[dto.StudentListResponse](t, env)
	assert.Len(t, page.Students, 1)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(3), page.TotalItems)

	status, _ = a.do(http.MethodGet, "/api/v1/students?pageSize=500", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = a.do(http.MethodGet, "/api/v1/students?page=1844674407370955162&pageSize=10", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	page = decode[dto.StudentListResponse](t, env)
	assert.Empty(t, page.Students)
	assert.Equal(t, int64(3), page.TotalItems)
}

func TestPasswordResetFlow(t *testing.T) {
	a := newAPI(t, testConfig(t))
	a.registerStudent("forgetful@school.test")

	status, env := a.do(http.MethodPost, "/api/v1/auth/forgot-password", "", dto.ForgotPasswordRequest{Email: "forgetful@school.test"})
	require.Equal(t, http.StatusOK, status)
	token := decode[dto.ForgotPasswordResponse](t, env).ResetToken

	reset := dto.ResetPasswordRequest{Email: "forgetful@school.test", Token: token, NewPassword: "brandnewpass"}
	status, _ = a.do(http.MethodPost, "/api/v1/auth/reset-password", "", reset)
	require.Equal(t, http.StatusOK, status)
	a.login("forgetful@school.test", "brandnewpass")

	status, env = a.do(http.MethodPost, "/api/v1/auth/reset-password", "", reset)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid or expired reset token", env.Message)

	status, _ = a.do(http.MethodPost, "/api/v1/auth/forgot-password", "", dto.ForgotPasswordRequest{Email: "ghost@school.test"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.RateLimitRPS = 0.001
	cfg.Auth.RateLimitBurst = 2
	a := newAPI(t, cfg)

	body := dto.LoginRequest{Email: adminEmail, Password: "wrong-password"}
	for i := 0; i < 2; i++ {
		status, _ := a.do(http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, env := a.do(http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "SRV_004", env.Code)
}

func TestUnknownRoute(t *testing.T) {
	a := newAPI(t, testConfig(t))
	status, env := a.do(http.MethodGet, "/api/v1/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "RES_001", env.Code)
}
