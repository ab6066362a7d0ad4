package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/models/dto"
	"github.com/yigit/eduadmin/internal/app/repositories/memory"
	"github.com/yigit/eduadmin/internal/app/services"
	"github.com/yigit/eduadmin/internal/pkg/apperrors"
	"github.com/yigit/eduadmin/internal/pkg/auth"
	"github.com/yigit/eduadmin/internal/pkg/filestorage"
	"github.com/yigit/eduadmin/internal/pkg/logger"
)

type fixture struct {
	stores services.Stores
	svc    *services.Services
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memory.New()
	stores := services.Stores{
		Tx:          db,
		Users:       memory.NewUserRepository(db),
		Departments: memory.NewDepartmentRepository(db),
		Courses:     memory.NewCourseRepository(db),
		Instructors: memory.NewInstructorRepository(db),
		Enrollments: memory.NewEnrollmentRepository(db),
		ResetTokens: memory.NewResetTokenStore(db),
		Ping:        db.Ping,
	}

	storage, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	svc := services.NewServices(stores, services.Options{
		JWTService:     auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: 2 * time.Hour, TokenIssuer: "eduadmin"}),
		Storage:        storage,
		MaxUploadBytes: 5 << 20,
		ResetTokenTTL:  time.Hour,
	})
	return &fixture{stores: stores, svc: svc, ctx: context.Background()}
}

func (f *fixture) department(t *testing.T, name string) *models.Department {
	t.Helper()
	d := &models.Department{Name: name, Budget: 1000, StartDate: time.Now()}
	require.NoError(t, f.svc.Departments.Create(f.ctx, d))
	return d
}

func (f *fixture) course(t *testing.T, title string, departmentID int64) *models.Course {
	t.Helper()
	c := &models.Course{Title: title, Credits: 3, DepartmentID: departmentID}
	require.NoError(t, f.svc.Courses.Create(f.ctx, c))
	return c
}

func (f *fixture) student(t *testing.T, email string) *models.User {
	t.Helper()
	s, err := f.svc.Students.Create(f.ctx, &dto.CreateStudentRequest{
		Email: email, Password: "password1", FirstName: "Stu", LastName: "Dent",
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) instructor(t *testing.T, email string, departmentID *int64) *models.Instructor {
	t.Helper()
	in, err := f.svc.Instructors.Create(f.ctx, &dto.InstructorRequest{
		FirstName: "In", LastName: "Structor", Email: email, HireDate: time.Now(),
		DepartmentID: departmentID, Password: "password1",
	})
	require.NoError(t, err)
	return in
}

func (f *fixture) head(t *testing.T, departmentID int64) *int64 {
	t.Helper()
	d, err := f.svc.Departments.Get(f.ctx, departmentID)
	require.NoError(t, err)
	return d.HeadInstructorID
}

func TestEnrollmentDuplicateIsConflict(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, "Algebra", f.department(t, "Maths").ID)
	s := f.student(t, "five@example.edu")

	created, err := f.svc.Enrollments.Create(f.ctx, &dto.EnrollmentRequest{StudentID: s.ID, CourseID: c.ID})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Algebra", created.CourseTitle)
	assert.Equal(t, "Maths", created.DepartmentName)

	_, err = f.svc.Enrollments.Create(f.ctx, &dto.EnrollmentRequest{StudentID: s.ID, CourseID: c.ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "already enrolled")
}

func TestEnrollmentValidation(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, "Physics I", f.department(t, "Physics").ID)
	s := f.student(t, "student@example.edu")
	in := f.instructor(t, "teacher@example.edu", nil)
	teacher, err := f.stores.Users.GetByEmail(f.ctx, in.Email)
	require.NoError(t, err)
	bad := models.Grade("Z")

	tests := []struct {
		name string
		req  dto.EnrollmentRequest
		kind error
	}{
		{"zero course", dto.EnrollmentRequest{StudentID: s.ID}, apperrors.ErrValidationFailed},
		{"negative student", dto.EnrollmentRequest{StudentID: -1, CourseID: c.ID}, apperrors.ErrValidationFailed},
		{"missing course with missing student", dto.EnrollmentRequest{StudentID: 9999, CourseID: 9998}, apperrors.ErrResourceNotFound},
		{"missing course with valid student", dto.EnrollmentRequest{StudentID: s.ID, CourseID: 9998}, apperrors.ErrResourceNotFound},
		{"missing student", dto.EnrollmentRequest{StudentID: 9999, CourseID: c.ID}, apperrors.ErrResourceNotFound},
		{"user is not a student", dto.EnrollmentRequest{StudentID: teacher.ID, CourseID: c.ID}, apperrors.ErrValidationFailed},
		{"bad grade", dto.EnrollmentRequest{StudentID: s.ID, CourseID: c.ID, Grade: &bad}, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Enrollments.Create(f.ctx, &tt.req)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestEnrollmentUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	d := f.department(t, "History")
	c1 := f.course(t, "Rome", d.ID)
	c2 := f.course(t, "Greece", d.ID)
	s := f.student(t, "h@example.edu")

	e1, err := f.svc.Enrollments.Create(f.ctx, &dto.EnrollmentRequest{StudentID: s.ID, CourseID: c1.ID})
	require.NoError(t, err)
	_, err = f.svc.Enrollments.Create(f.ctx, &dto.EnrollmentRequest{StudentID: s.ID, CourseID: c2.ID})
	require.NoError(t, err)

	grade := models.GradeB
	updated, err := f.svc.Enrollments.Update(f.ctx, e1.ID, &dto.EnrollmentRequest{StudentID: s.ID, CourseID: c1.ID, Grade: &grade})
	require.NoError(t, err)
	require.NotNil(t, updated.Grade)
	assert.Equal(t, models.GradeB, *updated.Grade)

	_, err = f.svc.Enrollments.Update(f.ctx, e1.ID, &dto.EnrollmentRequest{StudentID: s.ID, CourseID: c2.ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.svc.Enrollments.Update(f.ctx, 9999, &dto.EnrollmentRequest{StudentID: s.ID, CourseID: c1.ID})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	byStudent, err := f.svc.Enrollments.ListByStudent(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)

	require.NoError(t, f.svc.Enrollments.Delete(f.ctx, e1.ID))
	assert.ErrorIs(t, f.svc.Enrollments.Delete(f.ctx, e1.ID), apperrors.ErrResourceNotFound)

	byCourse, err := f.svc.Enrollments.ListByCourse(f.ctx, c1.ID)
	require.NoError(t, err)
	assert.Empty(t, byCourse)
}

func TestFirstInstructorBecomesHeadAndMovesWithReassignment(t *testing.T) {
	f := newFixture(t)
	d1 := f.department(t, "D1")
	d2 := f.department(t, "D2")

	a := f.instructor(t, "a@x.com", &d1.ID)
	require.NotNil(t, f.head(t, d1.ID))
	assert.Equal(t, a.ID, *f.head(t, d1.ID))

	f.instructor(t, "b@x.com", &d1.ID)
	assert.Equal(t, a.ID, *f.head(t, d1.ID))

	_, err := f.svc.Instructors.Update(f.ctx, a.ID, &dto.InstructorRequest{
		FirstName: a.FirstName, LastName: a.LastName, Email: a.Email, HireDate: a.HireDate,
		DepartmentID: &d2.ID, Password: dto.PasswordUnchanged,
	})
	require.NoError(t, err)

	assert.Nil(t, f.head(t, d1.ID))
	require.NotNil(t, f.head(t, d2.ID))
	assert.Equal(t, a.ID, *f.head(t, d2.ID))
}

func TestMovingNonHeadKeepsExistingHeads(t *testing.T) {
	f := newFixture(t)
	d1 := f.department(t, "D1")
	d2 := f.department(t, "D2")
	a := f.instructor(t, "a@x.com", &d1.ID)
	b := f.instructor(t, "b@x.com", &d2.ID)
	c := f.instructor(t, "c@x.com", &d1.ID)

	_, err := f.svc.Instructors.Update(f.ctx, c.ID, &dto.InstructorRequest{
		FirstName: "C", LastName: "C", Email: c.Email, HireDate: c.HireDate, DepartmentID: &d2.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, a.ID, *f.head(t, d1.ID))
	assert.Equal(t, b.ID, *f.head(t, d2.ID))
}

func TestInstructorCreateRequiresExistingDepartment(t *testing.T) {
	f := newFixture(t)
	missing := int64(404)
	_, err := f.svc.Instructors.Create(f.ctx, &dto.InstructorRequest{
		FirstName: "X", LastName: "Y", Email: "xy@x.com", HireDate: time.Now(), DepartmentID: &missing, Password: "password1",
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.stores.Users.GetByEmail(f.ctx, "xy@x.com")
	assert.Error(t, err)
}

func TestInstructorCreateWithoutPasswordRollsBack(t *testing.T) {
	f := newFixture(t)
	d := f.department(t, "Chem")

	_, err := f.svc.Instructors.Create(f.ctx, &dto.InstructorRequest{
		FirstName: "No", LastName: "Pass", Email: "np@x.com", HireDate: time.Now(), DepartmentID: &d.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	assert.Nil(t, f.head(t, d.ID))
	n, err := f.stores.Instructors.Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInstructorPromotesExistingStudent(t *testing.T) {
	f := newFixture(t)
	s := f.student(t, "grad@x.com")

	_, err := f.svc.Instructors.Create(f.ctx, &dto.InstructorRequest{
		FirstName: "Grad", LastName: "Student", Email: "GRAD@x.com", HireDate: time.Now(),
	})
	require.NoError(t, err)

	user, err := f.stores.Users.GetByID(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, user.RoleType)
}

func TestInstructorUpdateMirrorsAccountAndChangesPassword(t *testing.T) {
	f := newFixture(t)
	in := f.instructor(t, "old@x.com", nil)

	_, err := f.svc.Instructors.Update(f.ctx, in.ID, &dto.InstructorRequest{
		FirstName: "New", LastName: "Name", Email: "new@x.com", PhoneNumber: "555", HireDate: in.HireDate,
		Password: "brand-new-pass",
	})
	require.NoError(t, err)

	user, err := f.stores.Users.GetByEmail(f.ctx, "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, "New", user.FirstName)
	assert.Equal(t, "555", user.PhoneNumber)
	assert.True(t, auth.CheckPassword(user.Password, "brand-new-pass"))

	_, err = f.svc.Auth.Login(f.ctx, &dto.LoginRequest{Email: "new@x.com", Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestInstructorDeleteClearsHeadAndAccount(t *testing.T) {
	f := newFixture(t)
	d := f.department(t, "Art")
	in := f.instructor(t, "art@x.com", &d.ID)
	require.NotNil(t, f.head(t, d.ID))

	require.NoError(t, f.svc.Instructors.Delete(f.ctx, in.ID))

	assert.Nil(t, f.head(t, d.ID))
	_, err := f.stores.Users.GetByEmail(f.ctx, "art@x.com")
	assert.Error(t, err)
	assert.ErrorIs(t, f.svc.Instructors.Delete(f.ctx, in.ID), apperrors.ErrResourceNotFound)
}

func TestAssignCourseAndAvailableCourses(t *testing.T) {
	f := newFixture(t)
	d := f.department(t, "Music")
	c1 := f.course(t, "Harmony", d.ID)
	c2 := f.course(t, "Rhythm", d.ID)
	in := f.instructor(t, "m@x.com", &d.ID)

	require.NoError(t, f.svc.Instructors.AssignCourse(f.ctx, &dto.AssignCourseRequest{InstructorID: in.ID, CourseID: c1.ID}))
	err := f.svc.Instructors.AssignCourse(f.ctx, &dto.AssignCourseRequest{InstructorID: in.ID, CourseID: c1.ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	err = f.svc.Instructors.AssignCourse(f.ctx, &dto.AssignCourseRequest{InstructorID: in.ID, CourseID: 999})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	available, err := f.svc.Instructors.AvailableCourses(f.ctx, in.ID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, c2.ID, available[0].ID)
}

func TestRegisterDuplicateEmailIgnoresCase(t *testing.T) {
	f := newFixture(t)
	req := &dto.RegisterRequest{Email: "Dup@Example.com", Password: "password1", FirstName: "A", LastName: "B", RoleType: models.RoleStudent}

	_, err := f.svc.Auth.Register(f.ctx, req, nil)
	require.NoError(t, err)

	again := *req
	again.Email = "dup@EXAMPLE.COM"
	_, err = f.svc.Auth.Register(f.ctx, &again, nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegisterRoles(t *testing.T) {
	f := newFixture(t)
	d := f.department(t, "D1")

	_, err := f.svc.Auth.Register(f.ctx, &dto.RegisterRequest{
		Email: "i@x.com", Password: "password1", FirstName: "I", LastName: "N", RoleType: models.RoleInstructor,
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Auth.Register(f.ctx, &dto.RegisterRequest{
		Email: "root@x.com", Password: "password1", FirstName: "R", LastName: "T", RoleType: models.RoleAdmin,
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	resp, err := f.svc.Auth.Register(f.ctx, &dto.RegisterRequest{
		Email: "a@x.com", Password: "password1", FirstName: "A", LastName: "A", RoleType: models.RoleInstructor, DepartmentID: &d.ID,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "INSTRUCTOR", resp.User.Role)
	assert.NotEmpty(t, resp.Token.AccessToken)

	head := f.head(t, d.ID)
	require.NotNil(t, head)
	in, err := f.svc.Instructors.Get(f.ctx, *head)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", in.Email)
}

func TestRegisterInstructorForMissingDepartmentLeavesNoUser(t *testing.T) {
	f := newFixture(t)
	missing := int64(77)

	_, err := f.svc.Auth.Register(f.ctx, &dto.RegisterRequest{
		Email: "ghost@x.com", Password: "password1", FirstName: "G", LastName: "H", RoleType: models.RoleInstructor, DepartmentID: &missing,
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.stores.Users.GetByEmail(f.ctx, "ghost@x.com")
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Auth.Register(f.ctx, &dto.RegisterRequest{
		Email: "login@x.com", Password: "right-password", FirstName: "Lo", LastName: "Gin", RoleType: models.RoleStudent,
	}, nil)
	require.NoError(t, err)

	_, err = f.svc.Auth.Login(f.ctx, &dto.LoginRequest{Email: "login@x.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", err.Error())

	_, err = f.svc.Auth.Login(f.ctx, &dto.LoginRequest{Email: "nobody@x.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	resp, err := f.svc.Auth.Login(f.ctx, &dto.LoginRequest{Email: "LOGIN@x.com", Password: "right-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, "STUDENT", resp.User.Role)
	assert.Equal(t, "login@x.com", resp.User.Email)
	assert.Equal(t, "Lo", resp.User.FirstName)
	assert.Equal(t, "Gin", resp.User.LastName)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	f.student(t, "forgot@x.com")
	other := f.student(t, "other@x.com")

	_, err := f.svc.Auth.ForgotPassword(f.ctx, &dto.ForgotPasswordRequest{Email: "missing@x.com"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	issued, err := f.svc.Auth.ForgotPassword(f.ctx, &dto.ForgotPasswordRequest{Email: "forgot@x.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ResetToken)

	err = f.svc.Auth.ResetPassword(f.ctx, &dto.ResetPasswordRequest{Email: other.Email, Token: issued.ResetToken, NewPassword: "hijacked1"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = f.svc.Auth.ResetPassword(f.ctx, &dto.ResetPasswordRequest{Email: "forgot@x.com", Token: "not-a-token", NewPassword: "new-password"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	require.NoError(t, f.svc.Auth.ResetPassword(f.ctx, &dto.ResetPasswordRequest{Email: "forgot@x.com", Token: issued.ResetToken, NewPassword: "new-password"}))

	err = f.svc.Auth.ResetPassword(f.ctx, &dto.ResetPasswordRequest{Email: "forgot@x.com", Token: issued.ResetToken, NewPassword: "again-password"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Auth.Login(f.ctx, &dto.LoginRequest{Email: "Forgot@X.com", Password: "new-password"})
	assert.NoError(t, err)
}

type flakyPasswords struct {
	services.UserStore
	fail bool
}

func (u *flakyPasswords) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if u.fail {
		return errors.New("connection reset")
	}
	return u.UserStore.UpdatePassword(ctx, id, hash)
}

func TestRedeemKeepsTokenWhenPasswordUpdateFails(t *testing.T) {
	f := newFixture(t)
	s := f.student(t, "flaky@x.com")

	users := &flakyPasswords{UserStore: f.stores.Users, fail: true}
	resets := services.NewPasswordResets(f.stores.ResetTokens, users, time.Hour, logger.Nop())
	token, err := resets.Issue(f.ctx, s.ID)
	require.NoError(t, err)

	require.Error(t, resets.Redeem(f.ctx, s.ID, token.Token, "new-password"))
	stored, err := f.stores.ResetTokens.Get(f.ctx, token.Token)
	require.NoError(t, err)
	assert.False(t, stored.Used)

	users.fail = false
	require.NoError(t, resets.Redeem(f.ctx, s.ID, token.Token, "new-password"))
	_, err = f.svc.Auth.Login(f.ctx, &dto.LoginRequest{Email: "flaky@x.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	s := f.student(t, "me@x.com")
	f.student(t, "taken@x.com")

	bio := "Hello"
	updated, err := f.svc.Auth.UpdateProfile(f.ctx, s.ID, &dto.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Bio)
	assert.Equal(t, "me@x.com", updated.Email)

	taken := "TAKEN@x.com"
	_, err = f.svc.Auth.UpdateProfile(f.ctx, s.ID, &dto.UpdateProfileRequest{Email: &taken})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	in := f.instructor(t, "prof@x.com", nil)
	account, err := f.stores.Users.GetByEmail(f.ctx, in.Email)
	require.NoError(t, err)
	moved := "prof2@x.com"
	_, err = f.svc.Auth.UpdateProfile(f.ctx, account.ID, &dto.UpdateProfileRequest{Email: &moved})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDepartmentRules(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Departments.Create(f.ctx, &models.Department{Name: "Broke", Budget: -1, StartDate: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	ghost := int64(55)
	err = f.svc.Departments.Create(f.ctx, &models.Department{Name: "Headless", StartDate: time.Now(), HeadInstructorID: &ghost})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	d := f.department(t, "Geo")
	f.course(t, "Maps", d.ID)
	assert.ErrorIs(t, f.svc.Departments.Delete(f.ctx, d.ID), apperrors.ErrConflict)
	assert.ErrorIs(t, f.svc.Departments.Delete(f.ctx, 999), apperrors.ErrResourceNotFound)

	_, err = f.svc.Departments.Get(f.ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCourseRequiresDepartmentAndCascades(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Courses.Create(f.ctx, &models.Course{Title: "Orphan", Credits: 2, DepartmentID: 42})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	c := f.course(t, "Biology", f.department(t, "Bio").ID)
	s := f.student(t, "bio@x.com")
	_, err = f.svc.Enrollments.Create(f.ctx, &dto.EnrollmentRequest{StudentID: s.ID, CourseID: c.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.Courses.Delete(f.ctx, c.ID))
	all, err := f.svc.Enrollments.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.ErrorIs(t, f.svc.Courses.Delete(f.ctx, c.ID), apperrors.ErrResourceNotFound)
}

func TestStudentsCrudAndSearch(t *testing.T) {
	f := newFixture(t)
	d := f.department(t, "Lit")
	c := f.course(t, "Poetry", d.ID)
	a := f.student(t, "a@lit.edu")
	f.student(t, "b@lit.edu")
	in := f.instructor(t, "poet@lit.edu", &d.ID)

	_, err := f.svc.Students.Create(f.ctx, &dto.CreateStudentRequest{Email: "A@lit.edu", Password: "password1", FirstName: "A", LastName: "A"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	instructorAccount, err := f.stores.Users.GetByEmail(f.ctx, in.Email)
	require.NoError(t, err)
	_, err = f.svc.Students.Get(f.ctx, instructorAccount.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	page, info, err := f.svc.Students.List(f.ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, int64(2), info.TotalItems)
	assert.Equal(t, 2, info.TotalPages)

	_, err = f.svc.Enrollments.Create(f.ctx, &dto.EnrollmentRequest{StudentID: a.ID, CourseID: c.ID})
	require.NoError(t, err)
	require.NoError(t, f.svc.Instructors.AssignCourse(f.ctx, &dto.AssignCourseRequest{InstructorID: in.ID, CourseID: c.ID}))

	found, err := f.svc.Students.Search(f.ctx, &dto.StudentSearchRequest{InstructorID: in.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	updated, err := f.svc.Students.Update(f.ctx, a.ID, &dto.UpdateStudentRequest{Email: "a@lit.edu", FirstName: "Ann", LastName: "A"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.FirstName)

	require.NoError(t, f.svc.Students.Delete(f.ctx, a.ID))
	enrollments, err := f.svc.Enrollments.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, enrollments)
}

func TestAnalysisOverview(t *testing.T) {
	f := newFixture(t)
	d := f.department(t, "Stats")
	c := f.course(t, "Probability", d.ID)
	s := f.student(t, "p@x.com")
	in := f.instructor(t, "q@x.com", &d.ID)
	_, err := f.svc.Enrollments.Create(f.ctx, &dto.EnrollmentRequest{StudentID: s.ID, CourseID: c.ID})
	require.NoError(t, err)
	require.NoError(t, f.svc.Instructors.AssignCourse(f.ctx, &dto.AssignCourseRequest{InstructorID: in.ID, CourseID: c.ID}))

	report, err := f.svc.Analysis.Overview(f.ctx)
	require.NoError(t, err)
	assert.Positive(t, report.Runtime.Goroutines)
	assert.Positive(t, report.Runtime.NumCPU)
	assert.Equal(t, int64(1), report.Totals.Students)
	assert.Equal(t, int64(1), report.Totals.Instructors)
	require.Len(t, report.Courses, 1)
	assert.Equal(t, int64(1), report.Courses[0].StudentCount)
	assert.Equal(t, int64(1), report.Courses[0].InstructorCount)
}
