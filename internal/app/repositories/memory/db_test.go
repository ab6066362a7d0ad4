package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduadmin/internal/app/models"
	"github.com/yigit/eduadmin/internal/app/repositories"
)

type fixture struct {
	db          *DB
	users       *UserRepository
	departments *DepartmentRepository
	courses     *CourseRepository
	instructors *InstructorRepository
	enrollments *EnrollmentRepository
	tokens      *ResetTokenStore
}

func newFixture() *fixture {
	db := New()
	return &fixture{
		db:          db,
		users:       NewUserRepository(db),
		departments: NewDepartmentRepository(db),
		courses:     NewCourseRepository(db),
		instructors: NewInstructorRepository(db),
		enrollments: NewEnrollmentRepository(db),
		tokens:      NewResetTokenStore(db),
	}
}

func (f *fixture) student(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, RoleType: models.RoleStudent, FirstName: "S", LastName: email}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) department(t *testing.T, name string) *models.Department {
	t.Helper()
	d := &models.Department{Name: name, StartDate: time.Now()}
	require.NoError(t, f.departments.Create(context.Background(), d))
	return d
}

func (f *fixture) course(t *testing.T, title string, departmentID int64) *models.Course {
	t.Helper()
	c := &models.Course{Title: title, Credits: 3, DepartmentID: departmentID}
	require.NoError(t, f.courses.Create(context.Background(), c))
	return c
}

func TestUserEmailUniqueIgnoresCase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u := f.student(t, "Jane@Example.edu")
	assert.Equal(t, "jane@example.edu", u.Email)

	err := f.users.Create(ctx, &models.User{Email: "JANE@example.EDU", RoleType: models.RoleStudent})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	found, err := f.users.GetByEmail(ctx, "jane@EXAMPLE.edu")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.db.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, f.departments.Create(ctx, &models.Department{Name: "Physics", StartDate: time.Now()}))
		require.NoError(t, f.users.Create(ctx, &models.User{Email: "a@b.c", RoleType: models.RoleStudent}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, _ := f.departments.Count(ctx)
	assert.Zero(t, n)
	_, err = f.users.GetByEmail(ctx, "a@b.c")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTransactionNestedJoinsOuter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.db.WithTransaction(ctx, func(ctx context.Context) error {
		return f.db.WithTransaction(ctx, func(ctx context.Context) error {
			return f.users.Create(ctx, &models.User{Email: "nested@b.c", RoleType: models.RoleStudent})
		})
	})
	require.NoError(t, err)

	_, err = f.users.GetByEmail(ctx, "nested@b.c")
	assert.NoError(t, err)
}

func TestEnrollmentPairUnique(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.student(t, "s@x.io")
	c := f.course(t, "Math", f.department(t, "Maths").ID)

	require.NoError(t, f.enrollments.Create(ctx, &models.Enrollment{StudentID: s.ID, CourseID: c.ID}))
	err := f.enrollments.Create(ctx, &models.Enrollment{StudentID: s.ID, CourseID: c.ID})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	err = f.enrollments.Create(ctx, &models.Enrollment{StudentID: s.ID, CourseID: 999})
	assert.ErrorIs(t, err, repositories.ErrForeignKey)
}

func TestConcurrentEnrollmentOnlyOneWins(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.student(t, "race@x.io")
	c := f.course(t, "Race", f.department(t, "Dept").ID)

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.enrollments.Create(ctx, &models.Enrollment{StudentID: s.ID, CourseID: c.ID})
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, repositories.ErrDuplicate)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestClaimHeadIsFirstComeFirstHeaded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.department(t, "CS")

	won, err := f.departments.ClaimHead(ctx, d.ID, 10)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = f.departments.ClaimHead(ctx, d.ID, 11)
	require.NoError(t, err)
	assert.False(t, won)

	released, err := f.departments.ReleaseHead(ctx, d.ID, 11)
	require.NoError(t, err)
	assert.False(t, released)

	released, err = f.departments.ReleaseHead(ctx, d.ID, 10)
	require.NoError(t, err)
	assert.True(t, released)
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.department(t, "Bio")
	c := f.course(t, "Cells", d.ID)
	s := f.student(t, "bio@x.io")
	require.NoError(t, f.enrollments.Create(ctx, &models.Enrollment{StudentID: s.ID, CourseID: c.ID}))

	in := &models.Instructor{FirstName: "I", LastName: "N", Email: "i@x.io", DepartmentID: &d.ID}
	require.NoError(t, f.instructors.Create(ctx, in))
	require.NoError(t, f.instructors.AssignCourse(ctx, in.ID, c.ID))
	_, err := f.departments.ClaimHead(ctx, d.ID, in.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.departments.Delete(ctx, d.ID), repositories.ErrForeignKey)

	require.NoError(t, f.instructors.Delete(ctx, in.ID))
	got, err := f.departments.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, got.HeadInstructorID)

	require.NoError(t, f.courses.Delete(ctx, c.ID))
	n, _ := f.enrollments.Count(ctx)
	assert.Zero(t, n)

	require.NoError(t, f.departments.Delete(ctx, d.ID))
}

func TestSearchStudentsCombinesFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := f.department(t, "Eng")
	c1 := f.course(t, "One", d.ID)
	c2 := f.course(t, "Two", d.ID)
	a := f.student(t, "a@x.io")
	b := f.student(t, "b@x.io")
	require.NoError(t, f.enrollments.Create(ctx, &models.Enrollment{StudentID: a.ID, CourseID: c1.ID}))
	require.NoError(t, f.enrollments.Create(ctx, &models.Enrollment{StudentID: b.ID, CourseID: c2.ID}))

	in := &models.Instructor{FirstName: "T", LastName: "T", Email: "t@x.io"}
	require.NoError(t, f.instructors.Create(ctx, in))
	require.NoError(t, f.instructors.AssignCourse(ctx, in.ID, c2.ID))

	byCourse, _ := f.users.SearchStudents(ctx, models.StudentFilter{CourseID: c1.ID})
	require.Len(t, byCourse, 1)
	assert.Equal(t, a.ID, byCourse[0].ID)

	byInstructor, _ := f.users.SearchStudents(ctx, models.StudentFilter{InstructorID: in.ID})
	require.Len(t, byInstructor, 1)
	assert.Equal(t, b.ID, byInstructor[0].ID)

	none, _ := f.users.SearchStudents(ctx, models.StudentFilter{InstructorID: in.ID, UserID: a.ID})
	assert.Empty(t, none)

	available, _ := f.courses.ListNotAssignedTo(ctx, in.ID)
	require.Len(t, available, 1)
	assert.Equal(t, c1.ID, available[0].ID)
}

func TestResetTokenSingleUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.student(t, "tok@x.io")

	require.NoError(t, f.tokens.Save(ctx, &models.PasswordResetToken{Token: "abc", UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}))

	first, err := f.tokens.MarkUsed(ctx, "abc")
	require.NoError(t, err)
	second, err := f.tokens.MarkUsed(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second)
}

func TestListByRoleOutOfRange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.student(t, "a@school.test")
	f.student(t, "b@school.test")

	page, total, err := f.users.ListByRole(ctx, models.RoleStudent, 1, 5)
	require.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, int64(2), total)

	for _, offset := range []int{2, 1 << 40, -6} {
		page, total, err = f.users.ListByRole(ctx, models.RoleStudent, offset, 10)
		require.NoError(t, err)
		assert.Empty(t, page, "offset %d", offset)
		assert.Equal(t, int64(2), total)
	}
}
