package repositories

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduadmin/internal/app/models"
)

func TestClaimHeadOnlyMatchesHeadlessDepartment(t *testing.T) {
	r := NewDepartmentRepository(nil)

	query, args, err := r.claimHeadQuery(7, 3).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(query, "UPDATE departments SET head_instructor_id = $1, updated_at = $2 WHERE "), query)
	assert.Contains(t, query, "head_instructor_id IS NULL")
	assert.Contains(t, query, "id = $3")
	require.Len(t, args, 3)
	assert.Equal(t, int64(3), args[0])
	assert.Equal(t, int64(7), args[2])
}

func TestReleaseHeadOnlyMatchesCurrentHead(t *testing.T) {
	r := NewDepartmentRepository(nil)

	query, args, err := r.releaseHeadQuery(7, 3).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "IS NULL")
	assert.Contains(t, query, "head_instructor_id = $3")
	assert.Contains(t, query, "id = $4")
	require.Len(t, args, 4)
	assert.Nil(t, args[0])
	assert.Equal(t, int64(3), args[2])
	assert.Equal(t, int64(7), args[3])
}

func TestNotAssignedQueryExcludesTaughtCourses(t *testing.T) {
	r := NewCourseRepository(nil)

	query, args, err := r.notAssignedQuery(5).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "NOT EXISTS (SELECT 1 FROM course_instructors ci WHERE ci.course_id = c.id AND ci.instructor_id = $1)")
	assert.True(t, strings.HasSuffix(query, "ORDER BY c.title ASC, c.id ASC"), query)
	assert.Equal(t, []interface{}{int64(5)}, args)
}

func TestSearchStudentsQuery(t *testing.T) {
	r := NewUserRepository(nil)

	query, args, err := r.searchStudentsQuery(models.StudentFilter{}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "EXISTS")
	assert.Equal(t, []interface{}{models.RoleStudent}, args)

	query, args, err = r.searchStudentsQuery(models.StudentFilter{UserID: 1, CourseID: 2, InstructorID: 3}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "u.role_type = $1")
	assert.Contains(t, query, "u.id = $2")
	assert.Contains(t, query, "e.course_id = $3")
	assert.Contains(t, query, "ci.instructor_id = $4")
	assert.Equal(t, []interface{}{models.RoleStudent, int64(1), int64(2), int64(3)}, args)
}

func TestListByRoleQueryPaging(t *testing.T) {
	r := NewUserRepository(nil)

	query, _, err := r.listByRoleQuery(models.RoleStudent, 20, 10).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY u.last_name ASC, u.first_name ASC, u.id ASC")
	assert.True(t, strings.HasSuffix(query, "LIMIT 10 OFFSET 20"), query)

	query, _, err = r.listByRoleQuery(models.RoleStudent, 0, 0).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "LIMIT")
}
