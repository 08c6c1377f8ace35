package class_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"school-service/internal/class"
	"school-service/internal/logger"
	"school-service/internal/messaging"
	"school-service/internal/metrics"
	"school-service/internal/schema"
	"school-service/internal/student"
	"school-service/internal/teacher"
	"school-service/internal/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassService_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t, schema.Tables()...)

	m := metrics.NewMock()
	teacherRepo := teacher.NewRepository(pgContainer.DB)
	repo := class.NewRepository(pgContainer.DB)
	service := class.NewService(repo, teacherRepo, messaging.NoopPublisher{}, m, logger.Discard())
	handler := class.NewHandler(service, logger.Discard())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router)

	ctx := context.Background()

	post := func(t *testing.T, payload map[string]interface{}) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/classes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	list := func(t *testing.T) class.ListResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/classes/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var response class.ListResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		return response
	}

	t.Run("CreateClassDefaults", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		w := post(t, map[string]interface{}{"class_name": "5B", "grade_level": "5"})

		assert.Equal(t, http.StatusCreated, w.Code)
		var response class.Response
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.NotZero(t, response.ID)
		assert.Equal(t, 40, response.MaxCapacity)
		assert.Equal(t, "active", response.Status)
		assert.Nil(t, response.TeacherID)
		assert.Equal(t, 0, response.StudentCount)
	})

	t.Run("CreateClassWithTeacher", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		tch := &teacher.Teacher{TeacherCode: "T-1", FirstName: "A", LastName: "B", Email: "t@example.com", Status: teacher.StatusActive}
		_, err := pgContainer.DB.NewInsert().Model(tch).Returning("*").Exec(ctx)
		require.NoError(t, err)

		w := post(t, map[string]interface{}{
			"class_name":   "6A",
			"grade_level":  "6",
			"teacher_id":   tch.ID,
			"max_capacity": 25,
			"room_number":  "R12",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var response class.Response
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.NotNil(t, response.TeacherID)
		assert.Equal(t, tch.ID, *response.TeacherID)
		assert.Equal(t, 25, response.MaxCapacity)
		require.NotNil(t, response.RoomNumber)
		assert.Equal(t, "R12", *response.RoomNumber)
	})

	t.Run("CreateClassUnknownTeacher", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		w := post(t, map[string]interface{}{"class_name": "6A", "grade_level": "6", "teacher_id": 77})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Teacher not found"}`, w.Body.String())
		assert.Equal(t, 0, testdb.Count(t, pgContainer.DB, "classes"))
	})

	t.Run("CreateClassMissingFields", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		w := post(t, map[string]interface{}{"class_name": "6A"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing required fields"}`, w.Body.String())
	})

	t.Run("CreateClassDuplicateName", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		require.Equal(t, http.StatusCreated, post(t, map[string]interface{}{"class_name": "6A", "grade_level": "6"}).Code)
		w := post(t, map[string]interface{}{"class_name": "6A", "grade_level": "6"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, 1, testdb.Count(t, pgContainer.DB, "classes"))
	})

	t.Run("ListClassesStudentCount", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		require.Equal(t, http.StatusCreated, post(t, map[string]interface{}{"class_name": "1A", "grade_level": "1"}).Code)
		require.Equal(t, http.StatusCreated, post(t, map[string]interface{}{"class_name": "1B", "grade_level": "1"}).Code)

		classID := 1
		for _, email := range []string{"a@example.com", "b@example.com"} {
			_, err := pgContainer.DB.NewInsert().Model(&student.Student{
				StudentCode: email,
				FirstName:   "S",
				LastName:    "S",
				Email:       email,
				ClassID:     &classID,
				Status:      student.StatusActive,
			}).Exec(ctx)
			require.NoError(t, err)
		}

		response := list(t)
		assert.Equal(t, 2, response.Total)
		require.Len(t, response.Classes, 2)
		assert.Equal(t, "1A", response.Classes[0].ClassName)
		assert.Equal(t, 2, response.Classes[0].StudentCount)
		assert.Equal(t, "1B", response.Classes[1].ClassName)
		assert.Equal(t, 0, response.Classes[1].StudentCount)
	})

	t.Run("CreateClassNumericGrade", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		w := post(t, map[string]interface{}{"class_name": "5B", "grade_level": 5})

		assert.Equal(t, http.StatusCreated, w.Code)
		var response class.Response
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "5", response.GradeLevel)
	})

	t.Run("CreateClassNullGrade", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		w := post(t, map[string]interface{}{"class_name": "5B", "grade_level": nil})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing required fields"}`, w.Body.String())
	})

	t.Run("DeletingReferencedRowsNullsReferences", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		tch := &teacher.Teacher{TeacherCode: "T-1", FirstName: "A", LastName: "B", Email: "t@example.com", Status: teacher.StatusActive}
		_, err := pgContainer.DB.NewInsert().Model(tch).Returning("*").Exec(ctx)
		require.NoError(t, err)

		cls := &class.Class{ClassName: "8C", GradeLevel: "8", TeacherID: &tch.ID, MaxCapacity: 30, Status: class.StatusActive}
		_, err = pgContainer.DB.NewInsert().Model(cls).Returning("*").Exec(ctx)
		require.NoError(t, err)

		st := &student.Student{StudentCode: "S-1", FirstName: "S", LastName: "S", Email: "s@example.com", ClassID: &cls.ID, Status: student.StatusActive}
		_, err = pgContainer.DB.NewInsert().Model(st).Returning("*").Exec(ctx)
		require.NoError(t, err)

		_, err = pgContainer.DB.NewDelete().Model((*teacher.Teacher)(nil)).Where("id = ?", tch.ID).Exec(ctx)
		require.NoError(t, err)

		storedClass := new(class.Class)
		require.NoError(t, pgContainer.DB.NewSelect().Model(storedClass).Where("c.id = ?", cls.ID).Scan(ctx))
		assert.Nil(t, storedClass.TeacherID)

		_, err = pgContainer.DB.NewDelete().Model((*class.Class)(nil)).Where("id = ?", cls.ID).Exec(ctx)
		require.NoError(t, err)

		storedStudent := new(student.Student)
		require.NoError(t, pgContainer.DB.NewSelect().Model(storedStudent).Where("s.id = ?", st.ID).Scan(ctx))
		assert.Nil(t, storedStudent.ClassID)
		assert.Equal(t, 0, testdb.Count(t, pgContainer.DB, "classes"))
	})

	t.Run("ListClassesEmpty", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		response := list(t)
		assert.Equal(t, 0, response.Total)
		assert.NotNil(t, response.Classes)
		assert.Empty(t, response.Classes)
	})
}
