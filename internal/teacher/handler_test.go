package teacher_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"school-service/internal/logger"
	"school-service/internal/messaging"
	"school-service/internal/metrics"
	"school-service/internal/schema"
	"school-service/internal/teacher"
	"school-service/internal/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeacherService_Shared(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t, schema.Tables()...)

	m := metrics.NewMock()
	repo := teacher.NewRepository(pgContainer.DB)
	service := teacher.NewService(repo, messaging.NoopPublisher{}, m, logger.Discard())
	handler := teacher.NewHandler(service, logger.Discard())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router)

	ctx := context.Background()

	post := func(t *testing.T, payload map[string]interface{}) *httptest.ResponseRecorder {
		t.Helper()
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/teachers", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("CreateTeacher", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		w := post(t, map[string]interface{}{
			"first_name":     "Grace",
			"last_name":      "Hopper",
			"email":          "grace@example.com",
			"specialization": "Mathematics",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var response teacher.Response
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.NotZero(t, response.ID)
		assert.Regexp(t, `^TCH-\d{13}-[0-9a-f]{8}$`, response.TeacherID)
		assert.Equal(t, "active", response.Status)
		require.NotNil(t, response.Specialization)
		assert.Equal(t, "Mathematics", *response.Specialization)
		assert.False(t, response.HireDate.IsZero())
	})

	t.Run("CreateTeacherMissingFields", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		w := post(t, map[string]interface{}{"first_name": "Grace", "last_name": "Hopper"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing required fields"}`, w.Body.String())
		assert.Equal(t, 0, testdb.Count(t, pgContainer.DB, "teachers"))
	})

	t.Run("ListTeachers", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		for i := 1; i <= 3; i++ {
			_, err := pgContainer.DB.NewInsert().Model(&teacher.Teacher{
				TeacherCode: fmt.Sprintf("T-%d", i),
				FirstName:   "Teacher",
				LastName:    fmt.Sprintf("%d", i),
				Email:       fmt.Sprintf("t%d@example.com", i),
				Status:      teacher.StatusActive,
			}).Exec(ctx)
			require.NoError(t, err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/teachers/?per_page=2&page=2", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response teacher.ListResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, 3, response.Total)
		assert.Equal(t, 2, response.Pages)
		assert.Equal(t, 2, response.CurrentPage)
		require.Len(t, response.Teachers, 1)
		assert.Equal(t, "T-3", response.Teachers[0].TeacherID)
	})

	t.Run("TeacherDeleteNotExposed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/teachers/1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Exists", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, schema.TableNames()...)

		w := post(t, map[string]interface{}{"first_name": "A", "last_name": "B", "email": "ab@example.com"})
		require.Equal(t, http.StatusCreated, w.Code)

		exists, err := repo.Exists(ctx, 1)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, 2)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
