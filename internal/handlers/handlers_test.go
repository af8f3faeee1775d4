package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"correlation-service/internal/correlation"
	"correlation-service/internal/database"
	"correlation-service/internal/logging"
	"correlation-service/internal/models"
	"correlation-service/internal/repository"
	"correlation-service/internal/repository/gormrepo"
	"correlation-service/internal/typedefs"
)

const (
	basePath = "/api/v1/users/cocoMDS1"
	engineQN = "(host)=engine-01"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupRouter builds the full stack over a fresh sqlite database.
func setupRouter(t *testing.T, access repository.AccessPolicy) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "handlers.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	svc := correlation.NewService(typedefs.Default(), correlation.CollaboratorsFrom(gormrepo.New(db, access)))
	router := gin.New()
	NewAPI(svc, logging.Discard()).RegisterRoutes(router)
	return router
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func registerEngine(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := performRequest(t, router, http.MethodPost, basePath+"/external-sources", models.ExternalSourceRequestBody{
		ExternalSource: correlation.ExternalSourceProperties{QualifiedName: engineQN, Name: "Engine 01", EngineType: "DataStage"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.GUIDResponse](t, w)
	require.NotEmpty(t, resp.GUID)
	return resp.GUID
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, repository.AccessPolicy{})
	w := performRequest(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExternalSourceEndpoints(t *testing.T) {
	router := setupRouter(t, repository.AccessPolicy{})
	guid := registerEngine(t, router)

	t.Run("upsert is idempotent", func(t *testing.T) {
		assert.Equal(t, guid, registerEngine(t, router))
	})

	t.Run("lookup by name", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, basePath+"/external-sources/by-name?qualifiedName="+engineQN, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[models.GUIDResponse](t, w)
		assert.Equal(t, guid, resp.GUID)
		assert.Equal(t, http.StatusOK, resp.RelatedHTTPCode)
	})

	t.Run("lookup of unknown name", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, basePath+"/external-sources/by-name?qualifiedName=unknown", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[models.GUIDResponse](t, w).GUID)
	})

	t.Run("missing qualified name", func(t *testing.T) {
		w := performRequest(t, router, http.MethodPost, basePath+"/external-sources", models.ExternalSourceRequestBody{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		apiErr := decode[models.APIError](t, w)
		assert.Equal(t, "OMAG-COMMON-400-002", apiErr.Code)
		assert.Equal(t, "InvalidParameterException", apiErr.ClassName)
		assert.Equal(t, http.StatusBadRequest, apiErr.RelatedHTTPCode)
		assert.Equal(t, "qualifiedName", apiErr.Properties["parameterName"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w := performRequest(t, router, http.MethodPost, basePath+"/external-sources", `{"externalSource":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, models.ErrorCodeInvalidJSON, decode[models.APIError](t, w).Code)
	})
}

func TestRemoveExternalSourceIsNotSupported(t *testing.T) {
	router := setupRouter(t, repository.AccessPolicy{})
	registerEngine(t, router)

	for name, body := range map[string]interface{}{
		"soft":    models.DeleteRequestBody{QualifiedName: engineQN, ExternalSourceName: engineQN, DeleteSemantic: "SOFT"},
		"hard":    models.DeleteRequestBody{QualifiedName: engineQN, ExternalSourceName: engineQN, DeleteSemantic: "HARD"},
		"no body": nil,
	} {
		t.Run(name, func(t *testing.T) {
			w := performRequest(t, router, http.MethodDelete, basePath+"/external-sources", body)
			require.Equal(t, http.StatusNotImplemented, w.Code)
			apiErr := decode[models.APIError](t, w)
			assert.Equal(t, "OMRS-METADATA-COLLECTION-501-001", apiErr.Code)
			assert.Equal(t, "FunctionNotSupportedException", apiErr.ClassName)
		})
	}

	w := performRequest(t, router, http.MethodGet, basePath+"/external-sources/by-name?qualifiedName="+engineQN, nil)
	assert.NotEmpty(t, decode[models.GUIDResponse](t, w).GUID, "source must survive the rejected removal")
}

func TestProcessingStateEndpoints(t *testing.T) {
	router := setupRouter(t, repository.AccessPolicy{})
	statePath := basePath + "/external-sources/processing-state"

	body := models.ProcessingStateRequestBody{
		ExternalSourceName: engineQN,
		ProcessingState: correlation.ProcessingState{
			QualifiedName:  "engine-01-state",
			SyncDatesByKey: correlation.SyncDates{"jobs": 1714564800000, "lineage": 1714564805000},
		},
	}

	w := performRequest(t, router, http.MethodPost, statePath, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "OMAS-DATA-ENGINE-400-011", decode[models.APIError](t, w).Code)

	registerEngine(t, router)

	w = performRequest(t, router, http.MethodGet, statePath+"?externalSourceName="+engineQN, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[models.ProcessingStateResponse](t, w).ProcessingState)

	w = performRequest(t, router, http.MethodPost, statePath, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body.ProcessingState.SyncDatesByKey = correlation.SyncDates{"jobs": 1714564900000}
	w = performRequest(t, router, http.MethodPost, statePath, body)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, statePath+"?externalSourceName="+engineQN, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ProcessingStateResponse](t, w)
	require.NotNil(t, resp.ProcessingState)
	assert.Equal(t, "engine-01-state", resp.ProcessingState.QualifiedName)
	assert.Equal(t, correlation.SyncDates{"jobs": 1714564900000}, resp.ProcessingState.SyncDatesByKey)
}

func TestCorrelatedElementEndpoints(t *testing.T) {
	router := setupRouter(t, repository.AccessPolicy{})
	sourceGUID := registerEngine(t, router)
	path := basePath + "/correlated-elements"

	req := models.CorrelatedElementRequestBody{
		Correlation: correlation.MetadataCorrelationProperties{ExternalSourceName: engineQN, ExternalIdentifier: "job-42"},
		Element:     correlation.ElementProperties{TypeName: "Process", QualifiedName: "etl::job-42"},
		AnchorGUID:  sourceGUID,
	}
	w := performRequest(t, router, http.MethodPost, path, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	guid := decode[models.GUIDResponse](t, w).GUID
	require.NotEmpty(t, guid)

	w = performRequest(t, router, http.MethodGet, path+"?externalSourceName="+engineQN+"&externalIdentifier=job-42", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.CorrelationResponse](t, w)
	require.NotNil(t, resp.Correlation)
	assert.Equal(t, guid, resp.Correlation.InternalGUID)
	assert.Equal(t, sourceGUID, resp.Correlation.AnchorGUID)

	req.Element.TypeName = "Spaceship"
	w = performRequest(t, router, http.MethodPost, path, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "OMAG-COMMON-400-005", decode[models.APIError](t, w).Code)
}

func TestUnauthorizedUser(t *testing.T) {
	router := setupRouter(t, repository.NewAllowList([]string{"cocoMDS1"}))

	w := performRequest(t, router, http.MethodGet, "/api/v1/users/mallory/external-sources/by-name?qualifiedName="+engineQN, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	apiErr := decode[models.APIError](t, w)
	assert.Equal(t, "OMAS-DATA-ENGINE-404-001", apiErr.Code)
	assert.Equal(t, "UserNotAuthorizedException", apiErr.ClassName)
}
