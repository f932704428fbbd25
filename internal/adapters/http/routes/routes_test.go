package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"skool-lms/internal/adapters/http/middleware"
	"skool-lms/internal/adapters/persistence/models"
	"skool-lms/internal/adapters/persistence/repositories"
	"skool-lms/internal/config"
	"skool-lms/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubUploader struct{}

func (stubUploader) UploadPassport(ctx context.Context, dataURI string) (string, error) {
	return "https://storage.local/passports/stub.png", nil
}

// apiResponse mirrors the response envelope
type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode:     "dev",
		FrontendURL: "http://localhost:5173",
		JWT:         config.JWTConfig{Secret: "test-secret"},
	}
	config.AppConfig = cfg

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, cfg, stubUploader{})

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, *apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}

	return resp, &parsed
}

func registerBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"firstName":          "Ada",
		"lastName":           "Lovelace",
		"email":              email,
		"phoneNumber":        "+4470000000",
		"password":           "strong-password",
		"countryOfResidence": "United Kingdom",
	}
}

// loginToken registers nothing; it logs an existing user in and returns
// the session token
func loginToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    email,
		"password": "strong-password",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &result))
	require.NotEmpty(t, result.Token)

	return result.Token
}

func seedAdmin(t *testing.T, db *gorm.DB, email string) {
	t.Helper()

	hash, err := password.Hash("strong-password")
	require.NoError(t, err)
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), &models.User{
		FirstName:          "Root",
		LastName:           "Admin",
		Email:              email,
		PhoneNumber:        "+1",
		Password:           hash,
		CountryOfResidence: "Nowhere",
		IsAdmin:            true,
	}))
}

func TestRegisterEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/users/register", "", registerBody("ada@example.com"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, body.Success)

	// Same email again conflicts
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/users/register", "", registerBody("ada@example.com"))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.False(t, body.Success)
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	app, _ := setupApp(t)

	body := registerBody("ada@example.com")
	body["password"] = "short"
	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/users/register", "", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body = registerBody("not-an-email")
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/users/register", "", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/users/register", "", registerBody("ada@example.com"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/users/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token := loginToken(t, app, "ada@example.com")
	assert.NotEmpty(t, token)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Access token required", body.Error)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/users/me", "garbage-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid access token", body.Error)
}

func TestMeEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/users/register", "", registerBody("ada@example.com"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	token := loginToken(t, app, "ada@example.com")

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile models.UserResponse
	require.NoError(t, json.Unmarshal(body.Data, &profile))
	assert.Equal(t, "ada@example.com", profile.Email)
}

func TestAdminRoutes_Guarded(t *testing.T) {
	app, db := setupApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/users/register", "", registerBody("student@example.com"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	studentToken := loginToken(t, app, "student@example.com")

	seedAdmin(t, db, "admin@example.com")
	adminToken := loginToken(t, app, "admin@example.com")

	resp, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/admin/applications/", studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/admin/applications/", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
}

func TestApplicationFlow(t *testing.T) {
	app, db := setupApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/users/register", "", registerBody("student@example.com"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	studentToken := loginToken(t, app, "student@example.com")

	seedAdmin(t, db, "admin@example.com")
	adminToken := loginToken(t, app, "admin@example.com")

	submission := map[string]interface{}{
		"personalStatement": "I want to study computing.",
		"addQualification": []map[string]string{
			{"institutionName": "King's College", "areaOfStudy": "Mathematics"},
		},
		"fundingInformation": "Self-funded",
		"disability":         "None",
		"passportUpload":     "data:image/png;base64,iVBORw0KGgo=",
	}

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/professional-application/", studentToken, submission)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.ProfessionalApplication
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, models.StatusPending, created.Status)

	// A second submission is rejected
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/professional-application/", studentToken, submission)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Students cannot review
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/approve-application/"+created.ID, studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Admins can, exactly once
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/approve-application/"+created.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/reject-application/"+created.ID, adminToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCourseAvailabilityEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/courses/availability?course=Biology", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body.Data), `"available":true`)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/courses/availability?course=Astrology", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body.Data), `"available":false`)
}

func TestRootEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
