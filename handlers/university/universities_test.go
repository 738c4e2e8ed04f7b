package university

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/studyabroad-hub/api/identity"
	"github.com/studyabroad-hub/api/model"
	"github.com/studyabroad-hub/api/utils/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testToken = "test-token"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&model.University{}, &model.Course{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	verifier := identity.NewStaticVerifier(map[string]*identity.Claims{
		testToken: {UID: "uid-1", Email: "staff@example.com", Name: "Staff"},
	})
	authMiddleware := middleware.NewAuthMiddleware(verifier)
	handler := NewUniversityHandler(db)

	app := fiber.New()
	group := app.Group("/api/universities")
	group.Get("/", handler.ListUniversities)
	group.Get("/:id", handler.GetUniversity)
	group.Post("/", authMiddleware.Required(), handler.CreateUniversity)
	group.Put("/:id", authMiddleware.Required(), handler.UpdateUniversity)
	group.Delete("/:id", authMiddleware.Required(), handler.DeleteUniversity)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	resp.Body.Close()
	return envelope
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"id":      "990",
		"name":    "University of Testshire",
		"country": "United Kingdom",
	}
}

func TestCreateUniversityRequiresToken(t *testing.T) {
	app, db := newTestApp(t)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"malformed header", "990-not-a-bearer", fiber.StatusUnauthorized},
		{"empty bearer", "Bearer ", fiber.StatusUnauthorized},
		{"unknown token", "Bearer wrong-token", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			json.NewEncoder(&buf).Encode(validBody())
			req := httptest.NewRequest(fiber.MethodPost, "/api/universities/", &buf)
			req.Header.Set("Content-Type", "application/json")
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var count int64
			db.Model(&model.University{}).Count(&count)
			if count != 0 {
				t.Errorf("persisted %d universities without authorization", count)
			}
		})
	}
}

func TestCreateAndGetUniversity(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/universities/", testToken, validBody())
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope["success"] != true {
		t.Errorf("success = %v", envelope["success"])
	}

	resp = doJSON(t, app, fiber.MethodGet, "/api/universities/990", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	envelope = decodeEnvelope(t, resp)
	data, _ := envelope["data"].(map[string]interface{})
	if data["name"] != "University of Testshire" {
		t.Errorf("name = %v", data["name"])
	}
	if data["country"] != "United Kingdom" {
		t.Errorf("country = %v", data["country"])
	}
}

// Fiber recycles request contexts between requests; queries issued for a
// later request must not observe an earlier request's cancellation.
func TestSequentialRequestsOnOneApp(t *testing.T) {
	app, db := newTestApp(t)

	for _, id := range []string{"990", "991", "992"} {
		body := validBody()
		body["id"] = id
		body["name"] = "University " + id

		resp := doJSON(t, app, fiber.MethodPost, "/api/universities/", testToken, body)
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("create %s status = %d, want 201", id, resp.StatusCode)
		}
	}

	resp := doJSON(t, app, fiber.MethodGet, "/api/universities/", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	data, _ := envelope["data"].([]interface{})
	if len(data) != 3 {
		t.Errorf("listed %d universities, want 3", len(data))
	}

	var count int64
	db.Model(&model.University{}).Count(&count)
	if count != 3 {
		t.Errorf("persisted %d universities, want 3", count)
	}
}

func TestCreateUniversityValidation(t *testing.T) {
	app, _ := newTestApp(t)

	body := validBody()
	delete(body, "name")

	resp := doJSON(t, app, fiber.MethodPost, "/api/universities/", testToken, body)
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	errObj, _ := envelope["error"].(map[string]interface{})
	if errObj["code"] != "VALIDATION_ERROR" {
		t.Errorf("error code = %v", errObj["code"])
	}

	// The envelope names the offending field so the SPA can highlight it.
	fields, _ := errObj["fields"].(map[string]interface{})
	if fields["name"] != "Name is required" {
		t.Errorf("fields = %v, want a message for name", fields)
	}
}

func TestCreateUniversityDuplicateID(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/universities/", testToken, validBody())
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first create status = %d", resp.StatusCode)
	}

	body := validBody()
	body["name"] = "Another name, same id"
	resp = doJSON(t, app, fiber.MethodPost, "/api/universities/", testToken, body)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("second create status = %d, want 409", resp.StatusCode)
	}
}

func TestGetUniversityNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/universities/404", "", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUpdateUniversityMergesFields(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, fiber.MethodPost, "/api/universities/", testToken, validBody())

	resp := doJSON(t, app, fiber.MethodPut, "/api/universities/990", testToken, map[string]interface{}{
		"ranking": "42",
		"tuition": 18000,
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("update status = %d, want 200", resp.StatusCode)
	}

	var uni model.University
	if err := db.First(&uni, "id = ?", "990").Error; err != nil {
		t.Fatalf("loading university: %v", err)
	}
	if uni.Ranking != "42" || uni.Tuition != 18000 {
		t.Errorf("Ranking = %q, Tuition = %v", uni.Ranking, uni.Tuition)
	}
	// Untouched fields survive the merge.
	if uni.Name != "University of Testshire" || uni.Country != "United Kingdom" {
		t.Errorf("Name = %q, Country = %q", uni.Name, uni.Country)
	}
}

func TestDeleteUniversityLeavesCourses(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, fiber.MethodPost, "/api/universities/", testToken, validBody())
	course := model.Course{ID: "c-1", Name: "MSc Data Science", UniversityID: "990"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seeding course: %v", err)
	}

	resp := doJSON(t, app, fiber.MethodDelete, "/api/universities/990", testToken, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, app, fiber.MethodGet, "/api/universities/990", "", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", resp.StatusCode)
	}

	// No cascade: the course row stays, now with a dangling reference.
	var count int64
	db.Model(&model.Course{}).Where("university_id = ?", "990").Count(&count)
	if count != 1 {
		t.Errorf("course count = %d after university delete, want 1", count)
	}
}
