package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"taskmgr-go/internal/config"
	"taskmgr-go/internal/models"
	"taskmgr-go/internal/repository"
	"taskmgr-go/internal/service"
	"taskmgr-go/internal/storage"
	"taskmgr-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type apiEnv struct {
	router *gin.Engine
	alice  string
	bob    string
	admin  string
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := models.OpenDB(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{TimeZone: "UTC"},
		JWT:    config.JWTConfig{SecretKey: "api-secret"},
		Admin:  config.AdminConfig{Email: "root@example.com", Password: "Admin123!"},
	}
	config.ApplyDefaults(cfg)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.JWT.GetExpireDuration())

	authService := service.NewAuthService(repository.NewUserRepository(db), jwtManager, cfg, logger)
	if err := authService.InitAdmin(); err != nil {
		t.Fatalf("InitAdmin: %v", err)
	}

	env := &apiEnv{router: SetupRouter(cfg, jwtManager, logger, db, store, nil)}
	env.alice = env.registerAndLogin(t, "Alice", "alice@example.com")
	env.bob = env.registerAndLogin(t, "Bob", "bob@example.com")
	env.admin = env.login(t, "root@example.com", "Admin123!")
	return env
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *apiEnv) upload(t *testing.T, token string, taskID uint, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/tasks/%d/attachments", taskID), &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *apiEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	decode(t, rec, &resp)
	return resp.Data.AccessToken
}

func (e *apiEnv) registerAndLogin(t *testing.T, name, email string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": name, "email": email, "password": "User123!", "confirm_password": "User123!",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, rec.Code, rec.Body.String())
	}
	return e.login(t, email, "User123!")
}

func (e *apiEnv) createTask(t *testing.T, token string, body map[string]interface{}) uint {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/tasks", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decode(t, rec, &resp)
	return resp.Data.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func reasonOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.Response
	decode(t, rec, &resp)
	return resp.Reason
}

type listBody struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    []struct {
		ID           uint   `json:"id"`
		Title        string `json:"title"`
		AlertLevel   string `json:"alert_level"`
		CategoryName string `json:"category_name"`
		OwnerUserID  uint   `json:"owner_user_id"`
	} `json:"data"`
}

func dateIn(d time.Duration) (string, string) {
	at := time.Now().UTC().Add(d)
	return at.Format("2006-01-02"), at.Format("15:04")
}

func TestAPI_Unauthenticated(t *testing.T) {
	env := newAPIEnv(t)

	for _, path := range []string{"/api/tasks", "/api/tasks/stats", "/api/me"} {
		rec := env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized || reasonOf(t, rec) != "unauthenticated" {
			t.Errorf("%s: %d %s", path, rec.Code, rec.Body.String())
		}
	}

	rec := env.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", rec.Code)
	}
}

func TestAPI_AccountShape(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Carol", "email": "carol@example.com", "password": "User123!", "confirm_password": "User123!",
	})
	if rec.Code != http.StatusCreated || rec.Header().Get("Location") != "/api/me" {
		t.Fatalf("register: %d %v", rec.Code, rec.Header())
	}

	rec = env.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Carol", "email": "carol@example.com", "password": "User123!", "confirm_password": "User123!",
	})
	if rec.Code != http.StatusBadRequest || reasonOf(t, rec) != "validation_failed" {
		t.Fatalf("duplicate register: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "carol@example.com", "password": "User123!"})
	var login struct {
		Data struct {
			TokenType string `json:"token_type"`
			ExpiresIn int64  `json:"expires_in"`
			User      struct {
				Role string `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	decode(t, rec, &login)
	if login.Data.TokenType != "bearer" || login.Data.ExpiresIn != 1440*60 || login.Data.User.Role != "User" {
		t.Fatalf("login payload %+v", login.Data)
	}
}

func TestAPI_TaskListShapeAndFilters(t *testing.T) {
	env := newAPIEnv(t)

	date, clock := dateIn(48 * time.Hour)
	env.createTask(t, env.alice, map[string]interface{}{"title": "a1", "due_date": date, "due_time": clock, "category": 1, "status": 0})
	env.createTask(t, env.alice, map[string]interface{}{"title": "a2", "due_date": date, "due_time": clock, "category": 1, "status": 1})
	env.createTask(t, env.alice, map[string]interface{}{"title": "a3", "due_date": date, "due_time": clock, "category": 2, "status": 0})
	env.createTask(t, env.bob, map[string]interface{}{"title": "b1", "due_date": date, "due_time": clock})

	rec := env.do(t, http.MethodGet, "/api/tasks", env.alice, nil)
	var body listBody
	decode(t, rec, &body)
	if !body.Success || body.Count != 3 || len(body.Data) != 3 {
		t.Fatalf("alice list: %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/tasks?category=1&status=0", env.alice, nil)
	body = listBody{}
	decode(t, rec, &body)
	if body.Count != 1 || body.Data[0].Title != "a1" || body.Data[0].CategoryName != "Work" {
		t.Fatalf("filtered list: %s", rec.Body.String())
	}
	if body.Data[0].AlertLevel != "approaching" {
		t.Fatalf("alert level = %s", body.Data[0].AlertLevel)
	}

	rec = env.do(t, http.MethodGet, "/api/tasks", env.admin, nil)
	body = listBody{}
	decode(t, rec, &body)
	if body.Count != 4 {
		t.Fatalf("admin sees %d tasks", body.Count)
	}

	rec = env.do(t, http.MethodGet, "/api/tasks?upcoming=3", env.alice, nil)
	body = listBody{}
	decode(t, rec, &body)
	if body.Count != 3 {
		t.Fatalf("upcoming=3 returned %d", body.Count)
	}

	for _, q := range []string{"upcoming=-1", "upcoming=abc", "completed=maybe"} {
		rec = env.do(t, http.MethodGet, "/api/tasks?"+q, env.alice, nil)
		if rec.Code != http.StatusBadRequest || reasonOf(t, rec) != "validation_failed" {
			t.Errorf("%s: %d %s", q, rec.Code, rec.Body.String())
		}
	}
}

func TestAPI_OwnershipErrors(t *testing.T) {
	env := newAPIEnv(t)
	date, _ := dateIn(24 * time.Hour)
	id := env.createTask(t, env.alice, map[string]interface{}{"title": "private", "due_date": date})

	edit := map[string]interface{}{"title": "stolen", "due_date": date}

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), env.bob, edit)
	if rec.Code != http.StatusUnauthorized || reasonOf(t, rec) != "not_owner" {
		t.Fatalf("foreign edit: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, "/api/tasks/9999", env.bob, nil)
	if rec.Code != http.StatusNotFound || reasonOf(t, rec) != "not_found" {
		t.Fatalf("missing delete: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), env.bob, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("foreign get: %d", rec.Code)
	}

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), env.admin, edit)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin edit: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), env.alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAPI_Attachments(t *testing.T) {
	env := newAPIEnv(t)
	date, _ := dateIn(24 * time.Hour)
	id := env.createTask(t, env.alice, map[string]interface{}{"title": "files", "due_date": date})

	rec := env.upload(t, env.alice, id, "setup.exe", []byte("MZ"))
	if rec.Code != http.StatusBadRequest || reasonOf(t, rec) != "extension" {
		t.Fatalf("exe upload: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.upload(t, env.bob, id, "notes.txt", []byte("hi"))
	if rec.Code != http.StatusUnauthorized || reasonOf(t, rec) != "not_owner" {
		t.Fatalf("foreign upload: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.upload(t, env.alice, id, "notes.txt", []byte("hello attachments"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decode(t, rec, &created)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/attachments/%d/download", created.Data.ID), env.alice, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "hello attachments" {
		t.Fatalf("download: %d %q", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/attachments/%d/preview", created.Data.ID), env.admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d/attachments", id), env.alice, nil)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, rec, &list)
	if list.Count != 1 {
		t.Fatalf("attachment list count = %d", list.Count)
	}
}

func TestAPI_StatsAndAdmin(t *testing.T) {
	env := newAPIEnv(t)

	past, _ := dateIn(-72 * time.Hour)
	future, _ := dateIn(10 * 24 * time.Hour)
	env.createTask(t, env.alice, map[string]interface{}{"title": "late", "due_date": past})
	env.createTask(t, env.alice, map[string]interface{}{"title": "done", "due_date": past, "status": 2, "category": 3})
	env.createTask(t, env.alice, map[string]interface{}{"title": "later", "due_date": future})

	rec := env.do(t, http.MethodGet, "/api/tasks/stats", env.alice, nil)
	var resp struct {
		Data struct {
			Total     int `json:"total_tasks"`
			Completed int `json:"completed_tasks"`
			Pending   int `json:"pending_tasks"`
			Overdue   int `json:"overdue_tasks"`
		} `json:"data"`
	}
	decode(t, rec, &resp)
	if resp.Data.Total != 3 || resp.Data.Completed != 1 || resp.Data.Pending != 2 || resp.Data.Overdue != 1 {
		t.Fatalf("stats: %s", rec.Body.String())
	}

	if rec := env.do(t, http.MethodGet, "/api/admin/users", env.alice, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("user on admin route: %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/admin/users", env.admin, nil)
	var users struct {
		Total int `json:"total"`
	}
	decode(t, rec, &users)
	if rec.Code != http.StatusOK || users.Total != 3 {
		t.Fatalf("admin users: %d %s", rec.Code, rec.Body.String())
	}
}
