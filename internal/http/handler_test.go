package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-tracker.com/task-tracker/internal/constants"
	dto "task-tracker.com/task-tracker/internal/data_models"
	"task-tracker.com/task-tracker/internal/feed"
	httpapi "task-tracker.com/task-tracker/internal/http"
	model "task-tracker.com/task-tracker/internal/models"
	repository "task-tracker.com/task-tracker/internal/repositories"
	"task-tracker.com/task-tracker/internal/tokens"
	"task-tracker.com/task-tracker/internal/workspace"
)

func newApp(t *testing.T) http.Handler {
	t.Helper()

	app, _ := newAppWithTTL(t, time.Hour)
	return app
}

func newAppWithTTL(t *testing.T, tokenTTL time.Duration) (http.Handler, *workspace.Manager) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := zap.NewNop().Sugar()
	accounts := repository.NewAccountRepository(db)
	manager := workspace.NewManager(workspace.Deps{
		NewAuth:  accounts.NewAuthClient,
		Profiles: repository.NewProfileRepository(db),
		Tasks:    repository.NewTaskRepository(db, feed.NewLocalFeed(), logger),
	}, logger)
	t.Cleanup(manager.CloseAll)

	e := echo.New()
	h := httpapi.NewHandler(manager, tokens.NewIssuer("test-secret", tokenTTL), logger)
	httpapi.Register(e, h, 0)
	return e, manager
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body err=%v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q err=%v", rr.Body.String(), err)
	}
	return out
}

func signUp(t *testing.T, app http.Handler, email string) string {
	t.Helper()

	rr := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s status=%d body=%s", email, rr.Code, rr.Body.String())
	}
	return decode[dto.SessionResponse](t, rr).Token
}

func createTask(t *testing.T, app http.Handler, token, title, assignee string) {
	t.Helper()

	rr := doJSON(t, app, http.MethodPost, "/tasks", token, map[string]any{
		"title":       title,
		"description": "details",
		"assigned_to": assignee,
		"due_date":    "2026-06-01",
	})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
}

// waitForTasks polls GET /tasks until it lists n tasks.
func waitForTasks(t *testing.T, app http.Handler, token string, n int) dto.TaskListResponse {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for {
		rr := doJSON(t, app, http.MethodGet, "/tasks", token, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("list status=%d body=%s", rr.Code, rr.Body.String())
		}
		resp := decode[dto.TaskListResponse](t, rr)
		if resp.Count == n && !resp.Loading {
			return resp
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d tasks, last=%+v", n, resp)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRegister_AssignsRoleFromEmail(t *testing.T) {
	app := newApp(t)

	cases := map[string]constants.Role{
		"admin@x.com": constants.RoleAdmin,
		"bob@x.com":   constants.RoleEmployee,
	}
	for email, want := range cases {
		token := signUp(t, app, email)

		rr := doJSON(t, app, http.MethodGet, "/auth/session", token, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("session status=%d body=%s", rr.Code, rr.Body.String())
		}
		if got := decode[dto.SessionResponse](t, rr).Identity.Role; got != want {
			t.Fatalf("%s role=%s, want %s", email, got, want)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app := newApp(t)
	signUp(t, app, "bob@x.com")

	rr := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "bob@x.com",
		"password": "another1",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", rr.Code)
	}
	if got := decode[dto.ErrorResponse](t, rr).Message; got != "Email already registered" {
		t.Fatalf("message=%q", got)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	app := newApp(t)
	signUp(t, app, "bob@x.com")

	rr := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "bob@x.com",
		"password": "wrong-password",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", rr.Code)
	}
	if got := decode[dto.ErrorResponse](t, rr).Message; got != "Invalid email or password." {
		t.Fatalf("message=%q", got)
	}
}

func TestLogin_InvalidJSON(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rr.Code)
	}
}

func TestTasks_RequireToken(t *testing.T) {
	app := newApp(t)

	if rr := doJSON(t, app, http.MethodGet, "/tasks", "", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", rr.Code)
	}
	if rr := doJSON(t, app, http.MethodGet, "/tasks", "garbage", nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", rr.Code)
	}
}

func TestTasks_EmployeeScope(t *testing.T) {
	app := newApp(t)
	admin := signUp(t, app, "admin@x.com")
	emp := signUp(t, app, "e@x.com")

	createTask(t, app, admin, "for f 1", "f@x.com")
	createTask(t, app, admin, "for f 2", "f@x.com")
	waitForTasks(t, app, admin, 2)

	resp := waitForTasks(t, app, emp, 0)
	if resp.Count != 0 {
		t.Fatalf("employee sees %d tasks", resp.Count)
	}

	createTask(t, app, admin, "for e", "e@x.com")
	resp = waitForTasks(t, app, emp, 1)
	if resp.Tasks[0].Title != "for e" {
		t.Fatalf("employee task=%+v", resp.Tasks[0])
	}

	rr := doJSON(t, app, http.MethodGet, "/tasks/stats", emp, nil)
	if stats := decode[model.Stats](t, rr); stats.Total != 1 || stats.New != 1 {
		t.Fatalf("employee stats=%+v", stats)
	}
}

func TestTasks_EmployeeCannotAdminister(t *testing.T) {
	app := newApp(t)
	admin := signUp(t, app, "admin@x.com")
	emp := signUp(t, app, "e@x.com")

	rr := doJSON(t, app, http.MethodPost, "/tasks", emp, map[string]any{
		"title":       "sneaky",
		"description": "details",
		"assigned_to": "e@x.com",
		"due_date":    "2026-06-01",
	})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("create status=%d, want 403", rr.Code)
	}

	createTask(t, app, admin, "theirs", "f@x.com")
	theirs := waitForTasks(t, app, admin, 1).Tasks[0]

	rr = doJSON(t, app, http.MethodPatch, "/tasks/"+theirs.ID+"/status", emp, map[string]any{"status": "Completed"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("patch status=%d, want 403", rr.Code)
	}
	if rr := doJSON(t, app, http.MethodDelete, "/tasks/"+theirs.ID, emp, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("delete status=%d, want 403", rr.Code)
	}
}

func TestTasks_EmployeeUpdatesOwnStatus(t *testing.T) {
	app := newApp(t)
	admin := signUp(t, app, "admin@x.com")
	emp := signUp(t, app, "e@x.com")

	createTask(t, app, admin, "mine", "e@x.com")
	mine := waitForTasks(t, app, emp, 1).Tasks[0]

	rr := doJSON(t, app, http.MethodPatch, "/tasks/"+mine.ID+"/status", emp, map[string]any{"status": "Active"})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if toast := decode[model.Toast](t, rr); toast.Message != "Task updated successfully!" {
		t.Fatalf("toast=%+v", toast)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		got := waitForTasks(t, app, emp, 1).Tasks[0]
		if got.Status == constants.StatusActive {
			if !got.UpdatedAt.After(mine.UpdatedAt) {
				t.Fatalf("updated_at %v not after %v", got.UpdatedAt, mine.UpdatedAt)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("status never became Active: %+v", got)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTasks_ViewFilterAndSort(t *testing.T) {
	app := newApp(t)
	admin := signUp(t, app, "admin@x.com")

	createTask(t, app, admin, "one", "e@x.com")
	createTask(t, app, admin, "two", "e@x.com")
	waitForTasks(t, app, admin, 2)

	rr := doJSON(t, app, http.MethodPut, "/tasks/view", admin, map[string]any{"status": "Completed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if resp := decode[dto.TaskListResponse](t, rr); resp.Count != 0 || resp.Status != "Completed" {
		t.Fatalf("filtered=%+v", resp)
	}

	rr = doJSON(t, app, http.MethodGet, "/tasks?status=All&q=two", admin, nil)
	if resp := decode[dto.TaskListResponse](t, rr); resp.Count != 1 || resp.Tasks[0].Title != "two" {
		t.Fatalf("search=%+v", resp)
	}

	if rr := doJSON(t, app, http.MethodGet, "/tasks?sort=name", admin, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad sort status=%d, want 400", rr.Code)
	}
}

func TestTasks_BulkActions(t *testing.T) {
	app := newApp(t)
	admin := signUp(t, app, "admin@x.com")

	createTask(t, app, admin, "one", "e@x.com")
	createTask(t, app, admin, "two", "e@x.com")
	waitForTasks(t, app, admin, 2)

	rr := doJSON(t, app, http.MethodPost, "/tasks/bulk/status", admin, map[string]any{"status": "Completed"})
	if toast := decode[model.Toast](t, rr); toast.Message != "No tasks selected" {
		t.Fatalf("empty bulk toast=%+v", toast)
	}

	rr = doJSON(t, app, http.MethodPost, "/tasks/selection/all", admin, nil)
	if sel := decode[dto.SelectionResponse](t, rr); sel.Count != 2 {
		t.Fatalf("selection=%+v", sel)
	}

	rr = doJSON(t, app, http.MethodPost, "/tasks/bulk/status", admin, map[string]any{"status": "Completed"})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("bulk status=%d body=%s", rr.Code, rr.Body.String())
	}
	if toast := decode[model.Toast](t, rr); toast.Message != "2 tasks updated successfully!" {
		t.Fatalf("bulk toast=%+v", toast)
	}

	rr = doJSON(t, app, http.MethodPut, "/tasks/selection", admin, map[string]any{"ids": []string{"unknown"}})
	if sel := decode[dto.SelectionResponse](t, rr); sel.Count != 0 {
		t.Fatalf("unknown id kept in selection: %+v", sel)
	}

	doJSON(t, app, http.MethodPost, "/tasks/selection/all", admin, nil)
	rr = doJSON(t, app, http.MethodPost, "/tasks/bulk/delete", admin, nil)
	if toast := decode[model.Toast](t, rr); toast.Message != "2 tasks deleted!" {
		t.Fatalf("bulk delete toast=%+v", toast)
	}
	waitForTasks(t, app, admin, 0)
}

func TestToasts_ListAndDismiss(t *testing.T) {
	app := newApp(t)
	admin := signUp(t, app, "admin@x.com")
	createTask(t, app, admin, "one", "e@x.com")

	rr := doJSON(t, app, http.MethodGet, "/toasts", admin, nil)
	list := decode[dto.ToastListResponse](t, rr)
	if list.Count != 1 || list.Toasts[0].Message != "Task created successfully!" {
		t.Fatalf("toasts=%+v", list)
	}

	path := "/toasts/" + list.Toasts[0].ID
	if rr := doJSON(t, app, http.MethodDelete, path, admin, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("dismiss status=%d", rr.Code)
	}
	if rr := doJSON(t, app, http.MethodDelete, path, admin, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second dismiss status=%d, want 404", rr.Code)
	}
}

func TestLogout_InvalidatesToken(t *testing.T) {
	app := newApp(t)
	token := signUp(t, app, "bob@x.com")

	if rr := doJSON(t, app, http.MethodPost, "/auth/logout", token, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("logout status=%d", rr.Code)
	}
	if rr := doJSON(t, app, http.MethodGet, "/auth/session", token, nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d after logout, want 401", rr.Code)
	}
}

func TestExpiredSessions_ReleaseWorkspaces(t *testing.T) {
	app, manager := newAppWithTTL(t, 200*time.Millisecond)

	var issued []string
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		issued = append(issued, signUp(t, app, email))
	}
	if n := manager.Len(); n != 3 {
		t.Fatalf("open workspaces=%d, want 3", n)
	}

	time.Sleep(300 * time.Millisecond)

	if rr := doJSON(t, app, http.MethodGet, "/auth/session", issued[0], nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d with expired token, want 401", rr.Code)
	}

	manager.Reap()
	if n := manager.Len(); n != 0 {
		t.Fatalf("workspaces alive after every token expired: %d", n)
	}
}
