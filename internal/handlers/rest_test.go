package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thereayou/streamhub/internal/database"
	"github.com/thereayou/streamhub/internal/live"
	"github.com/thereayou/streamhub/internal/middleware"
	"github.com/thereayou/streamhub/pkg/auth"
)

type fakeProvider struct {
	input     *live.LiveInput
	inputs    []live.LiveInput
	createErr error
	listErr   error
}

func (f *fakeProvider) CreateLiveInput(ctx context.Context, name string) (*live.LiveInput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.input, nil
}

func (f *fakeProvider) ListLiveInputs(ctx context.Context) ([]live.LiveInput, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.inputs, nil
}

type restFixture struct {
	db       *database.Database
	router   *gin.Engine
	provider *fakeProvider
}

// testAuth подставляет user id из заголовка вместо JWT-middleware
func testAuth(c *gin.Context) {
	if raw := c.GetHeader("X-User-ID"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			c.Set(middleware.UserIDKey, id)
			c.Next()
			return
		}
	}
	c.AbortWithStatus(http.StatusUnauthorized)
}

func newRESTFixture(t *testing.T) *restFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "rest_test.db")
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db := database.NewDatabase(gormDB)

	provider := &fakeProvider{}
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)

	authH := NewAuthHandler(db, jwtMgr, nil, provider)
	streamH := NewStreamHandler(db, provider)
	profileH := NewProfileHandler(db)
	banH := NewBanHandler(db)

	router := gin.New()
	router.POST("/auth/signup", authH.Signup)
	router.POST("/auth/login", authH.Login)
	router.GET("/api/streams/:username", streamH.GetStreamInfo)
	router.GET("/api/users", streamH.ListUsers)
	router.GET("/api/profile", testAuth, profileH.GetProfile)
	router.PUT("/api/profile", testAuth, profileH.UpdateProfile)
	router.POST("/api/password/change", testAuth, profileH.ChangePassword)
	router.POST("/api/ban", testAuth, banH.Ban)
	router.POST("/api/unban", testAuth, banH.Unban)
	router.GET("/api/streams/:username/banned", testAuth, banH.ListBanned)

	return &restFixture{db: db, router: router, provider: provider}
}

func (f *restFixture) do(t *testing.T, method, url string, body interface{}, userID string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestSignup_ProvisionsStreamFromProvider(t *testing.T) {
	f := newRESTFixture(t)
	f.provider.input = &live.LiveInput{
		UID:       "uid-1",
		StreamKey: "provider-key",
		RTMPSURL:  "rtmps://live.example.com/live/",
	}

	w := f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "bob", "password": "secret-pass", "nickname": "Bo"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	resp := decodeJSON(t, w)
	if resp["nickname"] != "Bo" {
		t.Errorf("nickname = %v, want Bo", resp["nickname"])
	}

	user, err := f.db.FindUserByUsername("bob")
	if err != nil {
		t.Fatalf("FindUserByUsername: %v", err)
	}
	stream, err := f.db.FindStreamByUser(user.ID.String())
	if err != nil {
		t.Fatalf("FindStreamByUser: %v", err)
	}
	if stream.StreamKey != "provider-key" || stream.ViewerUID != "uid-1" {
		t.Errorf("stream = %+v, want provider values", stream)
	}
}

func TestSignup_FallsBackToPlaceholderStream(t *testing.T) {
	f := newRESTFixture(t)
	f.provider.createErr = context.DeadlineExceeded

	w := f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "carol", "password": "secret-pass"}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// Nickname по умолчанию равен username
	resp := decodeJSON(t, w)
	if resp["nickname"] != "carol" {
		t.Errorf("nickname = %v, want carol", resp["nickname"])
	}

	user, _ := f.db.FindUserByUsername("carol")
	stream, err := f.db.FindStreamByUser(user.ID.String())
	if err != nil {
		t.Fatalf("FindStreamByUser: %v", err)
	}
	if !strings.HasPrefix(stream.StreamKey, "dev-") {
		t.Errorf("StreamKey = %q, want dev- placeholder", stream.StreamKey)
	}
	if !strings.HasPrefix(stream.ViewerUID, "placeholder-") {
		t.Errorf("ViewerUID = %q, want placeholder-", stream.ViewerUID)
	}
}

func TestLogin(t *testing.T) {
	f := newRESTFixture(t)
	f.provider.createErr = context.DeadlineExceeded
	f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "bob", "password": "secret-pass", "nickname": "Bo"}, "")

	t.Run("valid credentials", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/auth/login",
			map[string]string{"username": "bob", "password": "secret-pass"}, "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		resp := decodeJSON(t, w)
		if resp["token"] == nil || resp["token"] == "" {
			t.Error("no token in response")
		}
		if resp["username"] != "bob" || resp["nickname"] != "Bo" {
			t.Errorf("identity = %v/%v, want bob/Bo", resp["username"], resp["nickname"])
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/auth/login",
			map[string]string{"username": "bob", "password": "nope-nope"}, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/auth/login",
			map[string]string{"username": "ghost", "password": "whatever1"}, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestGetStreamInfo(t *testing.T) {
	f := newRESTFixture(t)
	f.provider.input = &live.LiveInput{UID: "uid-1", StreamKey: "key-1", RTMPSURL: "rtmps://x/live/"}
	f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "bob", "password": "secret-pass"}, "")

	t.Run("existing stream", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/streams/bob", nil, "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		resp := decodeJSON(t, w)
		if resp["stream_key"] != "key-1" || resp["stream_uid"] != "uid-1" {
			t.Errorf("response = %v", resp)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/streams/ghost", nil, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestListUsers_LiveStatus(t *testing.T) {
	f := newRESTFixture(t)
	f.provider.input = &live.LiveInput{UID: "uid-bob", StreamKey: "k", RTMPSURL: "rtmps://x/"}
	f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "bob", "password": "secret-pass"}, "")
	f.provider.input = &live.LiveInput{UID: "uid-carol", StreamKey: "k2", RTMPSURL: "rtmps://x/"}
	f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "carol", "password": "secret-pass"}, "")

	f.provider.inputs = []live.LiveInput{
		{UID: "uid-bob", Status: "live", Thumbnail: "https://cdn.example.com/bob.jpg"},
		{UID: "uid-carol", Status: "idle"},
	}

	w := f.do(t, http.MethodGet, "/api/users", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	// Отсортировано по username: bob, carol
	if entries[0]["username"] != "bob" || entries[0]["is_live"] != true {
		t.Errorf("bob entry = %v, want live", entries[0])
	}
	if entries[0]["thumbnail"] != "https://cdn.example.com/bob.jpg" {
		t.Errorf("bob thumbnail = %v", entries[0]["thumbnail"])
	}
	if entries[1]["username"] != "carol" || entries[1]["is_live"] != false {
		t.Errorf("carol entry = %v, want offline", entries[1])
	}
}

func TestListUsers_ProviderFailureDegrades(t *testing.T) {
	f := newRESTFixture(t)
	f.provider.createErr = context.DeadlineExceeded
	f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "bob", "password": "secret-pass"}, "")

	f.provider.listErr = context.DeadlineExceeded

	w := f.do(t, http.MethodGet, "/api/users", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite provider failure", w.Code)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0]["is_live"] != false {
		t.Errorf("entries = %v, want single offline entry", entries)
	}
}

func TestBanManagement(t *testing.T) {
	f := newRESTFixture(t)
	f.provider.createErr = context.DeadlineExceeded
	f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "alice", "password": "secret-pass"}, "")
	f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "troll", "password": "secret-pass"}, "")

	alice, _ := f.db.FindUserByUsername("alice")
	troll, _ := f.db.FindUserByUsername("troll")

	t.Run("self ban rejected", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/ban",
			map[string]string{"banned_user": "alice"}, alice.ID.String())
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("ban unknown user", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/ban",
			map[string]string{"banned_user": "ghost"}, alice.ID.String())
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("ban and list", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/ban",
			map[string]string{"banned_user": "troll"}, alice.ID.String())
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		banned, err := f.db.IsBanned(alice.ID, troll.ID)
		if err != nil || !banned {
			t.Errorf("IsBanned = %v, %v, want true", banned, err)
		}

		w = f.do(t, http.MethodGet, "/api/streams/alice/banned", nil, alice.ID.String())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var entries []map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(entries) != 1 || entries[0]["banned_username"] != "troll" {
			t.Errorf("entries = %v, want troll", entries)
		}
	})

	t.Run("banned list hidden from others", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/streams/alice/banned", nil, troll.ID.String())
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("unban", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/unban",
			map[string]string{"banned_user": "troll"}, alice.ID.String())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}

		// Повторный unban: записи уже нет
		w = f.do(t, http.MethodPost, "/api/unban",
			map[string]string{"banned_user": "troll"}, alice.ID.String())
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestProfileAndPassword(t *testing.T) {
	f := newRESTFixture(t)
	f.provider.createErr = context.DeadlineExceeded
	f.do(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "bob", "password": "secret-pass"}, "")
	bob, _ := f.db.FindUserByUsername("bob")

	t.Run("update nickname", func(t *testing.T) {
		w := f.do(t, http.MethodPut, "/api/profile",
			map[string]string{"nickname": "Bo"}, bob.ID.String())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		resp := decodeJSON(t, w)
		if resp["nickname"] != "Bo" {
			t.Errorf("nickname = %v, want Bo", resp["nickname"])
		}
	})

	t.Run("change password requires correct old one", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/api/password/change",
			map[string]string{"old_password": "wrong-pass", "new_password": "next-secret"}, bob.ID.String())
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}

		w = f.do(t, http.MethodPost, "/api/password/change",
			map[string]string{"old_password": "secret-pass", "new_password": "next-secret"}, bob.ID.String())
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		// Старый пароль больше не работает
		w = f.do(t, http.MethodPost, "/auth/login",
			map[string]string{"username": "bob", "password": "secret-pass"}, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login with old password status = %d, want 401", w.Code)
		}
		w = f.do(t, http.MethodPost, "/auth/login",
			map[string]string{"username": "bob", "password": "next-secret"}, "")
		if w.Code != http.StatusOK {
			t.Errorf("login with new password status = %d, want 200", w.Code)
		}
	})
}
