package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/http/api"
	"github.com/airwave-radio/airwave/internal/model"
)

const testSecret = "test-secret"

// userStore keeps accounts in memory; the remaining Store methods come from
// the embedded nil interface and panic if reached.
type userStore struct {
	db.Store
	nextID int
	users  map[string]*model.User
}

func newUserStore() *userStore {
	return &userStore{nextID: 1, users: make(map[string]*model.User)}
}

func (u *userStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	id := u.nextID
	u.nextID++
	u.users[email] = &model.User{ID: id, Email: email, HashedPassword: hashedPassword, Name: name}
	return id, nil
}

func (u *userStore) GetUserByEmail(email string) (*model.User, error) {
	user, ok := u.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s not found", email)
	}
	return user, nil
}

func (u *userStore) GetUserByID(id int) (*model.User, error) {
	for _, user := range u.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %d not found", id)
}

func authTestRouter(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin", Auth: false},
		AuthPublicModule(testSecret, store),
	)
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin", Auth: true, SecretKey: testSecret, Store: store},
		AuthSessionModule(testSecret, store),
	)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupLoginFlow(t *testing.T) {
	store := newUserStore()
	r := authTestRouter(store)

	w := postJSON(t, r, "/api/admin/auth/signup", gin.H{
		"email":    "ops@airwave.fm",
		"password": "correcthorse",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var signup struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	require.NotEmpty(t, signup.Token)

	// duplicate signup conflicts
	w = postJSON(t, r, "/api/admin/auth/signup", gin.H{
		"email":    "ops@airwave.fm",
		"password": "correcthorse",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// login with the right password
	w = postJSON(t, r, "/api/admin/auth/login", gin.H{
		"email":    "ops@airwave.fm",
		"password": "correcthorse",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	// the token opens the session surface
	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/current_profile", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ops@airwave.fm")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newUserStore()
	r := authTestRouter(store)

	postJSON(t, r, "/api/admin/auth/signup", gin.H{
		"email":    "ops@airwave.fm",
		"password": "correcthorse",
	}, "")

	w := postJSON(t, r, "/api/admin/auth/login", gin.H{
		"email":    "ops@airwave.fm",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/api/admin/auth/login", gin.H{
		"email":    "nobody@airwave.fm",
		"password": "correcthorse",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionEndpointsRequireToken(t *testing.T) {
	r := authTestRouter(newUserStore())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/auth/current_profile", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/auth/current_profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
