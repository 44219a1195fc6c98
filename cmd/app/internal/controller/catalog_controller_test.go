package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"wellpath-backend-V2.0/internal/flow"
	"wellpath-backend-V2.0/internal/model"
)

func templateCatalog() *flow.Catalog {
	return &flow.Catalog{
		Name: "tmpl-test",
		Domains: []flow.Domain{
			{
				ID:    "mood",
				Title: "Mood",
				Questions: []flow.Question{
					{ID: "phq9_1", Prompt: "Little interest?", Type: flow.TypeScale,
						Options: []string{"a", "b"}, Instrument: "PHQ-9", Required: true},
					{ID: "notes", Prompt: "Anything else?", Type: flow.TypeText},
				},
			},
		},
	}
}

func TestGetTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/health-questionnaires/templates", NewCatalogController(templateCatalog()).GetTemplates)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health-questionnaires/templates", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Name    string `json:"name"`
		Domains []struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			Questions []struct {
				ID         string   `json:"id"`
				Type       string   `json:"type"`
				Options    []string `json:"options"`
				Instrument string   `json:"instrument"`
			} `json:"questions"`
		} `json:"domains"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Name != "tmpl-test" || len(body.Domains) != 1 {
		t.Fatalf("unexpected payload: %+v", body)
	}
	d := body.Domains[0]
	if d.ID != "mood" || len(d.Questions) != 2 {
		t.Fatalf("unexpected domain: %+v", d)
	}
	if d.Questions[0].Instrument != "PHQ-9" || len(d.Questions[0].Options) != 2 {
		t.Fatalf("question metadata missing: %+v", d.Questions[0])
	}
	if d.Questions[1].Instrument != "" {
		t.Fatalf("free-text question should carry no instrument: %+v", d.Questions[1])
	}
}

type stubAuthService struct {
	user *model.User
}

func (s *stubAuthService) Register(user *model.User) error { return nil }
func (s *stubAuthService) Login(email, password string) (*model.User, error) {
	return nil, errors.New("not implemented")
}
func (s *stubAuthService) CheckEmail(email string) (bool, error) { return false, nil }
func (s *stubAuthService) CurrentUser(userID uint) (*model.User, error) {
	if s.user == nil || s.user.ID != userID {
		return nil, errors.New("user not found")
	}
	return s.user, nil
}

func TestCurrentUserEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := NewAuthController(&stubAuthService{user: &model.User{ID: 9, Email: "jo@example.com"}})

	r := gin.New()
	r.GET("/api/auth/user", func(c *gin.Context) {
		c.Set("user_id", uint(9))
		ctrl.CurrentUser(c)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var user model.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if user.ID != 9 || user.Email != "jo@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestCurrentUserEndpointWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := NewAuthController(&stubAuthService{})

	r := gin.New()
	r.GET("/api/auth/user", ctrl.CurrentUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
