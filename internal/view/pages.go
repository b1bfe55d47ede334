package view

import (
	"net/url"

	"github.com/Adams521/everything-gift/internal/models"
)

// Layout is the chrome shared by every page.
type Layout struct {
	Title string
	User  *models.User
	// APIBase is the backend address as seen from the browser.
	APIBase string
}

// RoleBadge is the label shown next to the username; members get none.
func (l Layout) RoleBadge() string {
	if l.User == nil {
		return ""
	}
	switch l.User.Role {
	case models.RoleAdmin:
		return "管理员"
	case models.RoleVIP:
		return "VIP"
	default:
		return ""
	}
}

type HomePage struct {
	Layout
}

type RecommendPage struct {
	Layout
	Form    url.Values
	Selects []Select
	// Alert is a blocking failure message from the last submission.
	Alert string
	// Errors holds inline messages keyed by form field.
	Errors map[string]string
}

type ResultsPage struct {
	Layout
	Found      bool
	Reasoning  string
	Categories []string
	Cards      []Card
}

type ProductsPage struct {
	Layout
	Error string
	Cards []Card
}

type RegisterPage struct {
	Layout
	Username string
	Email    string
	Error    string
}

type LoginPage struct {
	Layout
	Username   string
	Error      string
	Registered bool
}

type ErrorPage struct {
	Layout
	Message string
}
