package models

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVIP    Role = "vip"
	RoleMember Role = "member"
)

type User struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Identity is always written and cleared as a whole pair.
type Identity struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Criteria fields are pointers so that "unspecified" stays distinguishable
// from "explicitly empty" on the wire.
type Criteria struct {
	RecipientType *string  `json:"recipient_type,omitempty"`
	AgeRange      *string  `json:"age_range,omitempty"`
	Gender        *string  `json:"gender,omitempty"`
	Relationship  *string  `json:"relationship,omitempty"`
	Occasion      *string  `json:"occasion,omitempty"`
	Style         *string  `json:"style,omitempty"`
	MBTI          *string  `json:"mbti,omitempty"`
	Zodiac        *string  `json:"zodiac,omitempty"`
	BudgetMin     *float64 `json:"budget_min,omitempty"`
	BudgetMax     *float64 `json:"budget_max,omitempty"`
	Interests     []string `json:"interests,omitempty"`
}

type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Platform    string   `json:"platform"`
	PlatformURL string   `json:"platform_url"`
	Description *string  `json:"description,omitempty"`
}

type RecommendationResult struct {
	Categories []string  `json:"categories"`
	Products   []Product `json:"products"`
	Reasoning  string    `json:"reasoning"`
}

type RegisterRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Password string  `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse covers both the register and login replies. The backend
// names the token access_token; Token is accepted as well.
type AuthResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	Token       string `json:"token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user,omitempty"`
}

// BearerToken returns whichever token field the backend filled in.
func (a AuthResponse) BearerToken() string {
	if a.AccessToken != "" {
		return a.AccessToken
	}
	return a.Token
}

// ErrorResponse is the backend's failure body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
