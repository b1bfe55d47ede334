// Package recommend turns a submitted criteria form into a recommendation
// request and hands the result on to the results page.
package recommend

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Adams521/everything-gift/internal/models"
	"github.com/Adams521/everything-gift/internal/validation"
)

// Form field names, shared with the criteria template.
const (
	FieldRecipientType = "recipient_type"
	FieldAgeRange      = "age_range"
	FieldGender        = "gender"
	FieldRelationship  = "relationship"
	FieldOccasion      = "occasion"
	FieldStyle         = "style"
	FieldMBTI          = "mbti"
	FieldZodiac        = "zodiac"
	FieldBudgetMin     = "budget_min"
	FieldBudgetMax     = "budget_max"
	FieldInterests     = "interests"
)

// ParseForm shapes the submitted values into Criteria. Blank inputs stay
// unset. Nothing is checked against business rules; the only failure is a
// budget that is not a number.
func ParseForm(values url.Values) (models.Criteria, error) {
	c := models.Criteria{
		RecipientType: text(values, FieldRecipientType),
		AgeRange:      text(values, FieldAgeRange),
		Gender:        text(values, FieldGender),
		Relationship:  text(values, FieldRelationship),
		Occasion:      text(values, FieldOccasion),
		Style:         text(values, FieldStyle),
		MBTI:          text(values, FieldMBTI),
		Zodiac:        text(values, FieldZodiac),
		Interests:     interests(values[FieldInterests]),
	}

	bad := map[string]string{}
	var ok bool
	if c.BudgetMin, ok = number(values, FieldBudgetMin); !ok {
		bad[FieldBudgetMin] = "number"
	}
	if c.BudgetMax, ok = number(values, FieldBudgetMax); !ok {
		bad[FieldBudgetMax] = "number"
	}
	if len(bad) > 0 {
		return c, &validation.Error{Fields: bad}
	}
	return c, nil
}

func text(values url.Values, key string) *string {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func number(values url.Values, key string) (*float64, bool) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

// interests accepts repeated fields as well as one free-text field split on
// ASCII or full-width commas and the ideographic comma.
func interests(raw []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, entry := range raw {
		for _, tag := range strings.FieldsFunc(entry, isSeparator) {
			tag = strings.TrimSpace(tag)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

func isSeparator(r rune) bool {
	return r == ',' || r == '，' || r == '、' || r == '\n'
}

// Values is the inverse of ParseForm, used to refill the form after a
// failed submission.
func Values(c models.Criteria) url.Values {
	v := url.Values{}
	set := func(key string, s *string) {
		if s != nil {
			v.Set(key, *s)
		}
	}
	set(FieldRecipientType, c.RecipientType)
	set(FieldAgeRange, c.AgeRange)
	set(FieldGender, c.Gender)
	set(FieldRelationship, c.Relationship)
	set(FieldOccasion, c.Occasion)
	set(FieldStyle, c.Style)
	set(FieldMBTI, c.MBTI)
	set(FieldZodiac, c.Zodiac)
	if c.BudgetMin != nil {
		v.Set(FieldBudgetMin, strconv.FormatFloat(*c.BudgetMin, 'f', -1, 64))
	}
	if c.BudgetMax != nil {
		v.Set(FieldBudgetMax, strconv.FormatFloat(*c.BudgetMax, 'f', -1, 64))
	}
	if len(c.Interests) > 0 {
		v.Set(FieldInterests, strings.Join(c.Interests, ", "))
	}
	return v
}
