package view

import (
	"fmt"

	"github.com/Adams521/everything-gift/internal/models"
)

// Card is one product tile, with the display rules already applied.
type Card struct {
	ID          int64
	Name        string
	Platform    string
	PlatformURL string
	Description string

	// ImageURL is empty when the product has no image; the template then
	// renders the placeholder cell and makes no load attempt.
	ImageURL string
	// Fallback replaces ImageURL once if it fails to load.
	Fallback string
	// Price is preformatted, empty when unknown.
	Price string
}

// FormatPrice renders a price with the currency glyph and two decimals.
func FormatPrice(p float64) string {
	return fmt.Sprintf("¥%.2f", p)
}

func NewCard(p models.Product, placeholder string) Card {
	c := Card{
		ID:          p.ID,
		Name:        p.Name,
		Platform:    p.Platform,
		PlatformURL: p.PlatformURL,
		Fallback:    placeholder,
	}
	if p.ImageURL != nil && *p.ImageURL != "" {
		c.ImageURL = *p.ImageURL
	}
	if p.Price != nil {
		c.Price = FormatPrice(*p.Price)
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	return c
}

func NewCards(products []models.Product, placeholder string) []Card {
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		cards = append(cards, NewCard(p, placeholder))
	}
	return cards
}
