package dao

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CampaignFilter composes the optional predicates of the campaign listing.
// Every value is bound as a parameter; user text never reaches the SQL string.
type CampaignFilter struct {
	scopes []func(*gorm.DB) *gorm.DB
}

func NewCampaignFilter() *CampaignFilter {
	return &CampaignFilter{}
}

// Search matches title or description, case-insensitive.
func (f *CampaignFilter) Search(text string) *CampaignFilter {
	if text == "" {
		return f
	}
	pattern := containsPattern(text)
	f.scopes = append(f.scopes, func(db *gorm.DB) *gorm.DB {
		return db.Where("(LOWER(campaigns.title) LIKE ? OR LOWER(campaigns.description) LIKE ?)", pattern, pattern)
	})
	return f
}

func (f *CampaignFilter) Category(category string) *CampaignFilter {
	if category == "" {
		return f
	}
	f.scopes = append(f.scopes, func(db *gorm.DB) *gorm.DB {
		return db.Where("campaigns.category = ?", category)
	})
	return f
}

// Location matches a substring of the location, case-insensitive.
func (f *CampaignFilter) Location(location string) *CampaignFilter {
	if location == "" {
		return f
	}
	pattern := containsPattern(location)
	f.scopes = append(f.scopes, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(campaigns.location) LIKE ?", pattern)
	})
	return f
}

func (f *CampaignFilter) Scopes() []func(*gorm.DB) *gorm.DB {
	return f.scopes
}

func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
}
