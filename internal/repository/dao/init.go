package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Organization{},
		&Campaign{},
		&Membership{},
		&Completion{},
		&UserBadge{},
		&Activity{},
		&Session{},
	)
}

// DropAllTables removes every table of the public schema.
func DropAllTables(db *gorm.DB) error {
	var tableNames []string
	if err := db.Table("information_schema.tables").
		Where("table_schema = ?", "public").
		Pluck("table_name", &tableNames).Error; err != nil {
		return err
	}

	for _, tableName := range tableNames {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %q CASCADE", tableName)).Error; err != nil {
			return err
		}
	}

	return nil
}

type sampleCampaign struct {
	title            string
	description      string
	shortDescription string
	category         string
	location         string
	date             string
	time             string
	needed           int
	joined           int
	featured         bool
	requirements     string
}

var sampleCampaigns = []sampleCampaign{
	{
		title:            "Coastal Cleanup Drive",
		description:      "Join us for a massive beach cleanup initiative to protect marine life and keep our coastlines clean. We will be collecting plastic waste, bottles, and other debris from the beach.",
		shortDescription: "Join us for a massive beach cleanup initiative to protect marine life",
		category:         "cleanup",
		location:         "Mumbai Beach",
		date:             "2025-12-20",
		time:             "09:00",
		needed:           100,
		joined:           45,
		featured:         true,
		requirements:     `["Bring gloves", "Wear comfortable shoes", "Bring water bottle"]`,
	},
	{
		title:            "Urban Reforestation",
		description:      "Help us plant 500 trees to create a greener urban environment. This initiative aims to increase green cover in the city and improve air quality.",
		shortDescription: "Help us plant 500 trees to create a greener urban environment",
		category:         "tree-planting",
		location:         "City Park",
		date:             "2025-12-25",
		time:             "08:00",
		needed:           80,
		joined:           30,
		requirements:     `["No experience needed", "Tools provided", "Wear old clothes"]`,
	},
	{
		title:            "Waste Segregation Workshop",
		description:      "Learn and teach proper waste management practices to the community. This workshop will cover recycling, composting, and reducing waste.",
		shortDescription: "Learn and teach proper waste management practices to the community",
		category:         "awareness",
		location:         "Community Center",
		date:             "2026-01-05",
		time:             "10:00",
		needed:           50,
		joined:           20,
		requirements:     `["Bring notebook", "Open to all ages"]`,
	},
}

// SeedCampaigns inserts the sample campaigns when the campaign table is empty.
// It returns the number of rows inserted.
func SeedCampaigns(ctx context.Context, db *gorm.DB) (int, error) {
	count, err := NewCampaignDAO(db).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count campaigns -> %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	campaigns := make([]Campaign, 0, len(sampleCampaigns))
	for _, s := range sampleCampaigns {
		date, err := time.Parse(time.DateOnly, s.date)
		if err != nil {
			return 0, fmt.Errorf("parse sample date %q -> %w", s.date, err)
		}
		startTime := s.time
		campaigns = append(campaigns, Campaign{
			Slug:             slug.Make(s.title),
			Title:            s.title,
			Description:      s.description,
			ShortDescription: s.shortDescription,
			Category:         s.category,
			Location:         s.location,
			Date:             date,
			Time:             &startTime,
			VolunteersNeeded: s.needed,
			VolunteersJoined: s.joined,
			Status:           "upcoming",
			Featured:         s.featured,
			Requirements:     datatypes.JSON(s.requirements),
		})
	}

	if err := db.WithContext(ctx).Create(&campaigns).Error; err != nil {
		return 0, fmt.Errorf("insert sample campaigns -> %w", err)
	}

	return len(campaigns), nil
}
