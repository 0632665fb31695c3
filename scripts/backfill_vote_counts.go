package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Recomputes poll_options.votes from the poll_votes rows. Run after a
// manual data fix or a restore that bypassed the service layer.

type PollOption struct {
	ID    string `gorm:"primaryKey"`
	Votes int
}

func (PollOption) TableName() string {
	return "poll_options"
}

func main() {
	path := os.Getenv("DB_NAME")
	if path == "" {
		path = "teamfit.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var options []PollOption
	if err := db.Find(&options).Error; err != nil {
		log.Fatalf("Failed to query poll options: %v", err)
	}

	fixed := 0
	for _, opt := range options {
		var actual int64
		if err := db.Table("poll_votes").Where("option_id = ?", opt.ID).Count(&actual).Error; err != nil {
			log.Fatalf("Failed to count votes for option %s: %v", opt.ID, err)
		}
		if int(actual) == opt.Votes {
			continue
		}
		fmt.Printf("Option %s: counter %d -> %d\n", opt.ID, opt.Votes, actual)
		if err := db.Model(&PollOption{}).Where("id = ?", opt.ID).
			Update("votes", actual).Error; err != nil {
			log.Fatalf("Failed to update option %s: %v", opt.ID, err)
		}
		fixed++
	}

	fmt.Printf("Done. %d counters corrected.\n", fixed)
}
