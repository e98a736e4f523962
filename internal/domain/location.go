package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Location struct {
	LocationID uuid.UUID `gorm:"column:location_id;type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
}

func (Location) TableName() string {
	return "locations"
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.LocationID == uuid.Nil {
		l.LocationID = uuid.New()
	}
	return nil
}
