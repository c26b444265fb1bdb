package models

import (
	"time"

	"github.com/ecoleta/ecoleta-backend/pkg/enums"
)

// GeneratorSettings holds notification and collection preferences, one row per
// generator.
type GeneratorSettings struct {
	ID                   uint                    `gorm:"primaryKey;autoIncrement"`
	GeneratorID          uint                    `gorm:"column:generator_id;not null;uniqueIndex:uq_generator_settings_generator"`
	EmailNotifications   bool                    `gorm:"column:email_notifications;not null"`
	PushNotifications    bool                    `gorm:"column:push_notifications;not null"`
	CollectionReminders  bool                    `gorm:"column:collection_reminders;not null"`
	MessageNotifications bool                    `gorm:"column:message_notifications;not null"`
	TwoFactorEnabled     bool                    `gorm:"column:two_factor_enabled;not null"`
	ProfileVisibility    enums.ProfileVisibility `gorm:"column:profile_visibility;not null"`
	PreferredTime        enums.CollectionTime    `gorm:"column:preferred_time;not null"`
	AverageOilQuantity   enums.OilQuantity       `gorm:"column:average_oil_quantity;not null"`
	CreatedAt            time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (GeneratorSettings) TableName() string { return "generator_settings" }

// DefaultGeneratorSettings returns the preferences every new generator starts with.
func DefaultGeneratorSettings(generatorID uint) GeneratorSettings {
	return GeneratorSettings{
		GeneratorID:          generatorID,
		EmailNotifications:   true,
		PushNotifications:    true,
		CollectionReminders:  true,
		MessageNotifications: false,
		TwoFactorEnabled:     false,
		ProfileVisibility:    enums.ProfileVisibilityPublic,
		PreferredTime:        enums.CollectionTimeMorning,
		AverageOilQuantity:   enums.OilQuantityMedium,
	}
}
