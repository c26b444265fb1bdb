package models

import (
	"time"

	"github.com/ecoleta/ecoleta-backend/pkg/enums"
)

// Generator is a household or business that hands used cooking oil over for
// collection.
type Generator struct {
	ID           uint                  `gorm:"primaryKey;autoIncrement"`
	Email        string                `gorm:"column:email;not null;uniqueIndex:uq_generators_email"`
	PasswordHash string                `gorm:"column:password_hash;not null"`
	Name         string                `gorm:"column:name;not null"`
	CPF          string                `gorm:"column:cpf;not null;uniqueIndex:uq_generators_cpf"`
	Phone        string                `gorm:"column:phone;not null"`
	BirthDate    time.Time             `gorm:"column:birth_date;type:date;not null"`
	Gender       enums.Gender          `gorm:"column:gender;type:varchar(1);not null;default:''"`
	PhotoRef     *string               `gorm:"column:photo_ref"`
	AddressID    uint                  `gorm:"column:address_id;not null"`
	Address      *Address              `gorm:"foreignKey:AddressID"`
	Status       enums.GeneratorStatus `gorm:"column:status;not null;default:pending"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Generator) TableName() string { return "generators" }
