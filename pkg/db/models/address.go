package models

import "time"

// Address is the postal address captured at registration.
type Address struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	CEP          string    `gorm:"column:cep;not null"`
	Street       string    `gorm:"column:street;not null"`
	Number       string    `gorm:"column:number;not null"`
	Complement   string    `gorm:"column:complement;not null;default:''"`
	Neighborhood string    `gorm:"column:neighborhood;not null"`
	City         string    `gorm:"column:city;not null"`
	State        string    `gorm:"column:state;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Address) TableName() string { return "addresses" }
