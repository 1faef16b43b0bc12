package models

type Sector struct {
	ID   int    `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"sector_name" db:"sector_name" gorm:"column:sector_name"`
}

func (Sector) TableName() string { return "sectors" }
