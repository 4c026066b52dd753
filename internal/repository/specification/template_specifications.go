package specification

import "gorm.io/gorm"

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

type IsDefault struct{}

func (s IsDefault) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_default = ?", true)
}
