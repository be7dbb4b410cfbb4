package models

import "gorm.io/gorm"

// Settings is a single-row table of site-wide options
type Settings struct {
	gorm.Model
	SiteTitle         string `json:"site_title" gorm:"default:'Atom Q'"`
	SiteDescription   string `json:"site_description" gorm:"default:''"`
	MaintenanceMode   bool   `json:"maintenance_mode" gorm:"default:false"`
	AllowRegistration bool   `json:"allow_registration" gorm:"default:true"`
}
