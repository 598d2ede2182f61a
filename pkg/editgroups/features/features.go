package features

import (
	"log"

	"gorm.io/gorm"

	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

// Registry answers feature-support questions for activity module types.
// It mirrors the host platform's plugin-capability registry: flags are fixed
// per module type, and an unknown type falls back to the caller's default.
type Registry struct {
	db *gorm.DB
}

// NewRegistry creates a feature registry backed by the given database
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// Supports reports whether the module type supports the named feature,
// returning def when the type has not been registered.
func (r *Registry) Supports(modName, feature string, def bool) bool {
	var mt models.ModuleType
	if err := r.db.Where("name = ?", modName).First(&mt).Error; err != nil {
		return def
	}
	switch feature {
	case models.FeatureGroups:
		return mt.SupportsGroups
	case models.FeatureGroupings:
		return mt.SupportsGroupings
	case models.FeatureGroupMembersOnly:
		return mt.SupportsGroupMembersOnly
	default:
		return def
	}
}

// DisplayName returns the localized display name for the module type,
// falling back to the raw name for unregistered types.
func (r *Registry) DisplayName(modName string) string {
	var mt models.ModuleType
	if err := r.db.Where("name = ?", modName).First(&mt).Error; err != nil {
		return modName
	}
	return mt.DisplayName
}

// stockTypes are the activity types shipped with the platform and their
// declared group-feature support.
var stockTypes = []models.ModuleType{
	{Name: "assign", DisplayName: "Assignment", SupportsGroups: true, SupportsGroupings: true, SupportsGroupMembersOnly: true},
	{Name: "forum", DisplayName: "Forum", SupportsGroups: true, SupportsGroupings: true, SupportsGroupMembersOnly: true},
	{Name: "quiz", DisplayName: "Quiz", SupportsGroups: true, SupportsGroupings: true, SupportsGroupMembersOnly: true},
	{Name: "wiki", DisplayName: "Wiki", SupportsGroups: true, SupportsGroupings: true, SupportsGroupMembersOnly: true},
	{Name: "workshop", DisplayName: "Workshop", SupportsGroups: true, SupportsGroupings: true, SupportsGroupMembersOnly: true},
	{Name: "choice", DisplayName: "Choice", SupportsGroups: true, SupportsGroupings: true, SupportsGroupMembersOnly: true},
	{Name: "label", DisplayName: "Label", SupportsGroups: false, SupportsGroupings: false, SupportsGroupMembersOnly: false},
	{Name: "resource", DisplayName: "File", SupportsGroups: false, SupportsGroupings: false, SupportsGroupMembersOnly: true},
	{Name: "page", DisplayName: "Page", SupportsGroups: false, SupportsGroupings: false, SupportsGroupMembersOnly: true},
	{Name: "url", DisplayName: "URL", SupportsGroups: false, SupportsGroupings: false, SupportsGroupMembersOnly: true},
}

// SeedStockTypes inserts the stock module types if they are not present.
// Existing rows are left untouched so local overrides survive restarts.
func SeedStockTypes(db *gorm.DB) error {
	for _, mt := range stockTypes {
		var existing models.ModuleType
		if err := db.Where("name = ?", mt.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&mt).Error; err != nil {
			return err
		}
	}
	log.Println("Module type registry seeded")
	return nil
}
