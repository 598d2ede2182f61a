package modinfo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campusloop/editgroups/pkg/editgroups/cache"
	"github.com/campusloop/editgroups/pkg/editgroups/models"
)

// ModuleInfo is a per-activity descriptor inside a course snapshot.
type ModuleInfo struct {
	ID               uint   `json:"id"`
	SectionNum       int    `json:"section_num"`
	ModName          string `json:"mod_name"`
	Name             string `json:"name"`
	Icon             string `json:"icon"`
	Visible          bool   `json:"visible"`
	GroupMode        int    `json:"group_mode"`
	GroupingID       uint   `json:"grouping_id"`
	GroupMembersOnly bool   `json:"group_members_only"`
}

// SectionInfo holds a section's ordered module ids.
type SectionInfo struct {
	Num       int    `json:"num"`
	Name      string `json:"name"`
	Visible   bool   `json:"visible"`
	ModuleIDs []uint `json:"module_ids"`
}

// CourseInfo is the derived module/section snapshot for one course: ordered
// sections, each holding ordered module ids, plus a module lookup.
type CourseInfo struct {
	CourseID uint                 `json:"course_id"`
	Sections []SectionInfo        `json:"sections"`
	Modules  map[uint]*ModuleInfo `json:"modules"`
}

// Provider builds course snapshots, caching them until invalidated.
type Provider struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewProvider creates a snapshot provider
func NewProvider(db *gorm.DB, c *cache.Cache) *Provider {
	return &Provider{db: db, cache: c}
}

func cacheKey(courseID uint) string {
	return fmt.Sprintf("editgroups:modinfo:%d", courseID)
}

// Get returns the snapshot for courseID, from cache when possible.
func (p *Provider) Get(ctx context.Context, courseID uint) (*CourseInfo, error) {
	var info CourseInfo
	if p.cache.Get(ctx, cacheKey(courseID), &info) {
		return &info, nil
	}
	built, err := p.build(courseID)
	if err != nil {
		return nil, err
	}
	p.cache.Set(ctx, cacheKey(courseID), built)
	return built, nil
}

// Invalidate drops the cached snapshot for courseID. Must be called after
// any successful settings commit so the next render observes fresh values.
func (p *Provider) Invalidate(ctx context.Context, courseID uint) {
	p.cache.Delete(ctx, cacheKey(courseID))
}

func (p *Provider) build(courseID uint) (*CourseInfo, error) {
	var sections []models.Section
	if err := p.db.Where("course_id = ?", courseID).Order("num ASC").Find(&sections).Error; err != nil {
		return nil, err
	}

	var mods []models.CourseModule
	if err := p.db.Where("course_id = ?", courseID).Order("sort_order ASC, id ASC").Find(&mods).Error; err != nil {
		return nil, err
	}

	bySection := make(map[uint][]uint, len(sections))
	info := &CourseInfo{
		CourseID: courseID,
		Modules:  make(map[uint]*ModuleInfo, len(mods)),
	}

	sectionNums := make(map[uint]int, len(sections))
	for _, s := range sections {
		sectionNums[s.ID] = s.Num
	}

	for _, m := range mods {
		bySection[m.SectionID] = append(bySection[m.SectionID], m.ID)
		info.Modules[m.ID] = &ModuleInfo{
			ID:               m.ID,
			SectionNum:       sectionNums[m.SectionID],
			ModName:          m.ModName,
			Name:             m.Name,
			Icon:             m.Icon,
			Visible:          m.Visible,
			GroupMode:        m.GroupMode,
			GroupingID:       m.GroupingID,
			GroupMembersOnly: m.GroupMembersOnly,
		}
	}

	for _, s := range sections {
		info.Sections = append(info.Sections, SectionInfo{
			Num:       s.Num,
			Name:      s.Name,
			Visible:   s.Visible,
			ModuleIDs: bySection[s.ID],
		})
	}

	return info, nil
}
