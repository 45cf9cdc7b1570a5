package handler

import (
	"github.com/draftpress/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db              *gorm.DB
	backlog         *service.BacklogService
	content         *service.ContentService
	snapshots       *service.SnapshotService
	publishSettings *service.PublishSettingService
	system          *service.SystemSettingService
	drafts          service.DraftGenerator
	autoPublish     *service.AutoPublishService
}

// NewAPI wires services into a handler bundle.
func NewAPI(gdb *gorm.DB, drafts service.DraftGenerator, autoPublish *service.AutoPublishService) *API {
	return &API{
		db:              gdb,
		backlog:         service.NewBacklogService(gdb),
		content:         service.NewContentService(gdb),
		snapshots:       service.NewSnapshotService(gdb),
		publishSettings: service.NewPublishSettingService(gdb),
		system:          service.NewSystemSettingService(gdb),
		drafts:          drafts,
		autoPublish:     autoPublish,
	}
}
