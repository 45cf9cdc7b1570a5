package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/draftpress/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublishRunResult 汇总一次自动发布运行的结果。
type PublishRunResult struct {
	RunID        string
	PublishedIDs []uint
	FailedIDs    []uint
	Errors       []string
}

// AutoPublishService 是自动发布批处理任务：
// 挑选到期的 scheduled 选题，校验前置条件后调用发布网关，
// 仅在拿到远端确认后执行受门禁保护的状态流转，单条失败不影响批次。
type AutoPublishService struct {
	db       *gorm.DB
	backlog  *BacklogService
	content  *ContentService
	settings *PublishSettingService
	gateway  PublishGateway

	// callTimeout 约束每次出站调用（图片上传、发布）的时长。
	callTimeout time.Duration
	// now 可注入，测试里用来固定时间。
	now func() time.Time
}

// NewAutoPublishService 构造 AutoPublishService。
func NewAutoPublishService(gdb *gorm.DB, gateway PublishGateway) *AutoPublishService {
	return &AutoPublishService{
		db:          gdb,
		backlog:     NewBacklogService(gdb),
		content:     NewContentService(gdb),
		settings:    NewPublishSettingService(gdb),
		gateway:     gateway,
		callTimeout: 30 * time.Second,
		now:         time.Now,
	}
}

// SetCallTimeout 覆盖出站调用超时。
func (s *AutoPublishService) SetCallTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.callTimeout = timeout
	}
}

// SetNowFunc 覆盖时间源，主要用于测试。
func (s *AutoPublishService) SetNowFunc(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Run 执行一次自动发布批处理。
// 空批次直接返回成功结果；只有在选题查询本身失败时才向外返回错误。
func (s *AutoPublishService) Run(ctx context.Context) (PublishRunResult, error) {
	started := s.now()
	result := PublishRunResult{RunID: uuid.New().String()}

	due, err := s.backlog.FindDueScheduled(started)
	if err != nil {
		return result, err
	}
	if len(due) == 0 {
		return result, nil
	}

	log.Printf("[PUBLISH run %s] %d due idea(s)", result.RunID, len(due))

	for _, idea := range due {
		published, skipped, err := s.publishOne(ctx, idea)
		if err != nil {
			result.FailedIDs = append(result.FailedIDs, idea.ID)
			result.Errors = append(result.Errors, fmt.Sprintf("idea %d: %v", idea.ID, err))
			log.Printf("[PUBLISH run %s] idea %d failed: %v", result.RunID, idea.ID, err)
			continue
		}
		if skipped {
			log.Printf("[PUBLISH run %s] idea %d skipped (auto publish disabled)", result.RunID, idea.ID)
			continue
		}
		if published {
			result.PublishedIDs = append(result.PublishedIDs, idea.ID)
			log.Printf("[PUBLISH run %s] idea %d published", result.RunID, idea.ID)
		}
	}

	s.recordRun(result, s.now().Sub(started))
	return result, nil
}

// publishOne 处理单条选题，返回 (是否发布, 是否静默跳过, 错误)。
// 任何 panic 都被回收为该条目的错误，不允许逃逸中断批次。
func (s *AutoPublishService) publishOne(ctx context.Context, idea db.BacklogIdea) (published, skipped bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			published, skipped = false, false
			err = fmt.Errorf("panic during publish: %v", r)
		}
	}()

	item, err := s.content.FindReadyByBacklogID(idea.ID)
	if err != nil {
		if errors.Is(err, ErrContentNotFound) {
			return false, false, errors.New("content not ready")
		}
		return false, false, err
	}

	setting, err := s.settings.Get(idea.ProjectID, idea.HypothesisID)
	if err != nil {
		if errors.Is(err, ErrPublishSettingNotFound) {
			return false, false, errors.New("publish target not configured")
		}
		return false, false, err
	}
	if !setting.ConnectionComplete() {
		return false, false, errors.New("publish target not configured")
	}
	// 自动发布未开启属于预期状态：人工管理的内容也会走到这里，静默跳过
	if !setting.AutoPublishEnabled {
		return false, true, nil
	}

	conn := ConnectionConfig{
		BaseURL:     setting.BaseURL,
		Username:    setting.Username,
		AppPassword: setting.AppPassword,
		PostType:    setting.PostType,
	}

	payload, err := s.buildPayload(ctx, idea, item, setting, conn)
	if err != nil {
		return false, false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	confirmation, err := s.gateway.Publish(callCtx, conn, payload)
	cancel()
	if err != nil {
		return false, false, fmt.Errorf("publish call: %w", err)
	}

	// 确认门禁：远端标识与链接都非空才算成功；
	// 外部系统的沉默或半截响应一律按失败处理
	if confirmation.RemoteID == "" || confirmation.Link == "" {
		return false, false, errors.New("publish not confirmed by remote")
	}

	if err := s.content.MarkPublished(item.ID); err != nil {
		if errors.Is(err, ErrStatusWriteNotVerified) {
			// 远端已持有文章而本地状态未落库：带上链接如实上报，留给人工按 slug 对账
			return false, false, fmt.Errorf("status write not verified after publish (remote: %s)", confirmation.Link)
		}
		return false, false, err
	}

	if err := s.backlog.MarkInProgress(idea.ID); err != nil {
		return false, false, fmt.Errorf("mark idea in progress: %w", err)
	}

	return true, false, nil
}

// buildPayload 由 ready 稿件组装发布载荷，特色图上传失败不阻断发布。
func (s *AutoPublishService) buildPayload(ctx context.Context, idea db.BacklogIdea, item *db.ContentItem, setting *db.PublishSetting, conn ConnectionConfig) (PublishPayload, error) {
	htmlBody, err := RenderHTML(item.Content)
	if err != nil {
		return PublishPayload{}, err
	}

	payload := PublishPayload{
		Title:      item.Title,
		Content:    htmlBody,
		Excerpt:    excerptFrom(item.Outline, item.Content),
		Slug:       Slugify(item.Title),
		Status:     "publish",
		Format:     string(item.Format),
		Categories: parseTaxonomyIDs(setting.DefaultCategoryIDs),
		Tags:       parseTaxonomyIDs(setting.DefaultTagIDs),
	}

	if strings.TrimSpace(item.ImageURL) != "" {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		mediaID, err := s.gateway.UploadImage(callCtx, conn, item.ImageURL)
		cancel()
		if err != nil {
			log.Printf("[PUBLISH] idea %d featured image upload failed, publishing without it: %v", idea.ID, err)
		} else {
			payload.FeaturedMedia = mediaID
		}
	}

	return payload, nil
}

func (s *AutoPublishService) recordRun(result PublishRunResult, duration time.Duration) {
	run := db.PublishRun{
		RunID:          result.RunID,
		PublishedCount: len(result.PublishedIDs),
		FailedCount:    len(result.FailedIDs),
		Errors:         strings.Join(result.Errors, "\n"),
		DurationMillis: duration.Milliseconds(),
	}
	if err := s.db.Create(&run).Error; err != nil {
		log.Printf("[PUBLISH run %s] failed to record run: %v", result.RunID, err)
	}
}

var (
	slugInvalidPattern = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashPattern    = regexp.MustCompile(`-{2,}`)
)

// Slugify 从标题派生 URL slug：小写、非字母数字折叠为连字符。
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalidPattern.ReplaceAllString(slug, "-")
	slug = slugDashPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 80 {
		slug = strings.Trim(slug[:80], "-")
	}
	return slug
}

// parseTaxonomyIDs 解析逗号分隔的分类/标签 ID，非法片段静默跳过。
func parseTaxonomyIDs(raw string) []int {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// excerptFrom 优先用大纲摘要做节选，否则截取正文首段纯文本。
func excerptFrom(outline, content string) string {
	if trimmed := strings.TrimSpace(outline); trimmed != "" {
		return truncateRunes(trimmed, 200)
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return truncateRunes(line, 200)
	}
	return ""
}

// StartAutoPublishScheduler 以固定间隔驱动自动发布任务，直到 ctx 取消。
// 每个 tick 独立设定整体超时，运行报错只记日志，调度循环不退出。
func StartAutoPublishScheduler(ctx context.Context, svc *AutoPublishService, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCtx, cancel := context.WithTimeout(ctx, interval)
				if _, err := svc.Run(runCtx); err != nil {
					log.Printf("[PUBLISH scheduler] run failed: %v", err)
				}
				cancel()
			}
		}
	}()
}
