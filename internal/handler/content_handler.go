package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/draftpress/internal/db"
	"github.com/draftpress/internal/service"
	"github.com/gin-gonic/gin"
)

type generateDraftPayload struct {
	Language            string `json:"language"`
	FunnelStage         string `json:"funnel_stage"`
	ContentGoal         string `json:"content_goal"`
	SpecialRequirements string `json:"special_requirements"`
	Format              string `json:"format"`
}

type contentStatusPayload struct {
	Status string `json:"status"`
}

// GenerateDraft 为选题生成一份稿件：
// 分类 → 拼装上下文快照 → 构建生成请求 → 调用生成后端 → 渲染 Markdown 入库。
// 生成后端不可用时回退到占位草稿，调用方总能拿到可编辑的稿件。
func (a *API) GenerateDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload generateDraftPayload
	if c.Request.ContentLength > 0 && !bindJSON(c, &payload, "无效的生成参数") {
		return
	}

	idea, err := a.backlog.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrIdeaNotFound) {
			respondError(c, http.StatusNotFound, "选题不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "加载选题失败")
		return
	}

	snapshot, err := a.snapshots.LoadSnapshot(idea.ProjectID, idea.HypothesisID)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusBadRequest, "选题没有关联有效项目")
			return
		}
		respondError(c, http.StatusInternalServerError, "加载上下文失败")
		return
	}

	variant := service.ClassifyIdea(*idea)
	request := service.BuildGenerationRequest(snapshot, *idea, variant, service.GenerationOptions{
		Language:            payload.Language,
		FunnelStage:         payload.FunnelStage,
		ContentGoal:         payload.ContentGoal,
		SpecialRequirements: payload.SpecialRequirements,
	})

	degraded := false
	draft, err := a.drafts.Generate(c.Request.Context(), request)
	if err != nil {
		log.Printf("[DRAFT] generation failed for idea %d, falling back to placeholder: %v", idea.ID, err)
		draft = service.PlaceholderDraft(idea.Title, idea.Description)
		degraded = true
	}

	format := db.ContentFormatBlog
	if parsed, ok := db.ParseContentFormat(payload.Format); ok {
		format = parsed
	}

	ideaID := idea.ID
	item, err := a.content.CreateDraft(service.ContentItemInput{
		ProjectID:     idea.ProjectID,
		HypothesisID:  idea.HypothesisID,
		BacklogIdeaID: &ideaID,
		Title:         draft.Title,
		Category:      idea.Category,
		Format:        format,
		Outline:       service.OutlineSummary(draft),
		Content:       service.RenderDraftMarkdown(draft),
		UserID:        sessionUserID(c),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存稿件失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item, "degraded": degraded})
}

// ListContent 返回稿件列表。
func (a *API) ListContent(c *gin.Context) {
	items, err := a.content.List(parseUintQuery(c, "project_id"), parseUintQuery(c, "hypothesis_id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载稿件失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UpdateContentStatus 执行编辑侧状态流转，published 在服务层被拒绝。
func (a *API) UpdateContentStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload contentStatusPayload
	if !bindJSON(c, &payload, "无效的状态数据") {
		return
	}

	status, ok := db.ParseContentStatus(payload.Status)
	if !ok {
		respondError(c, http.StatusBadRequest, "未知的稿件状态")
		return
	}

	item, err := a.content.UpdateStatus(id, status, sessionUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentNotFound):
			respondError(c, http.StatusNotFound, "稿件不存在")
		case errors.Is(err, service.ErrPublishedReserved):
			respondError(c, http.StatusForbidden, "published 状态由自动发布任务维护")
		default:
			respondError(c, http.StatusInternalServerError, "更新状态失败")
		}
		return
	}
	c.JSON(http.StatusOK, item)
}
