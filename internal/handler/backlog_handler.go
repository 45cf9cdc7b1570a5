package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/draftpress/internal/db"
	"github.com/draftpress/internal/service"
	"github.com/gin-gonic/gin"
)

type backlogIdeaPayload struct {
	ProjectID    uint   `json:"project_id"`
	HypothesisID uint   `json:"hypothesis_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
}

type schedulePayload struct {
	ScheduledDate time.Time `json:"scheduled_date"`
}

// ListBacklog 返回选题列表，支持 project_id/hypothesis_id 过滤。
func (a *API) ListBacklog(c *gin.Context) {
	ideas, err := a.backlog.List(parseUintQuery(c, "project_id"), parseUintQuery(c, "hypothesis_id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载选题失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

// CreateBacklogIdea 新建一条选题。
func (a *API) CreateBacklogIdea(c *gin.Context) {
	var payload backlogIdeaPayload
	if !bindJSON(c, &payload, "无效的选题数据") {
		return
	}

	category, ok := db.ParseIdeaCategory(payload.Category)
	if !ok {
		respondError(c, http.StatusBadRequest, "未知的选题分类")
		return
	}
	if payload.Title == "" || payload.ProjectID == 0 {
		respondError(c, http.StatusBadRequest, "标题与项目不能为空")
		return
	}

	idea, err := a.backlog.Create(service.BacklogIdeaInput{
		ProjectID:    payload.ProjectID,
		HypothesisID: payload.HypothesisID,
		Title:        payload.Title,
		Description:  payload.Description,
		Category:     category,
		UserID:       sessionUserID(c),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "创建选题失败")
		return
	}
	c.JSON(http.StatusCreated, idea)
}

// ScheduleBacklogIdea 为选题设置发布日期。
func (a *API) ScheduleBacklogIdea(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var payload schedulePayload
	if !bindJSON(c, &payload, "无效的排期数据") {
		return
	}

	when := payload.ScheduledDate
	// 未给出日期时按发布节奏推算下一个空位
	if when.IsZero() {
		target, err := a.backlog.Get(id)
		if err != nil {
			respondError(c, http.StatusNotFound, "选题不存在")
			return
		}
		setting, err := a.publishSettings.Get(target.ProjectID, target.HypothesisID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "排期日期不能为空")
			return
		}
		taken, err := a.backlog.ScheduledDates(target.ProjectID, target.HypothesisID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "排期失败")
			return
		}
		when = service.NextScheduleSlot(setting, time.Now(), taken)
	}

	idea, err := a.backlog.Schedule(id, when, sessionUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIdeaNotFound):
			respondError(c, http.StatusNotFound, "选题不存在")
		case errors.Is(err, service.ErrScheduleDateNeeded):
			respondError(c, http.StatusBadRequest, "排期日期不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "排期失败")
		}
		return
	}
	c.JSON(http.StatusOK, idea)
}

// ArchiveBacklogIdea 归档选题。
func (a *API) ArchiveBacklogIdea(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	idea, err := a.backlog.Archive(id, sessionUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrIdeaNotFound) {
			respondError(c, http.StatusNotFound, "选题不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "归档失败")
		return
	}
	c.JSON(http.StatusOK, idea)
}
