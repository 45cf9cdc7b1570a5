package handler

import (
	"errors"
	"net/http"

	"github.com/draftpress/internal/db"
	"github.com/draftpress/internal/service"
	"github.com/gin-gonic/gin"
)

type publishSettingPayload struct {
	ProjectID          uint   `json:"project_id"`
	HypothesisID       uint   `json:"hypothesis_id"`
	AutoPublishEnabled bool   `json:"auto_publish_enabled"`
	BaseURL            string `json:"base_url"`
	Username           string `json:"username"`
	AppPassword        string `json:"app_password"`
	PostType           string `json:"post_type"`
	DefaultCategoryIDs string `json:"default_category_ids"`
	DefaultTagIDs      string `json:"default_tag_ids"`
	WeeklyCadence      int    `json:"weekly_cadence"`
	PublishDays        string `json:"publish_days"`
}

// GetPublishSettings 读取某项目/假设的发布配置。
func (a *API) GetPublishSettings(c *gin.Context) {
	setting, err := a.publishSettings.Get(parseUintQuery(c, "project_id"), parseUintQuery(c, "hypothesis_id"))
	if err != nil {
		if errors.Is(err, service.ErrPublishSettingNotFound) {
			respondError(c, http.StatusNotFound, "发布配置不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "加载发布配置失败")
		return
	}

	// 凭据不回显
	setting.AppPassword = ""
	c.JSON(http.StatusOK, setting)
}

// UpdatePublishSettings 写入发布配置。
func (a *API) UpdatePublishSettings(c *gin.Context) {
	var payload publishSettingPayload
	if !bindJSON(c, &payload, "无效的发布配置") {
		return
	}
	if payload.ProjectID == 0 {
		respondError(c, http.StatusBadRequest, "项目不能为空")
		return
	}

	setting, err := a.publishSettings.Upsert(service.PublishSettingInput{
		ProjectID:          payload.ProjectID,
		HypothesisID:       payload.HypothesisID,
		AutoPublishEnabled: payload.AutoPublishEnabled,
		BaseURL:            payload.BaseURL,
		Username:           payload.Username,
		AppPassword:        payload.AppPassword,
		PostType:           payload.PostType,
		DefaultCategoryIDs: payload.DefaultCategoryIDs,
		DefaultTagIDs:      payload.DefaultTagIDs,
		WeeklyCadence:      payload.WeeklyCadence,
		PublishDays:        payload.PublishDays,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存发布配置失败")
		return
	}

	setting.AppPassword = ""
	c.JSON(http.StatusOK, setting)
}

// RunAutoPublish 立即执行一次自动发布批处理并返回聚合结果。
func (a *API) RunAutoPublish(c *gin.Context) {
	result, err := a.autoPublish.Run(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "自动发布任务执行失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":    result.RunID,
		"published": len(result.PublishedIDs),
		"failed":    len(result.FailedIDs),
		"errors":    result.Errors,
	})
}

// ListPublishRuns 返回最近的自动发布运行记录。
func (a *API) ListPublishRuns(c *gin.Context) {
	var runs []db.PublishRun
	if err := a.db.Order("created_at desc").Limit(50).Find(&runs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "加载运行记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
