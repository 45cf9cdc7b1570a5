package handler

import (
	"errors"
	"net/http"

	"github.com/draftpress/internal/service"
	"github.com/gin-gonic/gin"
)

type systemSettingsPayload struct {
	SiteName          string `json:"site_name"`
	AIProvider        string `json:"ai_provider"`
	OpenAIAPIKey      string `json:"openai_api_key"`
	DeepSeekAPIKey    string `json:"deepseek_api_key"`
	DraftSystemPrompt string `json:"draft_system_prompt"`
}

// GetSystemSettings 读取系统设置，API Key 不回显。
func (a *API) GetSystemSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载系统设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"site_name":           settings.SiteName,
		"ai_provider":         settings.AIProvider,
		"openai_key_set":      settings.OpenAIAPIKey != "",
		"deepseek_key_set":    settings.DeepSeekAPIKey != "",
		"draft_system_prompt": settings.DraftSystemPrompt,
	})
}

// UpdateSystemSettings 保存系统设置。
func (a *API) UpdateSystemSettings(c *gin.Context) {
	var payload systemSettingsPayload
	if !bindJSON(c, &payload, "无效的系统设置") {
		return
	}

	settings, err := a.system.UpdateSettings(service.SystemSettingsInput{
		SiteName:          payload.SiteName,
		AIProvider:        payload.AIProvider,
		OpenAIAPIKey:      payload.OpenAIAPIKey,
		DeepSeekAPIKey:    payload.DeepSeekAPIKey,
		DraftSystemPrompt: payload.DraftSystemPrompt,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存系统设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"site_name":   settings.SiteName,
		"ai_provider": settings.AIProvider,
	})
}

type aiTestRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// TestAIConnection 测试不同 AI 平台 API Key 的连通性。
func (a *API) TestAIConnection(c *gin.Context) {
	var payload aiTestRequest
	if !bindJSON(c, &payload, "请填写有效的 AI 配置信息") {
		return
	}

	if err := a.system.TestAIConnection(c.Request.Context(), payload.Provider, payload.APIKey); err != nil {
		switch {
		case errors.Is(err, service.ErrAIAPIKeyMissing):
			respondError(c, http.StatusBadRequest, "请填写有效的 AI API Key")
		default:
			respondError(c, http.StatusBadGateway, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "AI 接口连接正常"})
}
