package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parseUintQuery(c *gin.Context, key string) uint {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// sessionUserID 取当前登录用户，未登录返回 0（中间件保证业务路由不会出现）。
func sessionUserID(c *gin.Context) uint {
	session := sessions.Default(c)
	if id, ok := session.Get("user_id").(uint); ok {
		return id
	}
	return 0
}
