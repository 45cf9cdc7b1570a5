package handler

import (
	"net/http"

	"github.com/draftpress/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "无效的登录请求") {
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", payload.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			respondError(c, http.StatusUnauthorized, "需要登录")
			c.Abort()
			return
		}
		c.Next()
	}
}
