package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了后台操作员模型，选题与稿件的审计字段引用其 ID
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// EnsureUser 幂等地创建运维账号：用户名与密码均非空且账号不存在时，
// 以 bcrypt 哈希落库；已存在则什么都不做。
func EnsureUser(username, password string) error {
	name := strings.TrimSpace(username)
	secret := strings.TrimSpace(password)
	if name == "" || secret == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	err := DB.Where("username = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return DB.Create(&User{Username: name, Password: string(hashed)}).Error
}
