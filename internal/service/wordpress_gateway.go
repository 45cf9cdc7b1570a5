package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	// 注册 webp 解码器，特色图探测需要识别 CMS 常用的 webp 封面
	_ "golang.org/x/image/webp"
	_ "image/jpeg"
	_ "image/png"
)

// ErrPublishTargetIncomplete 表示连接配置缺少必需字段。
var ErrPublishTargetIncomplete = errors.New("publish target connection is incomplete")

// ConnectionConfig 是单次调用的 CMS 连接配置。
// 配置按项目/假设作用域逐条传入，网关自身不保留任何连接状态，
// 避免不同项目之间泄漏凭据或地址。
type ConnectionConfig struct {
	BaseURL     string
	Username    string
	AppPassword string
	PostType    string
}

// PublishPayload 是发布到 CMS 的文章载荷。
type PublishPayload struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt,omitempty"`
	Slug          string `json:"slug,omitempty"`
	Status        string `json:"status"`
	Format        string `json:"format,omitempty"`
	Date          string `json:"date,omitempty"`
	Categories    []int  `json:"categories,omitempty"`
	Tags          []int  `json:"tags,omitempty"`
	FeaturedMedia int64  `json:"featured_media,omitempty"`
}

// PublishConfirmation 是 CMS 返回的发布确认。
// RemoteID 与 Link 必须同时非空才算发布成功，该裁决由调用方执行。
type PublishConfirmation struct {
	RemoteID string
	Link     string
}

// PublishGateway 定义发布网关能力，便于在编排层注入桩实现。
type PublishGateway interface {
	UploadImage(ctx context.Context, conn ConnectionConfig, imageURL string) (int64, error)
	Publish(ctx context.Context, conn ConnectionConfig, payload PublishPayload) (PublishConfirmation, error)
}

// WordPressGateway 通过 WordPress REST API 发布文章与上传媒体。
type WordPressGateway struct {
	http httpDoer
}

// NewWordPressGateway 构造默认的 WordPressGateway。
func NewWordPressGateway() *WordPressGateway {
	return &WordPressGateway{http: &http.Client{Timeout: 60 * time.Second}}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (g *WordPressGateway) SetHTTPClient(client httpDoer) {
	if client == nil {
		g.http = &http.Client{Timeout: 60 * time.Second}
		return
	}
	g.http = client
}

type wpPostResponse struct {
	ID   int64  `json:"id"`
	Link string `json:"link"`
}

type wpMediaResponse struct {
	ID int64 `json:"id"`
}

type wpErrorResponse struct {
	Message string `json:"message"`
}

// Publish 在目标站点创建文章并返回远端确认。
func (g *WordPressGateway) Publish(ctx context.Context, conn ConnectionConfig, payload PublishPayload) (PublishConfirmation, error) {
	if !connectionComplete(conn) {
		return PublishConfirmation{}, ErrPublishTargetIncomplete
	}

	postType := strings.TrimSpace(conn.PostType)
	if postType == "" {
		postType = "posts"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return PublishConfirmation{}, fmt.Errorf("构造发布载荷失败: %w", err)
	}

	endpoint := strings.TrimRight(conn.BaseURL, "/") + "/wp-json/wp/v2/" + postType
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return PublishConfirmation{}, fmt.Errorf("创建发布请求失败: %w", err)
	}
	req.SetBasicAuth(conn.Username, conn.AppPassword)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "draftpress-publisher/1.0")

	resp, err := g.http.Do(req)
	if err != nil {
		return PublishConfirmation{}, fmt.Errorf("请求发布接口失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return PublishConfirmation{}, fmt.Errorf("读取发布响应失败: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return PublishConfirmation{}, fmt.Errorf("发布接口返回错误：%s", wpErrorMessage(resp, respBody))
	}

	var post wpPostResponse
	if err := json.Unmarshal(respBody, &post); err != nil {
		return PublishConfirmation{}, fmt.Errorf("解析发布响应失败: %w", err)
	}

	confirmation := PublishConfirmation{Link: strings.TrimSpace(post.Link)}
	if post.ID > 0 {
		confirmation.RemoteID = fmt.Sprintf("%d", post.ID)
	}
	return confirmation, nil
}

// UploadImage 下载远程图片并上传到目标站点的媒体库，返回媒体 ID。
// 上传失败由调用方决定是否继续发布；这里只负责把失败如实报告出去。
func (g *WordPressGateway) UploadImage(ctx context.Context, conn ConnectionConfig, imageURL string) (int64, error) {
	if !connectionComplete(conn) {
		return 0, ErrPublishTargetIncomplete
	}
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return 0, errors.New("image url is empty")
	}

	data, contentType, err := g.fetchImage(ctx, imageURL)
	if err != nil {
		return 0, err
	}

	// 维度探测失败不阻塞上传，只影响日志
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		log.Printf("[PUBLISH media] %s %dx%d (%s)", path.Base(imageURL), cfg.Width, cfg.Height, format)
	}

	filename := path.Base(imageURL)
	if idx := strings.IndexAny(filename, "?#"); idx > 0 {
		filename = filename[:idx]
	}
	if filename == "" || filename == "." || filename == "/" {
		filename = "featured-image"
	}

	endpoint := strings.TrimRight(conn.BaseURL, "/") + "/wp-json/wp/v2/media"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("创建媒体上传请求失败: %w", err)
	}
	req.SetBasicAuth(conn.Username, conn.AppPassword)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "draftpress-publisher/1.0")

	resp, err := g.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("请求媒体接口失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("读取媒体响应失败: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, fmt.Errorf("媒体接口返回错误：%s", wpErrorMessage(resp, respBody))
	}

	var media wpMediaResponse
	if err := json.Unmarshal(respBody, &media); err != nil {
		return 0, fmt.Errorf("解析媒体响应失败: %w", err)
	}
	if media.ID <= 0 {
		return 0, errors.New("媒体接口未返回有效 ID")
	}
	return media.ID, nil
}

func (g *WordPressGateway) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("创建图片下载请求失败: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("下载图片失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", fmt.Errorf("图片地址返回错误：%s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, "", fmt.Errorf("读取图片数据失败: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New("图片内容为空")
	}

	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func connectionComplete(conn ConnectionConfig) bool {
	return strings.TrimSpace(conn.BaseURL) != "" &&
		strings.TrimSpace(conn.Username) != "" &&
		strings.TrimSpace(conn.AppPassword) != ""
}

func wpErrorMessage(resp *http.Response, body []byte) string {
	var wpErr wpErrorResponse
	if err := json.Unmarshal(body, &wpErr); err == nil && strings.TrimSpace(wpErr.Message) != "" {
		return strings.TrimSpace(wpErr.Message)
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return resp.Status
}
