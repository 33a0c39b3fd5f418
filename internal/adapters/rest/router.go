// Package rest は書類アップロードとダウンロードの HTTP API です。
// それ以外の操作は gRPC の VisaWorkflowService で提供します。
package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
)

// multipartOverhead はフォームの境界やヘッダーに許容する追加バイト数です。
const multipartOverhead int64 = 1 << 20

// RouterConfig は NewRouter の依存と設定です。
type RouterConfig struct {
	Documents      document.UseCase
	Employees      employee.UseCase
	Verifier       TokenVerifier
	Logger         *slog.Logger
	AllowedOrigins []string
	MaxUploadBytes int64
}

// NewRouter はルーティングを構成した gin.Engine を返します。
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = document.DefaultMaxSizeBytes
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(gin.Recovery(), RequestLogger(cfg.Logger))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &documentHandler{documents: cfg.Documents, employees: cfg.Employees, maxUpload: cfg.MaxUploadBytes}

	api := r.Group("/api/v1")
	api.Use(JWTAuth(cfg.Verifier))
	{
		employees := api.Group("/employees/:id")
		employees.POST("/documents", h.upload)
		employees.GET("/documents", h.list)
		employees.GET("/next-action", h.nextAction)

		documents := api.Group("/documents/:id")
		documents.GET("", h.get)
		documents.GET("/content", h.content)
		documents.POST("/review", h.review)
	}

	return r
}
