package rest

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	visav1 "github.com/ogurasousui/codex-visa-workflow/internal/adapters/grpc/api/visa/v1"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/document"
	"github.com/ogurasousui/codex-visa-workflow/internal/core/employee"
	"github.com/ogurasousui/codex-visa-workflow/internal/platform/auth"
)

type documentHandler struct {
	documents document.UseCase
	employees employee.UseCase
	maxUpload int64
}

type reviewRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// upload は multipart の file と type を受け取り書類を保存します。
func (h *documentHandler) upload(c *gin.Context) {
	actor, err := auth.ActorFromContext(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, fmt.Errorf("%w: request body exceeds %d bytes", document.ErrContentTooLarge, tooLarge.Limit))
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "file is required"})
		return
	}
	if header.Size > h.maxUpload {
		abortWithError(c, fmt.Errorf("%d bytes exceeds %d: %w", header.Size, h.maxUpload, document.ErrContentTooLarge))
		return
	}

	f, err := header.Open()
	if err != nil {
		abortWithError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		abortWithError(c, fmt.Errorf("read upload: %w", err))
		return
	}

	created, err := h.documents.UploadDocument(c.Request.Context(), document.UploadDocumentInput{
		Actor:       actor,
		EmployeeID:  c.Param("id"),
		Type:        document.Type(c.PostForm("type")),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, visav1.FromDocument(created))
}

func (h *documentHandler) list(c *gin.Context) {
	actor, err := auth.ActorFromContext(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	docs, err := h.documents.ListDocuments(c.Request.Context(), document.ListDocumentsInput{Actor: actor, EmployeeID: c.Param("id")})
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := visav1.ListDocumentsResponse{Documents: make([]*visav1.Document, 0, len(docs))}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, visav1.FromDocument(d))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *documentHandler) nextAction(c *gin.Context) {
	actor, err := auth.ActorFromContext(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, err := h.employees.GetNextAction(c.Request.Context(), employee.GetNextActionInput{Actor: actor, EmployeeID: c.Param("id")})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, visav1.GetNextActionResponse{
		EmployeeID: result.Employee.ID,
		Stage:      string(result.Employee.Stage()),
		NextAction: visav1.FromNextAction(result.Action),
	})
}

func (h *documentHandler) get(c *gin.Context) {
	actor, err := auth.ActorFromContext(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	doc, _, err := h.documents.GetDocument(c.Request.Context(), document.GetDocumentInput{Actor: actor, ID: c.Param("id")})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, visav1.FromDocument(doc))
}

// content は書類本文を添付ファイルとして返します。
func (h *documentHandler) content(c *gin.Context) {
	actor, err := auth.ActorFromContext(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	doc, body, err := h.documents.GetDocument(c.Request.Context(), document.GetDocumentInput{Actor: actor, ID: c.Param("id"), WithContent: true})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	c.Header("Content-Length", strconv.Itoa(len(body)))
	c.Data(http.StatusOK, doc.ContentType, body)
}

func (h *documentHandler) review(c *gin.Context) {
	actor, err := auth.ActorFromContext(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	reviewed, err := h.documents.ReviewDocument(c.Request.Context(), document.ReviewDocumentInput{
		Actor:   actor,
		ID:      c.Param("id"),
		Status:  document.Status(req.Status),
		Comment: req.Comment,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, visav1.FromDocument(reviewed))
}
