package handler

import (
	"mime"
	"net/http"

	"taskmgr-go/internal/service"
	"taskmgr-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// AttachmentHandler 附件处理器
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
}

// NewAttachmentHandler 创建附件处理器
func NewAttachmentHandler(attachmentService *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Upload 上传附件
// @Summary 上传附件
// @Tags 附件
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "任务ID"
// @Param file formData file true "附件"
// @Success 201 {object} utils.Response{data=dto.AttachmentResponse}
// @Router /api/tasks/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, "validation_failed", "请选择要上传的文件")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequest(c, "validation_failed", "读取上传文件失败")
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(
		c.Request.Context(), actor, taskID,
		header.Filename, header.Size, header.Header.Get("Content-Type"), file,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, attachment)
}

// List 获取任务附件列表
func (h *AttachmentHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	attachments, err := h.attachmentService.List(actor, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.ListSuccess(c, len(attachments), attachments)
}

// Download 下载附件
func (h *AttachmentHandler) Download(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	attachment, content, err := h.attachmentService.Open(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer content.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": attachment.OriginalFileName})
	c.DataFromReader(http.StatusOK, attachment.FileSize, attachment.ContentType, content, map[string]string{
		"Content-Disposition": disposition,
	})
}

// Preview 附件预览信息
func (h *AttachmentHandler) Preview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	preview, err := h.attachmentService.Preview(actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, preview)
}

// Delete 删除附件
func (h *AttachmentHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.attachmentService.Delete(actor, id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "附件已删除", gin.H{"success": true})
}
