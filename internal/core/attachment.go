package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// 附件拒绝原因
const (
	RejectExtension = "extension"
	RejectSize      = "size"
	RejectEmpty     = "empty"
)

// RejectError 附件校验失败，可用 errors.Is 匹配 ErrValidationFailed
type RejectError struct {
	Reason string
	Detail string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("attachment rejected (%s): %s", e.Reason, e.Detail)
}

func (e *RejectError) Unwrap() error {
	return ErrValidationFailed
}

// AttachmentPolicy 附件扩展名白名单与大小上限
type AttachmentPolicy struct {
	AllowedExtensions []string // 小写，带点
	MaxSize           int64
}

// DefaultAttachmentPolicy 常见文档与图片格式，最大10MB
func DefaultAttachmentPolicy() AttachmentPolicy {
	return AttachmentPolicy{
		AllowedExtensions: []string{
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
			".txt", ".csv", ".jpg", ".jpeg", ".png", ".gif",
		},
		MaxSize: 10 << 20,
	}
}

// Extension 返回小写扩展名
func Extension(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

// Validate 先校验扩展名，再校验大小；返回 nil 表示接受
func (p AttachmentPolicy) Validate(fileName string, size int64) error {
	ext := Extension(fileName)
	if !p.allows(ext) {
		return &RejectError{Reason: RejectExtension, Detail: fmt.Sprintf("extension %q is not allowed", ext)}
	}
	if size > p.MaxSize {
		return &RejectError{Reason: RejectSize, Detail: fmt.Sprintf("file size %d exceeds limit %d", size, p.MaxSize)}
	}
	if size <= 0 {
		return &RejectError{Reason: RejectEmpty, Detail: "file is empty"}
	}
	return nil
}

func (p AttachmentPolicy) allows(ext string) bool {
	if ext == "" {
		return false
	}
	for _, allowed := range p.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
