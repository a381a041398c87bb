package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

var fileTypeDescriptions = map[string]string{
	".pdf":  "PDF Document",
	".doc":  "Word Document",
	".docx": "Word Document",
	".xls":  "Excel Spreadsheet",
	".xlsx": "Excel Spreadsheet",
	".ppt":  "PowerPoint Presentation",
	".pptx": "PowerPoint Presentation",
	".txt":  "Text File",
	".csv":  "CSV File",
	".jpg":  "JPEG Image",
	".jpeg": "JPEG Image",
	".png":  "PNG Image",
	".gif":  "GIF Image",
}

// DescribeFileType 根据扩展名返回文件类型描述
func DescribeFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if desc, ok := fileTypeDescriptions[ext]; ok {
		return desc
	}
	if ext == "" {
		return "File"
	}
	return strings.ToUpper(strings.TrimPrefix(ext, ".")) + " File"
}

// DetectContentType 优先使用客户端声明的类型，否则按扩展名推断
func DetectContentType(fileName, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// SanitizeFileName 去除路径部分，仅保留文件名
func SanitizeFileName(fileName string) string {
	name := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
