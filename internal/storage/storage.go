// Package storage 附件二进制内容的存储后端
package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrBlobNotFound 存储中不存在该对象
var ErrBlobNotFound = errors.New("blob not found")

// BlobInfo 存储对象的名称与最后写入时间
type BlobInfo struct {
	Name    string
	ModTime time.Time
}

// BlobStore 附件内容存储
type BlobStore interface {
	// Save 写入对象并返回写入字节数，同名对象会被覆盖
	Save(name string, r io.Reader) (int64, error)
	Open(name string) (io.ReadCloser, error)
	// Remove 删除对象，对象不存在时返回 nil
	Remove(name string) error
	List() ([]BlobInfo, error)
	Close() error
}

// validateName 存储名只能是单层文件名
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("无效的存储名: %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("存储名不能包含路径分隔符: %q", name)
	}
	return nil
}
