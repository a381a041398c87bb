package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	blobBucket = []byte("blobs")
	metaBucket = []byte("meta")
)

// BoltStore 将附件内容保存在单个 BoltDB 文件中
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// OpenBoltStore 打开或创建 BoltDB 文件
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("打开附件库失败: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(blobBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, now: time.Now}, nil
}

// Save 写入对象
func (s *BoltStore) Save(name string, r io.Reader) (int64, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	if err := validateName(name); err != nil {
		return 0, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("读取上传内容失败: %w", err)
	}
	stamp, err := s.now().UTC().MarshalText()
	if err != nil {
		return 0, err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(blobBucket).Put([]byte(name), data); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put([]byte(name), stamp)
	})
	if err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// Open 读取对象，返回的内容在事务外仍然有效
func (s *BoltStore) Open(name string) (io.ReadCloser, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(blobBucket).Get([]byte(name))
		if v == nil {
			return ErrBlobNotFound
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Remove 删除对象
func (s *BoltStore) Remove(name string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := validateName(name); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(blobBucket).Delete([]byte(name)); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Delete([]byte(name))
	})
}

// List 列出全部对象
func (s *BoltStore) List() ([]BlobInfo, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var blobs []BlobInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucket)
		c := tx.Bucket(blobBucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			info := BlobInfo{Name: string(k)}
			if stamp := meta.Get(k); stamp != nil {
				// 时间戳损坏时按零值处理
				_ = info.ModTime.UnmarshalText(stamp)
			}
			blobs = append(blobs, info)
		}
		return nil
	})
	return blobs, err
}

// Close 关闭数据库
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
