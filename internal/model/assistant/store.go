package assistant

import (
	"errors"
	"fmt"
)

// ErrProfileNotFound 表示请求的问候配置不存在。
var ErrProfileNotFound = errors.New("profile not found")

// Store 为处理器与终端组件提供问候配置查询
type Store interface {
	List() []Profile
	FindByID(id string) (Profile, bool)
}

// MemoryStore 基于内存切片实现 Store
type MemoryStore struct {
	items []Profile
}

// NewMemoryStore 使用给定配置创建 MemoryStore
func NewMemoryStore(items []Profile) *MemoryStore {
	return &MemoryStore{items: append([]Profile(nil), items...)}
}

// List 返回所有问候配置
func (s *MemoryStore) List() []Profile {
	return append([]Profile(nil), s.items...)
}

// FindByID 根据 ID 查找问候配置
func (s *MemoryStore) FindByID(id string) (Profile, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Profile{}, false
}

// Resolve returns the profile with the given id, or the default profile when id is empty.
func Resolve(store Store, id string) (Profile, error) {
	if id == "" {
		id = DefaultProfileID
	}
	p, ok := store.FindByID(id)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, id)
	}
	return p, nil
}
