package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aybjewelry-client/internal/constants"
	"github.com/aybjewelry-client/internal/logger"
	"github.com/aybjewelry-client/internal/models"

	"github.com/fsnotify/fsnotify"
)

const appConfigDirName = "aybjewelry"

// Store 本地会话存储：单一键值槽持久化当前登录用户，其他进程的登录/登出
// 通过文件变更通知同步（跨进程登录态信号）
type Store struct {
	mu   sync.Mutex
	path string
}

// New 创建会话存储，dir 为空时使用系统用户配置目录
func New(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir failed: %w", err)
		}
		dir = filepath.Join(configDir, appConfigDirName)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir failed: %w", err)
	}
	return &Store{
		path: filepath.Join(dir, constants.SessionKeyLoggedInUser+".json"),
	}, nil
}

// Load 读取当前登录用户，未登录时返回 nil
func (s *Store) Load() (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session failed: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode session failed: %w", err)
	}
	if !user.SignedIn() {
		return nil, nil
	}
	return &user, nil
}

// Save 写入登录用户记录（原子替换，避免其他进程读到半成品文件）
func (s *Store) Save(user *models.User) error {
	if !user.SignedIn() {
		return errors.New("session user invalid")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session failed: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session failed: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session failed: %w", err)
	}
	return nil
}

// Clear 清除登录用户记录，文件不存在视为已清除
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session failed: %w", err)
	}
	return nil
}

// Token 返回当前登录用户的 Bearer Token（api.TokenSource 实现），
// 每次回读文件以跟随其他进程的会话切换
func (s *Store) Token() string {
	user, err := s.Load()
	if err != nil || user == nil {
		return ""
	}
	return user.Token
}

// Watch 监听会话文件变更（其他进程登录/登出时触发 onChange），返回停止函数
func (s *Store) Watch(onChange func()) (func(), error) {
	if onChange == nil {
		return func() {}, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create session watcher failed: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch session dir failed: %w", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != filepath.Base(s.path) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debugw("session_file_changed", "op", event.Op.String())
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnw("session_watch_error", "error", err)
			}
		}
	}()

	return func() { _ = watcher.Close() }, nil
}
