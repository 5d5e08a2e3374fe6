package rooms

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"vibesync/logger"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// 房间码生成最多尝试次数，超过则认为码空间耗尽
const maxCodeAttempts = 100

// Registry 进程级房间注册表，独占持有所有房间实例。
// 注册表自身的map有独立的读写锁，和单个房间的锁互不影响，
// 不同房间上的操作可以完全并行。
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	rng   *rand.Rand

	settings Settings
}

// NewRegistry 创建注册表，并同步创建常驻的默认社区房间。
// 默认房间在任何其他操作之前就绪。
func NewRegistry(settings Settings) *Registry {
	reg := &Registry{
		rooms:    make(map[string]*Room),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		settings: settings,
	}

	defaultRoom := newRoom(
		settings.DefaultRoomCode,
		settings.DefaultRoomHostID,
		settings.DefaultRoomHostName,
		settings,
		time.Now(),
	)
	reg.rooms[settings.DefaultRoomCode] = defaultRoom

	logger.Info("默认社区房间已创建",
		logger.String("roomCode", settings.DefaultRoomCode),
		logger.String("host", settings.DefaultRoomHostName))

	return reg
}

// CreateRoom 创建新房间，生成不与现有房间（含默认房间）冲突的房间码
func (reg *Registry) CreateRoom(hostUserID, hostUsername string, now time.Time) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code, err := reg.generateUniqueCodeLocked()
	if err != nil {
		return nil, err
	}

	room := newRoom(code, hostUserID, hostUsername, reg.settings, now)
	reg.rooms[code] = room

	logger.Info("房间创建成功",
		logger.String("roomCode", code),
		logger.String("host", hostUsername))

	return room, nil
}

// generateUniqueCodeLocked 生成唯一房间码，有界重试后报错而不是死循环
func (reg *Registry) generateUniqueCodeLocked() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		b := make([]byte, reg.settings.RoomCodeLength)
		for j := range b {
			b[j] = codeCharset[reg.rng.Intn(len(codeCharset))]
		}
		code := string(b)
		if _, exists := reg.rooms[code]; !exists {
			return code, nil
		}
	}
	return "", ErrRoomCapacity
}

// GetRoom 按房间码查找房间，码不区分大小写
func (reg *Registry) GetRoom(code string) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	return room, nil
}

// DeleteRoom 删除房间并释放其资源。
// 默认社区房间任何人都不能删除，包括它自己的房主身份。
func (reg *Registry) DeleteRoom(code, requestingUserID string) error {
	code = strings.ToUpper(code)

	if code == reg.settings.DefaultRoomCode {
		return ErrDefaultRoomProtected
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	if room.hostUserID != requestingUserID {
		return fmt.Errorf("%w: only the host can close the room", ErrPermissionDenied)
	}

	delete(reg.rooms, code)
	logger.Info("房间已删除",
		logger.String("roomCode", code),
		logger.String("requestedBy", requestingUserID))
	return nil
}

// Count 返回活跃房间数
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Codes 返回所有房间码
func (reg *Registry) Codes() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	codes := make([]string, 0, len(reg.rooms))
	for code := range reg.rooms {
		codes = append(codes, code)
	}
	return codes
}
