package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/consts"
	"Glycora/internal/pkg/redis"
	"Glycora/internal/pkg/util"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// PresenceBus 输入状态总线：向双方共享的频道广播 typing 事件
// 频道名由双方 ID 排序拼接，同一对用户始终落在同一频道。
type PresenceBus interface {
	PublishTyping(ctx context.Context, userID, peerID uint64, typing bool) error
}

type redisPresenceBus struct{}

func NewPresenceBus() PresenceBus {
	return &redisPresenceBus{}
}

func (s *redisPresenceBus) PublishTyping(ctx context.Context, userID, peerID uint64, typing bool) error {
	event := &dto.TypingEventDTO{
		Type:   consts.EventTypeTyping,
		UserID: userID,
		PeerID: peerID,
		Typing: typing,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	channel := consts.IMTypingKey + util.PairKey(userID, peerID)
	return redis.Publish(ctx, channel, data)
}

// TypingChannel 返回一对用户的输入状态频道名
func TypingChannel(userID, peerID uint64) string {
	return consts.IMTypingKey + util.PairKey(userID, peerID)
}

type typingKey struct {
	userID uint64
	peerID uint64
}

// typingSession 代数标记每次计时器续期，
// 过期回调携带自己的代数，落后的回调不再生效。
type typingSession struct {
	timer *time.Timer
	gen   uint64
}

// TypingTracker 维护每个 (用户, 对手方) 的输入状态
// 每次键入重置闲置计时器，超时或发送消息后自动熄灭。
type TypingTracker struct {
	bus  PresenceBus
	idle time.Duration

	mu       sync.Mutex
	gen      uint64
	sessions map[typingKey]*typingSession
}

func NewTypingTracker(bus PresenceBus) *TypingTracker {
	return NewTypingTrackerWithIdle(bus, consts.TypingIdleTimeoutMs*time.Millisecond)
}

func NewTypingTrackerWithIdle(bus PresenceBus, idle time.Duration) *TypingTracker {
	return &TypingTracker{
		bus:      bus,
		idle:     idle,
		sessions: make(map[typingKey]*typingSession),
	}
}

// OnKeystroke 用户在会话中键入
// 首次键入广播 typing=true，之后仅续期计时器，不重复广播。
func (s *TypingTracker) OnKeystroke(ctx context.Context, userID, peerID uint64) {
	key := typingKey{userID: userID, peerID: peerID}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if sess, active := s.sessions[key]; active {
		// 旧计时器可能恰好已触发但回调尚未取到锁，
		// 换代并重建计时器让落后的回调作废
		sess.timer.Stop()
		sess.gen = gen
		sess.timer = time.AfterFunc(s.idle, func() {
			s.expire(key, gen)
		})
		s.mu.Unlock()
		return
	}
	sess := &typingSession{gen: gen}
	sess.timer = time.AfterFunc(s.idle, func() {
		s.expire(key, gen)
	})
	s.sessions[key] = sess
	s.mu.Unlock()

	if err := s.bus.PublishTyping(ctx, userID, peerID, true); err != nil {
		log.WarnContext(ctx, "Failed to publish typing start", "userID", userID, "err", err)
	}
}

// OnMessageSent 发送消息立即熄灭输入状态
func (s *TypingTracker) OnMessageSent(ctx context.Context, userID, peerID uint64) {
	if !s.stop(typingKey{userID: userID, peerID: peerID}) {
		return
	}
	if err := s.bus.PublishTyping(ctx, userID, peerID, false); err != nil {
		log.WarnContext(ctx, "Failed to publish typing stop", "userID", userID, "err", err)
	}
}

// Teardown 用户断开连接时清理其全部输入状态
func (s *TypingTracker) Teardown(ctx context.Context, userID uint64) {
	s.mu.Lock()
	var peers []uint64
	for key, sess := range s.sessions {
		if key.userID != userID {
			continue
		}
		sess.timer.Stop()
		delete(s.sessions, key)
		peers = append(peers, key.peerID)
	}
	s.mu.Unlock()

	for _, peerID := range peers {
		if err := s.bus.PublishTyping(ctx, userID, peerID, false); err != nil {
			log.WarnContext(ctx, "Failed to publish typing stop on teardown", "userID", userID, "err", err)
		}
	}
}

// expire 闲置超时回调，仅当会话仍处于触发时的代数才生效
func (s *TypingTracker) expire(key typingKey, gen uint64) {
	s.mu.Lock()
	sess, active := s.sessions[key]
	if !active || sess.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, key)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.bus.PublishTyping(ctx, key.userID, key.peerID, false); err != nil {
		log.Warn("Failed to publish typing expire", "userID", key.userID, "err", err)
	}
}

// stop 停止并移除会话，返回此前是否处于输入状态
func (s *TypingTracker) stop(key typingKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, active := s.sessions[key]
	if !active {
		return false
	}
	sess.timer.Stop()
	delete(s.sessions, key)
	return true
}
