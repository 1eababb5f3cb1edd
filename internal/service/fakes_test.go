package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// 内存版仓储与总线，供本包单测使用

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*model.Message
	nextID   uint64
	failNext error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	msg.ID = f.nextID
	f.nextID++
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	clone := *msg
	f.messages = append(f.messages, &clone)
	return nil
}

func (f *fakeMessageRepo) GetByID(_ context.Context, id uint64) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			clone := *m
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMessageRepo) ListVisible(_ context.Context, userID uint64) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.Message
	for _, m := range f.messages {
		if (m.FromUserID != nil && *m.FromUserID == userID) || m.Recipient() == userID {
			clone := *m
			res = append(res, &clone)
		}
	}
	sortMessages(res)
	return res, nil
}

func (f *fakeMessageRepo) ListBetween(_ context.Context, userID, peerID uint64) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.Message
	for _, m := range f.messages {
		fromUser := m.FromUserID != nil && *m.FromUserID == userID && m.Recipient() == peerID
		fromPeer := m.FromUserID != nil && *m.FromUserID == peerID && m.Recipient() == userID
		if fromUser || fromPeer {
			clone := *m
			res = append(res, &clone)
		}
	}
	sortMessages(res)
	return res, nil
}

func (f *fakeMessageRepo) ListSystem(_ context.Context, userID uint64) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.Message
	for _, m := range f.messages {
		if m.FromUserID == nil && m.Recipient() == userID {
			clone := *m
			res = append(res, &clone)
		}
	}
	sortMessages(res)
	return res, nil
}

func (f *fakeMessageRepo) MarkConversationRead(_ context.Context, userID, peerID uint64, readAt time.Time) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint64
	for _, m := range f.messages {
		if m.FromUserID != nil && *m.FromUserID == peerID && m.Recipient() == userID && m.ReadAt == nil {
			t := readAt
			m.ReadAt = &t
			m.Status = model.MessageStatusRead
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

func sortMessages(msgs []*model.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

type fakeUserRepo struct {
	users    map[uint64]*model.User
	profiles map[uint64]*model.PatientProfile
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{
		users:    make(map[uint64]*model.User),
		profiles: make(map[uint64]*model.PatientProfile),
	}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uint64(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) ListByIDs(_ context.Context, ids []uint64) ([]*model.User, error) {
	var res []*model.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role string) ([]*model.User, error) {
	var res []*model.User
	for _, u := range f.users {
		if u.Role == role && !u.IsBan {
			res = append(res, u)
		}
	}
	return res, nil
}

func (f *fakeUserRepo) GetProfile(_ context.Context, userID uint64) (*model.PatientProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeUserRepo) SaveProfile(_ context.Context, profile *model.PatientProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

type publishedEvent struct {
	UserID uint64
	Event  *dto.IMEventDTO
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakeEventPublisher) PublishToUser(_ context.Context, userID uint64, event *dto.IMEventDTO) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{UserID: userID, Event: event})
	return nil
}

func (f *fakeEventPublisher) byType(eventType string) []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []publishedEvent
	for _, e := range f.events {
		if e.Event.Type == eventType {
			res = append(res, e)
		}
	}
	return res
}

type typingRecord struct {
	UserID uint64
	PeerID uint64
	Typing bool
}

type fakePresenceBus struct {
	mu      sync.Mutex
	records []typingRecord
}

func (f *fakePresenceBus) PublishTyping(_ context.Context, userID, peerID uint64, typing bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, typingRecord{UserID: userID, PeerID: peerID, Typing: typing})
	return nil
}

func (f *fakePresenceBus) snapshot() []typingRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]typingRecord, len(f.records))
	copy(res, f.records)
	return res
}

type fakeUploader struct {
	fail     bool
	uploaded []string
}

func (f *fakeUploader) Upload(_ context.Context, objectName string, _ io.Reader, _ int64, _ string) (string, error) {
	if f.fail {
		return "", errors.New("storage unavailable")
	}
	f.uploaded = append(f.uploaded, objectName)
	return objectName, nil
}

func (f *fakeUploader) PublicURL(objectName string) string {
	return "http://files.local/" + objectName
}

type fakeReactionRepo struct {
	reactions []*model.MessageReaction
	nextID    uint64
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{nextID: 1}
}

func (f *fakeReactionRepo) Find(_ context.Context, messageID, userID uint64, emoji string) (*model.MessageReaction, error) {
	for _, r := range f.reactions {
		if r.MessageID == messageID && r.UserID == userID && r.Emoji == emoji {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReactionRepo) Create(_ context.Context, r *model.MessageReaction) error {
	r.ID = f.nextID
	f.nextID++
	f.reactions = append(f.reactions, r)
	return nil
}

func (f *fakeReactionRepo) Delete(_ context.Context, id uint64) error {
	for i, r := range f.reactions {
		if r.ID == id {
			f.reactions = append(f.reactions[:i], f.reactions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeReactionRepo) ListByMessage(_ context.Context, messageID uint64) ([]*model.MessageReaction, error) {
	var res []*model.MessageReaction
	for _, r := range f.reactions {
		if r.MessageID == messageID {
			res = append(res, r)
		}
	}
	return res, nil
}

type fakePinRepo struct {
	pins   []*model.PinnedMessage
	nextID uint64
}

func newFakePinRepo() *fakePinRepo {
	return &fakePinRepo{nextID: 1}
}

func (f *fakePinRepo) Find(_ context.Context, messageID, userID uint64) (*model.PinnedMessage, error) {
	for _, p := range f.pins {
		if p.MessageID == messageID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePinRepo) Create(_ context.Context, p *model.PinnedMessage) error {
	p.ID = f.nextID
	f.nextID++
	f.pins = append(f.pins, p)
	return nil
}

func (f *fakePinRepo) Delete(_ context.Context, id uint64) error {
	for i, p := range f.pins {
		if p.ID == id {
			f.pins = append(f.pins[:i], f.pins[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePinRepo) ListMessageIDsByUser(_ context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	for _, p := range f.pins {
		if p.UserID == userID {
			ids = append(ids, p.MessageID)
		}
	}
	return ids, nil
}
