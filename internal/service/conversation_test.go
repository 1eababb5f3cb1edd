package service

import (
	"Glycora/internal/model"
	"Glycora/internal/pkg/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msgBetween(id, from, toPatient, toClinician uint64, createdAt time.Time, read bool) *model.Message {
	m := &model.Message{
		ID:         id,
		FromUserID: util.PtrUint64(from),
		Content:    "hello",
		Status:     model.MessageStatusSent,
		SentAt:     createdAt,
		CreatedAt:  createdAt,
	}
	if toPatient != 0 {
		m.ToPatientID = util.PtrUint64(toPatient)
	}
	if toClinician != 0 {
		m.ToClinicianID = util.PtrUint64(toClinician)
	}
	if read {
		t := createdAt.Add(time.Minute)
		m.ReadAt = &t
		m.Status = model.MessageStatusRead
	}
	return m
}

func TestAggregateConversations(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// 患者 1 与医生 10、医生 20 各有一段会话
	messages := []*model.Message{
		msgBetween(1, 1, 0, 10, base, true),
		msgBetween(2, 10, 1, 0, base.Add(1*time.Minute), false),
		msgBetween(3, 10, 1, 0, base.Add(2*time.Minute), false),
		msgBetween(4, 1, 0, 20, base.Add(3*time.Minute), true),
		msgBetween(5, 20, 1, 0, base.Add(4*time.Minute), true),
	}

	summaries := AggregateConversations(messages, 1)
	require.Len(t, summaries, 2)

	// 最新消息靠前：医生 20 的会话排第一
	assert.Equal(t, uint64(20), summaries[0].PeerID)
	assert.Equal(t, uint64(5), summaries[0].LastMessage.ID)
	assert.Equal(t, 0, summaries[0].UnreadCount)

	assert.Equal(t, uint64(10), summaries[1].PeerID)
	assert.Equal(t, uint64(3), summaries[1].LastMessage.ID)
	assert.Equal(t, 2, summaries[1].UnreadCount)
}

func TestAggregateConversationsOwnMessagesNeverUnread(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	messages := []*model.Message{
		msgBetween(1, 1, 0, 10, base, false),
		msgBetween(2, 1, 0, 10, base.Add(time.Minute), false),
	}

	summaries := AggregateConversations(messages, 1)
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].UnreadCount)
}

func TestAggregateConversationsEqualTimestampLastWins(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	messages := []*model.Message{
		msgBetween(1, 10, 1, 0, base, true),
		msgBetween(2, 1, 0, 10, base, true),
	}

	summaries := AggregateConversations(messages, 1)
	require.Len(t, summaries, 1)
	// 时间戳相同，升序列表中后出现者胜出
	assert.Equal(t, uint64(2), summaries[0].LastMessage.ID)
}

func TestAggregateConversationsEmpty(t *testing.T) {
	summaries := AggregateConversations(nil, 1)
	assert.Empty(t, summaries)
}

func TestFilterConversationsByName(t *testing.T) {
	summaries := []*ConversationSummary{
		{PeerID: 10},
		{PeerID: 20},
		{PeerID: 30},
	}
	names := map[uint64]string{
		10: "王医生",
		20: "Dr. Wang",
		30: "李医生",
	}

	assert.Len(t, FilterConversationsByName(summaries, names, ""), 3)

	res := FilterConversationsByName(summaries, names, "王")
	require.Len(t, res, 1)
	assert.Equal(t, uint64(10), res[0].PeerID)

	// 大小写不敏感
	res = FilterConversationsByName(summaries, names, "dr. w")
	require.Len(t, res, 1)
	assert.Equal(t, uint64(20), res[0].PeerID)

	assert.Empty(t, FilterConversationsByName(summaries, names, "赵"))
}
