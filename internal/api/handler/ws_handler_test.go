package handler

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/consts"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalEvent(t *testing.T, event *dto.IMEventDTO) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestTypingPeerFromEvent(t *testing.T) {
	from := uint64(10)
	payload := marshalEvent(t, &dto.IMEventDTO{
		Type:    consts.EventTypeMessage,
		Payload: &dto.MessageDTO{ID: 1, FromUserID: &from, Content: "hi"},
	})

	// 他人发来的消息触发补订
	assert.Equal(t, uint64(10), typingPeerFromEvent(payload, 1))
	// 自己发出的消息不触发
	assert.Equal(t, uint64(0), typingPeerFromEvent(payload, 10))
}

func TestTypingPeerFromEventIgnoresOtherEvents(t *testing.T) {
	// 系统消息没有发送者
	payload := marshalEvent(t, &dto.IMEventDTO{
		Type:    consts.EventTypeMessage,
		Payload: &dto.MessageDTO{ID: 2, Content: "系统通知"},
	})
	assert.Equal(t, uint64(0), typingPeerFromEvent(payload, 1))

	// 非消息事件不触发
	payload = marshalEvent(t, &dto.IMEventDTO{
		Type:    consts.EventTypeReadReceipt,
		Payload: &dto.ReadReceiptDTO{PeerID: 10},
	})
	assert.Equal(t, uint64(0), typingPeerFromEvent(payload, 1))

	assert.Equal(t, uint64(0), typingPeerFromEvent([]byte("not-json"), 1))
}
