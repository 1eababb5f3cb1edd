package service

import (
	"Glycora/internal/model"
	"Glycora/internal/pkg/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threadMsg(id uint64, parentID, threadID *uint64, createdAt time.Time) *model.Message {
	return &model.Message{
		ID:              id,
		FromUserID:      util.PtrUint64(1),
		ToClinicianID:   util.PtrUint64(10),
		ParentMessageID: parentID,
		ThreadID:        threadID,
		CreatedAt:       createdAt,
	}
}

func TestResolveThreadID(t *testing.T) {
	root := &model.Message{ID: 100}
	// 父消息本身是根：线程标识即父消息 ID
	assert.Equal(t, uint64(100), ResolveThreadID(root))

	// 父消息已在线程中：沿用其线程标识
	reply := &model.Message{ID: 101, ThreadID: util.PtrUint64(100)}
	assert.Equal(t, uint64(100), ResolveThreadID(reply))
}

func TestThreadRepliesFlattened(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// 对回复的回复：父引用指向被回复消息，但线程仍归于根
	root := threadMsg(1, nil, nil, base)
	reply1 := threadMsg(2, util.PtrUint64(1), util.PtrUint64(1), base.Add(time.Minute))
	reply2 := threadMsg(3, util.PtrUint64(2), util.PtrUint64(1), base.Add(2*time.Minute))
	other := threadMsg(4, nil, nil, base.Add(3*time.Minute))

	messages := []*model.Message{root, reply1, reply2, other}

	replies := ThreadReplies(messages, 1)
	require.Len(t, replies, 2)
	assert.Equal(t, uint64(2), replies[0].ID)
	assert.Equal(t, uint64(3), replies[1].ID)

	assert.Equal(t, 2, ThreadCount(messages, 1))
	assert.Equal(t, 0, ThreadCount(messages, 4))
}

func TestThreadRepliesDedupe(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// 直接回复同时命中 parent 与 thread 两个条件，只应出现一次
	root := threadMsg(1, nil, nil, base)
	direct := threadMsg(2, util.PtrUint64(1), util.PtrUint64(1), base.Add(time.Minute))

	replies := ThreadReplies([]*model.Message{root, direct}, 1)
	require.Len(t, replies, 1)
	assert.Equal(t, uint64(2), replies[0].ID)
}

func TestThreadRepliesAscendingOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	root := threadMsg(1, nil, nil, base)
	late := threadMsg(3, util.PtrUint64(1), util.PtrUint64(1), base.Add(2*time.Minute))
	early := threadMsg(2, util.PtrUint64(1), util.PtrUint64(1), base.Add(time.Minute))

	// 乱序入参也按创建时间升序返回
	replies := ThreadReplies([]*model.Message{late, root, early}, 1)
	require.Len(t, replies, 2)
	assert.Equal(t, uint64(2), replies[0].ID)
	assert.Equal(t, uint64(3), replies[1].ID)
}

func TestThreadRoots(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	root1 := threadMsg(1, nil, nil, base)
	reply := threadMsg(2, util.PtrUint64(1), util.PtrUint64(1), base.Add(time.Minute))
	root2 := threadMsg(3, nil, nil, base.Add(2*time.Minute))

	roots := ThreadRoots([]*model.Message{root1, reply, root2})
	require.Len(t, roots, 2)
	assert.Equal(t, uint64(1), roots[0].ID)
	assert.Equal(t, uint64(3), roots[1].ID)
}
