package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"Glycora/internal/pkg/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReactionFixture(t *testing.T) (ReactionService, *fakeMessageRepo) {
	t.Helper()
	messages := newFakeMessageRepo()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// 患者 1 与医生 10 的两条消息
	require.NoError(t, messages.Create(context.Background(), &model.Message{
		FromUserID: util.PtrUint64(1), ToClinicianID: util.PtrUint64(10), Content: "m1", CreatedAt: base,
	}))
	require.NoError(t, messages.Create(context.Background(), &model.Message{
		FromUserID: util.PtrUint64(10), ToPatientID: util.PtrUint64(1), Content: "m2", CreatedAt: base.Add(time.Minute),
	}))

	svc := NewReactionService(newFakeReactionRepo(), newFakePinRepo(), messages, &fakeEventPublisher{})
	return svc, messages
}

func TestToggleReaction(t *testing.T) {
	svc, _ := newReactionFixture(t)
	ctx := context.Background()
	req := &dto.ToggleReactionReq{MessageID: 1, Emoji: "👍"}

	// 首次添加
	res, err := svc.ToggleReaction(ctx, 10, req)
	require.NoError(t, err)
	assert.True(t, res.Active)

	groups, err := svc.GetMessageReactions(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "👍", groups[0].Emoji)
	assert.Equal(t, 1, groups[0].Count)
	assert.True(t, groups[0].HasOwnReaction)

	// 再次切换即移除
	res, err = svc.ToggleReaction(ctx, 10, req)
	require.NoError(t, err)
	assert.False(t, res.Active)

	groups, err = svc.GetMessageReactions(ctx, 10, 1)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestToggleReactionPerEmojiIndependent(t *testing.T) {
	svc, _ := newReactionFixture(t)
	ctx := context.Background()

	_, err := svc.ToggleReaction(ctx, 1, &dto.ToggleReactionReq{MessageID: 1, Emoji: "👍"})
	require.NoError(t, err)
	_, err = svc.ToggleReaction(ctx, 1, &dto.ToggleReactionReq{MessageID: 1, Emoji: "❤️"})
	require.NoError(t, err)
	_, err = svc.ToggleReaction(ctx, 10, &dto.ToggleReactionReq{MessageID: 1, Emoji: "👍"})
	require.NoError(t, err)

	groups, err := svc.GetMessageReactions(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "👍", groups[0].Emoji)
	assert.Equal(t, 2, groups[0].Count)
	assert.True(t, groups[0].HasOwnReaction)
	assert.Equal(t, "❤️", groups[1].Emoji)
	assert.Equal(t, 1, groups[1].Count)
	assert.False(t, groups[1].HasOwnReaction)
}

func TestToggleReactionMessageNotFound(t *testing.T) {
	svc, _ := newReactionFixture(t)

	_, err := svc.ToggleReaction(context.Background(), 1, &dto.ToggleReactionReq{MessageID: 999, Emoji: "👍"})
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestToggleReactionOutsiderRejected(t *testing.T) {
	svc, _ := newReactionFixture(t)

	// 用户 99 不是消息双方
	_, err := svc.ToggleReaction(context.Background(), 99, &dto.ToggleReactionReq{MessageID: 1, Emoji: "👍"})
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestTogglePinPerUserIsolated(t *testing.T) {
	svc, _ := newReactionFixture(t)
	ctx := context.Background()

	res, err := svc.TogglePin(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, res.Active)

	pinned, err := svc.IsPinned(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, pinned)

	// 收藏仅对本人可见
	pinned, err = svc.IsPinned(ctx, 10, 1)
	require.NoError(t, err)
	assert.False(t, pinned)

	res, err = svc.TogglePin(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, res.Active)

	pinned, err = svc.IsPinned(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, pinned)
}

func TestListPinnedKeepsMessageOrder(t *testing.T) {
	svc, _ := newReactionFixture(t)
	ctx := context.Background()

	// 后收藏的先发消息，列表仍按消息时间排序
	_, err := svc.TogglePin(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.TogglePin(ctx, 1, 1)
	require.NoError(t, err)

	list, err := svc.ListPinned(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint64(1), list[0].ID)
	assert.Equal(t, uint64(2), list[1].ID)
}

func TestListPinnedEmpty(t *testing.T) {
	svc, _ := newReactionFixture(t)

	list, err := svc.ListPinned(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}
