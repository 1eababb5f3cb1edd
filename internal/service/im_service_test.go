package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"Glycora/internal/pkg/consts"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIMFixture(t *testing.T) (IMService, *fakeMessageRepo, *fakeEventPublisher) {
	t.Helper()
	users := newFakeUserRepo(
		&model.User{ID: 1, Username: "patient1", Role: model.RolePatient, DisplayName: "张三"},
		&model.User{ID: 2, Username: "patient2", Role: model.RolePatient, DisplayName: "李四"},
		&model.User{ID: 10, Username: "doc1", Role: model.RoleClinician, DisplayName: "王医生"},
	)
	messages := newFakeMessageRepo()
	events := &fakeEventPublisher{}
	typing := NewTypingTrackerWithIdle(&fakePresenceBus{}, time.Hour)
	return NewIMService(messages, users, events, typing), messages, events
}

func TestSendMessagePatientToClinician(t *testing.T) {
	svc, _, events := newIMFixture(t)

	res, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{
		TargetUserID: 10,
		Content:      "最近血糖偏高",
	})
	require.NoError(t, err)

	// 患者发出的消息填 to_clinician_id，另一字段保持空
	require.NotNil(t, res.ToClinicianID)
	assert.Equal(t, uint64(10), *res.ToClinicianID)
	assert.Nil(t, res.ToPatientID)
	require.NotNil(t, res.FromUserID)
	assert.Equal(t, uint64(1), *res.FromUserID)
	assert.Equal(t, model.MessageStatusSent, res.Status)
	assert.Nil(t, res.ReadAt)

	// 事件推送到收件人频道
	published := events.byType(consts.EventTypeMessage)
	require.Len(t, published, 1)
	assert.Equal(t, uint64(10), published[0].UserID)
}

func TestSendMessageClinicianToPatient(t *testing.T) {
	svc, _, _ := newIMFixture(t)

	res, err := svc.SendMessage(context.Background(), 10, &dto.SendMessageReq{
		TargetUserID: 1,
		Content:      "请按时服药",
	})
	require.NoError(t, err)
	require.NotNil(t, res.ToPatientID)
	assert.Equal(t, uint64(1), *res.ToPatientID)
	assert.Nil(t, res.ToClinicianID)
}

func TestSendMessageValidation(t *testing.T) {
	svc, _, _ := newIMFixture(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 10})
	assert.ErrorIs(t, err, ErrMessageEmpty)

	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 10, Content: "   "})
	assert.ErrorIs(t, err, ErrMessageEmpty)

	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 1, Content: "hi"})
	assert.ErrorIs(t, err, ErrSelfMessage)

	// 患者只能发给医生
	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 2, Content: "hi"})
	assert.ErrorIs(t, err, ErrTargetUserInvalid)
}

func TestSendMessageReplyKeepsThreadRoot(t *testing.T) {
	svc, _, _ := newIMFixture(t)
	ctx := context.Background()

	root, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 10, Content: "根消息"})
	require.NoError(t, err)

	reply, err := svc.SendMessage(ctx, 10, &dto.SendMessageReq{
		TargetUserID: 1, Content: "一级回复", ReplyTo: &root.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ThreadID)
	assert.Equal(t, root.ID, *reply.ThreadID)

	// 对回复的回复：父引用指向被回复消息，线程仍归于根
	reply2, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{
		TargetUserID: 10, Content: "二级回复", ReplyTo: &reply.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply2.ParentMessageID)
	assert.Equal(t, reply.ID, *reply2.ParentMessageID)
	require.NotNil(t, reply2.ThreadID)
	assert.Equal(t, root.ID, *reply2.ThreadID)

	replies, err := svc.GetReplies(ctx, 1, root.ID)
	require.NoError(t, err)
	assert.Len(t, replies, 2)

	count, err := svc.GetThreadCount(ctx, 1, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSendMessageAttachmentPlaceholder(t *testing.T) {
	svc, _, _ := newIMFixture(t)

	res, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{
		TargetUserID:   10,
		AttachmentURL:  "http://files.local/1/report.pdf",
		AttachmentName: "report.pdf",
		AttachmentMime: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "[附件] report.pdf", res.Content)
	require.NotNil(t, res.Attachment)
	assert.Equal(t, "report.pdf", res.Attachment.Name)
}

func TestSelectConversationMarksUnreadRead(t *testing.T) {
	svc, _, events := newIMFixture(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, 10, &dto.SendMessageReq{TargetUserID: 1, Content: "m1"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, 10, &dto.SendMessageReq{TargetUserID: 1, Content: "m2"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 10, Content: "m3"})
	require.NoError(t, err)

	list, err := svc.ListConversations(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].UnreadCount)

	messages, err := svc.SelectConversation(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	// 对方发来的消息全部置为已读，自己发的不动
	assert.NotNil(t, messages[0].ReadAt)
	assert.NotNil(t, messages[1].ReadAt)
	assert.Nil(t, messages[2].ReadAt)

	// 已读回执推送到对方频道
	receipts := events.byType(consts.EventTypeReadReceipt)
	require.Len(t, receipts, 1)
	assert.Equal(t, uint64(10), receipts[0].UserID)

	// 未读数归零
	list, err = svc.ListConversations(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].UnreadCount)

	// 再次打开不重复发回执
	_, err = svc.SelectConversation(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, events.byType(consts.EventTypeReadReceipt), 1)
}

func TestListConversationsSearch(t *testing.T) {
	svc, _, _ := newIMFixture(t)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 10, Content: "hi"})
	require.NoError(t, err)

	list, err := svc.ListConversations(ctx, 1, "王")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "王医生", list[0].PeerDisplayName)

	list, err = svc.ListConversations(ctx, 1, "不存在")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSendSystemMessage(t *testing.T) {
	svc, messages, events := newIMFixture(t)

	err := svc.SendSystemMessage(context.Background(), 1, "血糖告警", "血糖过高")
	require.NoError(t, err)

	require.Len(t, messages.messages, 1)
	stored := messages.messages[0]
	// 系统消息无发送者，收件人字段由目标角色决定
	assert.Nil(t, stored.FromUserID)
	require.NotNil(t, stored.ToPatientID)
	assert.Equal(t, uint64(1), *stored.ToPatientID)

	published := events.byType(consts.EventTypeMessage)
	require.Len(t, published, 1)
	assert.Equal(t, uint64(1), published[0].UserID)
}

func TestSystemMessageRetrievable(t *testing.T) {
	svc, _, _ := newIMFixture(t)
	ctx := context.Background()

	err := svc.SendSystemMessage(ctx, 1, "血糖告警", "血糖过高")
	require.NoError(t, err)
	err = svc.SendSystemMessage(ctx, 10, "血糖告警", "患者张三血糖过高")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageReq{TargetUserID: 10, Content: "你好"})
	require.NoError(t, err)

	// 落库的系统消息可以通过系统消息列表读回
	list, err := svc.ListSystemMessages(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].FromUserID)
	assert.Equal(t, "血糖过高", list[0].Content)

	list, err = svc.ListSystemMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "患者张三血糖过高", list[0].Content)

	// 系统消息不混入医患会话
	conv, err := svc.SelectConversation(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, conv, 1)
	assert.Equal(t, "你好", conv[0].Content)
}
