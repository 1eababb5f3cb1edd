package service

import (
	"Glycora/internal/model"
	"sort"
)

// ThreadRoots 返回没有父引用的消息子序列，即会话的顶层条目
func ThreadRoots(messages []*model.Message) []*model.Message {
	var roots []*model.Message
	for _, m := range messages {
		if m.ParentMessageID == nil {
			roots = append(roots, m)
		}
	}
	return roots
}

// ThreadReplies 返回某条消息的全部回复，按创建时间升序
// 双重条件：直接回复 (parent_message_id) 或归属同一线程 (thread_id)。
// 同一条消息可能同时命中两个条件，按消息 ID 去重。
func ThreadReplies(messages []*model.Message, parentID uint64) []*model.Message {
	seen := make(map[uint64]struct{})
	var replies []*model.Message

	for _, m := range messages {
		hit := (m.ParentMessageID != nil && *m.ParentMessageID == parentID) ||
			(m.ThreadID != nil && *m.ThreadID == parentID)
		if !hit {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		replies = append(replies, m)
	}

	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return replies
}

// ThreadCount 回复数，与 ThreadReplies 的长度保持一致
func ThreadCount(messages []*model.Message, parentID uint64) int {
	return len(ThreadReplies(messages, parentID))
}

// ResolveThreadID 计算新回复应归属的线程根
// 父消息已在线程中则沿用其 thread_id，否则父消息本身即是根。
// 线程标识因此恒为根消息 ID，与回复深度无关。
func ResolveThreadID(parent *model.Message) uint64 {
	if parent.ThreadID != nil {
		return *parent.ThreadID
	}
	return parent.ID
}
