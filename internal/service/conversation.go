package service

import (
	"Glycora/internal/model"
	"sort"
	"strings"
)

// ConversationSummary 会话聚合结果：每个对手方一条
type ConversationSummary struct {
	PeerID      uint64
	LastMessage *model.Message
	UnreadCount int
}

// AggregateConversations 将用户可见的扁平消息列表按对手方聚合
// 每个对手方保留创建时间最新的一条消息，并统计对方发来的未读数。
// 入参要求按创建时间升序；相同时间戳时后出现者胜出。
// 纯函数：每次变更后整体重算，不维护增量索引。
func AggregateConversations(messages []*model.Message, currentUserID uint64) []*ConversationSummary {
	byPeer := make(map[uint64]*ConversationSummary)
	var order []uint64

	for _, m := range messages {
		peerID := m.Counterpart(currentUserID)
		if peerID == 0 || peerID == currentUserID {
			continue
		}

		summary, ok := byPeer[peerID]
		if !ok {
			summary = &ConversationSummary{PeerID: peerID}
			byPeer[peerID] = summary
			order = append(order, peerID)
		}

		if summary.LastMessage == nil || !m.CreatedAt.Before(summary.LastMessage.CreatedAt) {
			summary.LastMessage = m
		}
		if m.ReadAt == nil && (m.FromUserID == nil || *m.FromUserID != currentUserID) {
			summary.UnreadCount++
		}
	}

	res := make([]*ConversationSummary, 0, len(order))
	for _, peerID := range order {
		res = append(res, byPeer[peerID])
	}

	// 最新消息靠前
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].LastMessage.CreatedAt.After(res[j].LastMessage.CreatedAt)
	})
	return res
}

// FilterConversationsByName 按对手方显示名做大小写不敏感的子串过滤
func FilterConversationsByName(summaries []*ConversationSummary, names map[uint64]string, query string) []*ConversationSummary {
	if query == "" {
		return summaries
	}
	q := strings.ToLower(query)

	res := make([]*ConversationSummary, 0, len(summaries))
	for _, s := range summaries {
		if strings.Contains(strings.ToLower(names[s.PeerID]), q) {
			res = append(res, s)
		}
	}
	return res
}
