package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypingTrackerIdleTimeout(t *testing.T) {
	bus := &fakePresenceBus{}
	tracker := NewTypingTrackerWithIdle(bus, 30*time.Millisecond)
	ctx := context.Background()

	tracker.OnKeystroke(ctx, 1, 10)

	records := bus.snapshot()
	require.Len(t, records, 1)
	assert.True(t, records[0].Typing)

	// 闲置超时后自动熄灭
	assert.Eventually(t, func() bool {
		records := bus.snapshot()
		return len(records) == 2 && !records[1].Typing
	}, time.Second, 5*time.Millisecond)
}

func TestTypingTrackerKeystrokeResetsTimer(t *testing.T) {
	bus := &fakePresenceBus{}
	tracker := NewTypingTrackerWithIdle(bus, 50*time.Millisecond)
	ctx := context.Background()

	// 连续键入只广播一次 typing=true
	tracker.OnKeystroke(ctx, 1, 10)
	time.Sleep(25 * time.Millisecond)
	tracker.OnKeystroke(ctx, 1, 10)
	time.Sleep(25 * time.Millisecond)
	tracker.OnKeystroke(ctx, 1, 10)

	assert.Len(t, bus.snapshot(), 1)

	assert.Eventually(t, func() bool {
		records := bus.snapshot()
		return len(records) == 2 && !records[1].Typing
	}, time.Second, 5*time.Millisecond)
}

func TestTypingTrackerMessageSentStopsTyping(t *testing.T) {
	bus := &fakePresenceBus{}
	tracker := NewTypingTrackerWithIdle(bus, time.Hour)
	ctx := context.Background()

	tracker.OnKeystroke(ctx, 1, 10)
	tracker.OnMessageSent(ctx, 1, 10)

	records := bus.snapshot()
	require.Len(t, records, 2)
	assert.True(t, records[0].Typing)
	assert.False(t, records[1].Typing)

	// 未处于输入状态时发送消息不产生多余广播
	tracker.OnMessageSent(ctx, 1, 10)
	assert.Len(t, bus.snapshot(), 2)
}

func TestTypingTrackerSessionsIndependent(t *testing.T) {
	bus := &fakePresenceBus{}
	tracker := NewTypingTrackerWithIdle(bus, time.Hour)
	ctx := context.Background()

	tracker.OnKeystroke(ctx, 1, 10)
	tracker.OnKeystroke(ctx, 1, 20)
	tracker.OnMessageSent(ctx, 1, 10)

	records := bus.snapshot()
	require.Len(t, records, 3)
	// 与 20 的会话不受影响
	assert.Equal(t, uint64(20), records[1].PeerID)
	assert.True(t, records[1].Typing)
	assert.Equal(t, uint64(10), records[2].PeerID)
	assert.False(t, records[2].Typing)
}

func TestTypingTrackerTeardown(t *testing.T) {
	bus := &fakePresenceBus{}
	tracker := NewTypingTrackerWithIdle(bus, time.Hour)
	ctx := context.Background()

	tracker.OnKeystroke(ctx, 1, 10)
	tracker.OnKeystroke(ctx, 1, 20)
	tracker.OnKeystroke(ctx, 2, 10)

	tracker.Teardown(ctx, 1)

	var stopped int
	for _, r := range bus.snapshot() {
		if !r.Typing && r.UserID == 1 {
			stopped++
		}
	}
	assert.Equal(t, 2, stopped)

	// 用户 2 的状态不受影响，发送后仍会产生熄灭广播
	tracker.OnMessageSent(ctx, 2, 10)
	records := bus.snapshot()
	last := records[len(records)-1]
	assert.Equal(t, uint64(2), last.UserID)
	assert.False(t, last.Typing)
}

func TestTypingTrackerStaleExpireIgnored(t *testing.T) {
	bus := &fakePresenceBus{}
	tracker := NewTypingTrackerWithIdle(bus, time.Hour)
	ctx := context.Background()

	// 第二次键入换代，模拟换代前旧计时器已触发的落后回调
	tracker.OnKeystroke(ctx, 1, 10)
	tracker.OnKeystroke(ctx, 1, 10)
	tracker.expire(typingKey{userID: 1, peerID: 10}, 1)

	records := bus.snapshot()
	require.Len(t, records, 1)
	assert.True(t, records[0].Typing)

	// 会话仍处于输入状态，发送消息才熄灭
	tracker.OnMessageSent(ctx, 1, 10)
	records = bus.snapshot()
	require.Len(t, records, 2)
	assert.False(t, records[1].Typing)
}

func TestTypingChannelStable(t *testing.T) {
	// 双方得到同一个频道名，与发起方无关
	assert.Equal(t, TypingChannel(1, 10), TypingChannel(10, 1))
}
