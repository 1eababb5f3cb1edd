package handler

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/consts"
	"Glycora/internal/pkg/redis"
	"Glycora/internal/pkg/response"
	"Glycora/internal/pkg/security"
	"Glycora/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClientFrame 客户端主动上行的帧，目前只有键入上报
type wsClientFrame struct {
	Type   string `json:"type"`
	PeerID uint64 `json:"peer_id"`
}

type WsHandler struct {
	imService service.IMService
	typing    *service.TypingTracker
}

func NewWsHandler(im service.IMService, typing *service.TypingTracker) *WsHandler {
	return &WsHandler{imService: im, typing: typing}
}

func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// 个人事件频道 + 每个现有会话的输入状态频道
	channels := []string{consts.IMUserKey + strconv.FormatUint(userID, 10)}
	list, err := s.imService.ListConversations(context.Background(), userID, "")
	if err != nil {
		log.Error("获取会话列表失败", "userID", userID, "err", err)
		return
	}
	for _, conv := range list {
		channels = append(channels, service.TypingChannel(userID, conv.PeerID))
	}

	// 订阅 Redis 总线
	pubsub := redis.Subscribe(context.Background(), channels...)
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("用户 WS 连接已建立", "userID", userID, "channels", len(channels))

	stopChan := make(chan struct{})

	// 读循环：处理键入上报并监听客户端断开
	go func() {
		defer close(stopChan)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var frame wsClientFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				continue
			}
			if frame.Type == consts.EventTypeTyping && frame.PeerID != 0 {
				s.typing.OnKeystroke(context.Background(), userID, frame.PeerID)
				// 新会话的输入状态频道按需补订
				_ = pubsub.Subscribe(context.Background(), service.TypingChannel(userID, frame.PeerID))
			}
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			if strings.HasPrefix(msg.Channel, consts.IMTypingKey) {
				// 自己的键入事件不回显
				var event dto.TypingEventDTO
				if err := json.Unmarshal([]byte(msg.Payload), &event); err == nil && event.UserID == userID {
					continue
				}
			} else if peerID := typingPeerFromEvent([]byte(msg.Payload), userID); peerID != 0 {
				// 新对手方的首条消息到达时补订双方的输入状态频道，
				// 否则连接期间新建的会话要等重连才能看到对方键入
				_ = pubsub.Subscribe(context.Background(), service.TypingChannel(userID, peerID))
			}

			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				s.typing.Teardown(context.Background(), userID)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			s.typing.Teardown(context.Background(), userID)
			return
		}
	}
}

// typingPeerFromEvent 从个人频道事件中解析需要补订输入状态频道的对手方
// 仅对他人发来的消息事件返回非零 ID。
func typingPeerFromEvent(payload []byte, selfID uint64) uint64 {
	var event struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(payload, &event); err != nil || event.Type != consts.EventTypeMessage {
		return 0
	}
	var msg dto.MessageDTO
	if err := json.Unmarshal(event.Payload, &msg); err != nil || msg.FromUserID == nil || *msg.FromUserID == selfID {
		return 0
	}
	return *msg.FromUserID
}
