package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/response"
	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/metrics"
)

const (
	feedSendBuffer = 16
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = feedPongWait * 9 / 10
	feedPrediction = "prediction"
	feedSubscribed = "subscribed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced on the HTTP routes; the feed only pushes public data.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type feedClient struct {
	conn    *websocket.Conn
	send    chan []byte
	eventID uint
}

type feedBroadcast struct {
	eventID uint
	payload []byte
}

// PredictionFeed pushes freshly generated predictions to the websocket
// subscribers of the same event. All subscriber bookkeeping happens on the
// Run goroutine.
type PredictionFeed struct {
	clients    map[uint]map[*feedClient]struct{}
	broadcast  chan feedBroadcast
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
}

func NewPredictionFeed() *PredictionFeed {
	return &PredictionFeed{
		clients:    make(map[uint]map[*feedClient]struct{}),
		broadcast:  make(chan feedBroadcast, 64),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
	}
}

// Run serves the feed until ctx is cancelled, then disconnects every subscriber.
func (f *PredictionFeed) Run(ctx context.Context) {
	defer close(f.done)

	for {
		select {
		case <-ctx.Done():
			for _, subscribers := range f.clients {
				for client := range subscribers {
					f.drop(client)
				}
			}
			return
		case client := <-f.register:
			if f.clients[client.eventID] == nil {
				f.clients[client.eventID] = make(map[*feedClient]struct{})
			}
			f.clients[client.eventID][client] = struct{}{}
			metrics.FeedSubscribers.Inc()
			client.send <- subscribedMessage(client.eventID)
		case client := <-f.unregister:
			f.drop(client)
		case msg := <-f.broadcast:
			for client := range f.clients[msg.eventID] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow subscriber.
					f.drop(client)
				}
			}
		}
	}
}

func (f *PredictionFeed) drop(client *feedClient) {
	subscribers, ok := f.clients[client.eventID]
	if !ok {
		return
	}
	if _, ok = subscribers[client]; !ok {
		return
	}

	delete(subscribers, client)
	if len(subscribers) == 0 {
		delete(f.clients, client.eventID)
	}
	close(client.send)
	metrics.FeedSubscribers.Dec()
}

// PredictionGenerated never blocks the caller. When the feed is backed up the
// message is dropped.
func (f *PredictionFeed) PredictionGenerated(p domain.Prediction) {
	payload, err := json.Marshal(response.FeedMessage{Type: feedPrediction, EventID: p.EventID, Prediction: &p})
	if err != nil {
		zap.L().Error("failed to encode prediction for the feed", zap.Uint("event_id", p.EventID), zap.Error(err))
		return
	}

	select {
	case f.broadcast <- feedBroadcast{eventID: p.EventID, payload: payload}:
	default:
		zap.L().Warn("prediction feed is full, dropping message", zap.Uint("event_id", p.EventID))
	}
}

func subscribedMessage(eventID uint) []byte {
	payload, _ := json.Marshal(response.FeedMessage{Type: feedSubscribed, EventID: eventID})

	return payload
}

// HandleFeed godoc
// @Summary      Subscribe to an event's predictions
// @Description  Upgrades to a websocket. A "subscribed" message confirms the subscription, then every prediction generated for the event is pushed as a JSON message.
// @Tags         predictions
// @Param        eventID  path      int  true  "Event ID"
// @Success      101      {string}  string  "Switching Protocols to WebSocket"
// @Failure      400      {object}  response.Err
// @Router       /predictions/events/{eventID}/feed [get]
func (f *PredictionFeed) HandleFeed(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader has already answered the client.
		zap.L().Warn("failed to upgrade prediction feed", zap.Uint("event_id", eventID), zap.Error(err))
		return
	}

	client := &feedClient{
		conn:    conn,
		send:    make(chan []byte, feedSendBuffer),
		eventID: eventID,
	}
	select {
	case f.register <- client:
	case <-f.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(f)
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the connection going away. Subscribers have nothing to say.
func (c *feedClient) readPump(f *PredictionFeed) {
	defer func() {
		select {
		case f.unregister <- c:
		case <-f.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("prediction feed closed unexpectedly", zap.Uint("event_id", c.eventID), zap.Error(err))
			}
			return
		}
	}
}
