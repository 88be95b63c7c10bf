// Package server is the fixture backend besedasrv serves: the seeded
// sqlite dataset exposed over the same HTTP surface the production
// messenger service speaks.
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/store"
)

// Handler serves the messenger API from the fixture database.
type Handler struct {
	db     *store.DB
	logger *zap.Logger
}

// NewHandler creates a handler over an opened, migrated database.
func NewHandler(db *store.DB, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// RegisterRoutes binds the API onto the router.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/chats", h.listChats)
	r.GET("/messages", h.listMessages)
	r.POST("/messages", h.createMessage)
	r.GET("/users", h.getUser)
	r.GET("/calls", h.listCalls)
	r.POST("/calls", h.createCall)
}

func (h *Handler) listChats(c *gin.Context) {
	if _, ok := h.queryID(c, "user_id"); !ok {
		return
	}
	records, err := h.db.ListChats()
	if err != nil {
		h.fail(c, "list chats", err)
		return
	}
	rows := make([]adapter.ChatRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, adapter.ChatRowFromRecord(rec))
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) listMessages(c *gin.Context) {
	chatID, ok := h.queryID(c, "chat_id")
	if !ok {
		return
	}
	records, err := h.db.ListMessages(chatID)
	if err != nil {
		h.fail(c, "list messages", err)
		return
	}
	rows := make([]adapter.MessageRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, adapter.MessageRowFromRecord(rec))
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) createMessage(c *gin.Context) {
	var req adapter.AppendRow
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ChatID == 0 || req.SenderID == 0 || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id, sender_id and content are required"})
		return
	}
	if req.MessageType == "" {
		req.MessageType = string(adapter.MessageText)
	}

	exists, err := h.db.ChatExists(req.ChatID)
	if err != nil {
		h.fail(c, "create message", err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}

	id, createdAt, err := h.db.InsertMessage(req.ChatID, req.SenderID, req.MessageType, req.Content, req.Duration)
	if err != nil {
		h.fail(c, "create message", err)
		return
	}
	h.logger.Info("message stored",
		zap.Int64("chat_id", req.ChatID),
		zap.Int64("id", id),
		zap.String("type", req.MessageType))
	c.JSON(http.StatusCreated, adapter.AckRow{ID: id, CreatedAt: createdAt})
}

func (h *Handler) getUser(c *gin.Context) {
	userID, ok := h.queryID(c, "user_id")
	if !ok {
		return
	}
	rec, err := h.db.GetUser(userID)
	if err != nil {
		h.fail(c, "get user", err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, adapter.UserRowFromRecord(*rec))
}

func (h *Handler) listCalls(c *gin.Context) {
	if _, ok := h.queryID(c, "user_id"); !ok {
		return
	}
	records, err := h.db.ListCalls()
	if err != nil {
		h.fail(c, "list calls", err)
		return
	}
	rows := make([]adapter.CallRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, adapter.CallRowFromRecord(rec))
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) createCall(c *gin.Context) {
	var req struct {
		ChatID      int64  `json:"chat_id"`
		InitiatorID int64  `json:"initiator_id"`
		CallType    string `json:"call_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ChatID == 0 || req.InitiatorID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id and initiator_id are required"})
		return
	}
	if req.CallType != string(adapter.CallVideo) {
		req.CallType = string(adapter.CallAudio)
	}

	id, startedAt, err := h.db.InsertCall(req.ChatID, req.InitiatorID, req.CallType)
	if err != nil {
		h.fail(c, "create call", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "started_at": startedAt})
}

// queryID parses a required int64 query parameter, writing the 400
// itself when missing or malformed.
func (h *Handler) queryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.logger.Error(op+" failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
