package v1

import (
	"net/http"
	"strconv"

	"go-clubmatch-backend/internal/delivery/http/response"
	"go-clubmatch-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageUC domain.MessageUsecase
}

func NewMessageHandler(protected *gin.RouterGroup, messageUC domain.MessageUsecase) {
	handler := &MessageHandler{messageUC: messageUC}

	messages := protected.Group("/messages")
	{
		messages.POST("", handler.Send)
		messages.GET("/inbox", handler.Inbox)
		messages.GET("/sent", handler.Sent)
		messages.GET("/:id/thread", handler.Thread)
		messages.POST("/:id/read", handler.MarkRead)
	}
}

type SendMessageRequest struct {
	ReceiverID      string `json:"receiver_id" binding:"required,uuid"`
	Subject         string `json:"subject" binding:"required,min=1,max=200,no_emoji"`
	Content         string `json:"content" binding:"required,min=1,max=5000"`
	ParentMessageID *int64 `json:"parent_message_id" binding:"omitempty,gt=0"`
}

// Send godoc
// @Summary      Send a message
// @Description  Send a direct message to another user, optionally replying to an existing thread
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        message  body      SendMessageRequest  true  "Message JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /messages [post]
// @Security     BearerAuth
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	senderID := c.GetString(string(domain.KeyUserID))
	msg, err := h.messageUC.Send(c.Request.Context(), senderID, req.ReceiverID, req.Subject, req.Content, req.ParentMessageID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Message sent", msg)
}

// Inbox godoc
// @Summary      Inbox
// @Description  Get received messages, newest first
// @Tags         messages
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /messages/inbox [get]
// @Security     BearerAuth
func (h *MessageHandler) Inbox(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	userID := c.GetString(string(domain.KeyUserID))
	messages, total, err := h.messageUC.Inbox(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Inbox", gin.H{
		"messages":  messages,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Sent godoc
// @Summary      Sent messages
// @Description  Get sent messages, newest first
// @Tags         messages
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /messages/sent [get]
// @Security     BearerAuth
func (h *MessageHandler) Sent(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	userID := c.GetString(string(domain.KeyUserID))
	messages, total, err := h.messageUC.Sent(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Sent messages", gin.H{
		"messages":  messages,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Thread godoc
// @Summary      Message thread
// @Description  Get a root message and all replies (participants only)
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Root message ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /messages/{id}/thread [get]
// @Security     BearerAuth
func (h *MessageHandler) Thread(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	messages, threadErr := h.messageUC.Thread(c.Request.Context(), userID, id)
	if threadErr != nil {
		c.Error(threadErr)
		return
	}

	response.Success(c, http.StatusOK, "Message thread", messages)
}

// MarkRead godoc
// @Summary      Mark message read
// @Description  Mark a received message as read
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /messages/{id}/read [post]
// @Security     BearerAuth
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	userID := c.GetString(string(domain.KeyUserID))
	if err := h.messageUC.MarkRead(c.Request.Context(), userID, id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Message marked as read", nil)
}
