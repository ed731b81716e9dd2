package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavegram/backend/internal/apperrors"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/internal/services"
)

// ChatHandler exposes the chat service over HTTP. The realtime layer is the
// primary send path; the POST endpoint is the fallback for clients without a
// socket.
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/chats", h.CreateOrGetChat)
	g.GET("/chats", h.GetUserChats)
	g.GET("/chats/:chatId/messages", h.GetChatMessages)
	g.POST("/chats/:chatId/messages", h.SendMessage)
}

// CreateOrGetChat returns the one chat for the caller and the target user,
// creating it on first contact. 201 on create, 200 on get.
func (h *ChatHandler) CreateOrGetChat(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	var req models.CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	chat, created, err := h.chatService.CreateOrGetChat(c.Request().Context(), currentUserID, req.UserID)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{
		"success": true,
		"data":    echo.Map{"chat": chat, "created": created},
	})
}

// GetUserChats lists the caller's chats that have at least one message
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	chats, err := h.chatService.GetUserChats(c.Request().Context(), currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"chats": chats}})
}

// GetChatMessages returns a chat's messages, oldest first
func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	chatID, err := paramUint(c, "chatId")
	if err != nil {
		return err
	}

	messages, err := h.chatService.GetChatMessages(c.Request().Context(), chatID, currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"messages": messages}})
}

// SendMessage persists a message and returns the rich shape
func (h *ChatHandler) SendMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperrors.Unauthorized("user not authenticated")
	}

	chatID, err := paramUint(c, "chatId")
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request payload")
	}

	message, err := h.chatService.SendMessage(c.Request().Context(), chatID, currentUserID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"message": message}})
}
