package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junnushon/voice-chat/internal/core"
	"github.com/junnushon/voice-chat/internal/domain"
)

type createRoomRequest struct {
	Name      string `json:"name" binding:"required"`
	Password  string `json:"password"`
	IsPrivate bool   `json:"is_private"`
}

type passwordCheckRequest struct {
	RoomID   string `json:"room_id"`
	Password string `json:"password"`
}

type roomUsersResponse struct {
	RoomID string   `json:"room_id"`
	Users  []string `json:"users"`
}

type handlers struct {
	hub *core.Hub
}

func (h *handlers) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.hub.CreateRoom(req.Name, req.Password, req.IsPrivate)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Room name already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": room.ID, "name": room.Name, "is_private": room.IsPrivate})
}

func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.ListRooms())
}

func (h *handlers) roomUsers(c *gin.Context) {
	roomID := domain.RoomID(c.Param("room_id"))
	users, ok := h.hub.MemberIDs(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Room not found"})
		return
	}
	c.JSON(http.StatusOK, roomUsersResponse{RoomID: string(roomID), Users: users})
}

func (h *handlers) checkPassword(c *gin.Context) {
	var req passwordCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch err := h.hub.CheckPassword(domain.RoomID(req.RoomID), req.Password); {
	case errors.Is(err, domain.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Room does not exist"})
	case errors.Is(err, domain.ErrInvalidPassword):
		c.JSON(http.StatusForbidden, gin.H{"detail": "Invalid password"})
	default:
		c.JSON(http.StatusOK, gin.H{"detail": "Password is correct"})
	}
}
