package ws

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/junnushon/voice-chat/internal/config"
	"github.com/junnushon/voice-chat/internal/core"
	"github.com/junnushon/voice-chat/internal/domain"
)

// closeInvalidPassword is the protocol's refusal code for a bad password.
const closeInvalidPassword = 4001

const sendBuffer = 256

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	Hub *core.Hub
	Cfg *config.Config
}

func NewController(hub *core.Hub, cfg *config.Config) *Controller {
	return &Controller{Hub: hub, Cfg: cfg}
}

// Handle upgrades the request and runs the member's session until the
// socket drops. The peer identifies itself with query parameters: room,
// user_id (falling back to the client-token cookie) and an optional
// password. Join refusals are signaled as close frames: a normal close
// for an unknown room, code 4001 for a bad password.
func (ctl *Controller) Handle(c *gin.Context) {
	roomID := domain.RoomID(c.Query("room"))
	rawMember := c.Query("user_id")
	if rawMember == "" {
		rawMember = c.GetString("client_token")
	}
	password := c.Query("password")

	member, err := domain.ParseMemberID(rawMember)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("upgrade failed")
		return
	}
	sock.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := NewConn(sock, sendBuffer, ctl.Cfg.SendTimeout)
	if err := ctl.Hub.Join(roomID, member, password, conn); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			refuse(sock, websocket.CloseNormalClosure, "Room does not exist")
		case errors.Is(err, domain.ErrInvalidPassword):
			refuse(sock, closeInvalidPassword, "Invalid password")
		default:
			refuse(sock, websocket.CloseInternalServerErr, "join failed")
		}
		log.Warn().Err(err).Str("module", "adapters.ws").
			Str("room", string(roomID)).Str("member", string(member)).
			Msg("join refused")
		return
	}

	go conn.writeLoop()
	ctl.readLoop(roomID, member, conn)
}

// readLoop forwards inbound frames to the hub until the socket errors,
// then leaves the room and tells the remaining members. A session whose
// connection was displaced by a reconnect under the same member id tears
// down quietly: the member is still present, so no peer_left goes out.
func (ctl *Controller) readLoop(roomID domain.RoomID, member domain.MemberID, conn *Conn) {
	defer func() {
		removed := ctl.Hub.Leave(roomID, member, conn)
		conn.Close()
		if removed {
			ctl.announceLeft(roomID, member, conn)
		}
		log.Info().Str("module", "adapters.ws").
			Str("room", string(roomID)).Str("member", string(member)).
			Msg("session ended")
	}()

	for {
		_, data, err := conn.sock.ReadMessage()
		if err != nil {
			return
		}
		ctl.Hub.Publish(roomID, conn, core.Frame(data))
	}
}

func (ctl *Controller) announceLeft(roomID domain.RoomID, member domain.MemberID, conn *Conn) {
	payload, err := json.Marshal(struct {
		Type   string `json:"type"`
		PeerID string `json:"peerId"`
	}{Type: "peer_left", PeerID: string(member)})
	if err != nil {
		return
	}
	ctl.Hub.Publish(roomID, conn, core.Frame(payload))
}
