package server

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	echomw "github.com/labstack/echo/middleware"

	"github.com/tmpim/blendkit"
)

// Config controls how New builds the echo app: the JWT signing secret
// for the /api routes (left unauthenticated when empty), and whether the
// websocket streaming endpoint, which sits in the same /api group, is
// enabled at all.
type Config struct {
	JWTSecret    string
	EnableStream bool
}

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 5 * time.Second,
	CheckOrigin:      func(r *http.Request) bool { return true },
}

// New builds the echo application exposing blendkit over HTTP, grounded
// on _examples/tmpim-juroku/stream/server/server.go's route-group shape.
func New(cfg Config) *echo.Echo {
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	api := e.Group("/api")
	if cfg.JWTSecret != "" {
		api.Use(jwtMiddleware(cfg.JWTSecret))
	}

	api.POST("/blend", handleBlend)

	if cfg.EnableStream {
		api.GET("/stream", handleStream)
	}

	return e
}

// handleBlend runs one synchronous request/response cycle over the
// asynchronous Blend entry point: the handler goroutine blocks on a
// buffered channel until the background worker's callback fires.
func handleBlend(c echo.Context) error {
	if _, ok := c.Get("user").(*jwt.Token); ok {
		tenant := tenantFromContext(c)
		if tenant == "" {
			return unauthorized(c, "token is missing a tenant claim")
		}
		log.Printf("blendkit server: blend request from tenant %q", tenant)
	}

	var req blendRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	layers, err := req.toLayers()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	opts, err := req.Options.toOptions()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	resp, err := runBlend(layers, opts)
	if err != nil {
		if berr, ok := err.(*blendkit.Error); ok && berr.Kind == blendkit.KindArgument {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: berr.Message})
		}
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// runBlend adapts blendkit.Blend's callback contract to a single
// synchronous return, the way handleBlend and the streaming loop both
// need it.
func runBlend(layers []blendkit.LayerInput, opts *blendkit.Options) (*blendResponse, error) {
	type result struct {
		buf      []byte
		warnings []string
		err      error
	}

	done := make(chan result, 1)
	err := blendkit.Blend(layers, opts, func(err error, buf []byte, warnings []string) {
		done <- result{buf: buf, warnings: warnings, err: err}
	})
	if err != nil {
		return nil, err
	}

	r := <-done
	if r.err != nil {
		return nil, r.err
	}

	return &blendResponse{
		Output:   base64.StdEncoding.EncodeToString(r.buf),
		Warnings: r.warnings,
	}, nil
}

// handleStream upgrades to a websocket and runs one blend job per
// incoming frame, replying on the same connection. Grounded on
// _examples/tmpim-juroku/stream/stream.go's HandleConn read loop, adapted
// from a fire-and-forget control-message protocol to a request/response
// one: each inbound frame is a blendRequest, each outbound frame is its
// blendResponse or errorResponse.
func handleStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			log.Println("blendkit server: client disconnected:", err)
			return nil
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		var req blendRequest
		if err := json.Unmarshal(data, &req); err != nil {
			writeJSON(conn, errorResponse{Error: err.Error()})
			continue
		}

		layers, err := req.toLayers()
		if err != nil {
			writeJSON(conn, errorResponse{Error: err.Error()})
			continue
		}

		opts, err := req.Options.toOptions()
		if err != nil {
			writeJSON(conn, errorResponse{Error: err.Error()})
			continue
		}

		resp, err := runBlend(layers, opts)
		if err != nil {
			writeJSON(conn, errorResponse{Error: err.Error()})
			continue
		}

		writeJSON(conn, resp)
	}
}

func writeJSON(conn *websocket.Conn, v interface{}) {
	d, err := json.Marshal(v)
	if err != nil {
		log.Println("blendkit server: failed to marshal response:", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, d); err != nil {
		log.Println("blendkit server: write failed:", err)
	}
}
