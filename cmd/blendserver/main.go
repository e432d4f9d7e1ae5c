// Command blendserver runs the blendkit HTTP/websocket tile-assembly
// service. Grounded on
// _examples/tmpim-juroku/stream/server/server.go's main().
package main

import (
	"log"
	"os"

	"github.com/tmpim/blendkit/server"
)

func main() {
	addr := os.Getenv("BLENDSERVER_ADDR")
	if addr == "" {
		addr = ":9999"
	}

	cfg := server.Config{
		JWTSecret:    os.Getenv("BLENDSERVER_JWT_SECRET"),
		EnableStream: os.Getenv("BLENDSERVER_DISABLE_STREAM") == "",
	}

	e := server.New(cfg)
	log.Fatal(e.Start(addr))
}
