// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command tacticalsim-host is a thin demo host: it owns one sim.World, drives
// its tick loop, and exposes a command surface (order/spawn/crater) over
// HTTP plus a websocket snapshot feed. Rendering is left entirely to
// whatever consumes the feed; this binary only runs the simulation.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"

	"tacticalsim/internal/eventlog"
	"tacticalsim/internal/metrics"
	"tacticalsim/sim"
)

const destructionLogFile = "destruction_events.csv"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	var (
		port           int
		maxConnections int
		rateLimit      float64
		performance    bool
	)
	flag.IntVar(&port, "port", 8193, "http service port")
	flag.IntVar(&maxConnections, "max-connections", 512, "maximum concurrent connections")
	flag.Float64Var(&rateLimit, "order-rate", 20, "order and spawn requests accepted per second, shared across all clients")
	flag.BoolVar(&performance, "performance", false, "use the 20Hz performance rate preset instead of 30Hz")
	flag.Parse()

	if maxConnections < 0 {
		log.Fatal("invalid argument max-connections: ", maxConnections)
	}

	cfg := sim.DefaultConfig()
	if performance {
		cfg.FixedTimestep = sim.Performance20Hz.FixedTimestep()
	}
	world, err := sim.NewWorldWithConfig(cfg)
	if err != nil {
		log.Fatal("invalid sim config: ", err)
	}

	registry := prometheus.NewRegistry()
	world.SetRecorder(metrics.New(registry))

	h := newHost(world, rateLimit)
	go h.run()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))
	r.Get("/snapshot", h.serveSnapshot)
	r.Get("/terrain", h.serveTerrain)
	r.Post("/order/move", h.serveOrderMove)
	r.Post("/order/attack_move", h.serveOrderAttackMove)
	r.Post("/order/hold", h.serveOrderHold)
	r.Post("/order/retreat", h.serveOrderRetreat)
	r.Post("/spawn/crater", h.serveSpawnCrater)
	r.Post("/spawn/barrage", h.serveSpawnBarrage)
	r.Get("/ws", h.serveWs)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	listener, err := net.Listen("tcp", portAddr(port))
	if err != nil {
		log.Fatal("listen: ", err)
	}
	listener = netutil.LimitListener(listener, maxConnections)

	log.Println("tacticalsim-host listening on", portAddr(port))
	log.Fatal(http.Serve(listener, r))
}

func portAddr(port int) string {
	return fmt.Sprint(":", port)
}

// host drives the sim.World's tick loop on a fixed wall-clock cadence and
// fans snapshots out to connected websocket clients, mirroring the
// run()-plus-socket-fanout shape of a tick-driven broadcast hub.
type host struct {
	world      *sim.World
	limiter    *rate.Limiter
	register   chan *socketClient
	unregister chan *socketClient
	clients    map[*socketClient]bool
}

type socketClient struct {
	conn *websocket.Conn
	send chan string
}

func newHost(world *sim.World, orderRate float64) *host {
	return &host{
		world:      world,
		limiter:    rate.NewLimiter(rate.Limit(orderRate), int(orderRate)+1),
		register:   make(chan *socketClient),
		unregister: make(chan *socketClient),
		clients:    make(map[*socketClient]bool),
	}
}

func (h *host) run() {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / 30))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			h.world.Step(dt)
			snap := h.world.Snapshot()
			for _, id := range snap.DestructionEvents {
				if err := eventlog.Append(destructionLogFile, []interface{}{snap.Tick, id}); err != nil {
					log.Println("eventlog append error:", err)
				}
			}
			body := snap.JSON()
			for c := range h.clients {
				select {
				case c.send <- body:
				default:
				}
			}
		}
	}
}

func (h *host) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.world.SnapshotJSON())
}

func (h *host) serveTerrain(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.world.TerrainSnapshotJSON())
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// orderRequest decodes the body of the order/* and spawn/* endpoints. Fields
// are reused loosely across endpoints rather than one struct per route.
type orderRequest struct {
	SquadID uint32  `json:"squad_id"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Radius  float32 `json:"radius"`
	Depth   float32 `json:"depth"`
	Count   int     `json:"count"`
}

func (h *host) decodeOrder(w http.ResponseWriter, r *http.Request) (orderRequest, bool) {
	if !h.limiter.Allow() {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return orderRequest{}, false
	}
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return orderRequest{}, false
	}
	return req, true
}

func (h *host) serveOrderMove(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}
	h.world.OrderMove(req.SquadID, req.X, req.Y)
}

func (h *host) serveOrderAttackMove(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}
	h.world.OrderAttackMove(req.SquadID, req.X, req.Y)
}

func (h *host) serveOrderHold(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}
	h.world.OrderHold(req.SquadID)
}

func (h *host) serveOrderRetreat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}
	h.world.OrderRetreat(req.SquadID)
}

func (h *host) serveSpawnCrater(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}
	h.world.SpawnCrater(req.X, req.Y, req.Radius, req.Depth)
}

func (h *host) serveSpawnBarrage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}
	h.world.SpawnBarrage(req.X, req.Y, req.Radius, req.Count)
}

func (h *host) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade error:", err)
		return
	}
	c := &socketClient{conn: conn, send: make(chan string, 4)}
	h.register <- c
	go h.writePump(c)
}

func (h *host) writePump(c *socketClient) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			return
		}
	}
}
