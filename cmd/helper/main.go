package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"quickdrop/internal/mylogger"

	"github.com/gorilla/websocket"
)

// Message structure for authentication
type AuthMessage struct {
	Type string `json:"type"`
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// Courier simulator: connects to the dispatch websocket, authenticates
// and streams location pings from a random walk.
func main() {
	appLogger, err := mylogger.New(mylogger.LevelDebug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	courierID := flag.String("courier_id", "", "Courier ID to connect to WebSocket")
	courierToken := flag.String("token", "", "Courier token for authentication")
	baseURL := flag.String("url", "ws://localhost:3000", "Dispatch service websocket base URL")
	interval := flag.Duration("interval", 2*time.Second, "Location ping interval")
	lat := flag.Float64("lat", 51.5074, "Starting latitude")
	lng := flag.Float64("lng", -0.1278, "Starting longitude")
	flag.Parse()

	if *courierID == "" || *courierToken == "" {
		log.Fatal("Courier ID and token are required")
	}

	wsURL := fmt.Sprintf("%s/ws/couriers/%s", *baseURL, *courierID)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect to WebSocket server: %v", err)
	}
	defer conn.Close()
	appLogger.Action("websocket_connected").Info("Connected to WebSocket server", "courier_id", *courierID)

	authMessage := AuthMessage{Type: "auth"}
	authMessage.Data.Token = *courierToken

	authBytes, err := json.Marshal(authMessage)
	if err != nil {
		appLogger.Error("Error marshalling auth message", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, authBytes); err != nil {
		appLogger.Error("Error sending authentication message", err)
		return
	}
	appLogger.Info("Sent authentication message")

	sendJSON := func(msg interface{}) {
		bytes, _ := json.Marshal(msg)
		if err := conn.WriteMessage(websocket.TextMessage, bytes); err != nil {
			appLogger.Error("Error sending message", err)
		} else {
			appLogger.Info("Sent message", "message", string(bytes))
		}
	}

	position := struct {
		Latitude  float64
		Longitude float64
	}{
		Latitude:  *lat,
		Longitude: *lng,
	}

	// Print whatever the server pushes back
	go func() {
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				appLogger.Error("Error reading WebSocket message", err)
				return
			}
			appLogger.Info("Received message", "message", string(message))
		}
	}()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for range ticker.C {
		// Simulate small movement
		position.Latitude += (rand.Float64() - 0.5) / 1000
		position.Longitude += (rand.Float64() - 0.5) / 1000

		locationUpdate := struct {
			Type string `json:"type"`
			Data struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"data"`
		}{Type: "location"}
		locationUpdate.Data.Latitude = position.Latitude
		locationUpdate.Data.Longitude = position.Longitude

		sendJSON(locationUpdate)
	}
}
