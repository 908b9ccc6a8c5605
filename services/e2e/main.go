package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

func baseURL() string {
	env := os.Getenv("ENV")
	switch env {
	case "CI":
		return "http://core-app:8080/api/v1"
	}
	return "http://localhost:8080/api/v1"
}

const (
	ownerID = "e2e-owner"
	guestID = "e2e-guest"
)

type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func main() {
	fmt.Println("Starting E2E arena flow...")

	if err := run(); err != nil {
		fmt.Printf("E2E failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n All E2E tests passed!")
}

func run() error {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	if !waitForService(client) {
		return fmt.Errorf("service didn't start in time")
	}

	roomID, err := createRoom(client)
	if err != nil {
		return err
	}
	fmt.Printf("Room created. ID: %s\n", roomID)

	if err := call(client, http.MethodPost, "/rooms/"+roomID+"/members", guestID, `{"display_name":"Guest"}`, http.StatusNoContent); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	conn, err := dialPresence(roomID, ownerID)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := expectMembers(conn, 2); err != nil {
		return err
	}
	fmt.Println("Owner sees the guest")

	if err := call(client, http.MethodDelete, "/rooms/"+roomID+"/members/me", guestID, "", http.StatusNoContent); err != nil {
		return fmt.Errorf("leave: %w", err)
	}
	if err := expectMembers(conn, 1); err != nil {
		return err
	}
	fmt.Println("Owner sees the guest leave")

	if err := call(client, http.MethodDelete, "/rooms/"+roomID, ownerID, "", http.StatusNoContent); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := expectEvent(conn, "ROOM_CLOSED"); err != nil {
		return err
	}
	fmt.Println("Room closed")

	return nil
}

func waitForService(client *http.Client) bool {
	fmt.Println(" Waiting for service to be ready...")

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		resp, err := client.Get(baseURL() + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				fmt.Println(" Service is ready!")
				return true
			}
		}

		if i < maxRetries-1 {
			fmt.Printf(" Service not ready yet (attempt %d/%d)...\n", i+1, maxRetries)
			time.Sleep(2 * time.Second)
		}
	}

	fmt.Println(" Service didn't start in time")
	return false
}

func createRoom(client *http.Client) (string, error) {
	req, err := newRequest(http.MethodPost, "/rooms", ownerID, `{"display_name":"Owner"}`)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create room request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("create room returned status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		RoomID string `json:"room_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse create room response: %v", err)
	}
	return out.RoomID, nil
}

func call(client *http.Client, method, path, userID, body string, want int) error {
	req, err := newRequest(method, path, userID, body)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, string(body))
	}
	return nil
}

func newRequest(method, path, userID, body string) (*http.Request, error) {
	req, err := http.NewRequest(method, baseURL()+path, bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-user-id", userID)
	return req, nil
}

func dialPresence(roomID, userID string) (*websocket.Conn, error) {
	u, err := url.Parse(baseURL())
	if err != nil {
		return nil, err
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path += "/ws/rooms/" + roomID
	u.RawQuery = url.Values{"user_id": {userID}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("presence dial failed: %v", err)
	}
	return conn, nil
}

// expectMembers reads presence updates until one carries n members.
func expectMembers(conn *websocket.Conn, n int) error {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)

		var ev event
		if err := conn.ReadJSON(&ev); err != nil {
			return fmt.Errorf("waiting for %d members: %v", n, err)
		}
		if ev.Type != "PRESENCE_UPDATE" {
			continue
		}

		var payload struct {
			Members []json.RawMessage `json:"members"`
		}
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return fmt.Errorf("bad presence payload: %v", err)
		}
		if len(payload.Members) == n {
			return nil
		}
	}
	return fmt.Errorf("no presence update with %d members", n)
}

func expectEvent(conn *websocket.Conn, eventType string) error {
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var ev event
		if err := conn.ReadJSON(&ev); err != nil {
			return fmt.Errorf("waiting for %s: %v", eventType, err)
		}
		if ev.Type == eventType {
			return nil
		}
	}
}
