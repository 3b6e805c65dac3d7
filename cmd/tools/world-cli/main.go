package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/annel0/voxel-engine/internal/api"
)

const defaultServerAddr = "http://localhost:8088"

func main() {
	var (
		serverAddr = flag.String("server", defaultServerAddr, "REST API base URL")
		command    = flag.String("cmd", "stats", "Command: stats, chunks, block, set, raycast, tp, pause, resume")
		pos        = flag.String("pos", "", "Position x,y,z")
		dir        = flag.String("dir", "0,-1,0", "Ray direction x,y,z")
		dist       = flag.Float64("dist", 0, "Max ray distance (0 = server default)")
		id         = flag.Uint("id", 0, "Block ID for set")
		create     = flag.Bool("create", false, "Refuse to place a block inside a body")
		timeout    = flag.Duration("timeout", 5*time.Second, "Request timeout")
	)
	flag.Parse()

	client := NewClient(*serverAddr, *timeout)
	ctx := context.Background()

	var err error
	switch *command {
	case "stats":
		err = client.Stats(ctx, os.Stdout)
	case "chunks":
		err = client.Chunks(ctx, os.Stdout)
	case "block":
		var p [3]float64
		if p, err = parseVec(*pos); err == nil {
			err = client.Block(ctx, os.Stdout, p)
		}
	case "set":
		var p [3]float64
		if p, err = parseVec(*pos); err == nil {
			err = client.SetBlock(ctx, os.Stdout, api.BlockRequest{Position: p, ID: uint16(*id), Create: *create})
		}
	case "raycast":
		err = client.Raycast(ctx, os.Stdout, *pos, *dir, *dist)
	case "tp":
		var p [3]float64
		if p, err = parseVec(*pos); err == nil {
			err = client.Teleport(ctx, os.Stdout, p)
		}
	case "pause", "resume":
		err = client.post(ctx, "/api/"+*command, nil, nil)
		if err == nil {
			fmt.Printf("✅ %s\n", *command)
		}
	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: stats, chunks, block, set, raycast, tp, pause, resume")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("❌ %s failed: %v", *command, err)
	}
}

// Client обёртка над отладочным REST API
type Client struct {
	base string
	http *http.Client
}

// NewClient создаёт клиента для сервера по адресу base
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("status %d: %w", resp.StatusCode, err)
	}
	if !env.Success {
		return fmt.Errorf("status %d: %s", resp.StatusCode, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Stats выводит состояние движка
func (c *Client) Stats(ctx context.Context, w io.Writer) error {
	var s api.StatsResponse
	if err := c.get(ctx, "/api/stats", &s); err != nil {
		return err
	}
	fmt.Fprintln(w, "📊 Engine stats")
	fmt.Fprintf(w, "  tick:      %d (paused: %v, async: %v)\n", s.Engine.Tick, s.Paused, s.Engine.Async)
	fmt.Fprintf(w, "  chunks:    %d resident, %d pending, %d dirty\n",
		s.Engine.ResidentChunks, s.Engine.PendingChunks, s.Engine.DirtyChunks)
	fmt.Fprintf(w, "  meshes:    %d\n", s.Engine.Meshes)
	fmt.Fprintf(w, "  entities:  %d\n", s.Engine.Entities)
	fmt.Fprintf(w, "  player:    %s\n", formatVec(s.Player))
	fmt.Fprintf(w, "  uptime:    %s\n", s.Process.Uptime)
	return nil
}

// Chunks выводит загруженные и ожидающие чанки
func (c *Client) Chunks(ctx context.Context, w io.Writer) error {
	var r api.ChunksResponse
	if err := c.get(ctx, "/api/chunks", &r); err != nil {
		return err
	}
	for _, ch := range r.Resident {
		flags := ""
		if ch.Mesh {
			flags += " mesh"
		}
		if ch.Dirty {
			flags += " dirty"
		}
		fmt.Fprintf(w, "  %v changes=%d%s\n", ch.Position, ch.Changes, flags)
	}
	fmt.Fprintf(w, "📦 resident: %d, pending: %d\n", len(r.Resident), len(r.Pending))
	return nil
}

// Block выводит блок в точке
func (c *Client) Block(ctx context.Context, w io.Writer, p [3]float64) error {
	var b api.BlockResponse
	path := fmt.Sprintf("/api/blocks?x=%s&y=%s&z=%s", ftoa(p[0]), ftoa(p[1]), ftoa(p[2]))
	if err := c.get(ctx, path, &b); err != nil {
		return err
	}
	if !b.Loaded {
		fmt.Fprintf(w, "⚪ voxel %v: chunk %v not loaded\n", b.Voxel, b.Chunk)
		return nil
	}
	fmt.Fprintf(w, "🧱 voxel %v chunk %v: %s (%d)\n", b.Voxel, b.Chunk, b.Name, b.ID)
	return nil
}

// SetBlock ставит блок
func (c *Client) SetBlock(ctx context.Context, w io.Writer, req api.BlockRequest) error {
	var b api.BlockResponse
	if err := c.do(ctx, http.MethodPut, "/api/blocks", req, &b); err != nil {
		return err
	}
	fmt.Fprintf(w, "✅ voxel %v = %s (%d)\n", b.Voxel, b.Name, b.ID)
	return nil
}

// Raycast пускает луч; пустой origin означает глаза игрока
func (c *Client) Raycast(ctx context.Context, w io.Writer, origin, dir string, maxDist float64) error {
	d, err := parseVec(dir)
	if err != nil {
		return fmt.Errorf("direction: %w", err)
	}
	req := api.RaycastRequest{Direction: d, MaxDistance: maxDist}
	if origin != "" {
		o, err := parseVec(origin)
		if err != nil {
			return fmt.Errorf("origin: %w", err)
		}
		req.Origin = &o
	}

	var hit api.RaycastResponse
	if err := c.post(ctx, "/api/raycast", req, &hit); err != nil {
		return err
	}
	if !hit.Hit {
		fmt.Fprintln(w, "🎯 miss")
		return nil
	}
	fmt.Fprintf(w, "🎯 hit %s (%d) voxel %v normal %v adjacent %v at %.3f\n",
		hit.Name, hit.ID, hit.Voxel, hit.Normal, hit.Adjacent, hit.Distance)
	return nil
}

// Teleport переносит наблюдателя
func (c *Client) Teleport(ctx context.Context, w io.Writer, p [3]float64) error {
	var out struct {
		Position [3]float64 `json:"position"`
	}
	if err := c.post(ctx, "/api/observer", api.ObserverRequest{Position: p}, &out); err != nil {
		return err
	}
	fmt.Fprintf(w, "🚀 observer at %s\n", formatVec(out.Position))
	return nil
}

func parseVec(s string) ([3]float64, error) {
	var v [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("expected x,y,z, got %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = f
	}
	return v, nil
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatVec(v [3]float64) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}
