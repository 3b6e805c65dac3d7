package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-engine/internal/api"
)

func reply(w http.ResponseWriter, status int, success bool, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.GenericResponse{Success: success, Message: msg, Data: data})
}

func TestParseVec(t *testing.T) {
	v, err := parseVec("1, -2.5,3")
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, -2.5, 3}, v)

	_, err = parseVec("1,2")
	assert.Error(t, err)
	_, err = parseVec("1,b,3")
	assert.Error(t, err)
}

func TestClientBlockAndSet(t *testing.T) {
	var gotReq api.BlockRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/blocks":
			assert.Equal(t, "0.5", r.URL.Query().Get("x"))
			assert.Equal(t, "-0.5", r.URL.Query().Get("y"))
			reply(w, http.StatusOK, true, "", api.BlockResponse{Voxel: [3]int{0, -1, 0}, Loaded: true, ID: 1, Name: "stone"})
		case r.Method == http.MethodPut && r.URL.Path == "/api/blocks":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			reply(w, http.StatusConflict, false, "воксель занят", nil)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	var out bytes.Buffer
	require.NoError(t, c.Block(context.Background(), &out, [3]float64{0.5, -0.5, 0.5}))
	assert.Contains(t, out.String(), "stone (1)")

	err := c.SetBlock(context.Background(), &out, api.BlockRequest{Position: [3]float64{1, 2, 3}, ID: 4, Create: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "воксель занят")
	assert.True(t, gotReq.Create)
	assert.Equal(t, uint16(4), gotReq.ID)
}

func TestClientRaycast(t *testing.T) {
	var gotReq api.RaycastRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		if gotReq.Origin == nil {
			reply(w, http.StatusOK, true, "", api.RaycastResponse{Hit: false})
			return
		}
		reply(w, http.StatusOK, true, "", api.RaycastResponse{Hit: true, Voxel: [3]int{2, -1, 2}, Name: "stone", ID: 1, Distance: 3.5})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	var out bytes.Buffer
	require.NoError(t, c.Raycast(context.Background(), &out, "2.5,3.5,2.5", "0,-1,0", 0))
	assert.Contains(t, out.String(), "hit stone")
	assert.Equal(t, [3]float64{0, -1, 0}, gotReq.Direction)

	out.Reset()
	require.NoError(t, c.Raycast(context.Background(), &out, "", "0,-1,0", 5))
	assert.Contains(t, out.String(), "miss")
	assert.Equal(t, 5.0, gotReq.MaxDistance)

	assert.Error(t, c.Raycast(context.Background(), &out, "", "bad", 0))
}

func TestClientTeleport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.ObserverRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		reply(w, http.StatusOK, true, "", map[string][3]float64{"position": req.Position})
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, NewClient(srv.URL, time.Second).Teleport(context.Background(), &out, [3]float64{10, 4, 12}))
	assert.Contains(t, out.String(), "(10.00, 4.00, 12.00)")
}
