package app

import (
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/handlers"
	"github.com/vancomm/minefield/internal/minefield"
	"github.com/vancomm/minefield/internal/session"
)

func setupTestApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	a := New(log, config.Default(), session.Options{
		Rand: rand.New(rand.NewPCG(1, 2)),
	})
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return a, srv
}

// fixedGame registers a 3x3 game with a single mine in the bottom right
// corner.
func fixedGame(t *testing.T, a *App) string {
	t.Helper()
	f, err := minefield.NewWithMines(3, []int{8})
	require.NoError(t, err)
	g, err := a.store.Adopt(f)
	require.NoError(t, err)
	return g.ID
}

func post(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	res, err := http.Post(url, "", nil)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, body
}

func decodeGame(t *testing.T, body []byte) handlers.GameSessionDTO {
	t.Helper()
	var dto handlers.GameSessionDTO
	require.NoError(t, json.Unmarshal(body, &dto), string(body))
	return dto
}

func TestNewGameDefaults(t *testing.T) {
	_, srv := setupTestApp(t)

	res, body := post(t, srv.URL+"/v1/game")
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	dto := decodeGame(t, body)
	assert.Equal(t, "1", dto.GameSessionId)
	assert.Equal(t, 8, dto.RowSize)
	assert.Equal(t, 64, dto.GridSize)
	assert.Equal(t, 12, dto.MineCount)
	assert.Len(t, dto.Grid, 64)
	for _, c := range dto.Grid {
		assert.Equal(t, minefield.Unknown, c)
	}
	assert.False(t, dto.Won)
	assert.False(t, dto.Lost)
	assert.Nil(t, dto.LosingCell)
	assert.Nil(t, dto.EndedAt)
	assert.NotZero(t, dto.StartedAt)
}

func TestNewGameParams(t *testing.T) {
	_, srv := setupTestApp(t)

	res, body := post(t, srv.URL+"/v1/game?row_size=4&mine_ratio=0.5")
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	dto := decodeGame(t, body)
	assert.Equal(t, 16, dto.GridSize)
	assert.Equal(t, 8, dto.MineCount)

	res, body = post(t, srv.URL+"/v1/game?row_size=8&mine_ratio=1")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, string(body), "invalid minefield configuration")

	res, _ = post(t, srv.URL+"/v1/game?row_size=big")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = post(t, srv.URL+"/v1/game?mine_ratio=Inf")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, string(body), "no room left for safe cells")
}

func TestNewGameRowSizeLimit(t *testing.T) {
	a, srv := setupTestApp(t)

	res, body := post(t, srv.URL+"/v1/game?row_size=64&mine_ratio=0")
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	assert.Equal(t, 64*64, decodeGame(t, body).GridSize)

	res, body = post(t, srv.URL+"/v1/game?row_size=65")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, string(body), "row size above the limit of 64")

	res, _ = post(t, srv.URL+"/v1/game?row_size=4096&mine_ratio=0.99")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, 1, a.store.Len())
}

func TestFetchGame(t *testing.T) {
	a, srv := setupTestApp(t)
	id := fixedGame(t, a)

	res, err := http.Get(srv.URL + "/v1/game/" + id)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/v1/game/404")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRevealFlow(t *testing.T) {
	a, srv := setupTestApp(t)
	id := fixedGame(t, a)
	url := srv.URL + "/v1/game/" + id + "/reveal"

	res, body := post(t, url+"?index=5")
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	dto := decodeGame(t, body)
	assert.Equal(t, minefield.CellState(1), dto.Grid[5])
	assert.Equal(t, 1, dto.Revealed)

	res, body = post(t, url+"?index=9")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, string(body), "outside [0, 9)")

	res, _ = post(t, url)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = post(t, url+"?index=8")
	require.Equal(t, http.StatusOK, res.StatusCode)
	dto = decodeGame(t, body)
	assert.True(t, dto.Lost)
	require.NotNil(t, dto.LosingCell)
	assert.Equal(t, 8, *dto.LosingCell)
	assert.NotNil(t, dto.EndedAt)
	assert.Equal(t, minefield.ExplodedMine, dto.Grid[8])

	res, _ = post(t, srv.URL+"/v1/game/404/reveal?index=0")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRevealWin(t *testing.T) {
	a, srv := setupTestApp(t)
	id := fixedGame(t, a)

	res, body := post(t, srv.URL+"/v1/game/"+id+"/reveal?index=0")
	require.Equal(t, http.StatusOK, res.StatusCode)
	dto := decodeGame(t, body)
	assert.True(t, dto.Won)
	assert.Equal(t, 8, dto.Revealed)
	assert.Equal(t, minefield.Unknown, dto.Grid[8])
}

func TestWebSocket(t *testing.T) {
	a, srv := setupTestApp(t)
	id := fixedGame(t, a)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/game/" + id + "/connect"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var dto handlers.GameSessionDTO
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, id, dto.GameSessionId)
	assert.Zero(t, dto.Revealed)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("r 5\nzap")))
	var errMsg handlers.CommandErrorDTO
	require.NoError(t, conn.ReadJSON(&errMsg))
	assert.Contains(t, errMsg.Error, "unknown command")
	assert.Nil(t, errMsg.Game)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("r 5\no 7 7")))
	errMsg = handlers.CommandErrorDTO{}
	require.NoError(t, conn.ReadJSON(&errMsg))
	assert.Contains(t, errMsg.Error, "out of range")
	require.NotNil(t, errMsg.Game)
	assert.Equal(t, 1, errMsg.Game.Revealed)
	assert.Equal(t, minefield.CellState(1), errMsg.Game.Grid[5])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("r 5\no 1 1\n")))
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, 2, dto.Revealed)
	assert.False(t, dto.Lost)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("r 8\nr 0")))
	dto = handlers.GameSessionDTO{}
	require.NoError(t, conn.ReadJSON(&dto))
	assert.True(t, dto.Lost)
	assert.Equal(t, 2, dto.Revealed)

	require.NoError(t, conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	))
}

func TestWebSocketUnknownGame(t *testing.T) {
	_, srv := setupTestApp(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/game/77/connect"
	_, res, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServeStopsOnCancel(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	a := New(log, config.Default(), session.Options{})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- a.Serve(ctx, l) }()

	res, body := post(t, "http://"+l.Addr().String()+"/v1/game?row_size=3&mine_ratio=0")
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
