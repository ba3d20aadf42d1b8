package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetrisgame-go/internal/api"
	"github.com/mcoot/tetrisgame-go/internal/factory"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
	"github.com/mcoot/tetrisgame-go/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "tetris-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tetris")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// No background ticker, so sessions only move when the CLI tells them to
	app, err := factory.New(context.Background(), factory.Config{
		SessionConfig: session.Config{IdleTimeout: time.Hour},
		Logger:        logger,
	})
	require.NoError(t, err)

	projectRoot := findProjectRoot(t)
	router := mux.NewRouter()
	api.Register(router, api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		SessionManager: app.SessionManager,
		Storage:        app.Storage,
	})
	web.Register(router, web.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		SessionManager: app.SessionManager,
		Storage:        app.Storage,
		HubManager:     app.HubManager,
		StaticDir:      filepath.Join(projectRoot, "internal/web/static"),
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	Player struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	} `json:"player"`
	SessionToken string `json:"session_token"`
}

type pieceResponse struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type sessionResponse struct {
	ID         string         `json:"id"`
	PlayerID   string         `json:"player_id"`
	GameNumber int            `json:"game_number"`
	Paused     bool           `json:"paused"`
	GameOver   bool           `json:"game_over"`
	Pieces     int            `json:"pieces"`
	Current    *pieceResponse `json:"current"`
	Rows       []string       `json:"rows"`
}

type lockResponse struct {
	Piece    string `json:"piece"`
	GameOver bool   `json:"game_over"`
}

type commandResponse struct {
	Applied bool            `json:"applied"`
	Lock    *lockResponse   `json:"lock"`
	Session sessionResponse `json:"session"`
}

type tickResponse struct {
	Dropped bool            `json:"dropped"`
	Session sessionResponse `json:"session"`
}

type leaderboardResponse struct {
	Scores []struct {
		GameID      string `json:"game_id"`
		PlayerID    string `json:"player_id"`
		DisplayName string `json:"display_name"`
	} `json:"scores"`
}

type playerStatsResponse struct {
	Best struct {
		GameID string `json:"game_id"`
	} `json:"best"`
	Recent []struct {
		GameID string `json:"game_id"`
		Pieces int    `json:"pieces"`
	} `json:"recent"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func createGuest(t *testing.T, cli *cliRunner, name string) authResponse {
	t.Helper()

	output, err := cli.run("player", "guest", "--name", name)
	require.NoError(t, err, "output: %s", output)

	var resp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	return resp
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	authResp := createGuest(t, cli, "Alice")
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.True(t, authResp.Player.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err := cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	var player struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, "Alice", player.DisplayName)
	assert.Equal(t, authResp.Player.ID, player.ID)

	// Register with the password on the command line
	output, err = cli.run("player", "register", "--name", "Bob", "--user", "bob", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("player", "login", "--user", "bob", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var login authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &login))
	assert.Equal(t, "Bob", login.Player.DisplayName)
	assert.False(t, login.Player.IsGuest)
}

func TestCLI_SessionCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	authResp := createGuest(t, cli, "Alice")

	output, err := cli.run("session", "new")
	require.NoError(t, err, "output: %s", output)

	var sess sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sess))
	assert.Equal(t, authResp.Player.ID, sess.PlayerID)
	assert.Equal(t, 1, sess.GameNumber)
	assert.Len(t, sess.Rows, 20)
	require.NotNil(t, sess.Current)
	id := sess.ID
	x := sess.Current.X

	// Move left
	output, err = cli.run("session", "cmd", id, "left")
	require.NoError(t, err, "output: %s", output)

	var cmdResp commandResponse
	require.NoError(t, json.Unmarshal([]byte(output), &cmdResp))
	assert.True(t, cmdResp.Applied)
	assert.Equal(t, x-1, cmdResp.Session.Current.X)

	// A tick longer than the level 1 interval drops the piece one row
	output, err = cli.run("session", "tick", id, "1001")
	require.NoError(t, err, "output: %s", output)

	var tick tickResponse
	require.NoError(t, json.Unmarshal([]byte(output), &tick))
	assert.True(t, tick.Dropped)
	assert.Equal(t, 1, tick.Session.Current.Y)

	// Pause, then show
	output, err = cli.run("session", "cmd", id, "pause")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("session", "show", id)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &sess))
	assert.True(t, sess.Paused)

	// End
	output, err = cli.run("session", "end", id)
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Contains(t, msgResp.Message, "Ended session")

	_, err = cli.run("session", "show", id)
	assert.Error(t, err, "should not find session after end")
}

func TestCLI_ScoresAfterGame(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	authResp := createGuest(t, cli, "Alice")

	output, err := cli.run("session", "new")
	require.NoError(t, err, "output: %s", output)
	var sess sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sess))

	// Drop the first piece until it locks
	locked := false
	for range 30 {
		output, err = cli.run("session", "cmd", sess.ID, "drop")
		require.NoError(t, err, "output: %s", output)

		var cmdResp commandResponse
		require.NoError(t, json.Unmarshal([]byte(output), &cmdResp))
		if cmdResp.Lock != nil {
			locked = true
			assert.Equal(t, 1, cmdResp.Session.Pieces)
			break
		}
	}
	require.True(t, locked, "piece never locked")

	// Ending a session with a placed piece records the game
	_, err = cli.run("session", "end", sess.ID)
	require.NoError(t, err)

	output, err = cli.run("scores", "top", "--limit", "5")
	require.NoError(t, err, "output: %s", output)

	var board leaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	require.Len(t, board.Scores, 1)
	assert.Equal(t, sess.ID+"-1", board.Scores[0].GameID)
	assert.Equal(t, "Alice", board.Scores[0].DisplayName)

	output, err = cli.run("scores", "best", authResp.Player.ID)
	require.NoError(t, err, "output: %s", output)

	var stats playerStatsResponse
	require.NoError(t, json.Unmarshal([]byte(output), &stats))
	assert.Equal(t, sess.ID+"-1", stats.Best.GameID)
	require.Len(t, stats.Recent, 1)
	assert.Equal(t, 1, stats.Recent[0].Pieces)
}

func TestCLI_Simulate(t *testing.T) {
	cli := newCLIRunner(t, "http://127.0.0.1:1")

	output, err := cli.run("simulate", "--strategy", "greedy", "--games", "2", "--max-pieces", "20", "--seed", "7")
	require.NoError(t, err, "output: %s", output)

	var report struct {
		Strategy string `json:"strategy"`
		Games    []struct {
			Game   int    `json:"game"`
			Seed   uint64 `json:"seed"`
			Pieces int    `json:"pieces"`
		} `json:"games"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	assert.Equal(t, "greedy", report.Strategy)
	require.Len(t, report.Games, 2)
	assert.Equal(t, uint64(7), report.Games[0].Seed)
	assert.Equal(t, uint64(8), report.Games[1].Seed)
	assert.LessOrEqual(t, report.Games[0].Pieces, 20)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get player without auth
	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	createGuest(t, cli, "Alice")

	// Non-existent session
	output, err = cli.run("session", "show", "NOPE2345")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Bad command name
	output, err = cli.run("session", "new")
	require.NoError(t, err, "output: %s", output)
	var sess sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sess))

	output, err = cli.run("session", "cmd", sess.ID, "hold")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_COMMAND")

	// Bad tick delta is rejected before reaching the server
	output, err = cli.run("session", "tick", sess.ID, "soon")
	assert.Error(t, err)
	assert.Contains(t, output, "invalid delta")
}
