package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	auction "auction-house/internal/auctionService"
	"auction-house/internal/locks"
	model "auction-house/internal/models"
	"auction-house/internal/notify"
	"auction-house/internal/repository"
	"auction-house/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	ownerID int64 = 1
	aliceID int64 = 2
	bobID   int64 = 3
	carolID int64 = 4
	adminID int64 = 9
)

// testEnv is a fully wired application backed by the in-memory store
type testEnv struct {
	router *gin.Engine
	repo   *repository.MemoryRepo
	svc    *auction.AuctionService
}

// SetupTestEnv initializes the router with an in-memory repository and seeded users.
func SetupTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	for _, u := range []model.User{
		{ID: ownerID, DisplayName: "owner", Role: model.RoleMember},
		{ID: aliceID, DisplayName: "alice", AvatarURL: "/alice.png", Role: model.RoleMember},
		{ID: bobID, DisplayName: "bob", Role: model.RoleMember},
		{ID: carolID, DisplayName: "carol", Role: model.RoleMember},
		{ID: adminID, DisplayName: "admin", Role: model.RoleAdmin},
	} {
		repo.AddUser(u)
	}

	notifier := notify.NewNotifier(notify.NewStoreSink(repo))
	svc := auction.NewAuctionService(repo, locks.NewKeyedMutex(), notifier)
	return &testEnv{router: server.SetupRouter(svc), repo: repo, svc: svc}
}

// Do executes an HTTP request as caller (0 for anonymous) and parses the envelope
func (e *testEnv) Do(t *testing.T, method, url string, caller int64, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if caller != 0 {
		req.Header.Set(server.CallerHeader, strconv.FormatInt(caller, 10))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return resp, w
}

// CreateAuction lists an auction through the API and returns its id
func (e *testEnv) CreateAuction(t *testing.T, owner int64, body map[string]any) int64 {
	t.Helper()
	resp, w := e.Do(t, "POST", "/auctions", owner, body)
	require.Equal(t, 201, w.Code, w.Body.String())
	return int64(resp["data"].(map[string]any)["id"].(float64))
}
