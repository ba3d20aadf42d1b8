package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuestCreation(t *testing.T) {
	ts := newWebTestServer(t)

	// Create guest player
	form := url.Values{"display_name": {"Alice"}}
	rr := ts.post("/auth/guest", form)

	// Should redirect to home
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	// Session cookie should be set
	assert.True(t, ts.cookies.hasSession())

	// Follow redirect and check we're logged in
	rr = ts.followRedirect(rr)
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	// Should show player name in nav
	assertContainsText(t, doc, "nav", "Alice")
	// Should show new game form (authenticated user)
	assertContainsElement(t, doc, "form[action='/play']")
}

func TestGuestCreationEmptyNameGetsCodename(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/auth/guest", url.Values{"display_name": {""}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assert.NotEmpty(t, doc.Find("#nav-player").Text())
}

func TestGuestCreationNameTooLong(t *testing.T) {
	ts := newWebTestServer(t)

	form := url.Values{"display_name": {"abcdefghijklmnopqrstuvwxyz0123456789"}}
	rr := ts.post("/auth/guest", form)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "too long")
}

func TestGuestRedirectsToNext(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/auth/guest", url.Values{"display_name": {"Alice"}, "next": {"/play/ABCD"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/play/ABCD", rr.Header().Get("Location"))
}

func TestGuestIgnoresOffsiteNext(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/auth/guest", url.Values{"display_name": {"Alice"}, "next": {"//evil.example"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestRegister(t *testing.T) {
	ts := newWebTestServer(t)

	// Register new user
	form := url.Values{
		"username":     {"alice"},
		"password":     {"secret123"},
		"display_name": {"Alice"},
	}
	rr := ts.post("/auth/register", form)

	// Should redirect to home
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	// Session cookie should be set
	assert.True(t, ts.cookies.hasSession())

	// Follow redirect and verify logged in
	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "nav", "Alice")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createRegisteredPlayer("alice", "secret123", "Alice")

	// Clear session to register second user
	ts.cookies = newCookieJar()

	// Try to register with same username
	form := url.Values{
		"username":     {"alice"},
		"password":     {"different456"},
		"display_name": {"Alice2"},
	}
	rr := ts.post("/auth/register", form)
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	// Session should NOT be set
	assert.False(t, ts.cookies.hasSession())

	// Home page shows the error
	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "already taken")
}

func TestRegisterWeakPassword(t *testing.T) {
	ts := newWebTestServer(t)

	form := url.Values{
		"username": {"testuser"},
		"password": {"short"},
	}
	rr := ts.post("/auth/register", form)
	assert.False(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "6 characters")
}

func TestLogin(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createRegisteredPlayer("bob", "secret123", "Bob")

	// Clear session
	ts.cookies = newCookieJar()
	assert.False(t, ts.cookies.hasSession())

	// Login
	loginForm := url.Values{
		"username": {"bob"},
		"password": {"secret123"},
	}
	rr := ts.post("/auth/login", loginForm)

	// Should redirect to home
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	// Session should be set
	assert.True(t, ts.cookies.hasSession())

	// Verify logged in
	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "nav", "Bob")
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createRegisteredPlayer("charlie", "secret123", "Charlie")

	// Clear session
	ts.cookies = newCookieJar()

	// Try login with wrong password
	loginForm := url.Values{
		"username": {"charlie"},
		"password": {"wrongpassword"},
	}
	rr := ts.post("/auth/login", loginForm)
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	// Session should NOT be set
	assert.False(t, ts.cookies.hasSession())

	// Home page shows the error
	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "Invalid username or password")
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t)

	// Create guest
	ts.createGuestPlayer("Dave")
	assert.True(t, ts.cookies.hasSession())
	token := ts.cookies.cookies["session"].Value

	// Logout
	rr := ts.post("/auth/logout", nil)

	// Should redirect to home
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	// Session should be cleared, server side too
	assert.False(t, ts.cookies.hasSession())
	_, err := ts.app.AuthService.ValidateSession(token)
	assert.Error(t, err)

	// Verify logged out - should see guest form again
	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, "form[action='/auth/guest']")
	assertNotContainsElement(t, doc, "#nav-player")
}

func TestProtectedRouteRedirect(t *testing.T) {
	ts := newWebTestServer(t)

	// Try to access a play page without auth
	rr := ts.get("/play/ABCD2345")

	// Should redirect home with next parameter
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/?next=%2Fplay%2FABCD2345", rr.Header().Get("Location"))
}

func TestSessionPersistence(t *testing.T) {
	ts := newWebTestServer(t)

	// Create guest
	ts.createGuestPlayer("Eve")

	// Make multiple requests - session should persist
	rr1 := ts.get("/")
	doc1 := parseHTML(rr1.Body)
	assertContainsText(t, doc1, "nav", "Eve")

	rr2 := ts.get("/")
	doc2 := parseHTML(rr2.Body)
	assertContainsText(t, doc2, "nav", "Eve")

	// Both requests should see the same user
	assert.Equal(t, http.StatusOK, rr1.Code)
	assert.Equal(t, http.StatusOK, rr2.Code)
}

func TestHomePage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	// Should have all three sign-in forms
	assertContainsElement(t, doc, "form[action='/auth/guest']")
	assertContainsElement(t, doc, "form[action='/auth/login']")
	assertContainsElement(t, doc, "form[action='/auth/register']")
	// No games yet
	assertContainsText(t, doc, "#leaderboard", "No games recorded yet")
}

func TestHomePageKeepsNext(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/?next=/play/ABCD2345")
	doc := parseHTML(rr.Body)

	value, ok := doc.Find("#guest input[name='next']").Attr("value")
	assert.True(t, ok)
	assert.Equal(t, "/play/ABCD2345", value)
}

func TestHomePageAuthenticated(t *testing.T) {
	ts := newWebTestServer(t)

	// Create guest
	ts.createGuestPlayer("Frank")

	rr := ts.get("/")
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	// Should have new game form and no sign-in forms
	assertContainsElement(t, doc, "form[action='/play']")
	assertNotContainsElement(t, doc, "form[action='/auth/guest']")
}
