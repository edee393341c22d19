package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordchain-go/internal/factory"
	"github.com/mcoot/wordchain-go/internal/testutil"
	"github.com/mcoot/wordchain-go/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestDictionary())
	t.Cleanup(func() { _ = app.Close() })

	router := web.NewRouter(web.RouterConfig{
		Logger:    testutil.NopLogger(),
		Rooms:     app.RoomController,
		StaticDir: "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// followRedirect follows a redirect response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected redirect location")
	return ts.get(location)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// joinViaForm submits the home page join form and returns the redirect
func (ts *webTestServer) joinViaForm(gameID, name string) *httptest.ResponseRecorder {
	ts.t.Helper()
	return ts.post("/games/join", url.Values{"game_id": {gameID}, "name": {name}})
}

// assertContainsText checks that the selection contains the given text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	assert.Contains(t, doc.Find(selector).Text(), text, "Expected %q to contain %q", selector, text)
}

func TestHomePageEmpty(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	doc := parseHTML(rr.Body)
	assert.Contains(t, doc.Find("title").Text(), "Home")
	assertContainsText(t, doc, "#games", "No rooms yet")
	assert.Equal(t, 1, doc.Find(`form[action="/games/join"]`).Length())
	assert.Equal(t, 1, doc.Find(`input[name="game_id"]`).Length())
	assert.Equal(t, 1, doc.Find(`input[name="name"]`).Length())
}

func TestHomePageListsRooms(t *testing.T) {
	ts := newWebTestServer(t)
	_, _, err := ts.app.RoomController.Join(t.Context(), "room-b", "Bob")
	require.NoError(t, err)
	_, _, err = ts.app.RoomController.Join(t.Context(), "room a", "앨리스")
	require.NoError(t, err)

	doc := parseHTML(ts.get("/").Body)
	rows := doc.Find("#games tr.game")
	require.Equal(t, 2, rows.Length())

	first := rows.First()
	assert.Equal(t, "room a", first.Find("a").Text())
	href, _ := first.Find("a").Attr("href")
	assert.Equal(t, "/games/room%20a", href)
	assert.Contains(t, first.Text(), "앨리스")
	assert.Contains(t, first.Text(), "Waiting for the host to start")
}

func TestHomePageEscapesNames(t *testing.T) {
	ts := newWebTestServer(t)
	_, _, err := ts.app.RoomController.Join(t.Context(), "game1", "<script>alert(1)</script>")
	require.NoError(t, err)

	rr := ts.get("/")
	assert.NotContains(t, rr.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rr.Body.String(), "&lt;script&gt;")
}
