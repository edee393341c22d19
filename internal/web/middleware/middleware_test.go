package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordchain-go/internal/testutil"
	"github.com/mcoot/wordchain-go/internal/web/templates/layout"
)

func TestRecoveryRendersErrorPage(t *testing.T) {
	handler := Recovery(testutil.NopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/g1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Something went wrong", doc.Find("#error h1").Text())
	href, _ := doc.Find("#error a").Attr("href")
	assert.Equal(t, "/", href)
}

func TestFlashRoundTrip(t *testing.T) {
	setter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetFlash(w, "error", "방 이름을 입력하세요")
	})

	rec := httptest.NewRecorder()
	setter.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/games/join", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	var got *layout.FlashMessage
	reader := Flash()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetFlash(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	reader.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, "error", got.Type)
	assert.Equal(t, "방 이름을 입력하세요", got.Message)

	// The cookie is cleared once read
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Negative(t, cleared[0].MaxAge)
}
