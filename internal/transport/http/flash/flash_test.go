package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func flashCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			found = ck
		}
	}
	return found
}

func TestAddThenPopAcrossRequests(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/add", nil)

	Add(c, Success, "Cafe added successfully!")
	ck := flashCookie(t, rec)
	require.NotNil(t, ck)
	require.NotEmpty(t, ck.Value)

	rec2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(rec2)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	c2.Request = req

	msgs := Pop(c2)
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{Category: Success, Text: "Cafe added successfully!"}, msgs[0])

	cleared := flashCookie(t, rec2)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Empty(t, Pop(c2))
}

func TestPopInSameRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/register", nil)

	Add(c, Error, "Passwords do not match.")
	Add(c, Error, "second")

	msgs := Pop(c)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Passwords do not match.", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
}

func TestGarbageCookieIsIgnored(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "!!not-base64"})
	c.Request = req

	assert.Empty(t, Pop(c))
}
