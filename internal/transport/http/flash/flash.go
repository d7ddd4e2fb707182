// Package flash carries one-shot status messages across a redirect in a
// short-lived cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "cafehub_flash"

	Success = "success"
	Error   = "error"
)

const pendingKey = "flash.pending"

type Message struct {
	Category string `json:"c"`
	Text     string `json:"t"`
}

// Add queues a message for the next rendered page, whether that page is
// rendered in this request or after a redirect.
func Add(c *gin.Context, category, text string) {
	pending := append(load(c), Message{Category: category, Text: text})
	c.Set(pendingKey, pending)
	writeCookie(c, pending)
}

// Pop returns every queued message and clears the queue.
func Pop(c *gin.Context) []Message {
	pending := load(c)
	c.Set(pendingKey, []Message{})
	if _, err := c.Cookie(CookieName); err == nil || len(pending) > 0 {
		writeCookie(c, nil)
	}
	return pending
}

func load(c *gin.Context) []Message {
	if v, ok := c.Get(pendingKey); ok {
		if msgs, ok := v.([]Message); ok {
			return msgs
		}
	}
	msgs := decode(c)
	c.Set(pendingKey, msgs)
	return msgs
}

func decode(c *gin.Context) []Message {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil
	}
	return msgs
}

func writeCookie(c *gin.Context, msgs []Message) {
	c.SetSameSite(http.SameSiteLaxMode)
	if len(msgs) == 0 {
		c.SetCookie(CookieName, "", -1, "/", "", false, true)
		return
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	c.SetCookie(CookieName, base64.RawURLEncoding.EncodeToString(data), 300, "/", "", false, true)
}
