package counter

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	viewedCookie = "lex_viewed"
	likedCookie  = "lex_liked"

	// Entries older than this are dropped, so a repeat visit after a day
	// counts as a fresh view.
	dedupWindow = 24 * time.Hour

	// Cookies have a hard size limit; cap the list so it cannot grow past it.
	maxEntries = 200
)

type seenEntry struct {
	ID string `json:"id"`
	At int64  `json:"at"`
}

// readSeen decodes the dedup cookie into a map of entity id to last-seen
// time. Invalid or tampered cookies read as empty.
func readSeen(c *gin.Context, name string, now time.Time) map[string]time.Time {
	seen := make(map[string]time.Time)
	raw, err := c.Cookie(name)
	if err != nil {
		return seen
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return seen
	}
	var entries []seenEntry
	if err := json.Unmarshal(decoded, &entries); err != nil {
		return seen
	}
	for _, e := range entries {
		at := time.Unix(e.At, 0)
		if now.Sub(at) < dedupWindow {
			seen[e.ID] = at
		}
	}
	return seen
}

// writeSeen encodes the dedup map back into the cookie, evicting the oldest
// entries when over the cap.
func writeSeen(c *gin.Context, name string, seen map[string]time.Time) {
	entries := make([]seenEntry, 0, len(seen))
	for id, at := range seen {
		entries = append(entries, seenEntry{ID: id, At: at.Unix()})
	}
	for len(entries) > maxEntries {
		oldest := 0
		for i := range entries {
			if entries[i].At < entries[oldest].At {
				oldest = i
			}
		}
		entries = append(entries[:oldest], entries[oldest+1:]...)
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, encoded, int(dedupWindow.Seconds()), "/", "", false, true)
}
