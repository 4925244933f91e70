package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/veloce/showroom/internal/domain"
)

const flashCookie = "showroom_flash"

// Flash is a one-shot notice carried across a redirect in a cookie.
type Flash struct {
	Level   domain.NoticeLevel `json:"level"`
	Message string             `json:"message"`
}

func writeFlash(w http.ResponseWriter, f Flash) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// readFlash pops the pending notice, clearing the cookie so it shows once.
func readFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := base64.URLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

func (s *Server) flashAndRedirect(w http.ResponseWriter, r *http.Request, level domain.NoticeLevel, msg, to string) {
	writeFlash(w, Flash{Level: level, Message: msg})
	http.Redirect(w, r, to, http.StatusSeeOther)
}
