package respond

import (
	"encoding/json"
	"net/http"
)

// JSON encodes data before touching the response so an encoding failure still
// produces a clean 500.
func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(append(body, '\n'))
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, map[string]string{"error": message})
}

// SeeOther redirects a form post back to a page with 303 so the browser issues a GET.
func SeeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
