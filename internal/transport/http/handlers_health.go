package httptransport

import (
	"net/http"

	"wardstock/pkg/platform/httputil"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "OK", Message: "Server is running"})
}
