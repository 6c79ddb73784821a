package server

import (
	"errors"
	"net/http"

	"codearch/internal/analysis"
	"codearch/internal/llm"
	"codearch/internal/repofetch"
)

// writeServiceError maps pipeline errors onto HTTP statuses:
// user-correctable input problems are 400, a hung clone is 504, and model
// failures are 502/503/504 depending on cause.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repofetch.ErrInvalidRepo):
		writeError(w, http.StatusBadRequest,
			"Invalid GitHub URL. Use format: https://github.com/username/repo.git")
	case errors.Is(err, analysis.ErrNoSourceFiles):
		writeError(w, http.StatusBadRequest,
			"Repository appears to be empty or has no supported code files.")
	case errors.Is(err, repofetch.ErrCloneTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, repofetch.ErrCloneFailed):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, llm.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout,
			"Model request timed out. The repository may be too large; try a smaller one.")
	case errors.Is(err, llm.ErrConnection):
		writeError(w, http.StatusServiceUnavailable,
			"Unable to connect to the model API. Please try again.")
	case errors.Is(err, llm.ErrAPI):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
	}
}
