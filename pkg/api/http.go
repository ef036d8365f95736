// Package api implements the serving endpoints: evaluation-key upload,
// usecase config fetch and encrypted query dispatch. All bodies are JSON
// and every failure uses the {"error":{"message":...}} envelope.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pirsvc/pkg/auth"
	"pirsvc/pkg/keystore"
	"pirsvc/pkg/logger"
	"pirsvc/pkg/models"
	"pirsvc/pkg/usecase"
	"pirsvc/pkg/utils"
	"pirsvc/pkg/validation"
)

// Controller wires the keystore and the usecase registry behind the HTTP
// surface. It holds no per-request state.
type Controller struct {
	Keys     *keystore.Store
	Usecases *usecase.Registry
	Limits   validation.Limits

	// CompressEnabled turns on gzip negotiation for response bodies.
	// CompressLevel is the gzip level; zero means the library default.
	CompressEnabled bool
	CompressLevel   int
}

// New returns a Controller over the given keystore and registry.
func New(keys *keystore.Store, reg *usecase.Registry, limits validation.Limits) *Controller {
	return &Controller{Keys: keys, Usecases: reg, Limits: limits.Merge()}
}

// Handler returns the routed serving surface.
func (c *Controller) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /key", c.handleUploadKeys)
	mux.HandleFunc("POST /config", c.handleConfig)
	mux.HandleFunc("POST /query", c.handleQuery)
	return mux
}

// identity extracts the caller identifier, writing the fixed 400 response
// when the header is absent. Identity is checked before the body is read
// so a missing header is reported the same way for every endpoint.
func (c *Controller) identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := auth.IdentityFromContext(r.Context())
	if user == "" {
		user = auth.Identity(r)
	}
	if user == "" {
		utils.JSONError(w, http.StatusBadRequest, auth.MissingIdentityMessage)
		return "", false
	}
	return user, true
}

// handleUploadKeys stores each key in the batch independently. Keys that
// persist stay persisted even when siblings fail; the response lists the
// config identifiers that failed so clients can retry only those.
func (c *Controller) handleUploadKeys(w http.ResponseWriter, r *http.Request) {
	user, ok := c.identity(w, r)
	if !ok {
		return
	}
	var keys models.EvaluationKeys
	if err := json.NewDecoder(r.Body).Decode(&keys); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := c.Limits.ValidateUpload(keys); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var failed []string
	for _, key := range keys.Keys {
		if err := c.Keys.Store(r.Context(), user, key); err != nil {
			logger.Error("key_upload_failed", "identifier", key.IdentifierHex(), "error", err)
			failed = append(failed, key.IdentifierHex())
		}
	}
	if len(failed) > 0 {
		utils.JSONError(w, http.StatusInternalServerError,
			"failed to store evaluation keys for configs: "+strings.Join(failed, ", "))
		return
	}
	logger.Info("keys_uploaded", "count", len(keys.Keys))
	w.WriteHeader(http.StatusOK)
}

// handleConfig returns the configs and evaluation-key requirements for the
// requested usecases. Any unknown name fails the whole request; nothing
// partial is ever returned.
func (c *Controller) handleConfig(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.identity(w, r); !ok {
		return
	}
	var req models.ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := c.Limits.ValidateConfigRequest(req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := models.ConfigResponse{
		Configs: make(map[string]models.Config, len(req.Usecases)),
		KeyInfo: make([]models.EvaluationKeyConfig, 0, len(req.Usecases)),
	}
	for _, name := range req.Usecases {
		uc, ok := c.Usecases.Get(name)
		if !ok {
			utils.JSONError(w, http.StatusNotFound, fmt.Sprintf("unknown usecase %q", name))
			return
		}
		resp.Configs[name] = uc.Config()
		resp.KeyInfo = append(resp.KeyInfo, uc.EvaluationKeyConfig())
	}
	c.writeJSON(w, r, resp)
}

// handleQuery dispatches one encrypted query to the named usecase using
// the caller's stored evaluation key.
func (c *Controller) handleQuery(w http.ResponseWriter, r *http.Request) {
	user, ok := c.identity(w, r)
	if !ok {
		return
	}
	var req models.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := validation.ValidateUsecaseName(req.Usecase); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	uc, ok := c.Usecases.Get(req.Usecase)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, fmt.Sprintf("unknown usecase %q", req.Usecase))
		return
	}

	key, found, err := c.Keys.Fetch(r.Context(), user, uc.Config().ConfigID)
	if err != nil {
		var de *keystore.DecodeError
		if errors.As(err, &de) {
			utils.JSONError(w, http.StatusInternalServerError, "stored evaluation key is undecodable")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "failed to load evaluation key: "+err.Error())
		return
	}
	if !found {
		utils.JSONError(w, http.StatusPreconditionRequired,
			fmt.Sprintf("no evaluation key stored for usecase %q; upload one via /key first", req.Usecase))
		return
	}

	reply, err := uc.Process(r.Context(), req.Query, key)
	if err != nil {
		logger.Warn("query_failed", "usecase", req.Usecase, "error", err)
		utils.JSONError(w, http.StatusBadRequest, "query processing failed: "+err.Error())
		return
	}
	logger.Debug("query_served", "usecase", req.Usecase, "reply_bytes", len(reply))
	c.writeJSON(w, r, models.QueryResponse{Reply: reply})
}

// writeJSON streams v as JSON, gzip-compressed when the client advertised
// support and compression is enabled.
func (c *Controller) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	body, closeFn := c.negotiateResponse(w, r)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(body).Encode(v); err != nil {
		logger.Error("response_encode_failed", "path", r.URL.Path, "error", err)
	}
	if err := closeFn(); err != nil {
		logger.Error("response_flush_failed", "path", r.URL.Path, "error", err)
	}
}
