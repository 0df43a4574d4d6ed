package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "membersearch/internal/platform/errors"
	phttp "membersearch/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type filter struct {
	Team *string `query:"teamname"`
	Min  *int    `query:"ageGoe" validate:"omitempty,min=0"`
}

func serve(mux http.Handler, target string) (*httptest.ResponseRecorder, Envelope) {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	var env Envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func TestMountAPIV1_GetAndGetQuery(t *testing.T) {
	mux := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(mux), CommonStack(), func(r Router) {
		MountUnder(r, "/members", nil, func(m Router) {
			GetQuery(m, "/", func(_ *http.Request, f filter) (any, error) {
				if f.Team == nil {
					return "all", nil
				}
				return *f.Team, nil
			})
			Get(m, "/by-username/{username}", func(r *http.Request) (any, error) {
				if Param(r, "username") == "ghost" {
					return nil, perr.NotFoundf("member not found")
				}
				return Param(r, "username"), nil
			})
		})
	})

	rr, env := serve(mux, "/api/v1/members?teamname=teamB")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "teamB", env.Data)
	assert.NotEmpty(t, env.RequestID)

	_, env = serve(mux, "/api/v1/members")
	assert.Equal(t, "all", env.Data)

	rr, env = serve(mux, "/api/v1/members?ageGoe=-1")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, perr.ErrorCodeValidation, env.Code)

	_, env = serve(mux, "/api/v1/members/by-username/member1")
	assert.Equal(t, "member1", env.Data)

	rr, _ = serve(mux, "/api/v1/members/by-username/ghost")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMountAPI_TrimsVersionAndAppliesStack(t *testing.T) {
	mux := chi.NewRouter()
	MountAPI(phttp.AdaptChi(mux), "/v2/", CommonStack(), func(r Router) {
		Get(r, "/ping", func(*http.Request) (any, error) { return "pong", nil })
	})

	rr, env := serve(mux, "/api/v2/ping")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", env.Data)
	assert.Contains(t, rr.Header().Get("Cache-Control"), "no-cache")
}
