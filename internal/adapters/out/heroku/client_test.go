package heroku

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/snapfork/internal/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient("test-key", WithBaseURL(srv.URL))
}

func TestConfigVars(t *testing.T) {
	var gotAuth, gotAccept string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/apps/prod-app/config-vars", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"DATABASE_URL": "postgres://u:p@h/d"})
	})

	vars, err := client.ConfigVars(context.Background(), "prod-app")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h/d", vars["DATABASE_URL"])
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/vnd.heroku+json; version=3", gotAccept)
}

func TestCreateAddon(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/apps/scratch-app/addons", r.URL.Path)

		var body struct {
			Plan   string `json:"plan"`
			Config struct {
				Fork string `json:"fork"`
				Fast bool   `json:"fast"`
			} `json:"config"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "heroku-postgresql:standard-0", body.Plan)
		assert.Equal(t, "postgres://u:p@h/d", body.Config.Fork)
		assert.True(t, body.Config.Fast)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": "addon-1",
			"name": "HEROKU_POSTGRESQL_ROSE",
			"addon_service": {"name": "heroku-postgresql"},
			"config_vars": ["HEROKU_POSTGRESQL_ROSE_URL"]
		}`))
	})

	addon, err := client.CreateAddon(context.Background(), "scratch-app", domain.ForkOptions{
		Plan:     "heroku-postgresql:standard-0",
		ForkFrom: "postgres://u:p@h/d",
		Fast:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "HEROKU_POSTGRESQL_ROSE", addon.Name)
	assert.Equal(t, "heroku-postgresql", addon.ServiceName)
	assert.Equal(t, []string{"HEROKU_POSTGRESQL_ROSE_URL"}, addon.ConfigVars)
	assert.True(t, addon.IsPostgres())
}

func TestListAddons(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apps/scratch-app/addons", r.URL.Path)
		w.Write([]byte(`[
			{"id": "a1", "name": "HEROKU_POSTGRESQL_ROSE", "addon_service": {"name": "heroku-postgresql"}},
			{"id": "a2", "name": "redis-cache", "addon_service": {"name": "heroku-redis"}}
		]`))
	})

	addons, err := client.ListAddons(context.Background(), "scratch-app")
	require.NoError(t, err)
	require.Len(t, addons, 2)
	assert.True(t, addons[0].IsPostgres())
	assert.False(t, addons[1].IsPostgres())
}

func TestDeleteAddon(t *testing.T) {
	var gotPath string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteAddon(context.Background(), "scratch-app", "HEROKU_POSTGRESQL_ROSE"))
	assert.Equal(t, "/apps/scratch-app/addons/HEROKU_POSTGRESQL_ROSE", gotPath)
}

func TestErrorResponseIncludesMessage(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"id": "invalid_params", "message": "plan not available"}`))
	})

	_, err := client.CreateAddon(context.Background(), "scratch-app", domain.ForkOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan not available")
}
