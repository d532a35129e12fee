package ghmetrics

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a local test server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("", 1000)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.gh.BaseURL = baseURL
	return client
}

func TestListRepositories(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/orgs/obinexus/repos", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"name":"libpolycall"},{"name":"nlink"},{"name":"gosilang"}]`)
		})

		client := newTestClient(t, mux)
		names, err := client.ListRepositories(context.Background(), "obinexus")
		require.NoError(t, err)
		assert.Equal(t, []string{"libpolycall", "nlink", "gosilang"}, names)
	})

	t.Run("pagination", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/orgs/obinexus/repos", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `[{"name":"repo-3"}]`)
				return
			}
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/orgs/obinexus/repos?page=2>; rel="next"`, r.Host))
			fmt.Fprint(w, `[{"name":"repo-1"},{"name":"repo-2"}]`)
		})

		client := newTestClient(t, mux)
		names, err := client.ListRepositories(context.Background(), "obinexus")
		require.NoError(t, err)
		assert.Equal(t, []string{"repo-1", "repo-2", "repo-3"}, names)
	})

	t.Run("api error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/orgs/obinexus/repos", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})

		client := newTestClient(t, mux)
		_, err := client.ListRepositories(context.Background(), "obinexus")
		assert.Error(t, err)
	})
}

func TestGetRepositoryMetrics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/obinexus/libpolycall", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"name": "libpolycall",
			"full_name": "obinexus/libpolycall",
			"stargazers_count": 250,
			"forks_count": 12,
			"watchers_count": 250,
			"size": 4096,
			"open_issues_count": 7,
			"language": "C",
			"fork": false,
			"archived": false
		}`)
	})
	mux.HandleFunc("/repos/obinexus/libpolycall/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"sha":"abc","commit":{"author":{"date":"2025-08-20T10:00:00Z"}}},
			{"sha":"def","commit":{"author":{"date":"2025-08-19T10:00:00Z"}}}
		]`)
	})
	mux.HandleFunc("/repos/obinexus/libpolycall/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"C":90000,"Makefile":1000}`)
	})
	mux.HandleFunc("/repos/obinexus/libpolycall/contents/.github/workflows", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"type":"file","name":"ci.yml","path":".github/workflows/ci.yml"}]`)
	})

	client := newTestClient(t, mux)
	metrics, err := client.GetRepositoryMetrics(context.Background(), "obinexus", "libpolycall")
	require.NoError(t, err)

	assert.Equal(t, "libpolycall", metrics.Name)
	assert.Equal(t, "obinexus/libpolycall", metrics.FullName)
	assert.Equal(t, 250, metrics.StarsCount)
	assert.Equal(t, 12, metrics.ForksCount)
	assert.Equal(t, 4096, metrics.SizeKB)
	assert.Equal(t, 7, metrics.OpenIssuesCount)
	assert.Equal(t, "C", metrics.PrimaryLanguage)
	assert.Equal(t, 2, metrics.CommitsLast30Days)
	require.NotNil(t, metrics.LastCommitDate)
	assert.Equal(t, map[string]int{"C": 90000, "Makefile": 1000}, metrics.Languages)
	assert.True(t, metrics.HasCI)
	assert.False(t, metrics.IsFork)
	assert.False(t, metrics.IsArchived)
}

func TestGetRepositoryMetricsEmptyRepo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/obinexus/empty", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"empty","full_name":"obinexus/empty"}`)
	})
	mux.HandleFunc("/repos/obinexus/empty/commits", func(w http.ResponseWriter, r *http.Request) {
		// GitHub reports 409 for repositories with no commits
		http.Error(w, `{"message":"Git Repository is empty."}`, http.StatusConflict)
	})
	mux.HandleFunc("/repos/obinexus/empty/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/repos/obinexus/empty/contents/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	client := newTestClient(t, mux)
	metrics, err := client.GetRepositoryMetrics(context.Background(), "obinexus", "empty")
	require.NoError(t, err)

	assert.Equal(t, 0, metrics.CommitsLast30Days)
	assert.Nil(t, metrics.LastCommitDate)
	assert.False(t, metrics.HasCI)
}

func TestGetRepositoryPolicy(t *testing.T) {
	policyYAML := `division: Computing
status: Core
cost_factors:
  manual_boost: 1.5
`
	encoded := base64.StdEncoding.EncodeToString([]byte(policyYAML))

	t.Run("policy file present", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/obinexus/libpolycall/contents/.github/sinphase.yaml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":"sinphase.yaml","content":%q}`, encoded)
		})
		mux.HandleFunc("/repos/obinexus/libpolycall/contents/", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})

		client := newTestClient(t, mux)
		policy, err := client.GetRepositoryPolicy(context.Background(), "obinexus", "libpolycall")
		require.NoError(t, err)
		require.NotNil(t, policy)

		assert.Equal(t, "Computing", policy.Division)
		assert.Equal(t, "Core", policy.Status)
		require.NotNil(t, policy.CostFactors)
		require.NotNil(t, policy.CostFactors.ManualBoost)
		assert.InDelta(t, 1.5, *policy.CostFactors.ManualBoost, 0.001)
	})

	t.Run("fallback path", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/obinexus/nlink/contents/sinphase.yaml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":"sinphase.yaml","content":%q}`, encoded)
		})
		mux.HandleFunc("/repos/obinexus/nlink/contents/", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})

		client := newTestClient(t, mux)
		policy, err := client.GetRepositoryPolicy(context.Background(), "obinexus", "nlink")
		require.NoError(t, err)
		require.NotNil(t, policy)
		assert.Equal(t, "Computing", policy.Division)
	})

	t.Run("no policy file", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/obinexus/bare/contents/", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})

		client := newTestClient(t, mux)
		policy, err := client.GetRepositoryPolicy(context.Background(), "obinexus", "bare")
		require.NoError(t, err)
		assert.Nil(t, policy, "Missing policy file should yield nil policy and nil error")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		bad := base64.StdEncoding.EncodeToString([]byte("division: [unclosed"))
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/obinexus/broken/contents/.github/sinphase.yaml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":"sinphase.yaml","content":%q}`, bad)
		})
		mux.HandleFunc("/repos/obinexus/broken/contents/", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		})

		client := newTestClient(t, mux)
		_, err := client.GetRepositoryPolicy(context.Background(), "obinexus", "broken")
		assert.Error(t, err, "Malformed policy YAML should surface an error")
	})
}
