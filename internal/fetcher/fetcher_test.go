package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listing = `<!doctype html>
<html>
<head>
  <title>  Senior Backend Engineer
     | Acme Careers </title>
  <meta property="og:site_name" content="Acme">
  <script>var tracking = true;</script>
</head>
<body>
  <nav>Jobs Home About</nav>
  <h1>Senior Backend Engineer</h1>
  <p>Build the payments platform.</p>
  <footer>Copyright</footer>
</body>
</html>`

func TestParse(t *testing.T) {
	page, err := Parse(listing)
	require.NoError(t, err)

	assert.Equal(t, "Senior Backend Engineer | Acme Careers", page.Title)
	assert.Equal(t, "Acme", page.SiteName)
	assert.Equal(t, "Senior Backend Engineer Build the payments platform.", page.Text)
}

func TestParse_TitlePreference(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"og title wins",
			`<html><head><meta property="og:title" content="Staff SRE"><title>Careers</title></head></html>`,
			"Staff SRE",
		},
		{
			"falls back to h1",
			`<html><body><h1>Data <em>Engineer</em></h1></body></html>`,
			"Data Engineer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Parse(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Title)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(`<html><head><script>x()</script></head></html>`)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	u, err := Normalize("jobs.example.com/123")
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.example.com/123", u)

	u, err = Normalize(" http://example.com/a ")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a", u)

	_, err = Normalize("ftp://example.com/file")
	assert.Error(t, err)
}

func TestClient_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(listing))
	}))
	defer srv.Close()

	c := New()
	page, err := c.Fetch(context.Background(), srv.URL+"/jobs/42")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/jobs/42", page.URL)
	assert.Equal(t, "Senior Backend Engineer | Acme Careers", page.Title)
	assert.Contains(t, gotUA, "jobtrack")

	_, err = c.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}
