package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip-itinerary-service/internal/platform/httpclient"
)

func TestLeadParagraph(t *testing.T) {
	tests := []struct {
		name    string
		extract string
		want    string
	}{
		{
			name:    "first bold paragraph",
			extract: "<p class=\"mw-empty-elt\"></p>\n<p><b>Belém Tower</b> is a\n<i>fortification</i> in Lisbon.</p><p>More.</p>",
			want:    "Belém Tower is a\nfortification in Lisbon.",
		},
		{name: "no bold lead", extract: "<p>Plain text.</p>", want: ""},
		{name: "entities", extract: "<p><b>A &amp; B</b> bridge</p>", want: "A & B bridge"},
		{name: "empty", extract: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LeadParagraph(tt.extract))
		})
	}
}

type titleLog struct {
	mu     sync.Mutex
	titles []string
}

func (l *titleLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.titles = append(l.titles, s)
}

func (l *titleLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.titles...)
}

func newServers(t *testing.T, entities, extracts string) (*Client, *titleLog) {
	t.Helper()
	titles := &titleLog{}

	wd := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wbgetentities", r.URL.Query().Get("action"))
		_, _ = w.Write([]byte(entities))
	}))
	t.Cleanup(wd.Close)

	wp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		titles.add(r.URL.Query().Get("titles"))
		_, _ = w.Write([]byte(extracts))
	}))
	t.Cleanup(wp.Close)

	return New(wd.URL, wp.URL, httpclient.New(httpclient.Options{Service: "wiki"})), titles
}

func TestDescribeUsesEnglishTitle(t *testing.T) {
	c, titles := newServers(t,
		`{"entities":{"Q1":{"sitelinks":{"enwiki":{"title":"Belém Tower"},"simplewiki":{"title":"Belem"}}}}}`,
		`{"query":{"pages":{"123":{"extract":"<p><b>Belém Tower</b> is a tower.</p>"}}}}`,
	)

	got, err := c.Describe(context.Background(), "Q1")
	require.NoError(t, err)
	assert.Equal(t, "Belém Tower is a tower.", got)
	assert.Equal(t, []string{"Belém Tower"}, titles.all())
}

func TestDescribeFallsBackToSimpleWiki(t *testing.T) {
	c, titles := newServers(t,
		`{"entities":{"Q2":{"sitelinks":{"simplewiki":{"title":"Small Place"}}}}}`,
		`{"query":{"pages":{"9":{"extract":"<p><b>Small Place</b> is small.</p>"}}}}`,
	)

	_, err := c.Describe(context.Background(), "Q2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Small Place"}, titles.all())
}

func TestDescribeNoSitelinks(t *testing.T) {
	c, titles := newServers(t, `{"entities":{"Q3":{"sitelinks":{}}}}`, `{}`)

	_, err := c.Describe(context.Background(), "Q3")
	assert.ErrorIs(t, err, ErrNoArticle)
	assert.Empty(t, titles.all())
}
