package maintenance_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki-echo/internal/maintenance"
)

func TestWikiPageResolver_Resolve(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "2", q.Get("formatversion"))
		queries = append(queries, q.Get("titles"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query":{
			"normalized":[{"from":"main_page","to":"Main page"}],
			"pages":[
				{"pageid":11,"ns":0,"title":"Main page"},
				{"ns":0,"title":"Missing","missing":true},
				{"pageid":12,"ns":3,"title":"User talk:Bob"}
			]}}`)
	}))
	defer srv.Close()

	r := maintenance.NewWikiPageResolver(srv.URL, time.Second)
	got, err := r.Resolve(context.Background(), []string{"main_page", "Missing", "User talk:Bob"})
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"main_page": 11, "User talk:Bob": 12}, got)
	require.Len(t, queries, 1)
	assert.Equal(t, "main_page|Missing|User talk:Bob", queries[0])
}

func TestWikiPageResolver_ChunksTitles(t *testing.T) {
	var chunks []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunks = append(chunks, len(strings.Split(r.URL.Query().Get("titles"), "|")))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query":{"pages":[]}}`)
	}))
	defer srv.Close()

	titles := make([]string, 120)
	for i := range titles {
		titles[i] = fmt.Sprintf("Page %d", i)
	}

	got, err := maintenance.NewWikiPageResolver(srv.URL, time.Second).Resolve(context.Background(), titles)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, []int{50, 50, 20}, chunks)
}

func TestWikiPageResolver_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"error":{"code":"toomanyvalues","info":"Too many values"}}`)
	}))
	defer srv.Close()

	_, err := maintenance.NewWikiPageResolver(srv.URL, time.Second).Resolve(context.Background(), []string{"A"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toomanyvalues")

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	_, err = maintenance.NewWikiPageResolver(failing.URL, time.Second).Resolve(context.Background(), []string{"A"})
	require.Error(t, err)
}
