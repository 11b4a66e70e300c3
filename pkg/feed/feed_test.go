package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sumai-tools/sumai/pkg/errors"
	"github.com/sumai-tools/sumai/pkg/listings"
)

const payload = `[
	{"url":"https://example.jp/bukken/1","title":"三軒茶屋 3LDK","price_man":6980,"area_sqm":68.2,"layout":"３ＬＤＫ","station":"三軒茶屋","line":"東急田園都市線","walk_minutes":7,"ownership":"所有権","built_year":2005},
	{"url":"https://example.jp/bukken/2","title":"用賀 2LDK","price_man":5480,"area_sqm":55.0,"layout":"2LDK","station":"用賀","line":"東急田園都市線","walk_minutes":4,"ownership":"所有権","built_year":2012}
]`

func feedServer(t *testing.T, etag string, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if etag != "" && r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		if etag != "" {
			w.Header().Set("ETag", etag)
		}
		w.Write([]byte(body))
	}))
}

func TestFetchParsesRecords(t *testing.T) {
	srv := feedServer(t, `W/"v1"`, payload)
	defer srv.Close()

	result, err := New().Fetch(context.Background(), listings.FeedExisting, srv.URL, "")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if result.NotModified {
		t.Fatal("expected a modified result on first fetch")
	}
	if result.Token != `W/"v1"` {
		t.Errorf("Token = %q", result.Token)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}

	rec := result.Records[0]
	if rec.Feed != listings.FeedExisting {
		t.Errorf("Feed = %s", rec.Feed)
	}
	if rec.Layout != "3LDK" {
		t.Errorf("full-width layout should fold to ASCII, got %q", rec.Layout)
	}
	if rec.PriceMan != 6980 {
		t.Errorf("PriceMan = %d", rec.PriceMan)
	}
}

func TestFetchNotModified(t *testing.T) {
	srv := feedServer(t, `W/"v1"`, payload)
	defer srv.Close()

	result, err := New().Fetch(context.Background(), listings.FeedExisting, srv.URL, `W/"v1"`)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !result.NotModified {
		t.Error("expected NotModified with matching token")
	}
	if result.Records != nil {
		t.Error("NotModified result should carry no records")
	}
	if result.Token != `W/"v1"` {
		t.Error("token should carry forward on 304")
	}
}

func TestFetchMalformedPayload(t *testing.T) {
	srv := feedServer(t, "", `{"not":"an array"`)
	defer srv.Close()

	_, err := New().Fetch(context.Background(), listings.FeedExisting, srv.URL, "")
	if !errors.IsParse(err) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), listings.FeedNewBuild, srv.URL, "")
	if !errors.IsNetwork(err) {
		t.Errorf("expected NetworkError, got %v", err)
	}
}

func TestFetchSkipsRecordsWithoutURL(t *testing.T) {
	srv := feedServer(t, "", `[{"title":"no url"},{"url":"https://example.jp/bukken/9","price_man":100}]`)
	defer srv.Close()

	result, err := New().Fetch(context.Background(), listings.FeedExisting, srv.URL, "")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected URL-less record to be skipped, got %d records", len(result.Records))
	}
}

func TestFetchTransactions(t *testing.T) {
	srv := feedServer(t, "", `[
		{"id":"t1","ward":"世田谷区","district":"三軒茶屋","built_year":2005,"price_man":5400,"area_sqm":60.1,"layout":"3LDK","trade_period":"２０２４Ｑ３","building_group_id":"bg-1"},
		{"id":"t2","ward":"世田谷区","district":"用賀","built_year":2012,"price_man":4800,"area_sqm":54.0,"layout":"2LDK","trade_period":"2024Q4"}
	]`)
	defer srv.Close()

	recs, err := New().FetchTransactions(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchTransactions() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(recs))
	}
	if recs[0].TradePeriod != "2024Q3" {
		t.Errorf("full-width trade period should fold, got %q", recs[0].TradePeriod)
	}
	if recs[1].BuildingGroupID != "" {
		t.Error("missing building_group_id should stay empty")
	}
}
