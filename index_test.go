package insider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	insider "github.com/RxDataLab/go-insider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIndex = `Daily Index of EDGAR Dissemination Feed
Last Data Received:  March 5, 2025

Form Type   Company Name     CIK     Date Filed  File Name
---------------------------------------------------------------
10-K  Big Co           999  2025-03-05  edgar/data/999/0999.txt
4  001  Acme Corp  4  2025-03-05  edgar/data/1/0001.txt
4/A  002  Beta Corp  5  2025-03-05  edgar/data/2/0002.txt

4  003  Gamma Inc  6  2025-03-05  edgar/data/3/0003.txt
`

func TestFilingsForDate(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte(sampleIndex))
	}))
	defer server.Close()

	client := insider.NewClient("ua")
	reader := insider.NewIndexReader(client, insider.WithArchivesBaseURL(server.URL+"/"))
	ledger := insider.NewErrorLedger()
	date := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	refs := reader.FilingsForDate(context.Background(), date, insider.Form4Type, ledger)

	assert.Equal(t, "/edgar/daily-index/2025/QTR1/form.20250305.idx", requestedPath)
	require.Len(t, refs, 2)
	assert.Equal(t, server.URL+"/edgar/data/1/0001.txt", refs[0].URL)
	assert.Equal(t, server.URL+"/edgar/data/3/0003.txt", refs[1].URL)
	for _, ref := range refs {
		assert.Equal(t, insider.Form4Type, ref.FormType)
		assert.Equal(t, date, ref.Date)
	}
	assert.True(t, ledger.Empty())
}

// Lines before the header marker are never treated as data, even when their
// first token matches the form code.
func TestFilingsForDate_IgnoresPreamble(t *testing.T) {
	index := "4  sneaky  preamble  edgar/data/0/0000.txt\nForm Type   Company\n4  001  Acme  4  2025-03-05  edgar/data/1/0001.txt\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(index))
	}))
	defer server.Close()

	reader := insider.NewIndexReader(insider.NewClient("ua"), insider.WithArchivesBaseURL(server.URL+"/"))
	refs := reader.FilingsForDate(context.Background(),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), insider.Form4Type, insider.NewErrorLedger())

	require.Len(t, refs, 1)
	assert.Equal(t, server.URL+"/edgar/data/1/0001.txt", refs[0].URL)
}

func TestQuarter(t *testing.T) {
	tests := []struct {
		month time.Month
		want  int
	}{
		{time.January, 1}, {time.March, 1},
		{time.April, 2}, {time.June, 2},
		{time.July, 3}, {time.September, 3},
		{time.October, 4}, {time.December, 4},
	}
	for _, tt := range tests {
		date := time.Date(2025, tt.month, 15, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, tt.want, insider.Quarter(date), "month %s", tt.month)
	}
}

func TestIsBusinessDay(t *testing.T) {
	// 2025-03-05 is a Wednesday; 03-08/03-09 are the weekend.
	assert.True(t, insider.IsBusinessDay(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.False(t, insider.IsBusinessDay(time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)))
	assert.False(t, insider.IsBusinessDay(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)))
}
