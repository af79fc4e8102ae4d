package universe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quantinfra/nifty500/pkg/httputil"
	"github.com/quantinfra/nifty500/pkg/logger"
)

func testClient() *httputil.Client {
	return httputil.New(logger.NewNop(), 5*time.Second).DisableRetry()
}

func TestParseConstituentsCSV(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		want    []string
		wantErr bool
	}{
		{
			name: "standard constituents file",
			csv: "Company Name,Industry,Symbol,Series,ISIN Code\n" +
				"Reliance Industries Ltd.,Oil & Gas,RELIANCE,EQ,INE002A01018\n" +
				"Tata Consultancy Services Ltd.,IT,TCS,EQ,INE467B01029\n",
			want: []string{"RELIANCE", "TCS"},
		},
		{
			name: "duplicate and blank symbols skipped",
			csv: "Symbol\n" +
				"TCS\n" +
				"\n" +
				"TCS\n" +
				"INFY\n",
			want: []string{"TCS", "INFY"},
		},
		{
			name:    "missing symbol column",
			csv:     "Company Name,Industry\nReliance,Oil & Gas\n",
			wantErr: true,
		},
		{
			name: "header only",
			csv:  "Company Name,Industry,Symbol\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseConstituentsCSV(strings.NewReader(tt.csv))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseConstituentsCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseConstituentsCSV() got %v, want %v", got, tt.want)
			}
			for i, w := range tt.want {
				if got[i] != w {
					t.Errorf("parseConstituentsCSV()[%d] = %s, want %s", i, got[i], w)
				}
			}
		})
	}
}

func TestNSESourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Company Name,Symbol\nReliance,RELIANCE\nTCS Ltd,TCS\n"))
	}))
	defer server.Close()

	source := NewNSESource(testClient(), server.URL, logger.NewNop())
	got, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != 2 || got[0] != "RELIANCE" || got[1] != "TCS" {
		t.Errorf("Fetch() = %v, want [RELIANCE TCS]", got)
	}
}

func TestNSESourceFetchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	source := NewNSESource(testClient(), server.URL, logger.NewNop())
	if _, err := source.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() error = nil, want failure on non-200 status")
	}
}

func TestParseWikipediaTables(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "table with symbol column",
			html: `<html><body>
				<table><tr><th>Rank</th><th>City</th></tr><tr><td>1</td><td>Mumbai</td></tr></table>
				<table>
					<tr><th>Company</th><th>Symbol</th><th>Sector</th></tr>
					<tr><td>Reliance Industries</td><td>RELIANCE</td><td>Energy</td></tr>
					<tr><td>Tata Consultancy Services</td><td>TCS</td><td>IT</td></tr>
				</table>
			</body></html>`,
			want: []string{"RELIANCE", "TCS"},
		},
		{
			name: "falls back to company column",
			html: `<html><body>
				<table>
					<tr><th>Company Name</th><th>Sector</th></tr>
					<tr><td>Infosys</td><td>IT</td></tr>
				</table>
			</body></html>`,
			want: []string{"Infosys"},
		},
		{
			name: "no usable table",
			html: `<html><body><p>no tables here</p></body></html>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWikipediaTables(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("parseWikipediaTables() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseWikipediaTables() got %v, want %v", got, tt.want)
			}
			for i, w := range tt.want {
				if got[i] != w {
					t.Errorf("parseWikipediaTables()[%d] = %s, want %s", i, got[i], w)
				}
			}
		})
	}
}

func TestStaticSourceFetch(t *testing.T) {
	source := NewStaticSource(logger.NewNop())
	got, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Fetch() returned no symbols")
	}

	found := false
	for _, s := range got {
		if s == "RELIANCE" {
			found = true
		}
		if strings.HasSuffix(s, ".NS") {
			t.Errorf("Fetch() symbol %s carries the market suffix, want raw symbols", s)
		}
	}
	if !found {
		t.Error("Fetch() list does not contain RELIANCE")
	}
}
