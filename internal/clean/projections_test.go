package clean

import (
	"reflect"
	"testing"

	"github.com/quantinfra/nifty500/internal/contracts"
)

func TestCloseMatrix(t *testing.T) {
	records := []contracts.PriceRecord{
		record("2024-01-15", "TCS", 10, 11, 9, 10, 100),
		record("2024-01-16", "TCS", 11, 12, 10, 11, 100),
		record("2024-01-15", "INFY", 20, 22, 19, 21, 200),
		// INFY has no 2024-01-16 row; its cell stays empty
	}

	got := CloseMatrix(records)

	want := [][]string{
		{"Date", "INFY", "TCS"},
		{"2024-01-15", "21", "10"},
		{"2024-01-16", "", "11"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CloseMatrix() = %v, want %v", got, want)
	}
}

func TestVolumeMatrix(t *testing.T) {
	records := []contracts.PriceRecord{
		record("2024-01-15", "TCS", 10, 11, 9, 10, 12345),
	}

	got := VolumeMatrix(records)

	want := [][]string{
		{"Date", "TCS"},
		{"2024-01-15", "12345"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VolumeMatrix() = %v, want %v", got, want)
	}
}

func TestPivotEmpty(t *testing.T) {
	got := CloseMatrix(nil)
	if len(got) != 1 || got[0][0] != "Date" {
		t.Errorf("CloseMatrix(nil) = %v, want header-only matrix", got)
	}
}
