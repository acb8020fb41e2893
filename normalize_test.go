package octopusenergy

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/require"
)

func dtPtr(t time.Time) *strfmt.DateTime {
	d := strfmt.DateTime(t)
	return &d
}

func TestNormalizeRates(t *testing.T) {
	periodFrom := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	periodTo := periodFrom.Add(2 * time.Hour)

	tests := []struct {
		name  string
		items []unitRate
		// Expected inc-vat price per emitted interval; interval timing is
		// asserted structurally below.
		want []float64
	}{
		{
			name: "fixed rate with open validity fills the window",
			items: []unitRate{
				{ValueExcVAT: 10, ValueIncVAT: 10.5},
			},
			want: []float64{10.5, 10.5, 10.5, 10.5},
		},
		{
			name: "valid_from before the window is clamped up",
			items: []unitRate{
				{ValueExcVAT: 10, ValueIncVAT: 10.5, ValidFrom: dtPtr(periodFrom.Add(-30 * 24 * time.Hour))},
			},
			want: []float64{10.5, 10.5, 10.5, 10.5},
		},
		{
			name: "valid_to past the window is capped down",
			items: []unitRate{
				{ValueExcVAT: 10, ValueIncVAT: 10.5, ValidFrom: dtPtr(periodFrom), ValidTo: dtPtr(periodTo.Add(30 * 24 * time.Hour))},
			},
			want: []float64{10.5, 10.5, 10.5, 10.5},
		},
		{
			name: "records are sorted by valid_from before expansion",
			items: []unitRate{
				{ValueExcVAT: 20, ValueIncVAT: 21, ValidFrom: dtPtr(periodFrom.Add(time.Hour)), ValidTo: dtPtr(periodTo)},
				{ValueExcVAT: 10, ValueIncVAT: 10.5, ValidFrom: dtPtr(periodFrom), ValidTo: dtPtr(periodFrom.Add(time.Hour))},
			},
			want: []float64{10.5, 10.5, 21, 21},
		},
		{
			name: "record without valid_from sorts first and runs from the cursor",
			items: []unitRate{
				{ValueExcVAT: 20, ValueIncVAT: 21, ValidFrom: dtPtr(periodFrom.Add(time.Hour))},
				{ValueExcVAT: 10, ValueIncVAT: 10.5, ValidTo: dtPtr(periodFrom.Add(time.Hour))},
			},
			want: []float64{10.5, 10.5, 21, 21},
		},
		{
			name:  "no records, no intervals",
			items: []unitRate{},
			want:  nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := normalizeRates(test.items, periodFrom, periodTo, "E-1R-SUPER-GREEN-24M-21-07-30-A")
			require.Len(t, got, len(test.want))

			for i, interval := range got {
				// Contiguous 30 minute slots from the window start, which
				// also rules out gaps and overlaps.
				require.Equal(t, periodFrom.Add(time.Duration(i)*ratePeriod), interval.ValidFrom)
				require.Equal(t, interval.ValidFrom.Add(ratePeriod), interval.ValidTo)
				require.Equal(t, test.want[i], interval.ValueIncVAT)
				require.Equal(t, "E-1R-SUPER-GREEN-24M-21-07-30-A", interval.TariffCode)
			}
		})
	}
}

func TestNormalizeRatesIdempotent(t *testing.T) {
	periodFrom := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	periodTo := periodFrom.Add(2 * time.Hour)

	first := normalizeRates([]unitRate{{ValueExcVAT: 10, ValueIncVAT: 10.5}}, periodFrom, periodTo, "E-1R-SUPER-GREEN-24M-21-07-30-A")
	require.Len(t, first, 4)

	// Feed the normalized grid back through over the same window.
	var grid []unitRate
	for _, interval := range first {
		grid = append(grid, unitRate{
			ValueExcVAT: interval.ValueExcVAT,
			ValueIncVAT: interval.ValueIncVAT,
			ValidFrom:   dtPtr(interval.ValidFrom),
			ValidTo:     dtPtr(interval.ValidTo),
		})
	}

	second := normalizeRates(grid, periodFrom, periodTo, "E-1R-SUPER-GREEN-24M-21-07-30-A")
	require.Equal(t, first, second)
}

func TestIsBetweenLocalTimes(t *testing.T) {
	tests := []struct {
		name      string
		location  *time.Location
		validFrom time.Time
		day       bool
		night     bool
	}{
		{
			name:      "midnight is night",
			location:  time.UTC,
			validFrom: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			night:     true,
		},
		{
			name:      "half six is night",
			location:  time.UTC,
			validFrom: time.Date(2023, 1, 1, 6, 30, 0, 0, time.UTC),
			night:     true,
		},
		{
			name:      "seven is day, not night",
			location:  time.UTC,
			validFrom: time.Date(2023, 1, 1, 7, 0, 0, 0, time.UTC),
			day:       true,
		},
		{
			name:      "half eleven at night is still day",
			location:  time.UTC,
			validFrom: time.Date(2023, 1, 1, 23, 30, 0, 0, time.UTC),
			day:       true,
		},
		{
			name:      "six thirty UTC is day during BST",
			location:  time.FixedZone("BST", 3600),
			validFrom: time.Date(2023, 6, 1, 6, 30, 0, 0, time.UTC),
			day:       true,
		},
		{
			name:      "six thirty UTC is night outside BST",
			location:  time.FixedZone("GMT", 0),
			validFrom: time.Date(2023, 1, 1, 6, 30, 0, 0, time.UTC),
			night:     true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := &Client{Location: test.location}
			rate := RateInterval{ValidFrom: test.validFrom, ValidTo: test.validFrom.Add(ratePeriod)}

			require.Equal(t, test.day, c.isBetweenLocalTimes(rate, dayPeriodStart, dayPeriodEnd))
			require.Equal(t, test.night, c.isBetweenLocalTimes(rate, nightPeriodStart, nightPeriodEnd))
		})
	}
}
