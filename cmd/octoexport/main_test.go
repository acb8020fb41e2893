package main

import (
	"testing"
	"time"

	octopusenergy "github.com/paul-ri/HomeAssistant-OctopusEnergy"
)

func floatPtr(f float64) *float64 {
	return &f
}

func interval(from time.Time, incVAT float64) octopusenergy.RateInterval {
	return octopusenergy.RateInterval{
		ValueIncVAT: incVAT,
		ValidFrom:   from,
		ValidTo:     from.Add(30 * time.Minute),
	}
}

func TestFindRateForTime(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		time   time.Time
		rates  []octopusenergy.RateInterval
		expect *float64
	}{
		{
			name:   "Match within range",
			time:   base.Add(15 * time.Minute),
			rates:  []octopusenergy.RateInterval{interval(base, 10.5)},
			expect: floatPtr(10.5),
		},
		{
			name:   "No match, before all ranges",
			time:   base.Add(-15 * time.Minute),
			rates:  []octopusenergy.RateInterval{interval(base, 10.5)},
			expect: nil,
		},
		{
			name:   "No match, after all ranges",
			time:   base.Add(45 * time.Minute),
			rates:  []octopusenergy.RateInterval{interval(base, 10.5)},
			expect: nil,
		},
		{
			name: "Multiple ranges, match in the middle",
			time: base.Add(45 * time.Minute),
			rates: []octopusenergy.RateInterval{
				interval(base, 5.0),
				interval(base.Add(30*time.Minute), 10.5),
				interval(base.Add(60*time.Minute), 7.5),
			},
			expect: floatPtr(10.5),
		},
		{
			name:   "Empty rates list",
			time:   base,
			rates:  []octopusenergy.RateInterval{},
			expect: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := findRateForTime(test.time, test.rates)

			if test.expect == nil && result != nil {
				t.Errorf("Test %s failed: expected nil, got %.2f", test.name, result.ValueIncVAT)
			} else if test.expect != nil && result == nil {
				t.Errorf("Test %s failed: expected %.2f, got nil", test.name, *test.expect)
			} else if test.expect != nil && result != nil && *test.expect != result.ValueIncVAT {
				t.Errorf("Test %s failed: expected %.2f, got %.2f", test.name, *test.expect, result.ValueIncVAT)
			}
		})
	}
}

func TestFindImportMeter(t *testing.T) {
	account := &octopusenergy.AccountSnapshot{
		ElectricityMeterPoints: []octopusenergy.ElectricityMeterPoint{
			{
				Mpan: "111",
				Meters: []octopusenergy.ElectricityMeter{
					{SerialNumber: "EXP-1", IsExport: true},
				},
				Agreements: []octopusenergy.Agreement{{TariffCode: "E-1R-EXPORT-A"}},
			},
			{
				Mpan: "222",
				Meters: []octopusenergy.ElectricityMeter{
					{SerialNumber: "EXP-2", IsExport: true},
					{SerialNumber: "IMP-1"},
				},
				Agreements: []octopusenergy.Agreement{{TariffCode: "E-1R-SUPER-GREEN-24M-21-07-30-A"}},
			},
		},
	}

	point, meter, err := findImportMeter(account)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.Mpan != "222" {
		t.Errorf("expected meter point 222, got %s", point.Mpan)
	}
	if meter.SerialNumber != "IMP-1" {
		t.Errorf("expected import meter IMP-1, got %s", meter.SerialNumber)
	}

	if _, _, err := findImportMeter(&octopusenergy.AccountSnapshot{}); err == nil {
		t.Error("expected an error for an account without import meters")
	}
}
