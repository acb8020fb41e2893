package octopusenergy

import (
	"sort"
	"time"
)

const ratePeriod = 30 * time.Minute

// Day and night windows for economy tariffs, expressed as local wall clock
// times (7am to midnight is day, midnight to 7am is night).
const (
	dayPeriodStart   = "07:00:00"
	dayPeriodEnd     = "23:59:59"
	nightPeriodStart = "00:00:00"
	nightPeriodEnd   = "07:00:00"
)

// normalizeRates expands raw tariff rate records into a sequence of 30
// minute intervals covering [periodFrom, periodTo). Upstream records can
// span days with a single price, or be open ended, so every half hour slot
// in the window gets exactly one price tuple regardless of how the supplier
// batched its rate announcements.
//
// Records are processed in valid_from order; a record without a valid_from
// sorts first so it is consumed from the running cursor before any dated
// record advances it.
func normalizeRates(items []unitRate, periodFrom, periodTo time.Time, tariffCode string) []RateInterval {
	sorted := make([]unitRate, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ValidFrom == nil {
			return sorted[j].ValidFrom != nil
		}
		if sorted[j].ValidFrom == nil {
			return false
		}
		return time.Time(*sorted[i].ValidFrom).Before(time.Time(*sorted[j].ValidFrom))
	})

	startingPeriodFrom := periodFrom
	var results []RateInterval
	for _, item := range sorted {
		validFrom := startingPeriodFrom
		if item.ValidFrom != nil {
			validFrom = time.Time(*item.ValidFrom).UTC()

			// On a fixed rate the nominal start can be far in the past, so
			// resume from the running cursor rather than re-emitting time
			// that is already covered.
			if validFrom.Before(startingPeriodFrom) {
				validFrom = startingPeriodFrom
			}
		}

		// Open ended records run to the end of the requested window, and
		// dated ends are capped to it.
		targetDate := periodTo
		if item.ValidTo != nil {
			targetDate = time.Time(*item.ValidTo).UTC()
			if targetDate.After(periodTo) {
				targetDate = periodTo
			}
		}

		for validFrom.Before(targetDate) {
			validTo := validFrom.Add(ratePeriod)
			results = append(results, RateInterval{
				ValueExcVAT: item.ValueExcVAT,
				ValueIncVAT: item.ValueIncVAT,
				ValidFrom:   validFrom,
				ValidTo:     validTo,
				TariffCode:  tariffCode,
			})
			validFrom = validTo
			startingPeriodFrom = validTo
		}
	}

	return results
}

// isBetweenLocalTimes reports whether a rate starts between two wall clock
// times on its own local date. The comparison bounds are built by stamping
// the rate's local date with the given clock strings and the current UTC
// offset, which keeps the filter correct across BST for current rates but
// is an accepted approximation for rates on the far side of a DST
// transition.
func (c *Client) isBetweenLocalTimes(rate RateInterval, targetFromTime, targetToTime string) bool {
	offset := time.Now().In(c.Location).Format("-07:00")
	localValidFrom := rate.ValidFrom.In(c.Location)
	day := localValidFrom.Format("2006-01-02")

	fromDateTime, err := time.Parse(time.RFC3339, day+"T"+targetFromTime+offset)
	if err != nil {
		return false
	}
	toDateTime, err := time.Parse(time.RFC3339, day+"T"+targetToTime+offset)
	if err != nil {
		return false
	}

	return !localValidFrom.Before(fromDateTime) && localValidFrom.Before(toDateTime)
}

func sortRates(rates []RateInterval) {
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].ValidFrom.Before(rates[j].ValidFrom)
	})
}
