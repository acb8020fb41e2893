package octopusenergy

import (
	"context"
	"sort"
	"time"
)

const (
	electricityConsumptionPath = "/electricity-meter-points/{mpan}/meters/{serial_number}/consumption"
	gasConsumptionPath         = "/gas-meter-points/{mprn}/meters/{serial_number}/consumption"
)

// GetElectricityConsumption fetches metered electricity consumption for
// [periodFrom, periodTo), sorted by interval end.
func (c *Client) GetElectricityConsumption(ctx context.Context, mpan, serialNumber string, periodFrom, periodTo time.Time) ([]ConsumptionRecord, error) {
	return c.getConsumption(ctx, "listElectricityConsumption", electricityConsumptionPath,
		map[string]string{"mpan": mpan, "serial_number": serialNumber}, periodFrom, periodTo)
}

// GetGasConsumption fetches metered gas consumption for
// [periodFrom, periodTo), sorted by interval end.
func (c *Client) GetGasConsumption(ctx context.Context, mprn, serialNumber string, periodFrom, periodTo time.Time) ([]ConsumptionRecord, error) {
	return c.getConsumption(ctx, "listGasConsumption", gasConsumptionPath,
		map[string]string{"mprn": mprn, "serial_number": serialNumber}, periodFrom, periodTo)
}

func (c *Client) getConsumption(ctx context.Context, id, pathPattern string, pathParams map[string]string, periodFrom, periodTo time.Time) ([]ConsumptionRecord, error) {
	result, err := c.getJSON(&restOperation{
		ctx:         ctx,
		id:          id,
		pathPattern: pathPattern,
		pathParams:  pathParams,
		query:       periodQuery(periodFrom, periodTo),
		defaultVal:  &consumptionResponse{},
		newTarget:   func() interface{} { return &consumptionResponse{} },
	})
	if err != nil {
		return nil, err
	}

	data := result.(*consumptionResponse)

	var records []ConsumptionRecord
	for _, item := range data.Results {
		record := ConsumptionRecord{
			Consumption:   item.Consumption,
			IntervalStart: time.Time(item.IntervalStart).UTC(),
			IntervalEnd:   time.Time(item.IntervalEnd).UTC(),
		}

		// The endpoint returns slightly more data than requested, so clip
		// to the requested window.
		if record.IntervalStart.Before(periodFrom) || record.IntervalEnd.After(periodTo) {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].IntervalEnd.Before(records[j].IntervalEnd)
	})

	return records, nil
}
