package octopusenergy

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"time"
)

const (
	electricityStandardRatesPath = "/products/{product_code}/electricity-tariffs/{tariff_code}/standard-unit-rates"
	electricityDayRatesPath      = "/products/{product_code}/electricity-tariffs/{tariff_code}/day-unit-rates"
	electricityNightRatesPath    = "/products/{product_code}/electricity-tariffs/{tariff_code}/night-unit-rates"
	electricityChargesPath       = "/products/{product_code}/electricity-tariffs/{tariff_code}/standing-charges"
	gasStandardRatesPath         = "/products/{product_code}/gas-tariffs/{tariff_code}/standard-unit-rates"
	gasChargesPath               = "/products/{product_code}/gas-tariffs/{tariff_code}/standing-charges"
	productsPath                 = "/products"
)

// getRates fetches one windowed rate (or standing charge) envelope. A
// server error yields an empty envelope rather than an error.
func (c *Client) getRates(ctx context.Context, id, pathPattern, productCode, tariffCode string, periodFrom, periodTo time.Time) (*ratesResponse, error) {
	result, err := c.getJSON(&restOperation{
		ctx:         ctx,
		id:          id,
		pathPattern: pathPattern,
		pathParams: map[string]string{
			"product_code": productCode,
			"tariff_code":  tariffCode,
		},
		query:      periodQuery(periodFrom, periodTo),
		defaultVal: &ratesResponse{},
		newTarget:  func() interface{} { return &ratesResponse{} },
	})
	if err != nil {
		return nil, err
	}
	return result.(*ratesResponse), nil
}

// GetElectricityRates fetches the unit rates for a tariff over
// [periodFrom, periodTo), dispatching on the tariff's rate class.
func (c *Client) GetElectricityRates(ctx context.Context, tariffCode string, periodFrom, periodTo time.Time) ([]RateInterval, error) {
	tariffParts, err := ParseTariffCode(tariffCode)
	if err != nil {
		return nil, err
	}

	if tariffParts.IsStandardRate() {
		return c.GetElectricityStandardRates(ctx, tariffParts.ProductCode, tariffCode, periodFrom, periodTo)
	}
	return c.GetElectricityDayNightRates(ctx, tariffParts.ProductCode, tariffCode, periodFrom, periodTo)
}

// GetElectricityStandardRates fetches single-rate electricity unit rates,
// normalized to 30 minute intervals.
func (c *Client) GetElectricityStandardRates(ctx context.Context, productCode, tariffCode string, periodFrom, periodTo time.Time) ([]RateInterval, error) {
	data, err := c.getRates(ctx, "listElectricityStandardUnitRates", electricityStandardRatesPath, productCode, tariffCode, periodFrom, periodTo)
	if err != nil {
		log.Printf("Failed to extract standard rates for %s", tariffCode)
		return nil, err
	}

	return normalizeRates(data.Results, periodFrom, periodTo, tariffCode), nil
}

// GetElectricityDayNightRates fetches day and night unit rates for an
// economy tariff. Both sides are normalized over the full window, filtered
// to their local wall clock periods and merged. The day and night queries
// cover overlapping real world date ranges, so the merged set is re-sorted.
func (c *Client) GetElectricityDayNightRates(ctx context.Context, productCode, tariffCode string, periodFrom, periodTo time.Time) ([]RateInterval, error) {
	var results []RateInterval

	day, err := c.getRates(ctx, "listElectricityDayUnitRates", electricityDayRatesPath, productCode, tariffCode, periodFrom, periodTo)
	if err != nil {
		log.Printf("Failed to extract day rates for %s", tariffCode)
		return nil, err
	}
	for _, rate := range normalizeRates(day.Results, periodFrom, periodTo, tariffCode) {
		if c.isBetweenLocalTimes(rate, dayPeriodStart, dayPeriodEnd) {
			results = append(results, rate)
		}
	}

	night, err := c.getRates(ctx, "listElectricityNightUnitRates", electricityNightRatesPath, productCode, tariffCode, periodFrom, periodTo)
	if err != nil {
		log.Printf("Failed to extract night rates for %s", tariffCode)
		return nil, err
	}
	for _, rate := range normalizeRates(night.Results, periodFrom, periodTo, tariffCode) {
		if c.isBetweenLocalTimes(rate, nightPeriodStart, nightPeriodEnd) {
			results = append(results, rate)
		}
	}

	sortRates(results)

	return results, nil
}

// GetGasRates fetches gas unit rates, normalized to 30 minute intervals.
func (c *Client) GetGasRates(ctx context.Context, tariffCode string, periodFrom, periodTo time.Time) ([]RateInterval, error) {
	tariffParts, err := ParseTariffCode(tariffCode)
	if err != nil {
		return nil, err
	}

	data, err := c.getRates(ctx, "listGasStandardUnitRates", gasStandardRatesPath, tariffParts.ProductCode, tariffCode, periodFrom, periodTo)
	if err != nil {
		log.Printf("Failed to extract standard gas rates for %s", tariffCode)
		return nil, err
	}

	return normalizeRates(data.Results, periodFrom, periodTo, tariffCode), nil
}

// GetElectricityStandingCharge fetches the electricity standing charge for
// a tariff. Returns nil when the window has no charge or the server errors.
func (c *Client) GetElectricityStandingCharge(ctx context.Context, tariffCode string, periodFrom, periodTo time.Time) (*StandingCharge, error) {
	return c.getStandingCharge(ctx, "listElectricityStandingCharges", electricityChargesPath, tariffCode, periodFrom, periodTo)
}

// GetGasStandingCharge fetches the gas standing charge for a tariff.
// Returns nil when the window has no charge or the server errors.
func (c *Client) GetGasStandingCharge(ctx context.Context, tariffCode string, periodFrom, periodTo time.Time) (*StandingCharge, error) {
	return c.getStandingCharge(ctx, "listGasStandingCharges", gasChargesPath, tariffCode, periodFrom, periodTo)
}

func (c *Client) getStandingCharge(ctx context.Context, id, pathPattern, tariffCode string, periodFrom, periodTo time.Time) (*StandingCharge, error) {
	tariffParts, err := ParseTariffCode(tariffCode)
	if err != nil {
		return nil, err
	}

	data, err := c.getRates(ctx, id, pathPattern, tariffParts.ProductCode, tariffCode, periodFrom, periodTo)
	if err != nil {
		log.Printf("Failed to extract standing charges for %s", tariffCode)
		return nil, err
	}

	if len(data.Results) == 0 {
		return nil, nil
	}
	return &StandingCharge{
		ValueExcVAT: data.Results[0].ValueExcVAT,
		ValueIncVAT: data.Results[0].ValueIncVAT,
	}, nil
}

// GetProducts lists products, filtered by whether they are variable.
func (c *Client) GetProducts(ctx context.Context, isVariable bool) ([]Product, error) {
	result, err := c.getJSON(&restOperation{
		ctx:         ctx,
		id:          "listProducts",
		pathPattern: productsPath,
		query: url.Values{
			"is_variable": []string{strconv.FormatBool(isVariable)},
		},
		defaultVal: &productsResponse{},
		newTarget:  func() interface{} { return &productsResponse{} },
	})
	if err != nil {
		return nil, err
	}

	return result.(*productsResponse).Results, nil
}
