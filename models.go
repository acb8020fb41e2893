package octopusenergy

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// RateInterval is a single 30 minute pricing slot for a tariff.
type RateInterval struct {
	ValueExcVAT float64   `json:"value_exc_vat"`
	ValueIncVAT float64   `json:"value_inc_vat"`
	ValidFrom   time.Time `json:"valid_from"`
	ValidTo     time.Time `json:"valid_to"`
	TariffCode  string    `json:"tariff_code"`
}

// ConsumptionRecord is a metered half hour of consumption in kWh.
type ConsumptionRecord struct {
	Consumption   float64   `json:"consumption"`
	IntervalStart time.Time `json:"interval_start"`
	IntervalEnd   time.Time `json:"interval_end"`
}

// StandingCharge is the fixed daily charge for a tariff.
type StandingCharge struct {
	ValueExcVAT float64 `json:"value_exc_vat"`
	ValueIncVAT float64 `json:"value_inc_vat"`
}

// AccountSnapshot is a point-in-time view of the meter points on an account.
type AccountSnapshot struct {
	ElectricityMeterPoints []ElectricityMeterPoint `json:"electricity_meter_points"`
	GasMeterPoints         []GasMeterPoint         `json:"gas_meter_points"`
}

type ElectricityMeterPoint struct {
	Mpan       string             `json:"mpan"`
	Meters     []ElectricityMeter `json:"meters"`
	Agreements []Agreement        `json:"agreements"`
}

type ElectricityMeter struct {
	SerialNumber string `json:"serial_number"`
	IsExport     bool   `json:"is_export"`
}

type GasMeterPoint struct {
	Mprn       string      `json:"mprn"`
	Meters     []GasMeter  `json:"meters"`
	Agreements []Agreement `json:"agreements"`
}

type GasMeter struct {
	SerialNumber string `json:"serial_number"`
}

// Agreement ties a tariff to a validity window. ValidTo is nil for the
// active agreement.
type Agreement struct {
	ValidFrom  *strfmt.DateTime `json:"valid_from"`
	ValidTo    *strfmt.DateTime `json:"valid_to"`
	TariffCode string           `json:"tariff_code"`
}

// Product is a single entry from the product listing.
type Product struct {
	Code          string           `json:"code"`
	FullName      string           `json:"full_name"`
	DisplayName   string           `json:"display_name"`
	Description   string           `json:"description"`
	IsVariable    bool             `json:"is_variable"`
	IsGreen       bool             `json:"is_green"`
	IsTracker     bool             `json:"is_tracker"`
	IsPrepay      bool             `json:"is_prepay"`
	IsBusiness    bool             `json:"is_business"`
	Brand         string           `json:"brand"`
	Term          *int64           `json:"term"`
	AvailableFrom *strfmt.DateTime `json:"available_from"`
	AvailableTo   *strfmt.DateTime `json:"available_to"`
}

// Raw wire shapes decoded from the REST endpoints. Rates and standing
// charges share the same envelope.

type unitRate struct {
	ValueExcVAT float64          `json:"value_exc_vat"`
	ValueIncVAT float64          `json:"value_inc_vat"`
	ValidFrom   *strfmt.DateTime `json:"valid_from"`
	ValidTo     *strfmt.DateTime `json:"valid_to"`
}

type ratesResponse struct {
	Count    int64      `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []unitRate `json:"results"`
}

type consumptionItem struct {
	Consumption   float64         `json:"consumption"`
	IntervalStart strfmt.DateTime `json:"interval_start"`
	IntervalEnd   strfmt.DateTime `json:"interval_end"`
}

type consumptionResponse struct {
	Count    int64             `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []consumptionItem `json:"results"`
}

type productsResponse struct {
	Count    int64     `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Product `json:"results"`
}
