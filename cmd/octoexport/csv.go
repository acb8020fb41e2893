package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	octopusenergy "github.com/paul-ri/HomeAssistant-OctopusEnergy"
)

// usageRow is one half hour of consumption joined to its unit rate.
type usageRow struct {
	Timestamp      time.Time
	ConsumptionKWh float64
	UnitRateIncVAT *float64
}

// Helper function to format float64 values with precision
func formatFloat(val *float64, precision int) string {
	if val != nil {
		formatStr := fmt.Sprintf("%%.%df", precision)
		return fmt.Sprintf(formatStr, *val)
	}
	return "NaN"
}

// Compute the cost using integer math for accuracy
func computeCost(energy float64, price *float64) string {
	if price != nil {
		energyInt := int64(energy * 10000)
		priceInt := int64(*price * 10000)
		costInt := (energyInt * priceInt) / 10000
		return fmt.Sprintf("%.2f", float64(costInt)/10000)
	}
	return "NaN"
}

// Write data to a CSV file
func writeCSV(filename string, rows []usageRow, standingCharge *octopusenergy.StandingCharge) error {
	if len(rows) == 0 {
		return fmt.Errorf("no data to write CSV")
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Timestamp",
		"Consumption_KWh",
		"Unit_Rate_IncVAT",
		"Cost_Pence",
		"Standing_Charge_IncVAT",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	var chargeIncVAT *float64
	if standingCharge != nil {
		chargeIncVAT = &standingCharge.ValueIncVAT
	}

	for _, row := range rows {
		record := []string{
			row.Timestamp.Format(time.RFC3339),
			fmt.Sprintf("%.4f", row.ConsumptionKWh),
			formatFloat(row.UnitRateIncVAT, 4),
			computeCost(row.ConsumptionKWh, row.UnitRateIncVAT),
			formatFloat(chargeIncVAT, 4),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
