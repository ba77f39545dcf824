package narrative

import "fmt"

// fallbackText generates analysis locally from simple threshold heuristics.
// The wording is deliberately plain so it is obvious the hosted endpoint did
// not produce it.
func fallbackText(kind Kind, input Input) string {
	switch kind {
	case KindFireRisk:
		return fireRiskText(input)
	case KindIrrigation:
		return irrigationText(input)
	case KindRainfall:
		return rainfallText(input)
	default:
		return "No analysis available."
	}
}

func fireRiskText(input Input) string {
	switch {
	case input.Gas > 50 && input.Temperature > 40:
		return fmt.Sprintf(
			"High fire risk: gas level %.0f ppm and temperature %.0f °C are both elevated. Ventilate and check for open flames.",
			input.Gas, input.Temperature,
		)
	case input.Gas > 50:
		return fmt.Sprintf("Elevated gas level (%.0f ppm). Monitor closely and ventilate the area.", input.Gas)
	case input.Temperature > 40:
		return fmt.Sprintf("High temperature (%.0f °C). Keep flammable materials away from heat sources.", input.Temperature)
	default:
		return "Fire risk is low. Gas and temperature readings are within normal ranges."
	}
}

func irrigationText(input Input) string {
	switch {
	case input.SoilMoisture <= 0:
		return "No soil moisture reading yet. Check the sensor before irrigating."
	case input.SoilMoisture < 40:
		return fmt.Sprintf("Soil is dry (%.0f%%). Watering is recommended.", input.SoilMoisture)
	case input.SoilMoisture > 80:
		return fmt.Sprintf("Soil is saturated (%.0f%%). Hold off on watering and check drainage.", input.SoilMoisture)
	default:
		return fmt.Sprintf("Soil moisture (%.0f%%) is in the healthy band. No irrigation needed.", input.SoilMoisture)
	}
}

func rainfallText(input Input) string {
	if input.Rain {
		return "Rain detected. Outdoor irrigation can be skipped today."
	}

	return "No rain detected. Follow the irrigation recommendation for watering."
}
