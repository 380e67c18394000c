package recommend

import "github.com/mark3labs/smartagri/internal/farm"

// Build converts a field snapshot into the request contract.
// It is pure: equal snapshots always produce equal requests.
func Build(v farm.Values) Request {
	return Request{
		State:          v.State,
		District:       v.District,
		LandSizeAcres:  v.LandSizeAcres,
		IrrigationType: v.IrrigationType,
		PreviousCrop:   v.PreviousCrop,
		Soil: SoilData{
			N:        v.N,
			P:        v.P,
			K:        v.K,
			PH:       v.PH,
			SoilType: v.SoilType,
		},
		Weather: WeatherData{
			Temperature: v.Temperature,
			Humidity:    v.Humidity,
			Rainfall:    v.Rainfall,
			Season:      v.Season,
		},
	}
}

// BuildQuick converts a field snapshot into the quick endpoint's flat body.
// District, land size, and previous crop are not part of that contract.
func BuildQuick(v farm.Values) QuickRequest {
	return QuickRequest{
		State:          v.State,
		Season:         v.Season,
		SoilType:       v.SoilType,
		IrrigationType: v.IrrigationType,
		N:              v.N,
		P:              v.P,
		K:              v.K,
		PH:             v.PH,
		Temperature:    v.Temperature,
		Humidity:       v.Humidity,
		Rainfall:       v.Rainfall,
	}
}
