package features

// referenceYear anchors the age features. The model artifact's scaler was fit
// against ages computed from this year, so it must not track the clock.
const referenceYear = 2024

// DerivedFeatures lists every feature added by Derive, in a stable order.
var DerivedFeatures = []string{
	"HouseAge", "RemodAge", "YearsSinceRemod", "IsRemodeled", "GarageAge",
	"TotalSF", "LivAreaRatio", "TotalAbvGrdSF", "AvgRoomSize",
	"OverallScore", "QualCondDiff", "QualPerSF",
	"TotalBaths", "BathPerBed",
	"GarageAreaPerCar", "HasGarage",
	"HasBasement", "TotalBsmtFinSF", "BsmtFinRatio",
	"TotalPorchSF", "HasPorch",
	"AgeQualInteraction", "AreaQualInteraction", "SFQualProduct",
	"HasPool", "HasFireplace", "HasDeck", "HasMiscFeature",
}

// Derive expands a raw record with age, area, quality, bathroom, garage,
// basement, porch, interaction and binary-indicator features. It is a pure
// function of its input: the argument is never mutated and identical inputs
// always produce identical outputs.
func Derive(raw *Record) *Record {
	r := raw.clone()
	n := r.Numeric

	// Age features
	yearBuilt, hasYearBuilt := n["YearBuilt"]
	if hasYearBuilt {
		n["HouseAge"] = referenceYear - yearBuilt
	}
	remodYear, hasRemod := n["YearRemodAdd"]
	if hasRemod {
		n["RemodAge"] = referenceYear - remodYear
	}
	if hasYearBuilt && hasRemod {
		n["YearsSinceRemod"] = remodYear - yearBuilt
		n["IsRemodeled"] = boolToFloat(remodYear != yearBuilt)
	}
	if garageYear, ok := n["GarageYrBlt"]; ok {
		n["GarageAge"] = referenceYear - garageYear
	}

	// Area features
	bsmtSF, hasBsmt := n["TotalBsmtSF"]
	firstSF, hasFirst := n["1stFlrSF"]
	secondSF, hasSecond := n["2ndFlrSF"]
	if hasBsmt && hasFirst && hasSecond {
		n["TotalSF"] = bsmtSF + firstSF + secondSF
	}
	livArea, hasLivArea := n["GrLivArea"]
	if lotArea, ok := n["LotArea"]; ok && hasLivArea {
		n["LivAreaRatio"] = livArea / (lotArea + 1)
	}
	if hasFirst && hasSecond {
		n["TotalAbvGrdSF"] = firstSF + secondSF
	}
	if rooms, ok := n["TotRmsAbvGrd"]; ok && hasLivArea {
		n["AvgRoomSize"] = livArea / (rooms + 1)
	}

	// Quality features
	qual, hasQual := n["OverallQual"]
	if cond, ok := n["OverallCond"]; ok && hasQual {
		n["OverallScore"] = qual * cond
		n["QualCondDiff"] = qual - cond
	}
	if hasQual && hasLivArea && livArea > 0 {
		n["QualPerSF"] = qual / (livArea / 1000)
	} else if hasQual && hasLivArea {
		n["QualPerSF"] = 0
	}

	// Bathroom features
	totalBaths := 0.0
	haveBaths := false
	for _, bc := range [...]struct {
		name   string
		weight float64
	}{
		{"FullBath", 1}, {"HalfBath", 0.5},
		{"BsmtFullBath", 1}, {"BsmtHalfBath", 0.5},
	} {
		if v, ok := n[bc.name]; ok {
			totalBaths += v * bc.weight
			haveBaths = true
		}
	}
	if haveBaths {
		n["TotalBaths"] = totalBaths
		if beds, ok := n["BedroomAbvGr"]; ok {
			n["BathPerBed"] = totalBaths / (beds + 1)
		}
	}

	// Garage features
	cars, hasCars := n["GarageCars"]
	if garageArea, ok := n["GarageArea"]; ok && hasCars {
		denom := cars
		if denom == 0 {
			denom = 1
		}
		n["GarageAreaPerCar"] = garageArea / denom
		n["HasGarage"] = boolToFloat(cars > 0)
	}

	// Basement features
	if hasBsmt {
		n["HasBasement"] = boolToFloat(bsmtSF > 0)
		fin1, ok1 := n["BsmtFinSF1"]
		fin2, ok2 := n["BsmtFinSF2"]
		if ok1 && ok2 {
			finished := fin1 + fin2
			n["TotalBsmtFinSF"] = finished
			denom := bsmtSF
			if denom == 0 {
				denom = 1
			}
			n["BsmtFinRatio"] = finished / denom
		}
	}

	// Porch features
	totalPorch := 0.0
	havePorch := false
	for _, name := range [...]string{"OpenPorchSF", "EnclosedPorch", "3SsnPorch", "ScreenPorch"} {
		if v, ok := n[name]; ok {
			totalPorch += v
			havePorch = true
		}
	}
	if havePorch {
		n["TotalPorchSF"] = totalPorch
		n["HasPorch"] = boolToFloat(totalPorch > 0)
	}

	// Interaction features
	if age, ok := n["HouseAge"]; ok && hasQual {
		n["AgeQualInteraction"] = age * qual
	}
	if hasLivArea && hasQual {
		n["AreaQualInteraction"] = livArea * qual
	}
	if totalSF, ok := n["TotalSF"]; ok && hasQual {
		n["SFQualProduct"] = totalSF * qual
	}

	// Binary indicators
	if v, ok := n["PoolArea"]; ok {
		n["HasPool"] = boolToFloat(v > 0)
	}
	if v, ok := n["Fireplaces"]; ok {
		n["HasFireplace"] = boolToFloat(v > 0)
	}
	if v, ok := n["WoodDeckSF"]; ok {
		n["HasDeck"] = boolToFloat(v > 0)
	}
	if v, ok := n["MiscVal"]; ok {
		n["HasMiscFeature"] = boolToFloat(v > 0)
	}

	return r
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
