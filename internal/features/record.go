package features

import (
	"strconv"

	"valorvista/server/internal/models"
)

// Record holds a property's attributes keyed by dataset feature name. The
// numeric map carries raw and derived quantities; the categorical map carries
// string-valued fields destined for label encoding.
type Record struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// FromProperty flattens a defaulted property input into a feature record.
// Every optional field must already be filled by validation.ApplyDefaults.
func FromProperty(p *models.PropertyInput) *Record {
	num := make(map[string]float64, 40)
	cat := make(map[string]string, 22)

	put := func(name string, v *int) {
		if v != nil {
			num[name] = float64(*v)
		}
	}

	put("GrLivArea", p.GrLivArea)
	put("OverallQual", p.OverallQual)
	put("OverallCond", p.OverallCond)
	put("YearBuilt", p.YearBuilt)
	put("LotArea", p.LotArea)
	if p.LotFrontage != nil {
		num["LotFrontage"] = *p.LotFrontage
	}
	put("TotalBsmtSF", p.TotalBsmtSF)
	put("BsmtFinSF1", p.BsmtFinSF1)
	put("BsmtFinSF2", p.BsmtFinSF2)
	put("BsmtUnfSF", p.BsmtUnfSF)
	put("1stFlrSF", p.FirstFlrSF)
	put("2ndFlrSF", p.SecondFlrSF)
	put("FullBath", p.FullBath)
	put("HalfBath", p.HalfBath)
	put("BsmtFullBath", p.BsmtFullBath)
	put("BsmtHalfBath", p.BsmtHalfBath)
	put("BedroomAbvGr", p.BedroomAbvGr)
	put("KitchenAbvGr", p.KitchenAbvGr)
	put("TotRmsAbvGrd", p.TotRmsAbvGrd)
	put("Fireplaces", p.Fireplaces)
	put("GarageCars", p.GarageCars)
	put("GarageArea", p.GarageArea)
	put("GarageYrBlt", p.GarageYrBlt)
	put("YearRemodAdd", p.YearRemodAdd)
	put("WoodDeckSF", p.WoodDeckSF)
	put("OpenPorchSF", p.OpenPorchSF)
	put("EnclosedPorch", p.EnclosedPorch)
	put("ScreenPorch", p.ScreenPorch)
	put("3SsnPorch", p.ThreeSsnPorch)
	put("PoolArea", p.PoolArea)
	put("MiscVal", p.MiscVal)
	put("MoSold", p.MoSold)
	put("YrSold", p.YrSold)

	if p.MSSubClass != nil {
		cat["MSSubClass"] = strconv.Itoa(*p.MSSubClass)
	}
	cat["MSZoning"] = p.MSZoning
	cat["Neighborhood"] = p.Neighborhood
	cat["BldgType"] = p.BldgType
	cat["HouseStyle"] = p.HouseStyle
	cat["ExterQual"] = p.ExterQual
	cat["ExterCond"] = p.ExterCond
	cat["Foundation"] = p.Foundation
	cat["BsmtQual"] = p.BsmtQual
	cat["BsmtCond"] = p.BsmtCond
	cat["BsmtExposure"] = p.BsmtExposure
	cat["BsmtFinType1"] = p.BsmtFinType1
	cat["HeatingQC"] = p.HeatingQC
	cat["CentralAir"] = p.CentralAir
	cat["KitchenQual"] = p.KitchenQual
	cat["GarageType"] = p.GarageType
	cat["GarageFinish"] = p.GarageFinish
	cat["GarageQual"] = p.GarageQual
	cat["GarageCond"] = p.GarageCond
	cat["PavedDrive"] = p.PavedDrive
	cat["SaleType"] = p.SaleType
	cat["SaleCondition"] = p.SaleCondition

	return &Record{Numeric: num, Categorical: cat}
}

// clone returns a deep copy so Derive never mutates its input.
func (r *Record) clone() *Record {
	num := make(map[string]float64, len(r.Numeric)+30)
	for k, v := range r.Numeric {
		num[k] = v
	}
	cat := make(map[string]string, len(r.Categorical))
	for k, v := range r.Categorical {
		cat[k] = v
	}
	return &Record{Numeric: num, Categorical: cat}
}
