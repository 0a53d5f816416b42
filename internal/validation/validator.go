package validation

import (
	"fmt"
	"strings"

	"valorvista/server/internal/models"
)

// FieldError describes a single violated constraint on a named input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full list of violations found in one record. It satisfies the
// error interface so handlers can surface it with field-level detail instead
// of a single collapsed message.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks required-field presence and numeric ranges on a raw property
// record. It returns nil or a non-empty Errors list covering every violation.
func Validate(p *models.PropertyInput) error {
	var errs Errors

	required := func(field string, v *int) bool {
		if v == nil {
			errs = append(errs, FieldError{Field: field, Message: "field is required"})
			return false
		}
		return true
	}
	inRange := func(field string, v *int, min, max int) {
		if v != nil && (*v < min || *v > max) {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be between %d and %d", min, max),
			})
		}
	}

	if required("GrLivArea", p.GrLivArea) {
		inRange("GrLivArea", p.GrLivArea, 100, 15000)
	}
	if required("OverallQual", p.OverallQual) {
		inRange("OverallQual", p.OverallQual, 1, 10)
	}
	if required("OverallCond", p.OverallCond) {
		inRange("OverallCond", p.OverallCond, 1, 10)
	}
	if required("YearBuilt", p.YearBuilt) {
		inRange("YearBuilt", p.YearBuilt, 1800, 2025)
	}

	inRange("LotArea", p.LotArea, 500, 500000)
	if p.LotFrontage != nil && (*p.LotFrontage < 0 || *p.LotFrontage > 500) {
		errs = append(errs, FieldError{Field: "LotFrontage", Message: "must be between 0 and 500"})
	}

	inRange("TotalBsmtSF", p.TotalBsmtSF, 0, 10000)
	inRange("BsmtFinSF1", p.BsmtFinSF1, 0, 10000)
	inRange("BsmtFinSF2", p.BsmtFinSF2, 0, 10000)
	inRange("BsmtUnfSF", p.BsmtUnfSF, 0, 10000)
	inRange("1stFlrSF", p.FirstFlrSF, 100, 10000)
	inRange("2ndFlrSF", p.SecondFlrSF, 0, 10000)

	inRange("FullBath", p.FullBath, 0, 10)
	inRange("HalfBath", p.HalfBath, 0, 10)
	inRange("BsmtFullBath", p.BsmtFullBath, 0, 5)
	inRange("BsmtHalfBath", p.BsmtHalfBath, 0, 5)

	inRange("BedroomAbvGr", p.BedroomAbvGr, 0, 20)
	inRange("KitchenAbvGr", p.KitchenAbvGr, 0, 5)
	inRange("TotRmsAbvGrd", p.TotRmsAbvGrd, 1, 20)

	inRange("Fireplaces", p.Fireplaces, 0, 10)

	inRange("GarageCars", p.GarageCars, 0, 10)
	inRange("GarageArea", p.GarageArea, 0, 5000)
	inRange("GarageYrBlt", p.GarageYrBlt, 1800, 2025)
	inRange("YearRemodAdd", p.YearRemodAdd, 1800, 2025)

	inRange("WoodDeckSF", p.WoodDeckSF, 0, 2000)
	inRange("OpenPorchSF", p.OpenPorchSF, 0, 1000)
	inRange("EnclosedPorch", p.EnclosedPorch, 0, 1000)
	inRange("ScreenPorch", p.ScreenPorch, 0, 1000)
	inRange("3SsnPorch", p.ThreeSsnPorch, 0, 1000)

	inRange("PoolArea", p.PoolArea, 0, 1000)
	inRange("MiscVal", p.MiscVal, 0, 100000)

	inRange("MoSold", p.MoSold, 1, 12)
	inRange("YrSold", p.YrSold, 2000, 2025)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApplyDefaults fills every absent optional field with its documented default.
// Required fields must already be validated; remodel and garage years fall
// back to the build year.
func ApplyDefaults(p *models.PropertyInput) {
	defInt := func(v **int, d int) {
		if *v == nil {
			n := d
			*v = &n
		}
	}
	defStr := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}

	defInt(&p.LotArea, 0)
	if p.LotFrontage == nil {
		f := 0.0
		p.LotFrontage = &f
	}

	defInt(&p.TotalBsmtSF, 0)
	defInt(&p.BsmtFinSF1, 0)
	defInt(&p.BsmtFinSF2, 0)
	defInt(&p.BsmtUnfSF, 0)

	// First floor defaults to the living area for single-story inputs.
	if p.FirstFlrSF == nil && p.GrLivArea != nil {
		n := *p.GrLivArea
		p.FirstFlrSF = &n
	}
	defInt(&p.FirstFlrSF, 0)
	defInt(&p.SecondFlrSF, 0)

	defInt(&p.FullBath, 1)
	defInt(&p.HalfBath, 0)
	defInt(&p.BsmtFullBath, 0)
	defInt(&p.BsmtHalfBath, 0)

	defInt(&p.BedroomAbvGr, 3)
	defInt(&p.KitchenAbvGr, 1)
	defInt(&p.TotRmsAbvGrd, 6)

	defInt(&p.Fireplaces, 0)

	defInt(&p.GarageCars, 2)
	defInt(&p.GarageArea, 0)
	if p.GarageYrBlt == nil && p.YearBuilt != nil {
		n := *p.YearBuilt
		p.GarageYrBlt = &n
	}
	if p.YearRemodAdd == nil && p.YearBuilt != nil {
		n := *p.YearBuilt
		p.YearRemodAdd = &n
	}

	defInt(&p.WoodDeckSF, 0)
	defInt(&p.OpenPorchSF, 0)
	defInt(&p.EnclosedPorch, 0)
	defInt(&p.ScreenPorch, 0)
	defInt(&p.ThreeSsnPorch, 0)

	defInt(&p.PoolArea, 0)
	defInt(&p.MiscVal, 0)

	defInt(&p.MoSold, 6)
	defInt(&p.YrSold, 2024)

	defInt(&p.MSSubClass, 20)
	defStr(&p.MSZoning, "RL")
	defStr(&p.Neighborhood, "NAmes")
	defStr(&p.BldgType, "1Fam")
	defStr(&p.HouseStyle, "1Story")
	defStr(&p.ExterQual, "TA")
	defStr(&p.ExterCond, "TA")
	defStr(&p.Foundation, "PConc")
	defStr(&p.BsmtQual, "TA")
	defStr(&p.BsmtCond, "TA")
	defStr(&p.BsmtExposure, "No")
	defStr(&p.BsmtFinType1, "Unf")
	defStr(&p.HeatingQC, "TA")
	defStr(&p.CentralAir, "Y")
	defStr(&p.KitchenQual, "TA")
	defStr(&p.GarageType, "Attchd")
	defStr(&p.GarageFinish, "Unf")
	defStr(&p.GarageQual, "TA")
	defStr(&p.GarageCond, "TA")
	defStr(&p.PavedDrive, "Y")
	defStr(&p.SaleType, "WD")
	defStr(&p.SaleCondition, "Normal")
}
