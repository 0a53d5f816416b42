package models

// PropertyInput is a raw property record as submitted to the API.
// Field names follow the Ames housing dataset column names because the model
// artifact was trained against them. Optional fields are pointers so that
// "absent" can be told apart from a legitimate zero; defaults are applied by
// the validation package before the record reaches the feature pipeline.
type PropertyInput struct {
	// Required fields
	GrLivArea   *int `json:"GrLivArea"`
	OverallQual *int `json:"OverallQual"`
	OverallCond *int `json:"OverallCond"`
	YearBuilt   *int `json:"YearBuilt"`

	// Optional numeric fields
	LotArea     *int     `json:"LotArea"`
	LotFrontage *float64 `json:"LotFrontage"`

	TotalBsmtSF *int `json:"TotalBsmtSF"`
	BsmtFinSF1  *int `json:"BsmtFinSF1"`
	BsmtFinSF2  *int `json:"BsmtFinSF2"`
	BsmtUnfSF   *int `json:"BsmtUnfSF"`

	FirstFlrSF  *int `json:"1stFlrSF"`
	SecondFlrSF *int `json:"2ndFlrSF"`

	FullBath     *int `json:"FullBath"`
	HalfBath     *int `json:"HalfBath"`
	BsmtFullBath *int `json:"BsmtFullBath"`
	BsmtHalfBath *int `json:"BsmtHalfBath"`

	BedroomAbvGr *int `json:"BedroomAbvGr"`
	KitchenAbvGr *int `json:"KitchenAbvGr"`
	TotRmsAbvGrd *int `json:"TotRmsAbvGrd"`

	Fireplaces *int `json:"Fireplaces"`

	GarageCars  *int `json:"GarageCars"`
	GarageArea  *int `json:"GarageArea"`
	GarageYrBlt *int `json:"GarageYrBlt"`

	YearRemodAdd *int `json:"YearRemodAdd"`

	WoodDeckSF    *int `json:"WoodDeckSF"`
	OpenPorchSF   *int `json:"OpenPorchSF"`
	EnclosedPorch *int `json:"EnclosedPorch"`
	ScreenPorch   *int `json:"ScreenPorch"`
	ThreeSsnPorch *int `json:"3SsnPorch"`

	PoolArea *int `json:"PoolArea"`
	MiscVal  *int `json:"MiscVal"`

	MoSold *int `json:"MoSold"`
	YrSold *int `json:"YrSold"`

	// Categorical fields
	MSSubClass    *int   `json:"MSSubClass"`
	MSZoning      string `json:"MSZoning"`
	Neighborhood  string `json:"Neighborhood"`
	BldgType      string `json:"BldgType"`
	HouseStyle    string `json:"HouseStyle"`
	ExterQual     string `json:"ExterQual"`
	ExterCond     string `json:"ExterCond"`
	Foundation    string `json:"Foundation"`
	BsmtQual      string `json:"BsmtQual"`
	BsmtCond      string `json:"BsmtCond"`
	BsmtExposure  string `json:"BsmtExposure"`
	BsmtFinType1  string `json:"BsmtFinType1"`
	HeatingQC     string `json:"HeatingQC"`
	CentralAir    string `json:"CentralAir"`
	KitchenQual   string `json:"KitchenQual"`
	GarageType    string `json:"GarageType"`
	GarageFinish  string `json:"GarageFinish"`
	GarageQual    string `json:"GarageQual"`
	GarageCond    string `json:"GarageCond"`
	PavedDrive    string `json:"PavedDrive"`
	SaleType      string `json:"SaleType"`
	SaleCondition string `json:"SaleCondition"`
}

// InputSummary is the condensed view of a property echoed back in responses.
type InputSummary struct {
	LivingArea     int     `json:"living_area"`
	Bedrooms       int     `json:"bedrooms"`
	Bathrooms      float64 `json:"bathrooms"`
	YearBuilt      int     `json:"year_built"`
	OverallQuality int     `json:"overall_quality"`
}

// Summary builds the condensed input view. The record must already have
// defaults applied.
func (p *PropertyInput) Summary() InputSummary {
	s := InputSummary{}
	if p.GrLivArea != nil {
		s.LivingArea = *p.GrLivArea
	}
	if p.BedroomAbvGr != nil {
		s.Bedrooms = *p.BedroomAbvGr
	}
	if p.FullBath != nil {
		s.Bathrooms = float64(*p.FullBath)
	}
	if p.HalfBath != nil {
		s.Bathrooms += 0.5 * float64(*p.HalfBath)
	}
	if p.YearBuilt != nil {
		s.YearBuilt = *p.YearBuilt
	}
	if p.OverallQual != nil {
		s.OverallQuality = *p.OverallQual
	}
	return s
}
