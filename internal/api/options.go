package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// neighborhoods lists the neighborhood codes the model was trained on.
var neighborhoods = []string{
	"Blmngtn", "Blueste", "BrDale", "BrkSide", "ClearCr",
	"CollgCr", "Crawfor", "Edwards", "Gilbert", "IDOTRR",
	"MeadowV", "Mitchel", "NAmes", "NoRidge", "NPkVill",
	"NridgHt", "NWAmes", "OldTown", "SWISU", "Sawyer",
	"SawyerW", "Somerst", "StoneBr", "Timber", "Veenker",
}

type formOption struct {
	Value interface{} `json:"value"`
	Label string      `json:"label"`
}

// Neighborhoods returns the list of valid neighborhood codes.
func (h *Handler) Neighborhoods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"neighborhoods": neighborhoods,
	})
}

// FormOptions returns the form vocabularies for the frontend.
func (h *Handler) FormOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"options": gin.H{
			"buildingTypes": []formOption{
				{"1Fam", "Single-family Detached"},
				{"2FmCon", "Two-family Conversion"},
				{"Duplx", "Duplex"},
				{"TwnhsE", "Townhouse End Unit"},
				{"TwnhsI", "Townhouse Inside Unit"},
			},
			"houseStyles": []formOption{
				{"1Story", "One Story"},
				{"1.5Fin", "One and Half Story Finished"},
				{"1.5Unf", "One and Half Story Unfinished"},
				{"2Story", "Two Story"},
				{"2.5Fin", "Two and Half Story Finished"},
				{"2.5Unf", "Two and Half Story Unfinished"},
				{"SFoyer", "Split Foyer"},
				{"SLvl", "Split Level"},
			},
			"qualityRatings": []formOption{
				{1, "1 - Very Poor"},
				{2, "2 - Poor"},
				{3, "3 - Fair"},
				{4, "4 - Below Average"},
				{5, "5 - Average"},
				{6, "6 - Above Average"},
				{7, "7 - Good"},
				{8, "8 - Very Good"},
				{9, "9 - Excellent"},
				{10, "10 - Very Excellent"},
			},
			"exteriorQuality": []formOption{
				{"Ex", "Excellent"},
				{"Gd", "Good"},
				{"TA", "Typical/Average"},
				{"Fa", "Fair"},
				{"Po", "Poor"},
			},
			"garageTypes": []formOption{
				{"Attchd", "Attached to Home"},
				{"Detchd", "Detached from Home"},
				{"BuiltIn", "Built-In"},
				{"CarPort", "Car Port"},
				{"Basment", "Basement Garage"},
				{"2Types", "More than One Type"},
				{"NA", "No Garage"},
			},
			"foundations": []formOption{
				{"PConc", "Poured Concrete"},
				{"CBlock", "Cinder Block"},
				{"BrkTil", "Brick & Tile"},
				{"Stone", "Stone"},
				{"Wood", "Wood"},
				{"Slab", "Slab"},
			},
		},
	})
}
