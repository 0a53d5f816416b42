package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"valorvista/server/internal/models"
)

// PredictCSV accepts a multipart CSV upload (header row of dataset field
// names, one property per data row) and runs it through the batch estimator.
func (h *Handler) PredictCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No CSV file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("Failed to open uploaded CSV")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read CSV file"})
		return
	}
	defer file.Close()

	inputs, err := parsePropertiesCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.runBatch(c, inputs)
}

// parsePropertiesCSV reads property records from CSV. Unknown columns are
// ignored; empty cells stay absent so the validator applies defaults. The
// batch size cap is enforced downstream by the estimator, so the parser only
// guards against unreasonable uploads.
func parsePropertiesCSV(r io.Reader) ([]*models.PropertyInput, error) {
	const maxRows = 1000

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("CSV file is empty or malformed")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var inputs []*models.PropertyInput
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", row, err)
		}
		if row > maxRows {
			return nil, fmt.Errorf("CSV file has too many rows")
		}

		input := &models.PropertyInput{}
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if err := setField(input, header[i], cell); err != nil {
				return nil, fmt.Errorf("row %d, column %s: %v", row, header[i], err)
			}
		}
		inputs = append(inputs, input)
	}

	return inputs, nil
}

// setField assigns one CSV cell onto the property input by column name.
func setField(p *models.PropertyInput, column, value string) error {
	intFields := map[string]**int{
		"GrLivArea":     &p.GrLivArea,
		"OverallQual":   &p.OverallQual,
		"OverallCond":   &p.OverallCond,
		"YearBuilt":     &p.YearBuilt,
		"LotArea":       &p.LotArea,
		"TotalBsmtSF":   &p.TotalBsmtSF,
		"BsmtFinSF1":    &p.BsmtFinSF1,
		"BsmtFinSF2":    &p.BsmtFinSF2,
		"BsmtUnfSF":     &p.BsmtUnfSF,
		"1stFlrSF":      &p.FirstFlrSF,
		"2ndFlrSF":      &p.SecondFlrSF,
		"FullBath":      &p.FullBath,
		"HalfBath":      &p.HalfBath,
		"BsmtFullBath":  &p.BsmtFullBath,
		"BsmtHalfBath":  &p.BsmtHalfBath,
		"BedroomAbvGr":  &p.BedroomAbvGr,
		"KitchenAbvGr":  &p.KitchenAbvGr,
		"TotRmsAbvGrd":  &p.TotRmsAbvGrd,
		"Fireplaces":    &p.Fireplaces,
		"GarageCars":    &p.GarageCars,
		"GarageArea":    &p.GarageArea,
		"GarageYrBlt":   &p.GarageYrBlt,
		"YearRemodAdd":  &p.YearRemodAdd,
		"WoodDeckSF":    &p.WoodDeckSF,
		"OpenPorchSF":   &p.OpenPorchSF,
		"EnclosedPorch": &p.EnclosedPorch,
		"ScreenPorch":   &p.ScreenPorch,
		"3SsnPorch":     &p.ThreeSsnPorch,
		"PoolArea":      &p.PoolArea,
		"MiscVal":       &p.MiscVal,
		"MoSold":        &p.MoSold,
		"YrSold":        &p.YrSold,
		"MSSubClass":    &p.MSSubClass,
	}
	stringFields := map[string]*string{
		"MSZoning":      &p.MSZoning,
		"Neighborhood":  &p.Neighborhood,
		"BldgType":      &p.BldgType,
		"HouseStyle":    &p.HouseStyle,
		"ExterQual":     &p.ExterQual,
		"ExterCond":     &p.ExterCond,
		"Foundation":    &p.Foundation,
		"BsmtQual":      &p.BsmtQual,
		"BsmtCond":      &p.BsmtCond,
		"BsmtExposure":  &p.BsmtExposure,
		"BsmtFinType1":  &p.BsmtFinType1,
		"HeatingQC":     &p.HeatingQC,
		"CentralAir":    &p.CentralAir,
		"KitchenQual":   &p.KitchenQual,
		"GarageType":    &p.GarageType,
		"GarageFinish":  &p.GarageFinish,
		"GarageQual":    &p.GarageQual,
		"GarageCond":    &p.GarageCond,
		"PavedDrive":    &p.PavedDrive,
		"SaleType":      &p.SaleType,
		"SaleCondition": &p.SaleCondition,
	}

	if target, ok := intFields[column]; ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", value)
		}
		*target = &n
		return nil
	}
	if column == "LotFrontage" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("expected a number, got %q", value)
		}
		p.LotFrontage = &f
		return nil
	}
	if target, ok := stringFields[column]; ok {
		*target = value
		return nil
	}

	// Unknown columns are skipped.
	return nil
}
