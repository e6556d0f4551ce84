package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/lantabur/internal/domain/models"
)

// number accepts JSON numbers as well as numeric strings such as "1,250.5"
// or "85%". Anything else decodes to 0.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.NewReplacer(",", "", "%", "", " ", "").Replace(s)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode number %s: %w", data, err)
	}
	*n = number(v)
	return nil
}

type colorGroupDTO struct {
	GroupName  string `json:"groupName"`
	Weight     number `json:"weight"`
	Percentage number `json:"percentage"`
}

type industryDTO struct {
	Total       number          `json:"total"`
	LoadingCap  number          `json:"loadingCap"`
	ColorGroups []colorGroupDTO `json:"colorGroups"`
	Inhouse     number          `json:"inhouse"`
	SubContract number          `json:"subContract"`
}

func (d industryDTO) toModel(name string) models.IndustryData {
	out := models.IndustryData{
		Name:        name,
		Total:       float64(d.Total),
		LoadingCap:  float64(d.LoadingCap),
		Inhouse:     float64(d.Inhouse),
		SubContract: float64(d.SubContract),
		ColorGroups: make([]models.ColorGroup, 0, len(d.ColorGroups)),
	}
	for _, g := range d.ColorGroups {
		group := strings.TrimSpace(g.GroupName)
		if group == "" {
			continue
		}
		out.ColorGroups = append(out.ColorGroups, models.ColorGroup{
			GroupName:  group,
			Weight:     float64(g.Weight),
			Percentage: float64(g.Percentage),
		})
	}
	return out
}

type productionDTO struct {
	Date     string      `json:"date"`
	Lantabur industryDTO `json:"lantabur"`
	Taqwa    industryDTO `json:"taqwa"`
}

type rftEntryDTO struct {
	MC             string `json:"mc"`
	BatchNo        string `json:"batchNo"`
	Buyer          string `json:"buyer"`
	Order          string `json:"order"`
	Colour         string `json:"colour"`
	ColorGroup     string `json:"colorGroup"`
	FType          string `json:"fType"`
	FQty           number `json:"fQty"`
	LoadCapPercent number `json:"loadCapPercent"`
	ShadeOk        bool   `json:"shadeOk"`
	ShadeNotOk     bool   `json:"shadeNotOk"`
	DyeingType     string `json:"dyeingType"`
	ShiftUnload    string `json:"shiftUnload"`
	Remarks        string `json:"remarks"`
}

type operatorDTO struct {
	Yousuf  number `json:"yousuf"`
	Humayun number `json:"humayun"`
}

func (o operatorDTO) toModel() models.OperatorFigures {
	return models.OperatorFigures{Yousuf: float64(o.Yousuf), Humayun: float64(o.Humayun)}
}

type rftDTO struct {
	Date             string        `json:"date"`
	Unit             string        `json:"unit"`
	CompanyName      string        `json:"companyName"`
	Entries          []rftEntryDTO `json:"entries"`
	BulkRFTPercent   number        `json:"bulkRftPercent"`
	LabRFTPercent    number        `json:"labRftPercent"`
	ShiftPerformance operatorDTO   `json:"shiftPerformance"`
	ShiftCount       operatorDTO   `json:"shiftCount"`
}

func (e rftEntryDTO) toModel() models.RFTBatchEntry {
	return models.RFTBatchEntry{
		MC:             e.MC,
		BatchNo:        e.BatchNo,
		Buyer:          e.Buyer,
		Order:          e.Order,
		Colour:         e.Colour,
		ColorGroup:     e.ColorGroup,
		FType:          e.FType,
		FQty:           float64(e.FQty),
		LoadCapPercent: float64(e.LoadCapPercent),
		Shade:          models.ShadeFromFlags(e.ShadeOk, e.ShadeNotOk),
		DyeingType:     e.DyeingType,
		ShiftUnload:    e.ShiftUnload,
		Remarks:        e.Remarks,
	}
}
