package models

import "time"

// Operators whose shift summaries appear at the bottom of an RFT report.
const (
	OperatorYousuf  = "YOUSUF"
	OperatorHumayun = "HUMAYUN"
)

// Defaults applied to RFT reports created without a header.
const (
	DefaultRFTUnit    = "Unit-02"
	DefaultRFTCompany = "Lantabur Apparels Ltd."
)

// ShadeStatus is the outcome of the shade check for a dye batch.
type ShadeStatus string

const (
	ShadePending ShadeStatus = "pending"
	ShadeOk      ShadeStatus = "ok"
	ShadeNotOk   ShadeStatus = "not_ok"
)

// Valid reports whether s is one of the known statuses.
func (s ShadeStatus) Valid() bool {
	switch s {
	case ShadePending, ShadeOk, ShadeNotOk:
		return true
	default:
		return false
	}
}

// ShadeFromFlags converts the report's "Shade ok" / "Shade not ok" tick boxes.
// A ticked "not ok" box wins over a ticked "ok" box.
func ShadeFromFlags(ok, notOk bool) ShadeStatus {
	switch {
	case notOk:
		return ShadeNotOk
	case ok:
		return ShadeOk
	default:
		return ShadePending
	}
}

// RFTBatchEntry is one dye batch row of the RFT registry.
type RFTBatchEntry struct {
	MC             string      `bson:"mc" json:"mc"`
	BatchNo        string      `bson:"batchNo" json:"batchNo"`
	Buyer          string      `bson:"buyer" json:"buyer"`
	Order          string      `bson:"order" json:"order"`
	Colour         string      `bson:"colour" json:"colour"`
	ColorGroup     string      `bson:"colorGroup" json:"colorGroup"`
	FType          string      `bson:"fType" json:"fType"`
	FQty           float64     `bson:"fQty" json:"fQty"`
	LoadCapPercent float64     `bson:"loadCapPercent" json:"loadCapPercent"`
	Shade          ShadeStatus `bson:"shade" json:"shade"`
	DyeingType     string      `bson:"dyeingType" json:"dyeingType"`
	ShiftUnload    string      `bson:"shiftUnload" json:"shiftUnload"`
	Remarks        string      `bson:"remarks" json:"remarks"`
}

// OperatorFigures carries one number per shift operator.
type OperatorFigures struct {
	Yousuf  float64 `bson:"yousuf" json:"yousuf"`
	Humayun float64 `bson:"humayun" json:"humayun"`
}

// IsZero reports whether no operator has a value.
func (f OperatorFigures) IsZero() bool {
	return f.Yousuf == 0 && f.Humayun == 0
}

// RFTReportRecord is one day's quality-control registry.
type RFTReportRecord struct {
	ID               string          `bson:"_id" json:"id"`
	Date             string          `bson:"date" json:"date"`
	Unit             string          `bson:"unit" json:"unit"`
	CompanyName      string          `bson:"companyName" json:"companyName"`
	Entries          []RFTBatchEntry `bson:"entries" json:"entries"`
	BulkRFTPercent   float64         `bson:"bulkRftPercent" json:"bulkRftPercent"`
	LabRFTPercent    float64         `bson:"labRftPercent" json:"labRftPercent"`
	ShiftPerformance OperatorFigures `bson:"shiftPerformance" json:"shiftPerformance"`
	ShiftCount       OperatorFigures `bson:"shiftCount" json:"shiftCount"`
	CreatedAt        time.Time       `bson:"createdAt" json:"createdAt"`
}
