package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when no record matches the lookup.
var ErrNotFound = errors.New("record not found")

// Business unit display names.
const (
	UnitLantabur = "Lantabur"
	UnitTaqwa    = "Taqwa"
)

// Industry identifies one of the two business units of the group.
type Industry string

const (
	IndustryLantabur Industry = "lantabur"
	IndustryTaqwa    Industry = "taqwa"
)

// ColorGroup is a single weight line from the "Color Group Wise" table.
type ColorGroup struct {
	GroupName  string  `bson:"groupName" json:"groupName"`
	Weight     float64 `bson:"weight" json:"weight"`
	Percentage float64 `bson:"percentage,omitempty" json:"percentage,omitempty"`
}

// IndustryData holds one business unit's figures for a day.
type IndustryData struct {
	Name        string       `bson:"name" json:"name"`
	Total       float64      `bson:"total" json:"total"`
	LoadingCap  float64      `bson:"loadingCap,omitempty" json:"loadingCap,omitempty"`
	ColorGroups []ColorGroup `bson:"colorGroups" json:"colorGroups"`
	Inhouse     float64      `bson:"inhouse" json:"inhouse"`
	SubContract float64      `bson:"subContract" json:"subContract"`
}

// ProductionRecord is one manufacturing day's report. Date keeps the text as
// it was entered or extracted.
type ProductionRecord struct {
	ID              string       `bson:"_id" json:"id"`
	Date            string       `bson:"date" json:"date"`
	Lantabur        IndustryData `bson:"lantabur" json:"lantabur"`
	Taqwa           IndustryData `bson:"taqwa" json:"taqwa"`
	TotalProduction float64      `bson:"totalProduction" json:"totalProduction"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt"`
}

// Unit returns the figures of the requested business unit.
func (r ProductionRecord) Unit(industry Industry) IndustryData {
	if industry == IndustryTaqwa {
		return r.Taqwa
	}
	return r.Lantabur
}
