// Package importer synchronizes the provider's course and university
// exports into the portal database. It is a one-shot offline tool: filters
// decide which records are worth listing, shaping rules normalize the
// provider's nested fields, and every write is idempotent so re-runs over
// the same export are safe.
package importer

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString accepts a JSON string or number. Provider exports are not
// consistent about id and rank types across batches.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = FlexString(num.String())
	return nil
}

// FlexInt accepts a JSON number (integral or float) or a numeric string.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*i = 0
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		n, err := strconv.ParseFloat(str, 64)
		if err != nil {
			*i = 0
			return nil
		}
		*i = FlexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*i = FlexInt(n)
	return nil
}

// TuitionFee is the provider's nested fee object. AmountGBP is a pointer so
// the completeness filter can tell "absent" from a legitimate zero.
type TuitionFee struct {
	AmountGBP *float64 `json:"amountGBP"`
}

// SubStream is one entry of the provider's sub-streams list.
type SubStream struct {
	Name string `json:"name"`
}

// SourceCourse is one record of the provider's courses.json export. Only
// the fields the importer consumes are decoded; everything else is dropped.
type SourceCourse struct {
	CourseID              FlexString        `json:"courseId"`
	CourseName            string            `json:"courseName"`
	UniversityID          FlexString        `json:"universityId"`
	TuitionFee            *TuitionFee       `json:"tuitionFee"`
	DegreeLevel           string            `json:"degreeLevel"`
	Category              string            `json:"category"`
	CourseURL             string            `json:"courseUrl"`
	SubStreams            []SubStream       `json:"subStreams"`
	IntakesOffered        []json.RawMessage `json:"intakesOffered"`
	NextEarliestIntake    string            `json:"nextEarliestIntake"`
	DurationMonths        FlexInt           `json:"durationMonths"`
	ScholarshipsAvailable bool              `json:"scholarshipsAvailable"`
	ImageURL              string            `json:"imageUrl"`
}

// SourceRanking is the provider's nested ranking object.
type SourceRanking struct {
	QSRank FlexString `json:"qsRank"`
}

// SourceUniversity is one record of the provider's universities.json export.
type SourceUniversity struct {
	UniversityID   FlexString     `json:"universityId"`
	UniversityName string         `json:"universityName"`
	City           string         `json:"city"`
	State          string         `json:"state"`
	Country        string         `json:"country"`
	ImageURL       string         `json:"imageUrl"`
	Ranking        *SourceRanking `json:"ranking"`
}
