package models

// Field names a candidate-record attribute. The set is closed so that
// normalization can be exhaustive; extraction never produces a key
// outside these constants.
type Field string

const (
	FieldFullName      Field = "full_name"
	FieldBarNumber     Field = "bar_number"
	FieldCity          Field = "city"
	FieldFirmName      Field = "firm_name"
	FieldStatus        Field = "status"
	FieldAddress       Field = "address"
	FieldPhone         Field = "phone"
	FieldEmail         Field = "email"
	FieldWebsite       Field = "website"
	FieldLawSchool     Field = "law_school"
	FieldAdmissionDate Field = "admission_date"
)

// CandidateRecord is the loosely-typed output of one extraction strategy for
// one detected result block: raw text per field, before normalization.
// A zero value has no fields set.
type CandidateRecord struct {
	fields map[Field]string

	// PracticeAreas preserves declaration order; the first entry is
	// treated as the primary area downstream.
	PracticeAreas []string
}

// Set stores raw text for a field. Empty values are dropped so that a
// missing field and an empty field are indistinguishable, per the
// "absent is null" rule.
func (c *CandidateRecord) Set(f Field, value string) {
	if value == "" {
		return
	}
	if c.fields == nil {
		c.fields = make(map[Field]string)
	}
	c.fields[f] = value
}

// Get returns the raw text for a field and whether it was set.
func (c *CandidateRecord) Get(f Field) (string, bool) {
	v, ok := c.fields[f]
	return v, ok
}

// Has reports whether the field was set to a non-empty value.
func (c *CandidateRecord) Has(f Field) bool {
	_, ok := c.fields[f]
	return ok
}
