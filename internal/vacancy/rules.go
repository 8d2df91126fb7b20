// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vacancy

import (
	"strings"

	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// rule pairs a label test with the extraction applied to a matching block.
// Rules are evaluated in order; the first match wins.
type rule struct {
	label string
	match func(text string) bool
	apply func(s *scanner, text string) error
}

func contains(label string) func(string) bool {
	return func(text string) bool { return strings.Contains(text, label) }
}

// detailRule stores the default extraction of the block in f.
func detailRule(match func(string) bool, f types.Field) rule {
	return rule{
		label: string(f),
		match: match,
		apply: func(s *scanner, text string) error {
			s.set(f, detail(text))
			return nil
		},
	}
}

// lookaheadInto stores the next block's text in f.
func lookaheadInto(s *scanner, f types.Field) error {
	v, err := s.lookahead()
	if err != nil {
		return err
	}
	s.set(f, v)
	return nil
}

func fieldRules(mode types.ContactMode) []rule {
	contact := contactComma
	if mode == types.ContactNewline {
		contact = contactNewline
	}

	return []rule{
		{
			label: string(types.FieldJobTitle),
			match: func(text string) bool { return text == "Job Title" },
			apply: func(s *scanner, _ string) error {
				return lookaheadInto(s, types.FieldJobTitle)
			},
		},
		detailRule(contains("Job Title"), types.FieldJobTitle),
		detailRule(contains("Job Type"), types.FieldJobType),
		detailRule(func(text string) bool { return strings.HasPrefix(text, "Location") }, types.FieldLocation),
		detailRule(contains("Salary"), types.FieldSalary),
		{
			label: string(types.FieldFutureMeritLocations),
			match: contains("Future Merit"),
			apply: futureMerit,
		},
		{
			label: string(types.FieldOfficeArrangement),
			match: contains("Office Arrangement"),
			apply: officeArrangement,
		},
		detailRule(contains("Classification"), types.FieldClassification),
		detailRule(contains("Position Number"), types.FieldPositionNumber),
		detailRule(contains("Agency Website"), types.FieldAgencyWebsite),
		{
			label: string(types.FieldPositionContact),
			match: contains("Position Contact"),
			apply: contact,
		},
		{
			label: string(types.FieldAgencyRecruitmentSite),
			match: contains("Agency Recruitment Site"),
			apply: func(s *scanner, text string) error {
				s.set(types.FieldAgencyRecruitmentSite, detail(text))
				s.flush()
				return nil
			},
		},
	}
}

// futureMerit handles the label wrapped over two lines ("Future Merit" /
// "Locations"). With the value stacked underneath it is the third line;
// otherwise it sits in the next block.
func futureMerit(s *scanner, text string) error {
	parts := strings.SplitN(text, "\n", 3)
	if len(parts) == 3 {
		s.set(types.FieldFutureMeritLocations, collapse(parts[2]))
		return nil
	}
	return lookaheadInto(s, types.FieldFutureMeritLocations)
}

// officeArrangement distinguishes the arrangement itself from its details.
//
//	"Office Arrangement\nOffice-based"          -> office_arrangement
//	"Office Arrangement\nDetails" + next block  -> office_arrangement_details
//	"Office Arrangement\nDetails\n<value>"      -> office_arrangement_details
func officeArrangement(s *scanner, text string) error {
	parts := strings.SplitN(text, "\n", 3)
	switch len(parts) {
	case 3:
		s.set(types.FieldOfficeArrangementDetails, collapse(parts[2]))
	case 2:
		if strings.TrimSpace(parts[1]) == "Details" {
			return lookaheadInto(s, types.FieldOfficeArrangementDetails)
		}
		s.set(types.FieldOfficeArrangement, collapse(parts[1]))
	default:
		if strings.HasSuffix(text, "Details") {
			return lookaheadInto(s, types.FieldOfficeArrangementDetails)
		}
		return lookaheadInto(s, types.FieldOfficeArrangement)
	}
	return nil
}

// contactComma reads "Position Contact\nJane Citizen, 02 6123 4567".
func contactComma(s *scanner, text string) error {
	_, rest, ok := strings.Cut(text, "\n")
	if !ok || strings.TrimSpace(rest) == "" {
		return nil
	}
	name, number, found := strings.Cut(rest, ",")
	s.set(types.FieldPositionContact, collapse(name))
	if found {
		s.set(types.FieldContactNumber, collapse(number))
	}
	return nil
}

// contactNewline reads the stacked layout, where the name may itself span
// two lines:
//
//	"Position Contact\nJane Citizen\nDirector\n02 6123 4567"
func contactNewline(s *scanner, text string) error {
	_, rest, ok := strings.Cut(text, "\n")
	if !ok || strings.TrimSpace(rest) == "" {
		return nil
	}
	segs := strings.SplitN(rest, "\n", 3)
	for i := range segs {
		segs[i] = strings.TrimSpace(segs[i])
	}
	switch len(segs) {
	case 3:
		s.set(types.FieldPositionContact, segs[0]+", "+segs[1])
		s.set(types.FieldContactNumber, collapse(segs[2]))
	case 2:
		s.set(types.FieldPositionContact, segs[0])
		s.set(types.FieldContactNumber, segs[1])
	default:
		s.set(types.FieldPositionContact, segs[0])
	}
	return nil
}
