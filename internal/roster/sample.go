// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package roster

import "context"

const sampleProviderName = "sample"

// sampleProvider serves the built-in demo roster. It sits at the end of the
// provider chain and cannot fail.
type sampleProvider struct{}

func (sampleProvider) Name() string { return sampleProviderName }

func (sampleProvider) Fetch(context.Context) (*Table, error) {
	return sampleTable(), nil
}

// sampleTable returns two demo students with enough score history to
// exercise every pipeline stage.
func sampleTable() *Table {
	return &Table{
		Columns: []string{
			"StudentID", "StudentName",
			"Math_C", "Math_P1", "Math_P2",
			"Science_C", "Science_P1",
			"VARK_Q1", "VARK_Q2", "VARK_Q3", "VARK_Q4",
			"LangPref", "AccPref", "ContactEmail",
		},
		Rows: []Row{
			{
				"StudentID": "101", "StudentName": "John Doe",
				"Math_C": "85", "Math_P1": "72", "Math_P2": "68",
				"Science_C": "92", "Science_P1": "88",
				"VARK_Q1": "A", "VARK_Q2": "A", "VARK_Q3": "B", "VARK_Q4": "A",
				"LangPref": "en", "AccPref": "standard",
				"ContactEmail": "test1@example.com",
			},
			{
				"StudentID": "102", "StudentName": "Jane Smith",
				"Math_C": "75", "Math_P1": "68", "Math_P2": "65",
				"Science_C": "85", "Science_P1": "82",
				"VARK_Q1": "B", "VARK_Q2": "B", "VARK_Q3": "A", "VARK_Q4": "B",
				"LangPref": "hi", "AccPref": "dyslexic",
				"ContactEmail": "test2@example.com",
			},
		},
	}
}
