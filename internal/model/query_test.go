package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CNR(t *testing.T) {
	q, err := Normalize(RawQuery{CNR: "  MHAU012345662020 \n"})
	require.NoError(t, err)

	assert.Equal(t, QueryKindCNR, q.Kind)
	assert.Equal(t, "MHAU012345662020", q.CNR)
	assert.Empty(t, q.CaseType)
	assert.True(t, q.HasConventionalCNR())
	assert.NoError(t, q.Validate())
}

func TestNormalize_CNRLengthNotEnforced(t *testing.T) {
	// 16 characters is a convention only; shorter values are still accepted
	q, err := Normalize(RawQuery{CNR: "DLND01"})
	require.NoError(t, err)

	assert.Equal(t, "DLND01", q.CNR)
	assert.False(t, q.HasConventionalCNR())
}

func TestNormalize_Parts(t *testing.T) {
	q, err := Normalize(RawQuery{CaseType: " CC ", Number: "123\t", Year: " 2023"})
	require.NoError(t, err)

	assert.Equal(t, QueryKindParts, q.Kind)
	assert.Equal(t, "CC", q.CaseType)
	assert.Equal(t, "123", q.Number)
	assert.Equal(t, "2023", q.Year)
	assert.Empty(t, q.CNR)
	assert.Equal(t, "CC 123/2023", q.Key())
	assert.NoError(t, q.Validate())
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  RawQuery
	}{
		{"empty", RawQuery{}},
		{"whitespace only", RawQuery{CNR: "   ", CaseType: " "}},
		{"both supplied", RawQuery{CNR: "MHAU012345662020", CaseType: "CC", Number: "123", Year: "2023"}},
		{"cnr with partial parts", RawQuery{CNR: "MHAU012345662020", Year: "2023"}},
		{"missing year", RawQuery{CaseType: "CC", Number: "123"}},
		{"missing type", RawQuery{Number: "123", Year: "2023"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidQueryKind), "got %v", err)
		})
	}
}

func TestQuery_Validate(t *testing.T) {
	assert.ErrorIs(t, Query{}.Validate(), ErrInvalidQueryKind)
	assert.ErrorIs(t, Query{Kind: QueryKindCNR}.Validate(), ErrInvalidQueryKind)
	assert.ErrorIs(t, Query{Kind: QueryKindCNR, CNR: "X", Year: "2020"}.Validate(), ErrInvalidQueryKind)
	assert.ErrorIs(t, Query{Kind: QueryKindParts, CaseType: "CC", Number: "1"}.Validate(), ErrInvalidQueryKind)
	assert.NoError(t, NewCNRQuery("X").Validate())
}

func TestCheckOutcome_FoundTracksMatches(t *testing.T) {
	o := NewCheckOutcome(NewCNRQuery("MHAU012345662020"), "2026-10-19")

	assert.False(t, o.Found)
	assert.NotNil(t, o.Matches)
	assert.NotNil(t, o.Notes)
	_, ok := o.First()
	assert.False(t, ok)

	o.AddNote("nothing yet")
	assert.False(t, o.Found)

	o.AddMatch(Match{Context: "x", Serial: "7"})
	assert.True(t, o.Found)
	first, ok := o.First()
	require.True(t, ok)
	assert.Equal(t, "7", first.Serial)
}
