package match

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/causelist/internal/model"
)

const sampleBoard = `DISTRICT AND SESSIONS JUDGE, NEW DELHI
Cause List for 19-10-2026
Court: District Judge
Item 1 DLND010000012019 State vs Ramesh
Item 2 DLND010000022019 Kumar vs Kumar
Item 3 DLND010000032019 Sharma vs Union
Item 4 MHAU012345662020 Serial: 7
Item 5 DLND010000052019 Mehta vs Mehta
Item 6 DLND010000062019 Gupta vs State
Item 7 DLND010000072019 Rao vs Rao
Item 8 DLND010000082019 Singh vs Singh`

func TestByCNR_Absent(t *testing.T) {
	texts := []string{
		"",
		sampleBoard,
		"MHAU01234566202",        // one character short
		"mhau012345662020",       // case-sensitive
		"MHAU0123\n45662020",     // split across lines
		"\x00\xff\xfe not utf-8", // arbitrary bytes
	}
	for _, text := range texts {
		assert.Nil(t, ByCNR(text, "ZZZZ999999992099"), "text %q", text)
	}
	assert.Nil(t, ByCNR("MHAU01234566202", "MHAU012345662020"))
	assert.Nil(t, ByCNR("mhau012345662020", "MHAU012345662020"))
	assert.Nil(t, ByCNR(sampleBoard, ""), "empty CNR never matches")
}

func TestByCNR_LineAndContext(t *testing.T) {
	m := ByCNR(sampleBoard, "MHAU012345662020")
	require.NotNil(t, m)
	require.NotNil(t, m.LineNo)

	assert.Equal(t, 6, *m.LineNo)
	assert.Equal(t, PatternCNRLine, m.Pattern)

	lines := strings.Split(sampleBoard, "\n")
	assert.Equal(t, strings.Join(lines[3:10], "\n"), m.Context)
	assert.Contains(t, m.Context, lines[6])
	assert.Equal(t, "7", m.Serial)
	// "Court:" is four lines above the hit, outside the window
	assert.Empty(t, m.Court)
}

func TestByCNR_LineIndexProperty(t *testing.T) {
	const cnr = "KLER650000012024"
	for total := 1; total <= 9; total++ {
		for i := 0; i < total; i++ {
			lines := make([]string, total)
			for j := range lines {
				lines[j] = fmt.Sprintf("row %d filler text", j)
			}
			lines[i] = "row with " + cnr + " inside"
			text := strings.Join(lines, "\n")

			m := ByCNR(text, cnr)
			require.NotNil(t, m, "total=%d i=%d", total, i)
			require.NotNil(t, m.LineNo)
			assert.Equal(t, i, *m.LineNo)
			assert.Contains(t, m.Context, lines[i])

			from := max(0, i-3)
			to := min(total, i+4)
			assert.Equal(t, strings.Join(lines[from:to], "\n"), m.Context, "total=%d i=%d", total, i)
		}
	}
}

func TestByCNR_FirstLineWins(t *testing.T) {
	text := "a\nfirst MHAU012345662020 Serial 1\nb\nc\nd\ne\nf\nsecond MHAU012345662020 Serial 2"
	m := ByCNR(text, "MHAU012345662020")
	require.NotNil(t, m)
	assert.Equal(t, 1, *m.LineNo)
	assert.Equal(t, "1", m.Serial)
}

func TestByCNR_SerialAndCourtOnSameLine(t *testing.T) {
	text := "Daily board\nItem 4 MHAU012345662020 Serial: 7 Court: District Judge\nEnd of list"
	m := ByCNR(text, "MHAU012345662020")
	require.NotNil(t, m)

	assert.Equal(t, 1, *m.LineNo)
	assert.Equal(t, "7", m.Serial)
	assert.Equal(t, "District Judge", m.Court)
}

func TestByCNR_CRLF(t *testing.T) {
	text := "header\r\nCourt - Civil Judge 2, Saket\r\nMHAU012345662020\r\n"
	m := ByCNR(text, "MHAU012345662020")
	require.NotNil(t, m)

	assert.Equal(t, 2, *m.LineNo)
	assert.Equal(t, "header\nCourt - Civil Judge 2, Saket\nMHAU012345662020", m.Context)
	assert.Equal(t, "Civil Judge 2, Saket", m.Court)
	assert.Empty(t, m.Serial)
}

func TestByParts_TypeNumberYear(t *testing.T) {
	text := "Serial 12\nCC NI ACT/10611/2022 Ravi vs Sunil\nSerial 13\nCC 555/2021"
	m := ByParts(text, "CC", "10611", "2022")
	require.NotNil(t, m)

	assert.Equal(t, PatternTypeNumberYear, m.Pattern)
	assert.Nil(t, m.LineNo)
	assert.Empty(t, m.Court)
	assert.Contains(t, m.Context, "CC NI ACT/10611/2022")
	assert.Equal(t, "12", m.Serial)
}

func TestByParts_CaseInsensitive(t *testing.T) {
	m := ByParts("listed: cc 123 of 2023", "CC", "123", "2023")
	require.NotNil(t, m)
	assert.Equal(t, PatternTypeNumberYear, m.Pattern)
}

func TestByParts_SameLineFallback(t *testing.T) {
	// "XCC" fails the whole-word rule in the first pattern; the second
	// pattern has no word boundary
	m := ByParts("XCC-123-2023 listed", "CC", "123", "2023")
	require.NotNil(t, m)
	assert.Equal(t, PatternSameLine, m.Pattern)
}

func TestByParts_NumberYearOnly(t *testing.T) {
	text := "Item 9 Serial: 4 Complaint 123/2023 State vs Anil"
	m := ByParts(text, "CC", "123", "2023")
	require.NotNil(t, m)

	assert.Equal(t, PatternNumberYear, m.Pattern)
	assert.Equal(t, text, m.Context)
	assert.Equal(t, "4", m.Serial)
}

func TestByParts_NumberYearWithoutSerial(t *testing.T) {
	m := ByParts("Matters listed today: 123/2023", "CC", "123", "2023")
	require.NotNil(t, m)

	assert.Equal(t, PatternNumberYear, m.Pattern)
	assert.Empty(t, m.Serial)
}

func TestByParts_EarlierPatternTakesPrecedence(t *testing.T) {
	padding := strings.Repeat("filler ", 100)
	text := "RCA 123/2023 Other matter\n" + padding + "\nSerial 21 CC 123 of 2023 Target matter"

	m := ByParts(text, "CC", "123", "2023")
	require.NotNil(t, m)

	assert.Equal(t, PatternTypeNumberYear, m.Pattern)
	assert.Contains(t, m.Context, "Target matter")
	assert.NotContains(t, m.Context, "RCA 123/2023")
	assert.Equal(t, "21", m.Serial)

	// Without the typed entry only the permissive pattern can fire, and it
	// lands on the other case
	loose := ByParts("RCA 123/2023 Other matter\n"+padding, "CC", "123", "2023")
	require.NotNil(t, loose)
	assert.Equal(t, PatternNumberYear, loose.Pattern)
	assert.Contains(t, loose.Context, "RCA 123/2023")
}

func TestByParts_NumberYearNeedsWordBoundary(t *testing.T) {
	assert.Nil(t, ByParts("1123/20234", "CC", "123", "2023"))
}

func TestByParts_Absent(t *testing.T) {
	assert.Nil(t, ByParts("", "CC", "123", "2023"))
	assert.Nil(t, ByParts(sampleBoard, "CC", "123", "2023"))
	assert.Nil(t, ByParts(sampleBoard, "", "123", "2023"))
	assert.Nil(t, ByParts(sampleBoard, "CC", "", "2023"))
}

func TestByParts_MetacharactersAreLiteral(t *testing.T) {
	assert.Nil(t, ByParts("C.C 1x3 2023", "C.C", "1.3", "2023"))

	m := ByParts("C.C 1.3 2023", "C.C", "1.3", "2023")
	require.NotNil(t, m)
}

func TestByParts_ContextWindowClamped(t *testing.T) {
	before := strings.Repeat("a", 300)
	after := strings.Repeat("b", 300)
	text := before + "CC 123/2023" + after

	m := ByParts(text, "CC", "123", "2023")
	require.NotNil(t, m)
	assert.Equal(t, strings.Repeat("a", 200)+"CC 123/2023"+strings.Repeat("b", 200), m.Context)
}

func TestWindow_RuneBoundaries(t *testing.T) {
	text := strings.Repeat("न", 100) + "CC 123/2023" + strings.Repeat("ध", 100)
	m := ByParts(text, "CC", "123", "2023")
	require.NotNil(t, m)

	assert.True(t, utf8.ValidString(m.Context))
	assert.Equal(t, strings.Repeat("न", 100)+"CC 123/2023"+strings.Repeat("ध", 100), m.Context)

	long := strings.Repeat("न", 300) + "CC 123/2023" + strings.Repeat("ध", 300)
	m = ByParts(long, "CC", "123", "2023")
	require.NotNil(t, m)
	assert.Equal(t, strings.Repeat("न", 200)+"CC 123/2023"+strings.Repeat("ध", 200), m.Context)
	assert.Equal(t, 200+utf8.RuneCountInString("CC 123/2023")+200, utf8.RuneCountInString(m.Context))
}

func TestByParts_SerialInsideCharacterWindow(t *testing.T) {
	text := "Serial: 7 " + strings.Repeat("न", 100) + " CC 123/2023"
	m := ByParts(text, "CC", "123", "2023")
	require.NotNil(t, m)
	assert.Equal(t, text, m.Context)
	assert.Equal(t, "7", m.Serial)
}

func TestByParts_UnicodeCaseType(t *testing.T) {
	text := "क्रमांक\nसिविल वाद\n123\n2023\n"
	m := ByParts(text, "सिविल", "123", "2023")
	require.NotNil(t, m)
	assert.Equal(t, PatternTypeNumberYear, m.Pattern)

	// a case type glued to other letters is not a whole word
	assert.Nil(t, ByParts("अपसिविल\n123\n2023", "सिविल", "123", "2023"))

	// a number glued to letters of another script is not a whole number
	assert.Nil(t, ByParts("क123/2023", "XYZ", "123", "2023"))
}

func TestFind_Dispatch(t *testing.T) {
	text := "Item 4 MHAU012345662020 Serial: 7\nCC 123/2023"

	byCNR := Find(text, model.NewCNRQuery("MHAU012345662020"))
	require.NotNil(t, byCNR)
	assert.Equal(t, PatternCNRLine, byCNR.Pattern)

	byParts := Find(text, model.NewPartsQuery("CC", "123", "2023"))
	require.NotNil(t, byParts)
	assert.Equal(t, PatternTypeNumberYear, byParts.Pattern)

	assert.Nil(t, Find(text, model.Query{}))
}

func TestExtractors(t *testing.T) {
	tests := []struct {
		window string
		serial string
		court  string
	}{
		{"Serial: 7 Court: District Judge", "7", "District Judge"},
		{"SERIAL 12", "12", ""},
		{"serial:\n 3", "3", ""},
		{"SerialNo 5", "", ""},
		{"Court - ACJ-cum-CCJ-cum-ARC, Dwarka.", "", "ACJ-cum-CCJ-cum-ARC, Dwarka."},
		{"court: lowercase label", "", ""},
		{"Court Room 4", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			assert.Equal(t, tt.serial, ExtractSerial(tt.window))
			assert.Equal(t, tt.court, ExtractCourt(tt.window))
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a"}, splitLines("a\n"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines("a\n\nb"))
	assert.Equal(t, []string{"a", "b", "c"}, splitLines("a\r\nb\rc"))
}
